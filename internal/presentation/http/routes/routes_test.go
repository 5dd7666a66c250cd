package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mrstraders/paddybill/internal/application/service"
	"github.com/mrstraders/paddybill/internal/billing"
	"github.com/mrstraders/paddybill/internal/config"
	"github.com/mrstraders/paddybill/internal/infrastructure/database"
	"github.com/mrstraders/paddybill/internal/infrastructure/repository"
	"github.com/mrstraders/paddybill/internal/infrastructure/storage"
	"github.com/mrstraders/paddybill/internal/presentation/http/handler"
	"github.com/mrstraders/paddybill/internal/presentation/http/middleware"
	"github.com/mrstraders/paddybill/internal/printqueue"
	"github.com/mrstraders/paddybill/internal/receipt"
	"go.uber.org/zap"
)

type stubRasterizer struct{}

func (stubRasterizer) Render(context.Context, []byte) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field string `json:"field"`
	} `json:"errors"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	db, err := database.NewSQLiteDB(":memory:", false, log)
	if err != nil {
		t.Fatal(err)
	}
	if err := database.AutoMigrate(db, log); err != nil {
		t.Fatal(err)
	}

	queue := printqueue.Open(context.Background(), storage.NewDatabaseStore(db), log)
	formatter := receipt.NewFormatter(receipt.DefaultLabels())
	assembler := billing.NewAssembler()

	billSvc := service.NewBillService(assembler, queue, formatter, log)
	recordSvc := service.NewRecordService(repository.NewRecordRepository(db), assembler, formatter, log)
	printSvc := service.NewPrintService(service.PrintServiceConfig{
		Queue:      queue,
		Formatter:  formatter,
		Rasterizer: stubRasterizer{},
		Logger:     log,
	})

	limiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFor(1000, 1))
	t.Cleanup(limiter.Stop)

	return Setup(&Handlers{
		Bill:   handler.NewBillHandler(billSvc),
		Queue:  handler.NewQueueHandler(billSvc, recordSvc),
		Print:  handler.NewPrintHandler(printSvc),
		Record: handler.NewRecordHandler(recordSvc),
	}, &Deps{
		Cfg:             &config.Config{App: config.AppConfig{Name: "paddybill"}},
		Logger:          log,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
	})
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

var validPaddy = map[string]interface{}{
	"customerName": "Ravi",
	"date":         "2026-03-01",
	"stockPlace":   "Godown",
	"paddyType":    "Sona",
	"entries":      []map[string]interface{}{{"weight": "1000", "bags": 10}},
	"tarePerBag":   "2",
	"rate":         "2000",
	"labourCharge": "12",
}

func TestCalculateToleratesGarbage(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/bills/paddy/calculate", map[string]interface{}{
		"entries": []map[string]interface{}{{"weight": "1,000", "bags": "ten"}},
		"rate":    "abc",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var calc struct {
		TotalWeight string `json:"totalWeight"`
		FinalAmount string `json:"finalAmount"`
	}
	decode(t, w, &calc)
	if calc.TotalWeight != "1000" || calc.FinalAmount != "0" {
		t.Errorf("calc = %+v", calc)
	}
}

func TestQueueLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/queue/paddy", validPaddy)
	if w.Code != http.StatusCreated {
		t.Fatalf("add: status = %d: %s", w.Code, w.Body)
	}

	w = do(t, r, http.MethodPost, "/api/v1/queue/paddy", map[string]interface{}{"rate": "10"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid add: status = %d", w.Code)
	}
	if env := decode(t, w, nil); len(env.Errors) == 0 {
		t.Error("validation errors missing")
	}

	var view struct {
		Slots      []json.RawMessage `json:"slots"`
		Identities []string          `json:"identities"`
		Remaining  int               `json:"remaining"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/v1/queue", nil), &view)
	if view.Remaining != 5 || len(view.Slots) != 6 || string(view.Slots[1]) != "null" {
		t.Fatalf("view = %+v", view)
	}

	w = do(t, r, http.MethodGet, "/api/v1/queue/1/edit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: status = %d", w.Code)
	}

	w = do(t, r, http.MethodPut, "/api/v1/queue", map[string]interface{}{
		"order": []string{view.Identities[1], view.Identities[0], view.Identities[2],
			view.Identities[3], view.Identities[4], view.Identities[5]},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("reorder: status = %d: %s", w.Code, w.Body)
	}

	if w := do(t, r, http.MethodDelete, "/api/v1/queue/9", nil); w.Code != http.StatusBadRequest {
		t.Errorf("remove out of range: status = %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/v1/queue/2", nil); w.Code != http.StatusOK {
		t.Errorf("remove: status = %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/v1/print/page.pdf", nil); w.Code != http.StatusBadRequest {
		t.Errorf("pdf of empty queue: status = %d", w.Code)
	}
}

func TestPrintPage(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/v1/queue/paddy", validPaddy)

	w := do(t, r, http.MethodGet, "/api/v1/print/page?layout=visualizer", nil)
	var page struct {
		Quadrants []struct {
			Empty bool `json:"empty"`
		} `json:"quadrants"`
	}
	decode(t, w, &page)
	if len(page.Quadrants) != 6 || page.Quadrants[0].Empty {
		t.Errorf("page = %+v", page)
	}

	w = do(t, r, http.MethodGet, "/api/v1/print/page.html", nil)
	if ct := w.Header().Get("Content-Type"); w.Code != http.StatusOK || ct != "text/html; charset=utf-8" {
		t.Errorf("html: status = %d, content type %q", w.Code, ct)
	}

	w = do(t, r, http.MethodGet, "/api/v1/print/page.pdf", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("pdf: status = %d", w.Code)
	}

	if w := do(t, r, http.MethodPost, "/api/v1/print/thermal", nil); w.Code != http.StatusOK {
		t.Errorf("thermal: status = %d: %s", w.Code, w.Body)
	}
}

func TestRecordsIdempotentCreate(t *testing.T) {
	r := newTestRouter(t)

	body := map[string]interface{}{"type": "paddy"}
	for k, v := range validPaddy {
		body[k] = v
	}
	body["paidAmount"] = "1000"

	first := do(t, r, http.MethodPost, "/api/v1/records", body, "Idempotency-Key", "abc-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", first.Code, first.Body)
	}
	second := do(t, r, http.MethodPost, "/api/v1/records", body, "Idempotency-Key", "abc-1")
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("second request was not replayed")
	}

	var rec struct {
		ID string `json:"id"`
	}
	decode(t, first, &rec)

	var list struct {
		Items      []json.RawMessage `json:"items"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/v1/records?search=rav", nil), &list)
	if list.Pagination.Total != 1 {
		t.Fatalf("total = %d, want 1", list.Pagination.Total)
	}

	var detail struct {
		PendingBalance string `json:"pendingBalance"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/v1/records/"+rec.ID, nil), &detail)
	if detail.PendingBalance != "18480" {
		t.Errorf("pending = %q, want 18480", detail.PendingBalance)
	}

	if w := do(t, r, http.MethodGet, "/api/v1/records/not-a-uuid", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d", w.Code)
	}

	w := do(t, r, http.MethodGet, "/api/v1/records/export?format=json", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Disposition") == "" {
		t.Errorf("export: status = %d", w.Code)
	}

	if w := do(t, r, http.MethodDelete, "/api/v1/records/"+rec.ID, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d", w.Code)
	}
}

func TestSaveQueuedBill(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/v1/queue/interest", map[string]interface{}{
		"customerName": "Ravi",
		"entries":      []map[string]interface{}{{"type": "add", "amount": 150}, {"type": "sub", "amount": 30}},
	})

	w := do(t, r, http.MethodPost, "/api/v1/queue/1/save", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("save: status = %d: %s", w.Code, w.Body)
	}
	var rec struct {
		Type        string `json:"type"`
		FinalAmount string `json:"finalAmount"`
	}
	decode(t, w, &rec)
	if rec.Type != "interest" || rec.FinalAmount != "120" {
		t.Errorf("record = %+v", rec)
	}

	if w := do(t, r, http.MethodPost, "/api/v1/queue/2/save", nil); w.Code != http.StatusNotFound {
		t.Errorf("save empty slot: status = %d", w.Code)
	}
}

func TestErrorEnvelopes(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/boom", func(c *gin.Context) { panic("printer driver crashed") })

	tests := []struct {
		name        string
		path        string
		wantCode    int
		wantMessage string
	}{
		{"unknown route", "/api/v1/nowhere", http.StatusNotFound, "Route not found"},
		{"bad record id", "/api/v1/records/not-a-uuid", http.StatusBadRequest, "Invalid ID format"},
		{"panic", "/boom", http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.path, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body)
			}
			env := decode(t, w, nil)
			if env.Success || env.Message != tt.wantMessage {
				t.Errorf("envelope = %+v, want message %q", env, tt.wantMessage)
			}
		})
	}
}
