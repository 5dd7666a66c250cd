package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mrstraders/paddybill/internal/billing"
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/mrstraders/paddybill/internal/domain/repository"
	"github.com/mrstraders/paddybill/internal/receipt"
	"github.com/mrstraders/paddybill/pkg/apperror"
	"github.com/mrstraders/paddybill/pkg/pagination"
	"github.com/mrstraders/paddybill/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Export formats.
const (
	ExportJSON = "json"
	ExportXLSX = "xlsx"
)

const exportSheet = "Records"

// RecordService handles the saved bill history.
type RecordService struct {
	recordRepo repository.RecordRepository
	assembler  *billing.Assembler
	formatter  *receipt.Formatter
	logger     *zap.Logger
	now        func() time.Time
}

// NewRecordService creates a new record service
func NewRecordService(
	recordRepo repository.RecordRepository,
	assembler *billing.Assembler,
	formatter *receipt.Formatter,
	logger *zap.Logger,
) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{
		recordRepo: recordRepo,
		assembler:  assembler,
		formatter:  formatter,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordDetail is a stored record with its bill normalized to the current
// schema.
type RecordDetail struct {
	Record         *entity.Record   `json:"record"`
	Bill           entity.Bill      `json:"bill"`
	Lines          []receipt.Line   `json:"lines"`
	PaidAmount     *decimal.Decimal `json:"paidAmount,omitempty"`
	PendingBalance *decimal.Decimal `json:"pendingBalance,omitempty"`
}

// ExportFile is a generated download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImportError describes one rejected item of an import.
type ImportError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportSummary counts the outcome of an import.
type ImportSummary struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// Create validates a bill payload and saves it.
func (s *RecordService) Create(ctx context.Context, payload []byte) (*entity.Record, error) {
	bill, err := s.assemble(payload)
	if err != nil {
		return nil, err
	}
	return s.CreateFromBill(ctx, bill)
}

// CreateFromBill saves an already assembled bill, e.g. one taken from the
// print queue.
func (s *RecordService) CreateFromBill(ctx context.Context, bill entity.Bill) (*entity.Record, error) {
	record := &entity.Record{}
	if err := s.fill(record, bill); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	s.logger.Info("record saved",
		zap.String("record_id", record.ID.String()),
		zap.String("type", record.Type.String()),
	)
	return record, nil
}

// Update replaces the bill stored under id.
func (s *RecordService) Update(ctx context.Context, id uuid.UUID, payload []byte) (*entity.Record, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Record")
	}

	bill, err := s.assemble(payload)
	if err != nil {
		return nil, err
	}
	if err := s.fill(record, bill); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return record, nil
}

// List returns a page of records matching the filter.
func (s *RecordService) List(ctx context.Context, params *repository.RecordFilterParams) (*pagination.PaginatedResult[entity.Record], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	records, total, err := s.recordRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entity.Record{}
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(records, p), nil
}

// Get returns a record with its bill migrated to the current schema and
// the pending balance of a paddy bill.
func (s *RecordService) Get(ctx context.Context, id uuid.UUID) (*RecordDetail, error) {
	record, bill, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &RecordDetail{
		Record: record,
		Bill:   bill,
		Lines:  s.formatter.Format(bill),
	}
	if pb, ok := bill.(*entity.PaddyBill); ok {
		pending := pb.PendingBalance()
		detail.PendingBalance = &pending
		detail.PaidAmount = pb.PaidAmount
	}
	return detail, nil
}

// EditForm loads a stored bill back into form state.
func (s *RecordService) EditForm(ctx context.Context, id uuid.UUID) (*EditState, error) {
	_, bill, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return EditStateFor(bill), nil
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.recordRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFoundError("Record")
	}
	return s.recordRepo.Delete(ctx, id)
}

// Export writes every record matching the filter as json or xlsx.
func (s *RecordService) Export(ctx context.Context, params *repository.RecordFilterParams, format string) (*ExportFile, error) {
	if format == "" {
		format = ExportJSON
	}
	if format != ExportJSON && format != ExportXLSX {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unsupported export format %q", format))
	}

	records, err := s.recordRepo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entity.Record{}
	}

	file := &ExportFile{Name: utils.ExportFileName("records", format, s.now())}
	switch format {
	case ExportXLSX:
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		file.Data, err = s.workbook(records)
	default:
		file.ContentType = "application/json"
		file.Data, err = json.MarshalIndent(records, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to export records: %w", err)
	}
	return file, nil
}

var exportHeaders = []interface{}{
	"Date", "Type", "Customer", "Stock Place", "Paddy Type", "Bags",
	"Net Weight (kg)", "Rate", "Final Amount", "Paid", "Pending",
}

func (s *RecordService) workbook(records []entity.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			rec.Date.Format(billing.DateLayout),
			rec.Type.String(),
			rec.CustomerName,
		}

		bill, err := billing.MigrateRecord(rec.Type, rec.Data, rec.SchemaVersion, rec.FinalAmount)
		if err != nil {
			s.logger.Warn("export: unreadable bill payload",
				zap.String("record_id", rec.ID.String()), zap.Error(err))
		}
		if pb, ok := bill.(*entity.PaddyBill); ok {
			row = append(row,
				pb.StockPlace,
				pb.PaddyType,
				pb.TotalBags,
				pb.NetWeight.InexactFloat64(),
				pb.Rate.InexactFloat64(),
				rec.FinalAmount.InexactFloat64(),
			)
			if pb.PaidAmount != nil {
				row = append(row, pb.PaidAmount.InexactFloat64())
			} else {
				row = append(row, "")
			}
			row = append(row, pb.PendingBalance().InexactFloat64())
		} else {
			row = append(row, "", "", "", "", "", rec.FinalAmount.InexactFloat64())
		}

		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// importedRecord accepts both exports of this service and the older
// browser exports, which used "_id" and carried no schema version.
type importedRecord struct {
	ID            string            `json:"id"`
	LegacyID      string            `json:"_id"`
	Type          string            `json:"type"`
	CustomerName  string            `json:"customerName"`
	Date          string            `json:"date"`
	FinalAmount   billing.FormValue `json:"finalAmount"`
	SchemaVersion *int              `json:"schemaVersion"`
	Data          json.RawMessage   `json:"data"`
}

// Import loads a json export. Records whose id already exists are skipped;
// malformed items are reported and do not stop the rest.
func (s *RecordService) Import(ctx context.Context, blob []byte) (*ImportSummary, error) {
	items, err := decodeImport(blob)
	if err != nil {
		return nil, apperror.NewBadRequestError("Import file must be a JSON list of records")
	}

	summary := &ImportSummary{Errors: []ImportError{}}
	seen := make(map[uuid.UUID]bool, len(items))
	batch := make([]entity.Record, 0, len(items))

	for i, raw := range items {
		rec, err := s.importItem(raw)
		if err != nil {
			summary.Errors = append(summary.Errors, ImportError{Index: i, Message: err.Error()})
			continue
		}

		if seen[rec.ID] {
			summary.Skipped++
			continue
		}
		seen[rec.ID] = true

		exists, err := s.recordRepo.Exists(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			summary.Skipped++
			continue
		}
		batch = append(batch, *rec)
	}

	if err := s.recordRepo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to import records: %w", err)
	}
	summary.Imported = len(batch)

	s.logger.Info("records imported",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

func decodeImport(blob []byte) ([]json.RawMessage, error) {
	blob = bytes.TrimSpace(blob)
	if len(blob) > 0 && blob[0] == '{' {
		var wrapped struct {
			Records []json.RawMessage `json:"records"`
		}
		if err := json.Unmarshal(blob, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Records, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(blob, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// legacyIDSpace maps non-uuid ids of old exports to stable uuids so a
// second import of the same file is skipped.
var legacyIDSpace = uuid.MustParse("9b0f1f9e-3a53-4d1c-8d0e-0b3c6a4f7a21")

func (s *RecordService) importItem(raw json.RawMessage) (*entity.Record, error) {
	var in importedRecord
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("malformed record: %v", err)
	}

	t := enum.BillTypePaddy
	if in.Type != "" {
		parsed, err := enum.ParseBillType(in.Type)
		if err != nil {
			return nil, err
		}
		t = parsed
	}

	data := bytes.TrimSpace(in.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("record has no bill data")
	}

	version := entity.RecordSchemaLegacy
	if in.SchemaVersion != nil {
		version = *in.SchemaVersion
	}

	total := in.FinalAmount.Decimal()
	bill, err := billing.MigrateRecord(t, data, version, total)
	if err != nil {
		return nil, err
	}

	rec := &entity.Record{
		ID:            importID(in.ID, in.LegacyID),
		Type:          t,
		CustomerName:  in.CustomerName,
		FinalAmount:   total,
		SchemaVersion: version,
		Data:          append([]byte(nil), data...),
	}
	if rec.CustomerName == "" {
		rec.CustomerName = bill.Customer()
	}
	if rec.CustomerName == "" {
		return nil, fmt.Errorf("record has no customer name")
	}
	if rec.FinalAmount.IsZero() {
		rec.FinalAmount = bill.Total()
	}

	date := billing.NormalizeDate(in.Date)
	if date == "" {
		date = bill.BillDate()
	}
	rec.Date, err = time.Parse(billing.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("record has no valid date")
	}
	return rec, nil
}

func importID(id, legacyID string) uuid.UUID {
	if id == "" {
		id = legacyID
	}
	if id == "" {
		return uuid.New()
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.NewSHA1(legacyIDSpace, []byte(id))
}

func (s *RecordService) load(ctx context.Context, id uuid.UUID) (*entity.Record, entity.Bill, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, apperror.NewNotFoundError("Record")
	}

	bill, err := billing.MigrateRecord(record.Type, record.Data, record.SchemaVersion, record.FinalAmount)
	if err != nil {
		s.logger.Error("unreadable bill payload", zap.String("record_id", id.String()), zap.Error(err))
		return nil, nil, apperror.NewAppError(http.StatusUnprocessableEntity, "Stored bill could not be read")
	}
	return record, bill, nil
}

// assemble decodes a bill payload by its "type" and runs it through the
// same validation as queueing. Totals are always recomputed.
func (s *RecordService) assemble(payload []byte) (entity.Bill, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, apperror.NewBadRequestError("Invalid request body")
	}

	t := enum.BillTypePaddy
	if head.Type != "" {
		parsed, err := enum.ParseBillType(head.Type)
		if err != nil {
			return nil, apperror.NewBadRequestError(err.Error())
		}
		t = parsed
	}

	switch t {
	case enum.BillTypeInterest:
		var form billing.InterestForm
		if err := json.Unmarshal(payload, &form); err != nil {
			return nil, apperror.NewBadRequestError("Invalid interest bill")
		}
		b, err := s.assembler.AssembleInterest(form)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		var form billing.PaddyForm
		if err := json.Unmarshal(payload, &form); err != nil {
			return nil, apperror.NewBadRequestError("Invalid paddy bill")
		}
		b, err := s.assembler.AssemblePaddy(form)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

func (s *RecordService) fill(record *entity.Record, bill entity.Bill) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to encode bill: %w", err)
	}

	date, err := time.Parse(billing.DateLayout, bill.BillDate())
	if err != nil {
		date = s.now()
	}

	record.Type = bill.Type()
	record.CustomerName = bill.Customer()
	record.Date = date
	record.FinalAmount = bill.Total()
	record.SchemaVersion = entity.RecordSchemaCurrent
	record.Data = data
	return nil
}
