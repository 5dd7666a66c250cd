package printqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory Store that can be told to fail.
type fakeStore struct {
	mu      sync.Mutex
	data    map[string]string
	writes  int
	failGet error
	failSet error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return "", false, s.failGet
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.failSet != nil {
		return s.failSet
	}
	s.data[key] = value
	return nil
}

func paddy(id string) *entity.PaddyBill {
	return &entity.PaddyBill{
		ID:           id,
		CustomerName: "customer " + id,
		Date:         "2026-03-14",
		Entries:      []entity.WeighingEntry{{ID: id + "-e", Weight: decimal.NewFromInt(1000), Bags: 20}},
		Rate:         decimal.NewFromInt(2000),
		CalculationResult: entity.CalculationResult{
			FinalAmount: decimal.NewFromInt(19200),
		},
	}
}

func interest(id string) *entity.InterestBill {
	return &entity.InterestBill{
		ID:           id,
		CustomerName: "customer " + id,
		Date:         "2026-03-14",
		Lines: []entity.InterestLine{
			{Kind: enum.InterestLineAdd, Amount: decimal.NewFromInt(100)},
			{Kind: enum.InterestLineCheckpoint},
		},
		FinalAmount: decimal.NewFromInt(100),
	}
}

func newQueue(t *testing.T) (*Queue, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return Open(context.Background(), store, nil), store
}

func fill(t *testing.T, q *Queue, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := q.Insert(paddy(fmt.Sprintf("b%d", i))); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
}

func TestInsert_SixThenFull(t *testing.T) {
	q, _ := newQueue(t)

	for i := 0; i < Capacity; i++ {
		remaining, err := q.Insert(paddy(fmt.Sprintf("b%d", i)))
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if want := Capacity - i - 1; remaining != want {
			t.Errorf("insert %d: remaining = %d, want %d", i, remaining, want)
		}
	}

	before := q.Snapshot()
	if _, err := q.Insert(paddy("extra")); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("7th insert error = %v, want ErrQueueFull", err)
	}
	if q.Snapshot() != before {
		t.Error("failed insert changed the queue")
	}
	if q.RemainingCapacity() != 0 {
		t.Errorf("remaining = %d, want 0", q.RemainingCapacity())
	}
}

func TestInsert_FillsFirstGap(t *testing.T) {
	q, _ := newQueue(t)
	fill(t, q, 4)
	q.RemoveAt(1)

	if _, err := q.Insert(interest("gap")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := q.At(1); got.IsEmpty() || got.Bill.BillID() != "gap" {
		t.Errorf("slot 1 = %v, want bill gap", got.Bill)
	}
}

func TestInsert_CopiesBill(t *testing.T) {
	q, _ := newQueue(t)
	b := paddy("b0")
	if _, err := q.Insert(b); err != nil {
		t.Fatalf("insert: %v", err)
	}

	b.CustomerName = "changed"
	b.Entries[0].Bags = 99

	queued := q.At(0).Bill.(*entity.PaddyBill)
	if queued.CustomerName != "customer b0" || queued.Entries[0].Bags != 20 {
		t.Error("queued bill aliases the caller's value")
	}
}

func TestRemoveThenClear(t *testing.T) {
	for i := 0; i < Capacity; i++ {
		t.Run(fmt.Sprintf("slot %d", i), func(t *testing.T) {
			q, _ := newQueue(t)
			fill(t, q, Capacity)

			q.RemoveAt(i)
			if !q.At(i).IsEmpty() {
				t.Fatalf("slot %d still occupied", i)
			}
			q.Clear()
			if q.RemainingCapacity() != Capacity {
				t.Errorf("remaining = %d, want %d", q.RemainingCapacity(), Capacity)
			}
		})
	}
}

func TestRemoveAt_PanicsOutOfRange(t *testing.T) {
	for _, i := range []int{-1, Capacity, 42} {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			q, _ := newQueue(t)
			defer func() {
				if recover() == nil {
					t.Errorf("RemoveAt(%d) did not panic", i)
				}
			}()
			q.RemoveAt(i)
		})
	}
}

func TestReorder_DoubleReverse(t *testing.T) {
	q, _ := newQueue(t)
	fill(t, q, 4)
	original := q.Snapshot()

	reverse := func() {
		snap := q.Snapshot()
		rev := make([]Slot, Capacity)
		for i := range snap {
			rev[Capacity-1-i] = snap[i]
		}
		if !q.Reorder(rev) {
			t.Fatal("reorder rejected a permutation")
		}
	}

	reverse()
	if q.Snapshot() == original {
		t.Fatal("single reverse should change the order")
	}
	if q.RemainingCapacity() != 2 {
		t.Errorf("remaining = %d, want 2", q.RemainingCapacity())
	}
	reverse()
	if q.Snapshot() != original {
		t.Error("double reverse did not restore the queue")
	}
}

func TestReorder_Rejects(t *testing.T) {
	q, store := newQueue(t)
	fill(t, q, 3)
	before := q.Snapshot()
	writes := store.writes

	tests := []struct {
		name  string
		slots []Slot
	}{
		{"too short", before[:5]},
		{"too long", append(before[:], Slot{})},
		{"foreign bill", []Slot{Occupied(paddy("other")), before[1], before[2], {}, {}, {}}},
		{"duplicated bill", []Slot{before[0], before[0], before[2], {}, {}, {}}},
		{"dropped bill", []Slot{before[0], before[1], {}, {}, {}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if q.Reorder(tt.slots) {
				t.Error("reorder accepted invalid input")
			}
			if q.Snapshot() != before {
				t.Error("rejected reorder changed the queue")
			}
		})
	}
	if store.writes != writes {
		t.Errorf("rejected reorders wrote %d times", store.writes-writes)
	}
}

func TestMove(t *testing.T) {
	q, _ := newQueue(t)
	fill(t, q, 3)

	if !q.Move("b0", EmptyIdentity(4)) {
		t.Fatal("move rejected")
	}
	want := [Capacity]string{"b1", "b2", EmptyIdentity(2), EmptyIdentity(3), "b0", EmptyIdentity(5)}
	if got := q.Identities(); got != want {
		t.Errorf("identities = %v, want %v", got, want)
	}

	if !q.Move("b0", "b1") {
		t.Fatal("move rejected")
	}
	want = [Capacity]string{"b0", "b1", "b2", EmptyIdentity(3), EmptyIdentity(4), EmptyIdentity(5)}
	if got := q.Identities(); got != want {
		t.Errorf("identities = %v, want %v", got, want)
	}

	if q.Move("missing", "b1") {
		t.Error("move accepted an unknown source")
	}
}

func TestReorderByIdentity(t *testing.T) {
	q, _ := newQueue(t)
	fill(t, q, 2)

	ids := []string{EmptyIdentity(2), "b1", EmptyIdentity(3), "b0", EmptyIdentity(4), EmptyIdentity(5)}
	if !q.ReorderByIdentity(ids) {
		t.Fatal("reorder rejected")
	}
	if q.At(1).Bill.BillID() != "b1" || q.At(3).Bill.BillID() != "b0" || !q.At(0).IsEmpty() {
		t.Errorf("unexpected order %v", q.Identities())
	}

	if q.ReorderByIdentity([]string{"b0", "b0", "b1", "x", "y", "z"}) {
		t.Error("reorder accepted unknown identities")
	}
}

func TestPersistRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"all empty", 0},
		{"partial", 3},
		{"all occupied", Capacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			q := Open(context.Background(), store, nil)
			fillMixed(t, q, tt.n)
			if tt.n > 1 && tt.n < Capacity {
				q.RemoveAt(0)
			}
			want, err := Encode(q.Snapshot())
			if err != nil {
				t.Fatalf("encode: %v", err)
			}

			restored := Open(context.Background(), store, nil)
			got, err := Encode(restored.Snapshot())
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if string(got) != string(want) {
				t.Errorf("restored %s, want %s", got, want)
			}
			if restored.Identities() != q.Identities() {
				t.Errorf("identities %v, want %v", restored.Identities(), q.Identities())
			}
		})
	}
}

func fillMixed(t *testing.T, q *Queue, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		var b entity.Bill = paddy(fmt.Sprintf("p%d", i))
		if i%2 == 1 {
			b = interest(fmt.Sprintf("i%d", i))
		}
		if _, err := q.Insert(b); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
}

func TestOpen_MalformedState(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"object", `{"a":1}`},
		{"five slots", `[null,null,null,null,null]`},
		{"seven slots", `[null,null,null,null,null,null,null]`},
		{"bad bill", `[{"type":"interest","entries":5},null,null,null,null,null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.data[StorageKey] = tt.raw

			q := Open(context.Background(), store, nil)
			if q.RemainingCapacity() != Capacity {
				t.Errorf("remaining = %d, want %d", q.RemainingCapacity(), Capacity)
			}
		})
	}
}

func TestOpen_StoreErrors(t *testing.T) {
	store := newFakeStore()
	store.failGet = errors.New("disk gone")

	q := Open(context.Background(), store, nil)
	if q.RemainingCapacity() != Capacity {
		t.Errorf("remaining = %d, want %d", q.RemainingCapacity(), Capacity)
	}

	store.failSet = errors.New("disk full")
	if _, err := q.Insert(paddy("b0")); err != nil {
		t.Fatalf("write failure leaked into insert: %v", err)
	}
	if q.RemainingCapacity() != Capacity-1 {
		t.Error("in-memory state should stay authoritative")
	}
}

func TestOpen_LegacyPayloadWithoutType(t *testing.T) {
	store := newFakeStore()
	store.data[StorageKey] = `[{"id":"old","customerName":"Ramesh","entries":[],"finalAmount":"10"},null,null,null,null,null]`

	q := Open(context.Background(), store, nil)
	b, ok := q.At(0).Bill.(*entity.PaddyBill)
	if !ok || b.ID != "old" {
		t.Fatalf("slot 0 = %#v, want paddy bill old", q.At(0).Bill)
	}
}

func TestWithKey(t *testing.T) {
	store := newFakeStore()
	q := Open(context.Background(), store, nil, WithKey("queue:test"))
	fill(t, q, 1)

	if _, ok := store.data["queue:test"]; !ok {
		t.Error("queue not written under custom key")
	}
	if _, ok := store.data[StorageKey]; ok {
		t.Error("queue written under default key")
	}
}

func TestSharedStore_ClearNotLost(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	server := Open(ctx, store, nil)
	cli := Open(ctx, store, nil)

	fill(t, server, 3)
	cli.Clear()
	if _, err := server.Insert(paddy("after")); err != nil {
		t.Fatal(err)
	}

	if got := Open(ctx, store, nil).RemainingCapacity(); got != Capacity-1 {
		t.Errorf("remaining after clear and insert = %d, want %d", got, Capacity-1)
	}
	if got := server.At(0).Bill.BillID(); got != "after" {
		t.Errorf("slot 0 = %q, want after", got)
	}
}

func TestSharedStore_ReadsSeeOtherWriter(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	a := Open(ctx, store, nil)
	b := Open(ctx, store, nil)

	fill(t, a, 2)
	v := b.View()
	if v.Remaining != Capacity-2 {
		t.Errorf("remaining = %d, want %d", v.Remaining, Capacity-2)
	}
	if v.Identities != a.Identities() {
		t.Errorf("identities %v, want %v", v.Identities, a.Identities())
	}
	if v.Slots[1].Bill.BillID() != "b1" {
		t.Errorf("slot 1 = %v", v.Slots[1].Bill)
	}
}

// lockingStore records lock use around writes.
type lockingStore struct {
	*fakeStore
	held     bool
	locks    int
	unlocked int
	lockErr  error
	unheld   int
}

func (s *lockingStore) Lock(_ context.Context, key string) (func(), error) {
	if s.lockErr != nil {
		return nil, s.lockErr
	}
	s.locks++
	s.held = true
	return func() {
		s.held = false
		s.unlocked++
	}, nil
}

func (s *lockingStore) Set(ctx context.Context, key, value string) error {
	if !s.held {
		s.unheld++
	}
	return s.fakeStore.Set(ctx, key, value)
}

func TestMutationsHoldStoreLock(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *Queue)
		lockErr error
		writes  int
		unheld  int
	}{
		{"insert", func(q *Queue) { _, _ = q.Insert(paddy("x")) }, nil, 1, 0},
		{"clear", func(q *Queue) { q.Clear() }, nil, 1, 0},
		{"rejected move", func(q *Queue) { q.Move("nope", "b0") }, nil, 0, 0},
		{"lock unavailable", func(q *Queue) { q.Clear() }, errors.New("busy"), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &lockingStore{fakeStore: newFakeStore()}
			q := Open(context.Background(), store, nil)
			store.lockErr = tt.lockErr

			tt.mutate(q)

			if store.writes != tt.writes {
				t.Errorf("writes = %d, want %d", store.writes, tt.writes)
			}
			if store.unheld != tt.unheld {
				t.Errorf("writes without lock = %d, want %d", store.unheld, tt.unheld)
			}
			if store.locks != store.unlocked || store.held {
				t.Errorf("locks %d, unlocks %d, held %v", store.locks, store.unlocked, store.held)
			}
		})
	}
}
