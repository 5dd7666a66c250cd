// Package printqueue holds the six bills staged for batch printing.
package printqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mrstraders/paddybill/internal/domain/entity"
	"go.uber.org/zap"
)

const (
	// Capacity is the fixed number of slots.
	Capacity = 6
	// StorageKey is the key the queue is persisted under.
	StorageKey = "printQueue"

	defaultWriteTimeout = 2 * time.Second
)

// ErrQueueFull is returned by Insert when no slot is free.
var ErrQueueFull = errors.New("print queue is full")

// Store is durable key/value storage for the serialized queue.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Locker is implemented by stores that several processes share. Lock
// blocks until key is held or ctx ends.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Queue is the fixed six slot print queue. The store holds the
// authoritative state: every operation first reloads it, and every
// successful mutation writes through while holding the store lock, so a
// second process on the same store (billctl) is never overwritten. Store
// failures are logged and the in-memory copy is used instead.
type Queue struct {
	mu           sync.Mutex
	slots        [Capacity]Slot
	raw          string // last stored value applied, written or rejected
	store        Store
	key          string
	writeTimeout time.Duration
	logger       *zap.Logger
}

// Option configures a Queue.
type Option func(*Queue)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(q *Queue) {
		if key != "" {
			q.key = key
		}
	}
}

// WithWriteTimeout bounds each persistence write.
func WithWriteTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.writeTimeout = d
		}
	}
}

// Open restores the queue from store. Missing, unreadable or malformed
// state yields six empty slots.
func Open(ctx context.Context, store Store, logger *zap.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Queue{
		store:        store,
		key:          StorageKey,
		writeTimeout: defaultWriteTimeout,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(q)
	}

	raw, ok, err := store.Get(ctx, q.key)
	switch {
	case err != nil:
		q.logger.Warn("print queue restore failed", zap.String("key", q.key), zap.Error(err))
	case !ok:
		q.logger.Debug("no persisted print queue", zap.String("key", q.key))
	default:
		slots, err := Decode([]byte(raw))
		if err != nil {
			q.logger.Warn("discarding malformed print queue", zap.String("key", q.key), zap.Error(err))
			q.raw = raw
			break
		}
		q.slots = slots
		q.raw = raw
		q.logger.Info("print queue restored", zap.Int("occupied", Capacity-remaining(q.slots)))
	}
	return q
}

// View is a consistent picture of the queue at one moment.
type View struct {
	Slots      [Capacity]Slot
	Identities [Capacity]string
	Remaining  int
}

// Insert places the bill into the first empty slot and returns how many
// slots remain free. The queue keeps its own copy of the bill.
func (q *Queue) Insert(b entity.Bill) (int, error) {
	if b == nil {
		return 0, errors.New("print queue: nil bill")
	}

	left := 0
	ok := q.mutate(func(slots *[Capacity]Slot) bool {
		for i := range slots {
			if slots[i].IsEmpty() {
				slots[i] = Occupied(b.Clone())
				left = remaining(*slots)
				return true
			}
		}
		return false
	})
	if !ok {
		return 0, ErrQueueFull
	}
	return left, nil
}

// RemoveAt empties slot i. It panics when i is not a slot index.
func (q *Queue) RemoveAt(i int) {
	mustIndex(i)

	q.mutate(func(slots *[Capacity]Slot) bool {
		slots[i] = Slot{}
		return true
	})
}

// At returns slot i. It panics when i is not a slot index.
func (q *Queue) At(i int) Slot {
	mustIndex(i)
	return q.read()[i]
}

// Reorder replaces the queue with a permutation of its current slots. Input
// of the wrong length, or holding bills that are not currently queued, is
// rejected without change.
func (q *Queue) Reorder(slots []Slot) bool {
	if len(slots) != Capacity {
		return false
	}

	return q.mutate(func(cur *[Capacity]Slot) bool {
		next, ok := permute(*cur, slots)
		if ok {
			*cur = next
		}
		return ok
	})
}

// ReorderByIdentity reorders using slot identities, see Slot.Identity.
func (q *Queue) ReorderByIdentity(ids []string) bool {
	if len(ids) != Capacity {
		return false
	}

	return q.mutate(func(cur *[Capacity]Slot) bool {
		byID := make(map[string]Slot, Capacity)
		for i, s := range cur {
			byID[s.Identity(i)] = s
		}

		slots := make([]Slot, 0, Capacity)
		seen := make(map[string]bool, Capacity)
		for _, id := range ids {
			s, ok := byID[id]
			if !ok || seen[id] {
				return false
			}
			seen[id] = true
			slots = append(slots, s)
		}

		next, ok := permute(*cur, slots)
		if ok {
			*cur = next
		}
		return ok
	})
}

// Move removes the slot identified by sourceID and reinserts it at the
// position of targetID, shifting the slots in between.
func (q *Queue) Move(sourceID, targetID string) bool {
	var unchanged bool
	moved := q.mutate(func(slots *[Capacity]Slot) bool {
		from, to := -1, -1
		for i, s := range slots {
			switch s.Identity(i) {
			case sourceID:
				from = i
			case targetID:
				to = i
			}
		}
		if sourceID == targetID {
			unchanged = from >= 0
			return false
		}
		if from < 0 || to < 0 {
			return false
		}
		*slots = arrayMove(*slots, from, to)
		return true
	})
	return moved || unchanged
}

// Clear empties every slot.
func (q *Queue) Clear() {
	q.mutate(func(slots *[Capacity]Slot) bool {
		*slots = [Capacity]Slot{}
		return true
	})
}

// RemainingCapacity is the number of empty slots.
func (q *Queue) RemainingCapacity() int {
	return remaining(q.read())
}

// Snapshot returns a copy of the slots. Bills are never mutated in place,
// so a snapshot stays consistent while later mutations happen.
func (q *Queue) Snapshot() [Capacity]Slot {
	return q.read()
}

// Identities returns the drag identity of every slot.
func (q *Queue) Identities() [Capacity]string {
	return identities(q.read())
}

// View returns slots, identities and free capacity from one read.
func (q *Queue) View() View {
	slots := q.read()
	return View{
		Slots:      slots,
		Identities: identities(slots),
		Remaining:  remaining(slots),
	}
}

// read reloads the slots from the store and returns a copy.
func (q *Queue) read() [Capacity]Slot {
	q.mu.Lock()
	defer q.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), q.writeTimeout)
	defer cancel()
	q.reload(ctx)
	return q.slots
}

// mutate runs fn on freshly loaded slots while holding the store lock and
// persists the result when fn reports a change. It returns fn's result.
func (q *Queue) mutate(fn func(slots *[Capacity]Slot) bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if locker, ok := q.store.(Locker); ok {
		ctx, cancel := context.WithTimeout(context.Background(), q.writeTimeout)
		unlock, err := locker.Lock(ctx, q.key)
		cancel()
		if err != nil {
			q.logger.Warn("print queue lock failed, proceeding without lock", zap.String("key", q.key), zap.Error(err))
		} else {
			defer unlock()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.writeTimeout)
	defer cancel()
	q.reload(ctx)

	next := q.slots
	if !fn(&next) {
		return false
	}
	q.slots = next
	q.persist(ctx)
	return true
}

// reload replaces the in-memory slots with the stored state when another
// writer changed it. A missing, unreadable or malformed value keeps the
// current slots. Callers hold q.mu.
func (q *Queue) reload(ctx context.Context) {
	raw, ok, err := q.store.Get(ctx, q.key)
	if err != nil {
		q.logger.Warn("print queue reload failed", zap.String("key", q.key), zap.Error(err))
		return
	}
	if !ok || raw == q.raw {
		return
	}
	slots, err := Decode([]byte(raw))
	if err != nil {
		q.logger.Warn("ignoring malformed print queue", zap.String("key", q.key), zap.Error(err))
		q.raw = raw
		return
	}
	q.slots = slots
	q.raw = raw
}

// persist writes the current slots. Callers hold q.mu.
func (q *Queue) persist(ctx context.Context) {
	data, err := Encode(q.slots)
	if err != nil {
		q.logger.Warn("print queue encode failed", zap.Error(err))
		return
	}

	if err := q.store.Set(ctx, q.key, string(data)); err != nil {
		q.logger.Warn("print queue write failed", zap.String("key", q.key), zap.Error(err))
		return
	}
	q.raw = string(data)
}

func identities(slots [Capacity]Slot) [Capacity]string {
	var ids [Capacity]string
	for i, s := range slots {
		ids[i] = s.Identity(i)
	}
	return ids
}

// Encode serializes the slots as a JSON array with null for empty slots.
func Encode(slots [Capacity]Slot) ([]byte, error) {
	return json.Marshal(slots[:])
}

// Decode parses persisted queue state. Anything other than an array of
// exactly six bills-or-nulls is an error.
func Decode(data []byte) ([Capacity]Slot, error) {
	var out [Capacity]Slot

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return out, fmt.Errorf("decode print queue: %w", err)
	}
	if len(raw) != Capacity {
		return out, fmt.Errorf("decode print queue: got %d slots, want %d", len(raw), Capacity)
	}

	for i, r := range raw {
		var s Slot
		if err := json.Unmarshal(r, &s); err != nil {
			return [Capacity]Slot{}, fmt.Errorf("decode print queue slot %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

func remaining(slots [Capacity]Slot) int {
	n := 0
	for _, s := range slots {
		if s.IsEmpty() {
			n++
		}
	}
	return n
}

func mustIndex(i int) {
	if i < 0 || i >= Capacity {
		panic(fmt.Sprintf("printqueue: slot index %d out of range [0,%d)", i, Capacity))
	}
}

// permute checks that next holds exactly the bills of cur, by id, plus the
// same number of empty slots. The queued bill values are kept.
func permute(cur [Capacity]Slot, next []Slot) ([Capacity]Slot, bool) {
	var out [Capacity]Slot

	pending := make(map[string][]Slot, Capacity)
	for _, s := range cur {
		if !s.IsEmpty() {
			id := s.Bill.BillID()
			pending[id] = append(pending[id], s)
		}
	}
	for i, s := range next {
		if s.IsEmpty() {
			continue
		}
		id := s.Bill.BillID()
		queued := pending[id]
		if len(queued) == 0 {
			return out, false
		}
		out[i] = queued[0]
		pending[id] = queued[1:]
	}
	for _, left := range pending {
		if len(left) != 0 {
			return out, false
		}
	}
	return out, true
}

func arrayMove(slots [Capacity]Slot, from, to int) [Capacity]Slot {
	moved := slots[from]
	list := append([]Slot{}, slots[:from]...)
	list = append(list, slots[from+1:]...)

	list = append(list[:to], append([]Slot{moved}, list[to:]...)...)

	var out [Capacity]Slot
	copy(out[:], list)
	return out
}
