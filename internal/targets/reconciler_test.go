package targets

import (
	"context"
	"testing"
)

// memStore is an in-memory Store for exercising the reconciler without
// a database.
type memStore struct {
	targets map[int64]*Target
	ledger  map[[3]interface{}]bool
	links   map[int64]*int64
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{
		targets: make(map[int64]*Target),
		ledger:  make(map[[3]interface{}]bool),
		links:   make(map[int64]*int64),
		nextID:  1,
	}
}

func (m *memStore) addTarget(userID, category, typ string, targetAmount, currentAmount int64) *Target {
	t := &Target{
		ID:            m.nextID,
		UserID:        userID,
		Category:      category,
		Type:          typ,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
	}
	m.nextID++
	m.targets[t.ID] = t
	return t
}

func (m *memStore) Find(_ context.Context, userID, category, typ string) (*Target, error) {
	for _, t := range m.targets {
		if t.UserID == userID && t.Category == category && t.Type == typ {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNoTarget
}

func (m *memStore) ApplyDelta(_ context.Context, targetID int64, delta int64) (int64, int64, error) {
	t, ok := m.targets[targetID]
	if !ok {
		return 0, 0, ErrNotFound
	}
	prev := t.CurrentAmount
	cur := prev + delta
	if cur < 0 {
		cur = 0
	}
	if cur > t.TargetAmount {
		cur = t.TargetAmount
	}
	t.CurrentAmount = cur
	return prev, cur, nil
}

func (m *memStore) MarkApplied(_ context.Context, txnID int64, revision int, op Op) (bool, error) {
	key := [3]interface{}{txnID, revision, op}
	if m.ledger[key] {
		return false, nil
	}
	m.ledger[key] = true
	return true, nil
}

func (m *memStore) LinkTransaction(_ context.Context, txnID int64, targetID *int64) error {
	m.links[txnID] = targetID
	return nil
}

const testUser = "11111111-1111-1111-1111-111111111111"

func createEvent(txnID int64, category, typ string, amount int64) Event {
	return Event{Op: OpCreate, TxnID: txnID, UserID: testUser, Category: category, Type: typ, Amount: amount}
}

func deleteEvent(txnID int64, category, typ string, amount int64) Event {
	return Event{Op: OpDelete, TxnID: txnID, UserID: testUser, Category: category, Type: typ, Amount: amount}
}

func mustApply(t *testing.T, r *Reconciler, ev Event) Result {
	t.Helper()
	res, err := r.Apply(context.Background(), ev)
	if err != nil {
		t.Fatalf("apply %s txn %d: %v", ev.Op, ev.TxnID, err)
	}
	return res
}

func currentOf(t *testing.T, s *memStore, id int64) int64 {
	t.Helper()
	tgt, ok := s.targets[id]
	if !ok {
		t.Fatalf("target %d missing", id)
	}
	return tgt.CurrentAmount
}

func TestCreateAccumulatesUpToCap(t *testing.T) {
	s := newMemStore()
	tgt := s.addTarget(testUser, "Food", TypeExpense, 20000, 0)
	r := NewReconciler(s)

	amounts := []int64{3000, 7000, 5000, 9000} // sum 24000 vs cap 20000
	sum := int64(0)
	for i, a := range amounts {
		mustApply(t, r, createEvent(int64(i+1), "Food", TypeExpense, a))
		sum += a
		want := sum
		if want > 20000 {
			want = 20000
		}
		if got := currentOf(t, s, tgt.ID); got != want {
			t.Fatalf("after %d creates: current = %d, expected %d", i+1, got, want)
		}
	}
}

func TestCappedCreateThenDeleteUsesRawAmount(t *testing.T) {
	// target at 150.00 of 200.00; a 70.00 transaction caps progress at
	// 200.00, and deleting it pulls the full 70.00 back out, landing on
	// 130.00 rather than the pre-cap 150.00.
	s := newMemStore()
	tgt := s.addTarget(testUser, "Food", TypeExpense, 20000, 15000)
	r := NewReconciler(s)

	mustApply(t, r, createEvent(1, "Food", TypeExpense, 7000))
	if got := currentOf(t, s, tgt.ID); got != 20000 {
		t.Fatalf("after capped create: current = %d, expected 20000", got)
	}

	mustApply(t, r, deleteEvent(1, "Food", TypeExpense, 7000))
	if got := currentOf(t, s, tgt.ID); got != 13000 {
		t.Fatalf("after delete: current = %d, expected 13000", got)
	}
}

func TestDeleteFloorsAtZero(t *testing.T) {
	s := newMemStore()
	tgt := s.addTarget(testUser, "Rent", TypeExpense, 50000, 2000)
	r := NewReconciler(s)

	mustApply(t, r, deleteEvent(1, "Rent", TypeExpense, 9000))
	if got := currentOf(t, s, tgt.ID); got != 0 {
		t.Fatalf("current = %d, expected floor at 0", got)
	}
}

func TestDeletingEverythingReturnsToZero(t *testing.T) {
	s := newMemStore()
	tgt := s.addTarget(testUser, "Food", TypeExpense, 100000, 0)
	r := NewReconciler(s)

	amounts := []int64{1200, 3400, 5600}
	for i, a := range amounts {
		mustApply(t, r, createEvent(int64(i+1), "Food", TypeExpense, a))
	}
	for i, a := range amounts {
		mustApply(t, r, deleteEvent(int64(i+1), "Food", TypeExpense, a))
	}
	if got := currentOf(t, s, tgt.ID); got != 0 {
		t.Fatalf("current = %d, expected 0 after deleting everything", got)
	}
}

func TestUpdateAmountSameBucket(t *testing.T) {
	s := newMemStore()
	tgt := s.addTarget(testUser, "Food", TypeExpense, 20000, 0)
	r := NewReconciler(s)

	mustApply(t, r, createEvent(1, "Food", TypeExpense, 5000))
	mustApply(t, r, Event{
		Op: OpUpdate, TxnID: 1, Revision: 1, UserID: testUser,
		Category: "Food", Type: TypeExpense, Amount: 8000,
		Previous: &Snapshot{Category: "Food", Type: TypeExpense, Amount: 5000},
	})
	if got := currentOf(t, s, tgt.ID); got != 8000 {
		t.Fatalf("current = %d, expected 8000 (changed by B-A)", got)
	}

	// Shrinking the amount moves progress down by the difference.
	mustApply(t, r, Event{
		Op: OpUpdate, TxnID: 1, Revision: 2, UserID: testUser,
		Category: "Food", Type: TypeExpense, Amount: 2000,
		Previous: &Snapshot{Category: "Food", Type: TypeExpense, Amount: 8000},
	})
	if got := currentOf(t, s, tgt.ID); got != 2000 {
		t.Fatalf("current = %d, expected 2000", got)
	}
}

func TestUpdateBucketChangeMovesProgress(t *testing.T) {
	s := newMemStore()
	food := s.addTarget(testUser, "Food", TypeExpense, 20000, 0)
	travel := s.addTarget(testUser, "Travel", TypeExpense, 30000, 0)
	r := NewReconciler(s)

	mustApply(t, r, createEvent(1, "Food", TypeExpense, 6000))
	mustApply(t, r, Event{
		Op: OpUpdate, TxnID: 1, Revision: 1, UserID: testUser,
		Category: "Travel", Type: TypeExpense, Amount: 6000,
		Previous: &Snapshot{Category: "Food", Type: TypeExpense, Amount: 6000},
	})

	if got := currentOf(t, s, food.ID); got != 0 {
		t.Fatalf("old bucket: current = %d, expected 0", got)
	}
	if got := currentOf(t, s, travel.ID); got != 6000 {
		t.Fatalf("new bucket: current = %d, expected 6000", got)
	}
	if link := s.links[1]; link == nil || *link != travel.ID {
		t.Fatalf("transaction should be linked to the new bucket's target")
	}
}

func TestUpdateToBucketWithoutTarget(t *testing.T) {
	s := newMemStore()
	food := s.addTarget(testUser, "Food", TypeExpense, 20000, 0)
	r := NewReconciler(s)

	mustApply(t, r, createEvent(1, "Food", TypeExpense, 6000))
	res := mustApply(t, r, Event{
		Op: OpUpdate, TxnID: 1, Revision: 1, UserID: testUser,
		Category: "Misc", Type: TypeExpense, Amount: 6000,
		Previous: &Snapshot{Category: "Food", Type: TypeExpense, Amount: 6000},
	})

	if got := currentOf(t, s, food.ID); got != 0 {
		t.Fatalf("old bucket: current = %d, expected decrement to 0", got)
	}
	if len(res.Steps) != 2 || res.Steps[1].Matched {
		t.Fatalf("new bucket step should be an unmatched no-op, got %+v", res.Steps)
	}
	if link := s.links[1]; link != nil {
		t.Fatalf("link should be cleared when no target matches, got %d", *link)
	}
}

func TestCreateWithoutTargetIsNoop(t *testing.T) {
	s := newMemStore()
	r := NewReconciler(s)

	res := mustApply(t, r, createEvent(1, "Food", TypeExpense, 6000))
	if len(res.Steps) != 1 || res.Steps[0].Matched {
		t.Fatalf("expected a single unmatched step, got %+v", res.Steps)
	}
	if len(s.targets) != 0 {
		t.Fatal("no target may be created implicitly")
	}
}

func TestTypeIsPartOfBucket(t *testing.T) {
	s := newMemStore()
	tgt := s.addTarget(testUser, "Salary", TypeIncome, 500000, 0)
	r := NewReconciler(s)

	// Same category, wrong type: must not touch the income target.
	mustApply(t, r, createEvent(1, "Salary", TypeExpense, 10000))
	if got := currentOf(t, s, tgt.ID); got != 0 {
		t.Fatalf("current = %d, expected 0 for a different type", got)
	}

	mustApply(t, r, createEvent(2, "Salary", TypeIncome, 10000))
	if got := currentOf(t, s, tgt.ID); got != 10000 {
		t.Fatalf("current = %d, expected 10000", got)
	}
}

func TestReplayIsIdempotent(t *testing.T) {
	s := newMemStore()
	tgt := s.addTarget(testUser, "Food", TypeExpense, 20000, 0)
	r := NewReconciler(s)

	mustApply(t, r, createEvent(1, "Food", TypeExpense, 5000))
	res := mustApply(t, r, createEvent(1, "Food", TypeExpense, 5000))
	if res.Applied {
		t.Fatal("replay of an applied event must be skipped")
	}
	if got := currentOf(t, s, tgt.ID); got != 5000 {
		t.Fatalf("current = %d, expected 5000 after replay", got)
	}

	// A later revision of the same transaction is a distinct event.
	mustApply(t, r, Event{
		Op: OpUpdate, TxnID: 1, Revision: 1, UserID: testUser,
		Category: "Food", Type: TypeExpense, Amount: 7000,
		Previous: &Snapshot{Category: "Food", Type: TypeExpense, Amount: 5000},
	})
	if got := currentOf(t, s, tgt.ID); got != 7000 {
		t.Fatalf("current = %d, expected 7000", got)
	}
}

func TestFilledFiresOnceOnExactFill(t *testing.T) {
	s := newMemStore()
	s.addTarget(testUser, "Food", TypeExpense, 20000, 15000)
	r := NewReconciler(s)

	res := mustApply(t, r, createEvent(1, "Food", TypeExpense, 7000))
	if len(res.Steps) != 1 || !res.Steps[0].Filled {
		t.Fatalf("expected Filled on the capping step, got %+v", res.Steps)
	}

	// Already full: further creates stay at the cap without refiring.
	res = mustApply(t, r, createEvent(2, "Food", TypeExpense, 1000))
	if res.Steps[0].Filled {
		t.Fatal("Filled must not refire while already at the cap")
	}
}

func TestOwnershipScopesBuckets(t *testing.T) {
	s := newMemStore()
	other := "22222222-2222-2222-2222-222222222222"
	mine := s.addTarget(testUser, "Food", TypeExpense, 20000, 0)
	theirs := s.addTarget(other, "Food", TypeExpense, 20000, 0)
	r := NewReconciler(s)

	mustApply(t, r, createEvent(1, "Food", TypeExpense, 4000))
	if got := currentOf(t, s, mine.ID); got != 4000 {
		t.Fatalf("own target: current = %d, expected 4000", got)
	}
	if got := currentOf(t, s, theirs.ID); got != 0 {
		t.Fatalf("other user's target: current = %d, expected 0", got)
	}
}
