package targets

import (
	"context"
	"errors"
	"fmt"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Snapshot captures the fields of a transaction before an update, so the
// reconciler can back out its previous contribution.
type Snapshot struct {
	Category string
	Type     string
	Amount   int64
}

// Event describes one transaction mutation. Revision distinguishes
// repeated updates of the same transaction in the idempotency ledger.
type Event struct {
	Op       Op
	TxnID    int64
	Revision int
	UserID   string
	Category string
	Type     string
	Amount   int64
	Previous *Snapshot
}

// Store is what the reconciler needs from the target store. The pgx
// implementation lives in Repository; tests use an in-memory one.
type Store interface {
	// Find returns the target matching (userID, category, typ), or
	// ErrNoTarget.
	Find(ctx context.Context, userID, category, typ string) (*Target, error)

	// ApplyDelta adds delta to the target's current amount in a single
	// atomic update, clamped to [0, target_amount]. It returns the
	// progress before and after.
	ApplyDelta(ctx context.Context, targetID int64, delta int64) (prev, cur int64, err error)

	// MarkApplied records (txnID, revision, op) in the idempotency
	// ledger. It returns false when the event was already applied.
	MarkApplied(ctx context.Context, txnID int64, revision int, op Op) (bool, error)

	// LinkTransaction records which target the transaction currently
	// counts against (nil clears the association).
	LinkTransaction(ctx context.Context, txnID int64, targetID *int64) error
}

// StepResult reports what one reconciliation step did to a bucket.
type StepResult struct {
	Category   string
	Type       string
	Delta      int64
	Matched    bool
	TargetID   int64
	NewCurrent int64
	// Filled is set when this step moved the target to exactly its
	// target amount.
	Filled bool
}

type Result struct {
	// Applied is false when the event was already in the ledger and
	// the whole reconciliation was skipped.
	Applied bool
	Steps   []StepResult
}

// ReconcileError wraps any failure during reconciliation. Callers log it
// and keep the primary transaction write; they must not roll it back.
type ReconcileError struct {
	Op    Op
	TxnID int64
	Err   error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile %s txn %d: %v", e.Op, e.TxnID, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// Reconciler keeps each target's current amount in step with the
// transactions sharing its (user, category, type) bucket.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

type step struct {
	category string
	typ      string
	delta    int64
	// link marks the step whose bucket the transaction now belongs to.
	link bool
}

// planSteps turns an event into bucket deltas. A category/type change on
// update is a decrement against the old bucket plus an increment against
// the new one; deltas against buckets with no target become no-ops later.
func planSteps(ev Event) []step {
	switch ev.Op {
	case OpCreate:
		return []step{{ev.Category, ev.Type, ev.Amount, true}}
	case OpDelete:
		return []step{{ev.Category, ev.Type, -ev.Amount, false}}
	case OpUpdate:
		if ev.Previous == nil {
			return []step{{ev.Category, ev.Type, ev.Amount, true}}
		}
		if ev.Previous.Category == ev.Category && ev.Previous.Type == ev.Type {
			return []step{{ev.Category, ev.Type, ev.Amount - ev.Previous.Amount, true}}
		}
		return []step{
			{ev.Previous.Category, ev.Previous.Type, -ev.Previous.Amount, false},
			{ev.Category, ev.Type, ev.Amount, true},
		}
	}
	return nil
}

// Apply reconciles one transaction mutation against the target store.
// Replaying an event that is already in the ledger returns
// Result{Applied: false} without touching any target.
func (r *Reconciler) Apply(ctx context.Context, ev Event) (Result, error) {
	applied, err := r.store.MarkApplied(ctx, ev.TxnID, ev.Revision, ev.Op)
	if err != nil {
		return Result{}, &ReconcileError{Op: ev.Op, TxnID: ev.TxnID, Err: err}
	}
	if !applied {
		return Result{Applied: false}, nil
	}

	res := Result{Applied: true}
	var linked *int64
	for _, st := range planSteps(ev) {
		t, err := r.store.Find(ctx, ev.UserID, st.category, st.typ)
		if errors.Is(err, ErrNoTarget) {
			res.Steps = append(res.Steps, StepResult{Category: st.category, Type: st.typ, Delta: st.delta})
			continue
		}
		if err != nil {
			return res, &ReconcileError{Op: ev.Op, TxnID: ev.TxnID, Err: err}
		}

		prev, cur, err := r.store.ApplyDelta(ctx, t.ID, st.delta)
		if err != nil {
			return res, &ReconcileError{Op: ev.Op, TxnID: ev.TxnID, Err: err}
		}

		res.Steps = append(res.Steps, StepResult{
			Category:   st.category,
			Type:       st.typ,
			Delta:      st.delta,
			Matched:    true,
			TargetID:   t.ID,
			NewCurrent: cur,
			Filled:     st.delta > 0 && cur == t.TargetAmount && prev < cur,
		})
		if st.link {
			id := t.ID
			linked = &id
		}
	}

	if ev.Op != OpDelete {
		if err := r.store.LinkTransaction(ctx, ev.TxnID, linked); err != nil {
			return res, &ReconcileError{Op: ev.Op, TxnID: ev.TxnID, Err: err}
		}
	}
	return res, nil
}
