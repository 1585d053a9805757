package docket

import (
	"context"
	"time"

	"github.com/turtacn/LexDocket/pkg/types/common"
)

// TriggerRepository persists trigger events.
type TriggerRepository interface {
	Create(ctx context.Context, t *Trigger) error
	Update(ctx context.Context, t *Trigger) error
	GetByID(ctx context.Context, id common.ID) (*Trigger, error)
	ListByCase(ctx context.Context, caseID common.ID, page common.Pagination) ([]*Trigger, int64, error)
}

// DeadlineRepository persists computed deadlines.
type DeadlineRepository interface {
	Create(ctx context.Context, d *Deadline) error
	Update(ctx context.Context, d *Deadline) error
	Delete(ctx context.Context, id common.ID) error
	GetByID(ctx context.Context, id common.ID) (*Deadline, error)
	ListByTrigger(ctx context.Context, triggerID common.ID) ([]*Deadline, error)
	ListByCase(ctx context.Context, caseID common.ID, page common.Pagination) ([]*Deadline, int64, error)

	// ListPendingInRange lists pending deadlines with a deadline date inside
	// [from, to], both inclusive, ordered by date then priority.  Upcoming and
	// overdue views are both windows over this query.
	ListPendingInRange(ctx context.Context, from, to time.Time, page common.Pagination) ([]*Deadline, int64, error)
}

// UnitOfWork runs a function against transactional repositories.  A cascade
// expansion or reconciliation commits either all of its writes or none, so a
// crash mid-cascade can never leave a trigger with a partial dependent set.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(triggers TriggerRepository, deadlines DeadlineRepository) error) error
}
