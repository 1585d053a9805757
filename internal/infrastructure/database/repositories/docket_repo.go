package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/pkg/errors"
	"github.com/turtacn/LexDocket/pkg/types/common"
)

// NewTriggerRepo builds a standalone trigger repository outside any unit of
// work, for read paths.
func NewTriggerRepo(db *sql.DB, log logging.Logger) *TriggerRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &TriggerRepo{baseRepo: baseRepo{db: db, log: log}}
}

// TriggerRepo persists triggers.
type TriggerRepo struct {
	baseRepo
}

const triggerColumns = `id, case_id, trigger_type, trigger_date, service_method, rule_template_id, jurisdiction, status, created_at, updated_at`

func (r *TriggerRepo) Create(ctx context.Context, t *docket.Trigger) error {
	const q = `INSERT INTO triggers (` + triggerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.executor().ExecContext(ctx, q,
		t.ID, t.CaseID, t.TriggerType, t.TriggerDate, t.ServiceMethod,
		t.RuleTemplateID, t.Jurisdiction, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert trigger")
	}
	return nil
}

func (r *TriggerRepo) Update(ctx context.Context, t *docket.Trigger) error {
	const q = `UPDATE triggers SET trigger_date = $2, service_method = $3, status = $4, updated_at = $5
		WHERE id = $1`
	res, err := r.executor().ExecContext(ctx, q, t.ID, t.TriggerDate, t.ServiceMethod, t.Status, t.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update trigger")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeTriggerNotFound, "trigger %s not found", t.ID)
	}
	return nil
}

func (r *TriggerRepo) GetByID(ctx context.Context, id common.ID) (*docket.Trigger, error) {
	const q = `SELECT ` + triggerColumns + ` FROM triggers WHERE id = $1`
	row := r.executor().QueryRowContext(ctx, q, id)
	t, err := scanTrigger(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrCodeTriggerNotFound, "trigger %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "load trigger")
	}
	return t, nil
}

func (r *TriggerRepo) ListByCase(ctx context.Context, caseID common.ID, page common.Pagination) ([]*docket.Trigger, int64, error) {
	var total int64
	if err := r.executor().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM triggers WHERE case_id = $1`, caseID).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count triggers")
	}

	const q = `SELECT ` + triggerColumns + ` FROM triggers
		WHERE case_id = $1 ORDER BY trigger_date, created_at LIMIT $2 OFFSET $3`
	rows, err := r.executor().QueryContext(ctx, q, caseID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list triggers")
	}
	defer rows.Close()

	var out []*docket.Trigger
	for rows.Next() {
		t, err := scanTrigger(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan trigger")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate triggers")
	}
	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrigger(row rowScanner) (*docket.Trigger, error) {
	var t docket.Trigger
	err := row.Scan(&t.ID, &t.CaseID, &t.TriggerType, &t.TriggerDate, &t.ServiceMethod,
		&t.RuleTemplateID, &t.Jurisdiction, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.TriggerDate = docket.NormalizeDate(t.TriggerDate)
	return &t, nil
}

// ---------------------------------------------------------------------------

// NewDeadlineRepo builds a standalone deadline repository for read paths.
func NewDeadlineRepo(db *sql.DB, log logging.Logger) *DeadlineRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DeadlineRepo{baseRepo: baseRepo{db: db, log: log}}
}

// DeadlineRepo persists deadlines.  The calculation result, audit log
// included, is stored as a JSONB document alongside the indexed columns.
type DeadlineRepo struct {
	baseRepo
}

const deadlineColumns = `d.id, d.trigger_id, d.spec_id, d.title, d.deadline_date, d.priority, d.status, d.applicable_rule, d.calculation, d.created_at, d.updated_at`

func (r *DeadlineRepo) Create(ctx context.Context, d *docket.Deadline) error {
	calc, err := marshalCalculation(d.Calculation)
	if err != nil {
		return err
	}
	const q = `INSERT INTO deadlines (id, trigger_id, spec_id, title, deadline_date, priority, status, applicable_rule, calculation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.executor().ExecContext(ctx, q,
		d.ID, nullableID(d.TriggerID), d.SpecID, d.Title, d.DeadlineDate,
		d.Priority, d.Status, d.ApplicableRule, calc, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert deadline")
	}
	return nil
}

func (r *DeadlineRepo) Update(ctx context.Context, d *docket.Deadline) error {
	calc, err := marshalCalculation(d.Calculation)
	if err != nil {
		return err
	}
	const q = `UPDATE deadlines SET trigger_id = $2, title = $3, deadline_date = $4, priority = $5,
		status = $6, applicable_rule = $7, calculation = $8, updated_at = $9 WHERE id = $1`
	res, err := r.executor().ExecContext(ctx, q,
		d.ID, nullableID(d.TriggerID), d.Title, d.DeadlineDate, d.Priority,
		d.Status, d.ApplicableRule, calc, d.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update deadline")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeDeadlineNotFound, "deadline %s not found", d.ID)
	}
	return nil
}

func (r *DeadlineRepo) Delete(ctx context.Context, id common.ID) error {
	res, err := r.executor().ExecContext(ctx, `DELETE FROM deadlines WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete deadline")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Newf(errors.ErrCodeDeadlineNotFound, "deadline %s not found", id)
	}
	return nil
}

func (r *DeadlineRepo) GetByID(ctx context.Context, id common.ID) (*docket.Deadline, error) {
	const q = `SELECT ` + deadlineColumns + ` FROM deadlines d WHERE d.id = $1`
	row := r.executor().QueryRowContext(ctx, q, id)
	d, err := scanDeadline(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrCodeDeadlineNotFound, "deadline %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "load deadline")
	}
	return d, nil
}

func (r *DeadlineRepo) ListByTrigger(ctx context.Context, triggerID common.ID) ([]*docket.Deadline, error) {
	const q = `SELECT ` + deadlineColumns + ` FROM deadlines d
		WHERE d.trigger_id = $1 ORDER BY d.deadline_date, d.spec_id`
	rows, err := r.executor().QueryContext(ctx, q, triggerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list deadlines")
	}
	defer rows.Close()
	return collectDeadlines(rows)
}

func (r *DeadlineRepo) ListByCase(ctx context.Context, caseID common.ID, page common.Pagination) ([]*docket.Deadline, int64, error) {
	var total int64
	const countQ = `SELECT COUNT(*) FROM deadlines d
		JOIN triggers t ON t.id = d.trigger_id WHERE t.case_id = $1`
	if err := r.executor().QueryRowContext(ctx, countQ, caseID).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count deadlines")
	}

	const q = `SELECT ` + deadlineColumns + ` FROM deadlines d
		JOIN triggers t ON t.id = d.trigger_id
		WHERE t.case_id = $1 ORDER BY d.deadline_date, d.spec_id LIMIT $2 OFFSET $3`
	rows, err := r.executor().QueryContext(ctx, q, caseID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list deadlines by case")
	}
	defer rows.Close()

	out, err := collectDeadlines(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *DeadlineRepo) ListPendingInRange(ctx context.Context, from, to time.Time, page common.Pagination) ([]*docket.Deadline, int64, error) {
	var total int64
	const countQ = `SELECT COUNT(*) FROM deadlines d
		WHERE d.status = 'pending' AND d.deadline_date BETWEEN $1 AND $2`
	if err := r.executor().QueryRowContext(ctx, countQ, from, to).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count pending deadlines")
	}

	const q = `SELECT ` + deadlineColumns + ` FROM deadlines d
		WHERE d.status = 'pending' AND d.deadline_date BETWEEN $1 AND $2
		ORDER BY d.deadline_date, d.priority, d.id LIMIT $3 OFFSET $4`
	rows, err := r.executor().QueryContext(ctx, q, from, to, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list pending deadlines")
	}
	defer rows.Close()

	out, err := collectDeadlines(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectDeadlines(rows *sql.Rows) ([]*docket.Deadline, error) {
	var out []*docket.Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan deadline")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate deadlines")
	}
	return out, nil
}

func scanDeadline(row rowScanner) (*docket.Deadline, error) {
	var (
		d         docket.Deadline
		triggerID sql.NullString
		calc      []byte
	)
	err := row.Scan(&d.ID, &triggerID, &d.SpecID, &d.Title, &d.DeadlineDate, &d.Priority,
		&d.Status, &d.ApplicableRule, &calc, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if triggerID.Valid {
		d.TriggerID = common.ID(triggerID.String)
	}
	d.DeadlineDate = docket.NormalizeDate(d.DeadlineDate)
	if len(calc) > 0 {
		var result docket.CalculationResult
		if err := json.Unmarshal(calc, &result); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode calculation")
		}
		d.Calculation = &result
	}
	return &d, nil
}

func marshalCalculation(c *docket.CalculationResult) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode calculation")
	}
	return b, nil
}

func nullableID(id common.ID) interface{} {
	if id.IsEmpty() {
		return nil
	}
	return id
}
