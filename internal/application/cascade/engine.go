// Package cascade implements the trigger cascade engine: expanding a trigger
// event into its dependent deadlines through rule templates, and keeping the
// dependent set consistent when the trigger changes.
package cascade

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/internal/domain/rules"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/LexDocket/pkg/errors"
	"github.com/turtacn/LexDocket/pkg/types/common"
)

// Event types published by the engine after a committed state change.
const (
	EventTriggerCreated      = "trigger.created"
	EventTriggerRecalculated = "trigger.recalculated"
	EventTriggerCancelled    = "trigger.cancelled"
	EventDeadlineCompleted   = "deadline.completed"
)

// EventPublisher delivers domain events to downstream consumers (reminder
// systems, dashboards).  Publishing happens after the transaction commits;
// a publish failure is logged but never rolls back the state change.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// Engine orchestrates trigger creation, recalculation and deletion.  All
// persistence runs inside a unit of work so a crash mid-cascade can never
// leave a trigger with a partial dependent set.
type Engine struct {
	uow       docket.UnitOfWork
	registry  rules.Registry
	calc      *docket.Calculator
	publisher EventPublisher
	log       logging.Logger
	metrics   *prometheus.EngineMetrics
	now       func() time.Time
}

// NewEngine wires a cascade engine.  publisher may be nil when event delivery
// is disabled.
func NewEngine(uow docket.UnitOfWork, registry rules.Registry, calc *docket.Calculator,
	publisher EventPublisher, log logging.Logger, metrics *prometheus.EngineMetrics) *Engine {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopEngineMetrics()
	}
	return &Engine{
		uow:       uow,
		registry:  registry,
		calc:      calc,
		publisher: publisher,
		log:       log.Named("cascade"),
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithClock overrides the engine clock.  Tests use a fixed clock so entity
// timestamps are reproducible.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

// CreateTriggerInput carries a recorded trigger event.
type CreateTriggerInput struct {
	CaseID         common.ID
	TriggerType    string
	TriggerDate    time.Time
	ServiceMethod  docket.ServiceMethod
	RuleTemplateID string
}

// CreateTriggerResult is the committed trigger with its expanded cascade.
type CreateTriggerResult struct {
	Trigger   *docket.Trigger    `json:"trigger"`
	Deadlines []*docket.Deadline `json:"deadlines"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// CreateTrigger expands a trigger event into one deadline per spec of its
// rule template.  Expansion is all-or-nothing: if any spec fails to
// calculate, nothing is persisted.
func (e *Engine) CreateTrigger(ctx context.Context, in CreateTriggerInput) (*CreateTriggerResult, error) {
	template, err := e.registry.TemplateByID(in.RuleTemplateID)
	if err != nil {
		e.metrics.CascadeExpansionsTotal.Inc("template_not_found")
		return nil, err
	}
	if template.TriggerType != in.TriggerType {
		return nil, errors.Newf(errors.ErrCodeValidation,
			"template %s applies to trigger type %q, not %q", template.RuleID, template.TriggerType, in.TriggerType)
	}

	now := e.now().UTC()
	trigger, err := docket.NewTrigger(in.CaseID, in.TriggerType, in.TriggerDate, in.ServiceMethod,
		template.RuleID, template.Jurisdiction, now)
	if err != nil {
		return nil, err
	}

	deadlines, warnings, err := e.expand(template, trigger, now)
	if err != nil {
		e.metrics.CascadeExpansionsTotal.Inc("calculation_failed")
		return nil, err
	}
	if err := trigger.Activate(now); err != nil {
		return nil, err
	}

	err = e.uow.WithinTx(ctx, func(triggers docket.TriggerRepository, repo docket.DeadlineRepository) error {
		if err := triggers.Create(ctx, trigger); err != nil {
			return err
		}
		for _, d := range deadlines {
			if err := repo.Create(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		e.metrics.CascadeExpansionsTotal.Inc("persistence_failed")
		return nil, errors.Wrap(err, errors.ErrCodeCascadeExpansionFailed, "cascade expansion not committed")
	}

	e.metrics.CascadeExpansionsTotal.Inc("success")
	e.metrics.CascadeDeadlinesGenerated.Observe(float64(len(deadlines)))
	e.logWarnings(trigger.ID, warnings)
	e.log.Info("trigger cascade expanded",
		logging.String("trigger_id", trigger.ID.String()),
		logging.String("rule_id", template.RuleID),
		logging.Int("deadlines", len(deadlines)))
	e.publish(ctx, EventTriggerCreated, &CreateTriggerResult{Trigger: trigger, Deadlines: deadlines})

	return &CreateTriggerResult{Trigger: trigger, Deadlines: deadlines, Warnings: warnings}, nil
}

// ---------------------------------------------------------------------------
// Recalculate
// ---------------------------------------------------------------------------

// RecalculateInput carries a trigger edit.
type RecalculateInput struct {
	TriggerDate   time.Time
	ServiceMethod docket.ServiceMethod
	// OverrideCompleted acknowledges deadlines already marked completed.
	// Without it, their presence fails the recalculation as a conflict.
	// With it, completed deadlines stay untouched as historical record and
	// only the remaining cascade is regenerated.
	OverrideCompleted bool
}

// RecalculateResult reports the reconciled cascade.
type RecalculateResult struct {
	Trigger   *docket.Trigger    `json:"trigger"`
	Deadlines []*docket.Deadline `json:"deadlines"`
	Updated   int                `json:"updated"`
	Created   int                `json:"created"`
	Removed   int                `json:"removed"`
	Skipped   int                `json:"skipped"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// Recalculate regenerates a trigger's cascade after its date or service
// method changed.  Existing deadlines are matched to template specs by spec
// id: matched ones are updated in place, specs without a deadline get one
// created, and deadlines whose spec no longer exists are removed.  Completed
// deadlines are never silently overwritten.
func (e *Engine) Recalculate(ctx context.Context, triggerID common.ID, in RecalculateInput) (*RecalculateResult, error) {
	now := e.now().UTC()
	var result *RecalculateResult

	err := e.uow.WithinTx(ctx, func(triggers docket.TriggerRepository, repo docket.DeadlineRepository) error {
		trigger, err := triggers.GetByID(ctx, triggerID)
		if err != nil {
			return err
		}
		template, err := e.registry.TemplateByID(trigger.RuleTemplateID)
		if err != nil {
			return err
		}
		existing, err := repo.ListByTrigger(ctx, triggerID)
		if err != nil {
			return err
		}

		if !in.OverrideCompleted {
			if completed := completedTitles(existing); len(completed) > 0 {
				return errors.Newf(errors.ErrCodeRecalculationConflict,
					"trigger %s has completed deadlines (%s); recalculation requires explicit override",
					triggerID, strings.Join(completed, ", "))
			}
		}

		if err := trigger.Reschedule(in.TriggerDate, in.ServiceMethod, now); err != nil {
			return err
		}
		if err := triggers.Update(ctx, trigger); err != nil {
			return err
		}

		res, warnings, err := e.reconcile(ctx, repo, template, trigger, existing, now)
		if err != nil {
			return err
		}
		res.Trigger = trigger
		res.Warnings = warnings
		result = res
		return nil
	})
	if err != nil {
		outcome := "failed"
		if errors.IsCode(err, errors.ErrCodeRecalculationConflict) {
			outcome = "conflict"
			e.metrics.RecalculationConflicts.Inc()
		}
		e.metrics.RecalculationsTotal.Inc(outcome)
		return nil, err
	}

	e.metrics.RecalculationsTotal.Inc("success")
	e.logWarnings(triggerID, result.Warnings)
	e.log.Info("trigger cascade recalculated",
		logging.String("trigger_id", triggerID.String()),
		logging.Int("updated", result.Updated),
		logging.Int("created", result.Created),
		logging.Int("removed", result.Removed),
		logging.Int("skipped", result.Skipped))
	e.publish(ctx, EventTriggerRecalculated, result)
	return result, nil
}

// reconcile matches new calculations against existing deadlines by spec id.
func (e *Engine) reconcile(ctx context.Context, repo docket.DeadlineRepository, template *rules.RuleTemplate,
	trigger *docket.Trigger, existing []*docket.Deadline, now time.Time) (*RecalculateResult, []string, error) {

	res := &RecalculateResult{}
	var warnings []string

	bySpec := make(map[string]*docket.Deadline, len(existing))
	for _, d := range existing {
		bySpec[d.SpecID] = d
	}

	specIDs := make(map[string]struct{}, len(template.Specs))
	for _, spec := range template.Specs {
		specIDs[spec.SpecID] = struct{}{}
		calc, err := e.calculateSpec(template, trigger, spec)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, calc.ConfigGaps()...)

		current, ok := bySpec[spec.SpecID]
		if !ok {
			d := newDeadline(trigger, spec, calc, now)
			if err := repo.Create(ctx, d); err != nil {
				return nil, nil, err
			}
			res.Deadlines = append(res.Deadlines, d)
			res.Created++
			continue
		}
		if current.Status == docket.DeadlineCompleted {
			res.Deadlines = append(res.Deadlines, current)
			res.Skipped++
			continue
		}
		if err := current.Reschedule(calc.DeadlineDate, calc, now); err != nil {
			return nil, nil, err
		}
		current.Title = spec.Title
		current.Priority = spec.Priority
		current.ApplicableRule = spec.Citation
		if err := repo.Update(ctx, current); err != nil {
			return nil, nil, err
		}
		res.Deadlines = append(res.Deadlines, current)
		res.Updated++
	}

	// Deadlines whose spec was dropped from the template: remove pending
	// ones, detach completed ones as historical record.
	for _, d := range existing {
		if _, keep := specIDs[d.SpecID]; keep {
			continue
		}
		if d.Status == docket.DeadlineCompleted {
			d.Detach(now)
			if err := repo.Update(ctx, d); err != nil {
				return nil, nil, err
			}
		} else {
			if err := repo.Delete(ctx, d.ID); err != nil {
				return nil, nil, err
			}
		}
		res.Removed++
	}

	sortDeadlines(res.Deadlines)
	return res, warnings, nil
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

// DeleteTriggerResult reports the cascade teardown.
type DeleteTriggerResult struct {
	Trigger  *docket.Trigger `json:"trigger"`
	Deleted  int             `json:"deleted"`
	Detached int             `json:"detached"`
}

// DeleteTrigger cancels a trigger and tears down its cascade.  Non-completed
// deadlines are deleted; completed deadlines are preserved as historical
// record but detached from the trigger.
func (e *Engine) DeleteTrigger(ctx context.Context, triggerID common.ID) (*DeleteTriggerResult, error) {
	now := e.now().UTC()
	var result *DeleteTriggerResult

	err := e.uow.WithinTx(ctx, func(triggers docket.TriggerRepository, repo docket.DeadlineRepository) error {
		trigger, err := triggers.GetByID(ctx, triggerID)
		if err != nil {
			return err
		}
		if err := trigger.Cancel(now); err != nil {
			return err
		}
		if err := triggers.Update(ctx, trigger); err != nil {
			return err
		}

		existing, err := repo.ListByTrigger(ctx, triggerID)
		if err != nil {
			return err
		}
		res := &DeleteTriggerResult{Trigger: trigger}
		for _, d := range existing {
			if d.Status == docket.DeadlineCompleted {
				d.Detach(now)
				if err := repo.Update(ctx, d); err != nil {
					return err
				}
				res.Detached++
				continue
			}
			if err := repo.Delete(ctx, d.ID); err != nil {
				return err
			}
			res.Deleted++
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("trigger cancelled",
		logging.String("trigger_id", triggerID.String()),
		logging.Int("deleted", result.Deleted),
		logging.Int("detached", result.Detached))
	e.publish(ctx, EventTriggerCancelled, result)
	return result, nil
}

// ---------------------------------------------------------------------------
// Reads and deadline lifecycle
// ---------------------------------------------------------------------------

// GetTrigger loads a trigger with its current cascade.
func (e *Engine) GetTrigger(ctx context.Context, triggerID common.ID) (*docket.Trigger, []*docket.Deadline, error) {
	var (
		trigger   *docket.Trigger
		deadlines []*docket.Deadline
	)
	err := e.uow.WithinTx(ctx, func(triggers docket.TriggerRepository, repo docket.DeadlineRepository) error {
		t, err := triggers.GetByID(ctx, triggerID)
		if err != nil {
			return err
		}
		ds, err := repo.ListByTrigger(ctx, triggerID)
		if err != nil {
			return err
		}
		trigger, deadlines = t, ds
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sortDeadlines(deadlines)
	return trigger, deadlines, nil
}

// UpcomingDeadlines lists pending deadlines due within the next withinDays
// days, today included.
func (e *Engine) UpcomingDeadlines(ctx context.Context, withinDays int, page common.Pagination) (*common.PagedResult[*docket.Deadline], error) {
	if withinDays < 1 {
		return nil, errors.Newf(errors.ErrCodeValidation, "withinDays %d must be positive", withinDays)
	}
	today := docket.NormalizeDate(e.now().UTC())
	return e.listPendingWindow(ctx, today, today.AddDate(0, 0, withinDays), page)
}

// OverdueDeadlines lists pending deadlines whose date has already passed.
func (e *Engine) OverdueDeadlines(ctx context.Context, page common.Pagination) (*common.PagedResult[*docket.Deadline], error) {
	today := docket.NormalizeDate(e.now().UTC())
	return e.listPendingWindow(ctx, today.AddDate(-50, 0, 0), today.AddDate(0, 0, -1), page)
}

func (e *Engine) listPendingWindow(ctx context.Context, from, to time.Time, page common.Pagination) (*common.PagedResult[*docket.Deadline], error) {
	var (
		deadlines []*docket.Deadline
		total     int64
	)
	err := e.uow.WithinTx(ctx, func(_ docket.TriggerRepository, repo docket.DeadlineRepository) error {
		ds, n, err := repo.ListPendingInRange(ctx, from, to, page)
		if err != nil {
			return err
		}
		deadlines, total = ds, n
		return nil
	})
	if err != nil {
		return nil, err
	}
	norm := page.Normalize()
	return &common.PagedResult[*docket.Deadline]{
		Items:      deadlines,
		TotalCount: total,
		Page:       norm.Page,
		PageSize:   norm.PageSize,
	}, nil
}

// CompleteDeadline marks a deadline as satisfied.
func (e *Engine) CompleteDeadline(ctx context.Context, deadlineID common.ID) (*docket.Deadline, error) {
	now := e.now().UTC()
	var deadline *docket.Deadline
	err := e.uow.WithinTx(ctx, func(_ docket.TriggerRepository, repo docket.DeadlineRepository) error {
		d, err := repo.GetByID(ctx, deadlineID)
		if err != nil {
			return err
		}
		if err := d.Complete(now); err != nil {
			return err
		}
		if err := repo.Update(ctx, d); err != nil {
			return err
		}
		deadline = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.publish(ctx, EventDeadlineCompleted, deadline)
	return deadline, nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (e *Engine) expand(template *rules.RuleTemplate, trigger *docket.Trigger, now time.Time) ([]*docket.Deadline, []string, error) {
	deadlines := make([]*docket.Deadline, 0, len(template.Specs))
	var warnings []string
	for _, spec := range template.Specs {
		calc, err := e.calculateSpec(template, trigger, spec)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, calc.ConfigGaps()...)
		deadlines = append(deadlines, newDeadline(trigger, spec, calc, now))
	}
	sortDeadlines(deadlines)
	return deadlines, warnings, nil
}

func (e *Engine) calculateSpec(template *rules.RuleTemplate, trigger *docket.Trigger, spec rules.DeadlineSpec) (*docket.CalculationResult, error) {
	calc, err := e.calc.Calculate(docket.CalculationInput{
		TriggerDate:  trigger.TriggerDate,
		BaseDays:     spec.DaysFromTrigger,
		Method:       spec.CountingMethod,
		Service:      trigger.ServiceMethod,
		Jurisdiction: template.Jurisdiction,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCascadeExpansionFailed,
			fmt.Sprintf("spec %s of template %s failed to calculate", spec.SpecID, template.RuleID))
	}
	return calc, nil
}

func newDeadline(trigger *docket.Trigger, spec rules.DeadlineSpec, calc *docket.CalculationResult, now time.Time) *docket.Deadline {
	return &docket.Deadline{
		ID:             common.NewID(),
		TriggerID:      trigger.ID,
		SpecID:         spec.SpecID,
		Title:          spec.Title,
		DeadlineDate:   calc.DeadlineDate,
		Priority:       spec.Priority,
		Status:         docket.DeadlinePending,
		ApplicableRule: spec.Citation,
		Calculation:    calc,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (e *Engine) publish(ctx context.Context, eventType string, payload interface{}) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, eventType, payload); err != nil {
		e.log.Warn("event publish failed",
			logging.String("event_type", eventType),
			logging.Err(err))
	}
}

func (e *Engine) logWarnings(triggerID common.ID, warnings []string) {
	for _, w := range warnings {
		e.metrics.ConfigurationGapsTotal.Inc("cascade")
		e.log.Warn("configuration gap during cascade",
			logging.String("trigger_id", triggerID.String()),
			logging.String("detail", w))
	}
}

func completedTitles(deadlines []*docket.Deadline) []string {
	var out []string
	for _, d := range deadlines {
		if d.Status == docket.DeadlineCompleted {
			out = append(out, d.Title)
		}
	}
	return out
}

func sortDeadlines(deadlines []*docket.Deadline) {
	sort.SliceStable(deadlines, func(i, j int) bool {
		if !deadlines[i].DeadlineDate.Equal(deadlines[j].DeadlineDate) {
			return deadlines[i].DeadlineDate.Before(deadlines[j].DeadlineDate)
		}
		return deadlines[i].Priority.Rank() < deadlines[j].Priority.Rank()
	})
}
