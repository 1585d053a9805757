package docket

import (
	"time"

	"github.com/turtacn/LexDocket/pkg/errors"
	"github.com/turtacn/LexDocket/pkg/types/common"
)

// Trigger is a dated legal event that starts one or more procedural clocks.
// The trigger is the authority for its dependent deadlines: editing its date
// or service method regenerates the cascade.
type Trigger struct {
	ID             common.ID     `json:"id"`
	CaseID         common.ID     `json:"caseId"`
	TriggerType    string        `json:"triggerType"`
	TriggerDate    time.Time     `json:"triggerDate"`
	ServiceMethod  ServiceMethod `json:"serviceMethod"`
	RuleTemplateID string        `json:"ruleTemplateId"`
	Jurisdiction   string        `json:"jurisdiction"`
	Status         TriggerStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// NewTrigger validates and builds a pending trigger.
func NewTrigger(caseID common.ID, triggerType string, triggerDate time.Time, service ServiceMethod, ruleTemplateID, jurisdiction string, at time.Time) (*Trigger, error) {
	if caseID.IsEmpty() {
		return nil, errors.New(errors.ErrCodeValidation, "case id is required")
	}
	if triggerType == "" {
		return nil, errors.New(errors.ErrCodeValidation, "trigger type is required")
	}
	if triggerDate.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidDate, "trigger date is required")
	}
	if !service.Valid() {
		return nil, errors.Newf(errors.ErrCodeValidation, "unknown service method %q", service)
	}
	if ruleTemplateID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "rule template id is required")
	}
	return &Trigger{
		ID:             common.NewID(),
		CaseID:         caseID,
		TriggerType:    triggerType,
		TriggerDate:    NormalizeDate(triggerDate),
		ServiceMethod:  service,
		RuleTemplateID: ruleTemplateID,
		Jurisdiction:   jurisdiction,
		Status:         TriggerPending,
		CreatedAt:      at,
		UpdatedAt:      at,
	}, nil
}

// Activate moves a pending trigger to active, performed once its cascade has
// been expanded.
func (t *Trigger) Activate(at time.Time) error {
	if t.Status != TriggerPending {
		return errors.Newf(errors.ErrCodeTriggerStateInvalid, "cannot activate trigger in status %s", t.Status)
	}
	t.Status = TriggerActive
	t.UpdatedAt = at
	return nil
}

// Complete marks an active trigger as completed.
func (t *Trigger) Complete(at time.Time) error {
	if t.Status != TriggerActive {
		return errors.Newf(errors.ErrCodeTriggerStateInvalid, "cannot complete trigger in status %s", t.Status)
	}
	t.Status = TriggerCompleted
	t.UpdatedAt = at
	return nil
}

// Cancel soft-deletes the trigger.  Cancelled triggers are retained while
// dependent deadlines exist rather than purged.
func (t *Trigger) Cancel(at time.Time) error {
	if t.Status.Terminal() {
		return errors.Newf(errors.ErrCodeTriggerStateInvalid, "cannot cancel trigger in status %s", t.Status)
	}
	t.Status = TriggerCancelled
	t.UpdatedAt = at
	return nil
}

// Reschedule updates the trigger date and service method ahead of a cascade
// recalculation.
func (t *Trigger) Reschedule(triggerDate time.Time, service ServiceMethod, at time.Time) error {
	if t.Status.Terminal() {
		return errors.Newf(errors.ErrCodeTriggerStateInvalid, "cannot reschedule trigger in status %s", t.Status)
	}
	if triggerDate.IsZero() {
		return errors.New(errors.ErrCodeInvalidDate, "trigger date is required")
	}
	if !service.Valid() {
		return errors.Newf(errors.ErrCodeValidation, "unknown service method %q", service)
	}
	t.TriggerDate = NormalizeDate(triggerDate)
	t.ServiceMethod = service
	t.UpdatedAt = at
	return nil
}

// Deadline is a single computed date obligation.  When generated from a rule
// template it is owned by its trigger; manually created deadlines have an
// empty TriggerID.
type Deadline struct {
	ID             common.ID          `json:"id"`
	TriggerID      common.ID          `json:"triggerId,omitempty"`
	SpecID         string             `json:"specId,omitempty"`
	Title          string             `json:"title"`
	DeadlineDate   time.Time          `json:"deadlineDate"`
	Priority       Priority           `json:"priority"`
	Status         DeadlineStatus     `json:"status"`
	ApplicableRule string             `json:"applicableRule"`
	Calculation    *CalculationResult `json:"calculationResult,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// Complete marks the deadline as satisfied.  Completed deadlines are the
// historical record and are never silently recalculated.
func (d *Deadline) Complete(at time.Time) error {
	if d.Status != DeadlinePending {
		return errors.Newf(errors.ErrCodeTriggerStateInvalid, "cannot complete deadline in status %s", d.Status)
	}
	d.Status = DeadlineCompleted
	d.UpdatedAt = at
	return nil
}

// Cancel marks the deadline as no longer applicable.
func (d *Deadline) Cancel(at time.Time) error {
	if d.Status != DeadlinePending {
		return errors.Newf(errors.ErrCodeTriggerStateInvalid, "cannot cancel deadline in status %s", d.Status)
	}
	d.Status = DeadlineCancelled
	d.UpdatedAt = at
	return nil
}

// Detach severs ownership from the trigger while preserving the record,
// used when a trigger is deleted but this deadline was already completed.
func (d *Deadline) Detach(at time.Time) {
	d.TriggerID = ""
	d.UpdatedAt = at
}

// Reschedule updates the date and calculation after a cascade recalculation.
func (d *Deadline) Reschedule(date time.Time, calc *CalculationResult, at time.Time) error {
	if d.Status == DeadlineCompleted {
		return errors.Newf(errors.ErrCodeRecalculationConflict, "deadline %s is completed and cannot be rescheduled", d.ID)
	}
	d.DeadlineDate = NormalizeDate(date)
	d.Calculation = calc
	d.UpdatedAt = at
	return nil
}
