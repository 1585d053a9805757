// Package rules holds the procedural rule template catalog.  Templates are
// authority-sourced and read-only at runtime; the separate rule-harvesting and
// review workflow populates them.
package rules

import (
	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/pkg/errors"
)

// DeadlineSpec describes one dependent deadline derived from a trigger.
//
// SpecID is a stable identifier unique within its template.  Cascade
// reconciliation matches deadlines to specs by SpecID, so edits to a spec's
// title or offset never orphan or duplicate existing deadlines.
type DeadlineSpec struct {
	SpecID           string                `json:"specId"`
	Title            string                `json:"title"`
	DaysFromTrigger  int                   `json:"daysFromTrigger"`
	CountingMethod   docket.CountingMethod `json:"countingMethod"`
	Priority         docket.Priority       `json:"priority"`
	PartyResponsible string                `json:"partyResponsible,omitempty"`
	Citation         string                `json:"citation"`
}

// RuleTemplate is one procedural rule: a trigger type in a jurisdiction and
// court, fanning out into an ordered sequence of dependent deadline specs.
type RuleTemplate struct {
	RuleID       string         `json:"ruleId"`
	Jurisdiction string         `json:"jurisdiction"`
	CourtType    string         `json:"courtType"`
	TriggerType  string         `json:"triggerType"`
	Citation     string         `json:"citation"`
	Specs        []DeadlineSpec `json:"dependentDeadlineSpecs"`
}

// Validate checks structural integrity before a template enters the registry.
func (t *RuleTemplate) Validate() error {
	if t.RuleID == "" {
		return errors.New(errors.ErrCodeRuleTemplateInvalid, "rule id is required")
	}
	if t.Jurisdiction == "" || t.CourtType == "" || t.TriggerType == "" {
		return errors.Newf(errors.ErrCodeRuleTemplateInvalid,
			"template %s: jurisdiction, court type and trigger type are required", t.RuleID)
	}
	if len(t.Specs) == 0 {
		return errors.Newf(errors.ErrCodeRuleTemplateInvalid, "template %s has no deadline specs", t.RuleID)
	}
	seen := make(map[string]struct{}, len(t.Specs))
	for _, s := range t.Specs {
		if s.SpecID == "" {
			return errors.Newf(errors.ErrCodeRuleTemplateInvalid, "template %s: spec id is required", t.RuleID)
		}
		if _, dup := seen[s.SpecID]; dup {
			return errors.Newf(errors.ErrCodeRuleTemplateInvalid, "template %s: duplicate spec id %q", t.RuleID, s.SpecID)
		}
		seen[s.SpecID] = struct{}{}
		if s.Title == "" {
			return errors.Newf(errors.ErrCodeRuleTemplateInvalid, "template %s spec %s: title is required", t.RuleID, s.SpecID)
		}
		if !s.CountingMethod.Valid() {
			return errors.Newf(errors.ErrCodeRuleTemplateInvalid,
				"template %s spec %s: unknown counting method %q", t.RuleID, s.SpecID, s.CountingMethod)
		}
		if !s.Priority.Valid() {
			return errors.Newf(errors.ErrCodeRuleTemplateInvalid,
				"template %s spec %s: unknown priority %q", t.RuleID, s.SpecID, s.Priority)
		}
	}
	return nil
}
