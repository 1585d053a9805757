package rules

import (
	"sort"

	"github.com/turtacn/LexDocket/pkg/errors"
)

// Registry looks up rule templates.  Read-only at runtime and safe for
// concurrent reads.
type Registry interface {
	// TemplatesFor returns the templates matching the jurisdiction, court type
	// and trigger type.  A jurisdiction with no templates at all fails with a
	// not-onboarded error; an onboarded jurisdiction with no matching template
	// returns an empty slice, so callers can tell "no rules apply" apart from
	// "jurisdiction not onboarded".
	TemplatesFor(jurisdiction, courtType, triggerType string) ([]*RuleTemplate, error)

	// TemplateByID returns the template with the given rule id.
	TemplateByID(ruleID string) (*RuleTemplate, error)

	// Jurisdictions lists the onboarded jurisdictions, sorted.
	Jurisdictions() []string
}

type matchKey struct {
	courtType   string
	triggerType string
}

// InMemoryRegistry indexes templates by jurisdiction and match key.  All
// registration happens at startup; lookups after that need no locking.
type InMemoryRegistry struct {
	byID           map[string]*RuleTemplate
	byJurisdiction map[string]map[matchKey][]*RuleTemplate
}

// NewInMemoryRegistry builds an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		byID:           make(map[string]*RuleTemplate),
		byJurisdiction: make(map[string]map[matchKey][]*RuleTemplate),
	}
}

// Register validates and indexes a template.
func (r *InMemoryRegistry) Register(t *RuleTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, dup := r.byID[t.RuleID]; dup {
		return errors.Newf(errors.ErrCodeRuleTemplateInvalid, "duplicate rule id %q", t.RuleID)
	}
	r.byID[t.RuleID] = t
	keys := r.byJurisdiction[t.Jurisdiction]
	if keys == nil {
		keys = make(map[matchKey][]*RuleTemplate)
		r.byJurisdiction[t.Jurisdiction] = keys
	}
	k := matchKey{courtType: t.CourtType, triggerType: t.TriggerType}
	keys[k] = append(keys[k], t)
	return nil
}

// MustRegister is Register that panics on failure.  Intended for the built-in
// catalog, where a bad template is a programming error.
func (r *InMemoryRegistry) MustRegister(t *RuleTemplate) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

func (r *InMemoryRegistry) TemplatesFor(jurisdiction, courtType, triggerType string) ([]*RuleTemplate, error) {
	keys, ok := r.byJurisdiction[jurisdiction]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeJurisdictionNotOnboarded,
			"jurisdiction %q has no rule templates", jurisdiction)
	}
	matches := keys[matchKey{courtType: courtType, triggerType: triggerType}]
	out := make([]*RuleTemplate, len(matches))
	copy(out, matches)
	return out, nil
}

func (r *InMemoryRegistry) TemplateByID(ruleID string) (*RuleTemplate, error) {
	t, ok := r.byID[ruleID]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeRuleTemplateNotFound, "rule template %q not found", ruleID)
	}
	return t, nil
}

// TemplatesIn returns every template of a jurisdiction, ordered by rule id.
func (r *InMemoryRegistry) TemplatesIn(jurisdiction string) []*RuleTemplate {
	var out []*RuleTemplate
	for _, t := range r.byID {
		if t.Jurisdiction == jurisdiction {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out
}

func (r *InMemoryRegistry) Jurisdictions() []string {
	out := make([]string, 0, len(r.byJurisdiction))
	for j := range r.byJurisdiction {
		out = append(out, j)
	}
	sort.Strings(out)
	return out
}
