package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/pkg/errors"
)

func TestBuiltinRegistryLoads(t *testing.T) {
	r := NewBuiltinRegistry()
	assert.Equal(t, []string{"federal", "florida_state"}, r.Jurisdictions())

	template, err := r.TemplateByID("frcp-trial-date")
	require.NoError(t, err)
	assert.Len(t, template.Specs, 5)
	assert.Equal(t, "trial_date", template.TriggerType)
}

func TestTemplatesForMatch(t *testing.T) {
	r := NewBuiltinRegistry()
	templates, err := r.TemplatesFor("federal", "district", "complaint_served")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "frcp-complaint-served", templates[0].RuleID)
}

func TestTemplatesForNoMatchIsEmptyNotError(t *testing.T) {
	r := NewBuiltinRegistry()
	// Federal is onboarded but has no bankruptcy templates: no rules apply.
	templates, err := r.TemplatesFor("federal", "bankruptcy", "complaint_served")
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestTemplatesForUnknownJurisdictionFails(t *testing.T) {
	r := NewBuiltinRegistry()
	_, err := r.TemplatesFor("atlantis", "district", "complaint_served")
	assert.True(t, errors.IsCode(err, errors.ErrCodeJurisdictionNotOnboarded))
}

func TestTemplateByIDNotFound(t *testing.T) {
	r := NewBuiltinRegistry()
	_, err := r.TemplateByID("no-such-rule")
	assert.True(t, errors.IsNotFound(err))
}

func TestRegisterRejectsInvalidTemplates(t *testing.T) {
	r := NewInMemoryRegistry()

	err := r.Register(&RuleTemplate{RuleID: "empty", Jurisdiction: "federal", CourtType: "district", TriggerType: "x"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeRuleTemplateInvalid), "no specs")

	err = r.Register(&RuleTemplate{
		RuleID: "dup-specs", Jurisdiction: "federal", CourtType: "district", TriggerType: "x",
		Specs: []DeadlineSpec{
			{SpecID: "a", Title: "A", DaysFromTrigger: 1, CountingMethod: docket.CountingCalendar, Priority: docket.PriorityStandard},
			{SpecID: "a", Title: "B", DaysFromTrigger: 2, CountingMethod: docket.CountingCalendar, Priority: docket.PriorityStandard},
		},
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeRuleTemplateInvalid), "duplicate spec ids")

	err = r.Register(&RuleTemplate{
		RuleID: "bad-method", Jurisdiction: "federal", CourtType: "district", TriggerType: "x",
		Specs: []DeadlineSpec{
			{SpecID: "a", Title: "A", DaysFromTrigger: 1, CountingMethod: "LUNAR", Priority: docket.PriorityStandard},
		},
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeRuleTemplateInvalid), "bad counting method")
}

func TestRegisterRejectsDuplicateRuleID(t *testing.T) {
	r := NewInMemoryRegistry()
	template := &RuleTemplate{
		RuleID: "dup", Jurisdiction: "federal", CourtType: "district", TriggerType: "x",
		Specs: []DeadlineSpec{
			{SpecID: "a", Title: "A", DaysFromTrigger: 1, CountingMethod: docket.CountingCalendar, Priority: docket.PriorityStandard},
		},
	}
	require.NoError(t, r.Register(template))
	err := r.Register(template)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRuleTemplateInvalid))
}

func TestTemplatesInOrdering(t *testing.T) {
	r := NewBuiltinRegistry()
	templates := r.TemplatesIn("federal")
	require.Len(t, templates, 3)
	assert.Equal(t, "frcp-complaint-served", templates[0].RuleID)
	assert.Equal(t, "frcp-discovery-served", templates[1].RuleID)
	assert.Equal(t, "frcp-trial-date", templates[2].RuleID)
}
