package rules

import "github.com/turtacn/LexDocket/internal/domain/docket"

// NewBuiltinRegistry returns a registry pre-loaded with the standard federal
// district and Florida circuit court templates.  Production deployments layer
// harvested templates on top of this baseline.
func NewBuiltinRegistry() *InMemoryRegistry {
	r := NewInMemoryRegistry()
	for _, t := range builtinTemplates() {
		r.MustRegister(t)
	}
	return r
}

func builtinTemplates() []*RuleTemplate {
	return []*RuleTemplate{
		{
			RuleID:       "frcp-complaint-served",
			Jurisdiction: "federal",
			CourtType:    "district",
			TriggerType:  "complaint_served",
			Citation:     "Fed. R. Civ. P. 12(a)(1)(A)(i)",
			Specs: []DeadlineSpec{
				{
					SpecID:           "answer-due",
					Title:            "Answer or Rule 12 Motion Due",
					DaysFromTrigger:  21,
					CountingMethod:   docket.CountingCalendar,
					Priority:         docket.PriorityFatal,
					PartyResponsible: "defendant",
					Citation:         "Fed. R. Civ. P. 12(a)(1)(A)(i)",
				},
				{
					SpecID:           "corporate-disclosure",
					Title:            "Corporate Disclosure Statement Due",
					DaysFromTrigger:  21,
					CountingMethod:   docket.CountingCalendar,
					Priority:         docket.PriorityStandard,
					PartyResponsible: "defendant",
					Citation:         "Fed. R. Civ. P. 7.1(b)(1)",
				},
			},
		},
		{
			RuleID:       "frcp-discovery-served",
			Jurisdiction: "federal",
			CourtType:    "district",
			TriggerType:  "discovery_served",
			Citation:     "Fed. R. Civ. P. 33(b)(2), 34(b)(2)(A), 36(a)(3)",
			Specs: []DeadlineSpec{
				{
					SpecID:           "discovery-responses",
					Title:            "Responses to Written Discovery Due",
					DaysFromTrigger:  30,
					CountingMethod:   docket.CountingCalendar,
					Priority:         docket.PriorityCritical,
					PartyResponsible: "responding party",
					Citation:         "Fed. R. Civ. P. 33(b)(2)",
				},
			},
		},
		{
			RuleID:       "frcp-trial-date",
			Jurisdiction: "federal",
			CourtType:    "district",
			TriggerType:  "trial_date",
			Citation:     "Fed. R. Civ. P. 26(a)(3); local pretrial order practice",
			Specs: []DeadlineSpec{
				{
					SpecID:          "pretrial-disclosures",
					Title:           "Pretrial Disclosures Due",
					DaysFromTrigger: 30,
					CountingMethod:  docket.CountingRetrograde,
					Priority:        docket.PriorityCritical,
					Citation:        "Fed. R. Civ. P. 26(a)(3)(B)",
				},
				{
					SpecID:          "motions-in-limine",
					Title:           "Motions in Limine Due",
					DaysFromTrigger: 21,
					CountingMethod:  docket.CountingRetrograde,
					Priority:        docket.PriorityImportant,
					Citation:        "local pretrial order practice",
				},
				{
					SpecID:          "disclosure-objections",
					Title:           "Objections to Pretrial Disclosures Due",
					DaysFromTrigger: 14,
					CountingMethod:  docket.CountingRetrograde,
					Priority:        docket.PriorityImportant,
					Citation:        "Fed. R. Civ. P. 26(a)(3)(B)",
				},
				{
					SpecID:          "jury-instructions",
					Title:           "Proposed Jury Instructions Due",
					DaysFromTrigger: 14,
					CountingMethod:  docket.CountingRetrograde,
					Priority:        docket.PriorityStandard,
					Citation:        "local pretrial order practice",
				},
				{
					SpecID:          "exhibit-exchange",
					Title:           "Final Exhibit and Witness Lists Exchanged",
					DaysFromTrigger: 7,
					CountingMethod:  docket.CountingRetrograde,
					Priority:        docket.PriorityCritical,
					Citation:        "local pretrial order practice",
				},
			},
		},
		{
			RuleID:       "fla-complaint-served",
			Jurisdiction: "florida_state",
			CourtType:    "circuit",
			TriggerType:  "complaint_served",
			Citation:     "Fla. R. Civ. P. 1.140(a)(1)",
			Specs: []DeadlineSpec{
				{
					SpecID:           "answer-due",
					Title:            "Answer or Motion Due",
					DaysFromTrigger:  20,
					CountingMethod:   docket.CountingCalendar,
					Priority:         docket.PriorityFatal,
					PartyResponsible: "defendant",
					Citation:         "Fla. R. Civ. P. 1.140(a)(1)",
				},
			},
		},
		{
			RuleID:       "fla-trial-order",
			Jurisdiction: "florida_state",
			CourtType:    "circuit",
			TriggerType:  "trial_date",
			Citation:     "Fla. R. Civ. P. 1.200; uniform trial order practice",
			Specs: []DeadlineSpec{
				{
					SpecID:          "witness-lists",
					Title:           "Witness and Exhibit Lists Due",
					DaysFromTrigger: 45,
					CountingMethod:  docket.CountingRetrograde,
					Priority:        docket.PriorityCritical,
					Citation:        "uniform trial order practice",
				},
				{
					SpecID:          "expert-disclosure",
					Title:           "Expert Witness Disclosure Due",
					DaysFromTrigger: 60,
					CountingMethod:  docket.CountingRetrograde,
					Priority:        docket.PriorityCritical,
					Citation:        "uniform trial order practice",
				},
				{
					SpecID:          "pretrial-conference-memo",
					Title:           "Pretrial Conference Memorandum Due",
					DaysFromTrigger: 10,
					CountingMethod:  docket.CountingRetrograde,
					Priority:        docket.PriorityImportant,
					Citation:        "Fla. R. Civ. P. 1.200(b)",
				},
			},
		},
	}
}
