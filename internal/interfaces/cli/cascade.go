package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/internal/domain/rules"
)

type cascadeOptions struct {
	templateID  string
	triggerDate string
	service     string
}

func newCascadeCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Work with rule template cascades",
	}
	cmd.AddCommand(newCascadeExpandCommand(root))
	cmd.AddCommand(newCascadeTemplatesCommand(root))
	return cmd
}

// cascadePreviewEntry is one previewed deadline of a template expansion.
type cascadePreviewEntry struct {
	SpecID   string                    `json:"specId"`
	Title    string                    `json:"title"`
	Priority docket.Priority           `json:"priority"`
	Result   *docket.CalculationResult `json:"result"`
}

func newCascadeExpandCommand(root *RootOptions) *cobra.Command {
	opts := &cascadeOptions{}
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Preview the deadlines a trigger would generate",
		Example: `  lexdocket cascade expand --template frcp-trial-date --trigger 2024-09-02
  lexdocket cascade expand --template frcp-complaint-served --trigger 2024-01-10 --service CERTIFIED_MAIL -o table`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := rules.NewBuiltinRegistry()
			template, err := registry.TemplateByID(opts.templateID)
			if err != nil {
				return err
			}
			triggerDate, err := docket.ParseDate(opts.triggerDate)
			if err != nil {
				return err
			}
			service, err := docket.ParseServiceMethod(opts.service)
			if err != nil {
				return err
			}

			calc := docket.NewCalculator(calendar.NewRuleProvider(), docket.NewTableResolver())
			preview := make([]cascadePreviewEntry, 0, len(template.Specs))
			for _, spec := range template.Specs {
				result, err := calc.Calculate(docket.CalculationInput{
					TriggerDate:  triggerDate,
					BaseDays:     spec.DaysFromTrigger,
					Method:       spec.CountingMethod,
					Service:      service,
					Jurisdiction: template.Jurisdiction,
				})
				if err != nil {
					return err
				}
				preview = append(preview, cascadePreviewEntry{
					SpecID:   spec.SpecID,
					Title:    spec.Title,
					Priority: spec.Priority,
					Result:   result,
				})
			}
			return renderCascadePreview(cmd, root.Output, template, preview)
		},
	}
	cmd.Flags().StringVar(&opts.templateID, "template", "", "rule template id")
	cmd.Flags().StringVar(&opts.triggerDate, "trigger", "", "trigger date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.service, "service", string(docket.ServicePersonal), "service method")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("trigger")
	return cmd
}

func renderCascadePreview(cmd *cobra.Command, output string, template *rules.RuleTemplate, preview []cascadePreviewEntry) error {
	out := cmd.OutOrStdout()
	switch output {
	case "json":
		return printJSON(out, map[string]interface{}{
			"template": template.RuleID,
			"citation": template.Citation,
			"preview":  preview,
		})
	case "table":
		rows := make([][]string, 0, len(preview))
		for _, p := range preview {
			rows = append(rows, []string{
				p.SpecID, p.Title, string(p.Priority),
				docket.FormatDate(p.Result.DeadlineDate),
				fmt.Sprintf("%d", len(p.Result.AuditLog)),
			})
		}
		formatTable(out, []string{"SPEC", "TITLE", "PRIORITY", "DEADLINE", "AUDIT STEPS"}, rows)
		return nil
	default:
		fmt.Fprintf(out, "Template %s (%s): %d deadlines\n", template.RuleID, template.Citation, len(preview))
		for _, p := range preview {
			fmt.Fprintf(out, "  %-12s %s -> %s (%s)\n",
				p.Priority, p.Title, docket.FormatDate(p.Result.DeadlineDate), p.Result.DeadlineDate.Weekday())
		}
		return nil
	}
}

func newCascadeTemplatesCommand(root *RootOptions) *cobra.Command {
	var jurisdiction string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the built-in rule templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := rules.NewBuiltinRegistry()
			out := cmd.OutOrStdout()

			jurisdictions := registry.Jurisdictions()
			if jurisdiction != "" {
				jurisdictions = []string{jurisdiction}
			}
			var rows [][]string
			for _, j := range jurisdictions {
				for _, t := range registry.TemplatesIn(j) {
					rows = append(rows, []string{t.RuleID, t.Jurisdiction, t.CourtType, t.TriggerType,
						fmt.Sprintf("%d", len(t.Specs))})
				}
			}
			if root.Output == "json" {
				return printJSON(out, rows)
			}
			formatTable(out, []string{"RULE", "JURISDICTION", "COURT", "TRIGGER", "SPECS"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "", "filter by jurisdiction")
	return cmd
}
