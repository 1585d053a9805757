package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/LexDocket/internal/application/deadlines"
	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/internal/domain/docket"
)

type calcOptions struct {
	triggerDate  string
	baseDays     int
	method       string
	service      string
	jurisdiction string
}

func newCalcCommand(root *RootOptions) *cobra.Command {
	opts := &calcOptions{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a single deadline with its audit trail",
		Example: `  lexdocket calc --trigger 2024-01-10 --days 3 --method BUSINESS
  lexdocket calc --trigger 2024-01-10 --days 21 --method CALENDAR --service CERTIFIED_MAIL --jurisdiction federal -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := deadlines.NewService(
				docket.NewCalculator(calendar.NewRuleProvider(), docket.NewTableResolver()),
				calendar.NewRuleProvider(), nil, nil)

			result, err := svc.Calculate(deadlines.CalculateRequest{
				TriggerDate:    opts.triggerDate,
				BaseDays:       opts.baseDays,
				CountingMethod: opts.method,
				ServiceMethod:  opts.service,
				Jurisdiction:   opts.jurisdiction,
			})
			if err != nil {
				return err
			}
			return renderCalculation(cmd, root.Output, result)
		},
	}
	cmd.Flags().StringVar(&opts.triggerDate, "trigger", "", "trigger date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.baseDays, "days", 0, "base day count (negative counts backward)")
	cmd.Flags().StringVar(&opts.method, "method", string(docket.CountingCalendar), "counting method: CALENDAR, BUSINESS, COURT or RETROGRADE")
	cmd.Flags().StringVar(&opts.service, "service", string(docket.ServicePersonal), "service method: PERSONAL, CERTIFIED_MAIL, FIRST_CLASS_MAIL or ELECTRONIC")
	cmd.Flags().StringVar(&opts.jurisdiction, "jurisdiction", "federal", "jurisdiction code")
	_ = cmd.MarkFlagRequired("trigger")
	return cmd
}

func renderCalculation(cmd *cobra.Command, output string, result *docket.CalculationResult) error {
	out := cmd.OutOrStdout()
	switch output {
	case "json":
		return printJSON(out, result)
	case "table":
		rows := make([][]string, 0, len(result.AuditLog))
		for _, e := range result.AuditLog {
			rows = append(rows, []string{fmt.Sprintf("%d", e.Step), string(e.Action), e.Notes})
		}
		formatTable(out, []string{"STEP", "ACTION", "NOTES"}, rows)
		return nil
	default:
		fmt.Fprintf(out, "Trigger date:   %s\n", docket.FormatDate(result.TriggerDate))
		fmt.Fprintf(out, "Deadline date:  %s (%s)\n", docket.FormatDate(result.DeadlineDate), result.DeadlineDate.Weekday())
		fmt.Fprintf(out, "Method:         %s\n", result.CountingMethod)
		fmt.Fprintf(out, "Base days:      %d\n", result.BaseDays)
		fmt.Fprintf(out, "Service days:   %d\n", result.ServiceDaysAdded)
		fmt.Fprintf(out, "Weekends skipped: %d, holidays skipped: %d\n", result.WeekendsSkipped, result.HolidaysSkipped)
		fmt.Fprintln(out, "Audit trail:")
		for _, e := range result.AuditLog {
			fmt.Fprintf(out, "  %2d. [%s] %s\n", e.Step, e.Action, e.Notes)
		}
		return nil
	}
}
