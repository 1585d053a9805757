package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/LexDocket/internal/application/deadlines"
	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/internal/domain/docket"
)

func newHolidaysCommand(root *RootOptions) *cobra.Command {
	var (
		jurisdiction string
		year         int
	)
	cmd := &cobra.Command{
		Use:     "holidays",
		Short:   "List the court holiday calendar for a jurisdiction and year",
		Example: `  lexdocket holidays --jurisdiction federal --year 2024`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider := calendar.NewRuleProvider()
			svc := deadlines.NewService(
				docket.NewCalculator(provider, docket.NewTableResolver()), provider, nil, nil)

			holidays, err := svc.Holidays(jurisdiction, year)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch root.Output {
			case "json":
				return printJSON(out, holidays)
			case "table":
				rows := make([][]string, 0, len(holidays))
				for _, h := range holidays {
					rows = append(rows, []string{
						docket.FormatDate(h.Date), h.Date.Weekday().String(), h.Name, string(h.Scope)})
				}
				formatTable(out, []string{"DATE", "WEEKDAY", "NAME", "SCOPE"}, rows)
				return nil
			default:
				fmt.Fprintf(out, "%s %d: %d court holidays\n", jurisdiction, year, len(holidays))
				for _, h := range holidays {
					fmt.Fprintf(out, "  %s (%s)  %s\n", docket.FormatDate(h.Date), h.Date.Weekday(), h.Name)
				}
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&jurisdiction, "jurisdiction", "federal", "jurisdiction code")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}
