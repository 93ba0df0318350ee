package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/bazi-api/internal/calendar"
)

func termsCmd(g *globals) *cobra.Command {
	var month int

	cmd := &cobra.Command{
		Use:   "terms YEAR",
		Short: "List the 24 solar terms of a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1 || year > 9998 {
				return fmt.Errorf("invalid year %q: use 1-9998", args[0])
			}

			var terms []calendar.TermDate
			switch {
			case month == 0:
				terms = calendar.TermsForYear(year)
			case month >= 1 && month <= 12:
				terms = calendar.TermsForMonth(year, month)
			default:
				return fmt.Errorf("--month must be between 1 and 12, got %d", month)
			}
			return g.render(cmd.OutOrStdout(), terms)
		},
	}

	cmd.Flags().IntVarP(&month, "month", "m", 0, "only the terms falling in this calendar month")
	return cmd
}

func lunarCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lunar YYYY-MM-DD",
		Short: "Label a Gregorian date with lunar names and its cyclic year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
			}
			lunar, ok := calendar.ToLunar(date.Year(), int(date.Month()), date.Day())
			if !ok {
				return fmt.Errorf("invalid date %q", args[0])
			}
			return g.render(cmd.OutOrStdout(), lunar)
		},
	}
}
