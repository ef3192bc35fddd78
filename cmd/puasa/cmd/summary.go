package cmd

import (
	"github.com/spf13/cobra"

	"github.com/waktunyapuasa/puasa/internal/dateiso"
)

func SummaryCmd() *cobra.Command {
	var (
		year int
		asOf string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print progress through a year's Ramadan window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			if asOf == "" {
				asOf = todayIn(a.Cfg.DefaultTimeZone)
			}
			if year == 0 {
				year, err = dateiso.Year(asOf)
				if err != nil {
					return err
				}
			}

			summary, err := a.ProgressService.Summary(cmd.Context(), year, asOf)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Gregorian year (default: year of --as-of)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "YYYY-MM-DD date to count up to (default: today)")
	return cmd
}
