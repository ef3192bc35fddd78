package cmd

import (
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Materialise the numbered Ramadan days of a year (sql store only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			result, err := a.CalendarService.SeedDays(cmd.Context(), year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Gregorian year of the Ramadan window")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}
