package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/model"
	"github.com/waktunyapuasa/puasa/internal/service"
)

func CheckinCmd() *cobra.Command {
	var (
		year   int
		date   string
		status string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record a day's answer; refused if the day is already answered",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			if date == "" {
				date = todayIn(a.Cfg.DefaultTimeZone)
			}
			if year == 0 {
				year, err = dateiso.Year(date)
				if err != nil {
					return err
				}
			}

			in := service.SubmitCheckin{
				Year:    year,
				DateISO: date,
				Status:  model.CheckinStatus(status),
			}
			if cmd.Flags().Changed("reason") {
				in.Reason = &reason
			}

			result, err := a.CheckinService.Submit(cmd.Context(), in)
			if err != nil {
				return err
			}
			err = printJSON(cmd.OutOrStdout(), result)
			if err != nil {
				return err
			}
			if !result.OK {
				return fmt.Errorf("checkin refused: %s", result.Reason)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Gregorian year (default: year of --date)")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD date (default: today)")
	cmd.Flags().StringVar(&status, "status", "", "fasting or not_fasting")
	cmd.Flags().StringVar(&reason, "reason", "", "why not fasting (at least 5 characters)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}
