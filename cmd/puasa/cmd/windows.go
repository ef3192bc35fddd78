package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/waktunyapuasa/puasa/internal/calendar"
)

func WindowsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List the supported Ramadan windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar.Load(file)
			if err != nil {
				return err
			}
			return printWindows(cmd.OutOrStdout(), cal)
		},
	}

	cmd.Flags().StringVar(&file, "calendar", os.Getenv("CALENDAR_FILE"), "YAML file extending the built-in table")
	return cmd
}

func printWindows(w io.Writer, cal *calendar.Calendar) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tSTART\tEND\tDAYS")
	for _, window := range cal.Windows() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", window.Year, window.StartDate, calendar.EndDate(window), window.LengthDays)
	}
	return tw.Flush()
}
