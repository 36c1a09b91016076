package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbruna/tempo/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date    string
		start   string
		end     string
		energy  string
		urgency string
		notes   string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a new task to your schedule.

Without --date the task goes to the inbox. Without --start it becomes an
untimed entry for the day.

Example:
  tempo add "Write documentation" --date=2026-01-10 --start=09:00 --end=11:00 --energy=high`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var due time.Time
			if date != "" {
				var err error
				due, err = time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("parsing date: %w", err)
				}
			}

			t, err := task.New(args[0], due, start, end, task.EnergyLevel(energy), task.Urgency(urgency))
			if err != nil {
				return err
			}
			t.Notes = notes

			rem, err := a.openRemote()
			if err != nil {
				return err
			}
			created, err := rem.Insert(context.Background(), t)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			fmt.Printf("Created %s: %s%s\n", shortID(created.ID), created.Title, scheduleSuffix(created))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Scheduled date (YYYY-MM-DD, empty for inbox)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&energy, "energy", "", "Energy: low, medium or high")
	cmd.Flags().StringVar(&urgency, "urgency", "", "Urgency: low, medium or high")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

// scheduleSuffix formats the scheduling part of a task for CLI output.
func scheduleSuffix(t *task.Task) string {
	if t.DueDate == nil {
		return " (inbox)"
	}
	s := " " + t.DueDate.Format("2006-01-02")
	if t.Timed() {
		s += " " + t.Start()
		if t.EndTime != nil {
			s += "-" + t.End()
		}
	}
	return s
}
