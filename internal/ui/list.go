package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbruna/tempo/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var (
		date  string
		all   bool
		inbox bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks for a day, the inbox, or everything.

Without flags, lists today's tasks.`,
		Example: `  tempo list
  tempo list --date=2026-01-15
  tempo list --inbox
  tempo list --all`,
		RunE: func(_ *cobra.Command, _ []string) error {
			rem, err := a.openRemote()
			if err != nil {
				return err
			}
			tasks, err := rem.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			switch {
			case all:
				printAll(tasks)
			case inbox:
				printTasks("inbox", task.Inbox(tasks))
			default:
				day := task.DateOnly(time.Now())
				if date != "" {
					day, err = time.ParseInLocation("2006-01-02", date, time.Local)
					if err != nil {
						return fmt.Errorf("parsing date: %w", err)
					}
				}
				d := task.NewDay(day, tasks)
				printTasks(day.Format("2006-01-02"), append(d.Timed(), d.Untimed()...))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to list (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&all, "all", false, "List every task grouped by day")
	cmd.Flags().BoolVar(&inbox, "inbox", false, "List unscheduled inbox tasks")

	return cmd
}

func printAll(tasks []*task.Task) {
	var currentDate string
	scheduled := 0
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		scheduled++
		date := t.DueDate.Format("2006-01-02")
		if date != currentDate {
			if currentDate != "" {
				fmt.Println()
			}
			fmt.Println(formatHeader("=== " + date + " ==="))
			currentDate = date
		}
		printTask(t)
	}
	if scheduled == 0 {
		fmt.Println("No scheduled tasks.")
	}
	if in := task.Inbox(tasks); len(in) > 0 {
		fmt.Println()
		printTasks("inbox", in)
	}
}

func printTasks(header string, tasks []*task.Task) {
	fmt.Println(formatHeader("=== " + header + " ==="))
	if len(tasks) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for _, t := range tasks {
		printTask(t)
	}
}

func printTask(t *task.Task) {
	mark := "○"
	if t.Completed {
		mark = "●"
	}
	when := "       "
	if t.Timed() {
		when = t.Start()
		if t.EndTime != nil {
			when += "-" + t.End()
		}
	}
	line := fmt.Sprintf("  %s %s %-11s %s", mark, shortID(t.ID), when, t.Title)
	fmt.Println(formatEnergy(string(t.Energy), line))
}
