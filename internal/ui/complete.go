package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbruna/tempo/internal/task"
)

func (a *App) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [id]",
		Short: "Mark a task as completed",
		Long: `Mark a task as completed by id. An unambiguous id prefix is enough.

Example:
  tempo complete 3f2a`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rem, err := a.openRemote()
			if err != nil {
				return err
			}
			ctx := context.Background()

			t, err := resolvePrefix(ctx, rem, args[0])
			if err != nil {
				return err
			}

			t.Completed = true
			if err := rem.Update(ctx, t.ID, t); err != nil {
				return fmt.Errorf("updating task: %w", err)
			}

			fmt.Printf("Completed %s: %s\n", shortID(t.ID), t.Title)
			return nil
		},
	}
}

// resolvePrefix finds the unique task whose id starts with the given prefix.
func resolvePrefix(ctx context.Context, lister interface {
	ListTasks(ctx context.Context) ([]*task.Task, error)
}, prefix string) (*task.Task, error) {
	tasks, err := lister.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var match *task.Task
	for _, t := range tasks {
		if !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous id prefix %q", prefix)
		}
		match = t
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, prefix)
	}
	return match, nil
}
