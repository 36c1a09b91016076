// Package ui provides the command line interface for tempo.
package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbruna/tempo/internal/config"
	"github.com/mbruna/tempo/internal/remote"
	"github.com/mbruna/tempo/internal/store"
	"github.com/mbruna/tempo/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	root   *cobra.Command
	debug  bool

	remote *remote.SQLite // opened lazily, shared by all commands
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "tempo",
		Short: "A day planner with a draggable timeline",
		Long: `Tempo is a personal day planner for the terminal.

It lays your tasks out on a timeline where overlapping blocks share the
width, and lets you move and resize them with the mouse. Edits apply
instantly and sync in the background.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			rem, err := a.openRemote()
			if err != nil {
				return err
			}
			st := store.New(rem)
			return tui.Run(st, rem, a.config, a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to tempo-debug.log)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.completeCmd())

	return a
}

// openRemote opens the SQLite store on first use.
func (a *App) openRemote() (*remote.SQLite, error) {
	if a.remote != nil {
		return a.remote, nil
	}
	rem, err := remote.New(a.config.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.remote = rem
	return rem, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("tempo %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database handle if a command opened it.
func (a *App) Close() error {
	if a.remote == nil {
		return nil
	}
	return a.remote.Close()
}
