package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmoret/rosterbee/internal/logging"
	"github.com/jmoret/rosterbee/internal/ops"
	"github.com/jmoret/rosterbee/internal/settings"
	"github.com/jmoret/rosterbee/internal/tui"
)

var configDir string

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "rosterbee",
	Short:   "Course roster import and student repository management",
	Long:    "A terminal tool that imports course rosters from Canvas or Moodle and sets up, verifies and clones student repositories on GitLab, GitHub, Gitea or the local filesystem.",
	Version: Version,
	RunE:    runTUI,

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (defaults to the platform config dir)")
}

func Execute() error {
	return rootCmd.Execute()
}

// newService opens the settings store and builds the command surface all
// subcommands share. The persisted log verbosity is applied on the way so
// every command logs at the configured levels.
func newService() (*ops.LocalService, settings.Document, error) {
	var store *settings.Store
	var err error
	if configDir != "" {
		store, err = settings.NewStoreAt(configDir)
	} else {
		store, err = settings.NewStore()
	}
	if err != nil {
		return nil, settings.Document{}, fmt.Errorf("opening settings store: %w", err)
	}
	doc, err := store.Load()
	if err != nil {
		return nil, settings.Document{}, fmt.Errorf("loading settings: %w", err)
	}
	logging.Apply(doc.LogSettings)
	svc := ops.NewLocalService(store, settings.NewProfileStore(store.Dir()))
	return svc, doc, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, doc, err := newService()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewApp(svc, doc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return nil
}
