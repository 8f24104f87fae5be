package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/docassist/internal/config"
	"github.com/kobzarvs/docassist/internal/store"
)

type App struct {
	DBPath string
	Owner  string
	JSON   bool

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "docassist",
		Short:         "Outline notes with auto-numbered lists, keyword highlighting and file import",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Open the last edited document
  docassist

  # Start a new document and edit it
  docassist new "budget review"
  docassist edit <doc-id>

  # Attach a source file and check keyword hits
  docassist import <doc-id> report.pdf
  docassist keywords add <doc-id> budget risk
  docassist keywords <doc-id>
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, app, "")
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if app.DBPath != "" {
			cfg.Store.Path = app.DBPath
		}
		if app.Owner != "" {
			cfg.Store.Owner = app.Owner
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("DOCASSIST_DB", ""), "Path to the document database (default: <data dir>/docassist.db)")
	cmd.PersistentFlags().StringVar(&app.Owner, "owner", envOr("DOCASSIST_OWNER", ""), "Owner of listed and created documents (default: $USER)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Print machine-readable JSON")

	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newReadCmd(app))
	cmd.AddCommand(newKeywordsCmd(app))
	cmd.AddCommand(newExportCmd(app))

	return cmd
}

// withStore opens the configured store for the duration of fn.
func withStore(app *App, fn func(st *store.Store) error) error {
	st, err := store.Open(app.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
