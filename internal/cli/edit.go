package cli

import (
	"github.com/spf13/cobra"

	"github.com/kobzarvs/docassist/internal/app"
	"github.com/kobzarvs/docassist/internal/store"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [doc-id]",
		Short: "Open a document in the outline editor (default: the last one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runEditor(cmd, app, id)
		},
	}
}

func runEditor(cmd *cobra.Command, a *App, docID string) error {
	return withStore(a, func(st *store.Store) error {
		return app.New(a.cfg, st).Run(cmd.Context(), docID)
	})
}
