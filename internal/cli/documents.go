package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/docassist/internal/keywords"
	"github.com/kobzarvs/docassist/internal/logger"
	"github.com/kobzarvs/docassist/internal/session"
	"github.com/kobzarvs/docassist/internal/store"
)

func newNewCmd(app *App) *cobra.Command {
	var edit bool

	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Create a document (default title: YYYYMMDD_notes)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			var doc store.Document
			err := withStore(app, func(st *store.Store) error {
				var err error
				doc, err = st.Create(cmd.Context(), app.cfg.Store.Owner, title)
				return err
			})
			if err != nil {
				return err
			}
			logger.Info("document created", "doc", doc.ID)
			if edit {
				return runEditor(cmd, app, doc.ID)
			}
			if app.JSON {
				return writeJSON(cmd, toJSON(doc, false))
			}
			printf(cmd, "%s\t%s\n", doc.ID, doc.Title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Open the new document in the editor")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *store.Store) error {
				docs, err := st.List(cmd.Context(), app.cfg.Store.Owner)
				if err != nil {
					return err
				}
				if app.JSON {
					out := make([]documentJSON, 0, len(docs))
					for _, d := range docs {
						out = append(out, toJSON(d, false))
					}
					return writeJSON(cmd, out)
				}
				tw := newTable(cmd)
				fmt.Fprintln(tw, "ID\tTITLE\tUPDATED\tKEYWORDS")
				for _, d := range docs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Title, formatTime(d.UpdatedAt), strings.Join(d.Keywords, ","))
				}
				return tw.Flush()
			})
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	var fileID string

	cmd := &cobra.Command{
		Use:   "show <doc-id>",
		Short: "Print a document's content, or one of its related files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *store.Store) error {
				doc, err := st.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if fileID != "" {
					f, ok := doc.File(fileID)
					if !ok {
						return fmt.Errorf("file %s: %w", fileID, store.ErrNotFound)
					}
					m := keywords.NewMatcher(doc.Keywords)
					if app.JSON {
						stats := m.Count(f.Content)
						if stats == nil {
							stats = []keywords.Stat{}
						}
						return writeJSON(cmd, relatedFileJSON{
							fileJSON: toFileJSON(f),
							Content:  f.Content,
							Matches:  stats,
						})
					}
					printf(cmd, "%s\n", markKeywords(m, strings.TrimRight(f.Content, "\n")))
					return nil
				}
				if app.JSON {
					return writeJSON(cmd, toJSON(doc, true))
				}
				printf(cmd, "# %s\n", doc.Title)
				if len(doc.Keywords) > 0 {
					printf(cmd, "# keywords: %s\n", strings.Join(doc.Keywords, ", "))
				}
				for _, f := range doc.Files {
					printf(cmd, "# file %s  %s (%s, %s)\n", f.ID, f.Name, f.Format, readMark(f.Read))
				}
				printf(cmd, "\n%s\n", doc.Content)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fileID, "file", "", "Print this related file instead of the document, keyword matches marked [[like this]]")
	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <doc-id> <title>",
		Short: "Rename a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *store.Store) error {
				return st.Rename(cmd.Context(), args[0], args[1])
			})
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <doc-id>",
		Short: "Delete a document and its related files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			err := withStore(app, func(st *store.Store) error {
				return st.Delete(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			sessions, err := session.NewManager()
			if err != nil {
				logger.Warn("view state not updated", "err", err)
				return nil
			}
			sessions.Forget(id)
			if err := sessions.Stop(); err != nil {
				logger.Warn("view state not saved", "err", err)
			}
			logger.Info("document deleted", "doc", id)
			return nil
		},
	}
}
