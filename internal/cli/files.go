package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/docassist/internal/importer"
	"github.com/kobzarvs/docassist/internal/logger"
	"github.com/kobzarvs/docassist/internal/store"
)

func newImportCmd(app *App) *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "import <doc-id> <file>...",
		Short: "Extract text from files (txt, docx, pdf) and attach it to a document",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if encoding == "" {
				encoding = app.cfg.Editor.Encoding
			}
			opts := importer.Options{Encoding: encoding}
			docID := args[0]

			return withStore(app, func(st *store.Store) error {
				if _, err := st.Load(cmd.Context(), docID); err != nil {
					return err
				}
				for _, path := range args[1:] {
					f, err := importer.ImportFile(path, opts)
					if err != nil {
						return fmt.Errorf("import %s: %w", path, err)
					}
					added, err := st.AddFile(cmd.Context(), docID, store.RelatedFile{
						Name:    f.Name,
						Format:  string(f.Format),
						Content: f.Content,
					})
					if err != nil {
						return err
					}
					logger.Info("file imported", "doc", docID, "file", added.ID, "name", f.Name, "format", f.Format)
					printf(cmd, "%s\t%s (%s, %d lines)\n", added.ID, f.Name, f.Format, lineCount(f.Content))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "", "Charset of text files, e.g. gbk, big5, utf-16 (default from config)")
	return cmd
}

func newReadCmd(app *App) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "read <doc-id> <file-id>",
		Short: "Mark a related file as read (or unread with --unread)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *store.Store) error {
				return st.SetFileRead(cmd.Context(), args[0], args[1], !unread)
			})
		},
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "Clear the read flag")
	return cmd
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
