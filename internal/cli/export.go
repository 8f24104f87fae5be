package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/docassist/internal/export"
	"github.com/kobzarvs/docassist/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export <doc-id>",
		Short: "Write a document as .txt or .docx",
		Long: "Write a document as .txt (CRLF line endings) or .docx (one paragraph per line).\n" +
			"Without --output the file is named after the document title in the current directory; \"-\" writes to stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			var doc store.Document
			err = withStore(app, func(st *store.Store) error {
				doc, err = st.Load(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := export.Write(&buf, f, doc.Content); err != nil {
				return err
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			path := output
			if path == "" {
				path = export.FileName(doc.Title, f)
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			printf(cmd, "%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "txt", "Export format (txt|docx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path, or - for stdout")
	return cmd
}
