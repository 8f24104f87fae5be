package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/docassist/internal/keywords"
	"github.com/kobzarvs/docassist/internal/store"
)

func newKeywordsCmd(app *App) *cobra.Command {
	var fileID string

	cmd := &cobra.Command{
		Use:   "keywords <doc-id>",
		Short: "Show keyword hit counts for a document or one of its related files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *store.Store) error {
				doc, err := st.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				text := doc.Content
				if fileID != "" {
					f, ok := doc.File(fileID)
					if !ok {
						return fmt.Errorf("file %s: %w", fileID, store.ErrNotFound)
					}
					text = f.Content
				}
				stats := keywords.NewMatcher(doc.Keywords).Count(text)
				if app.JSON {
					if stats == nil {
						stats = []keywords.Stat{}
					}
					return writeJSON(cmd, stats)
				}
				tw := newTable(cmd)
				fmt.Fprintln(tw, "KEYWORD\tCOUNT")
				for _, s := range stats {
					fmt.Fprintf(tw, "%s\t%d\n", s.Keyword, s.Count)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&fileID, "file", "", "Count matches in this related file instead of the document")
	cmd.AddCommand(newKeywordsEditCmd(app, "add", "Add keywords to a document", keywords.Add))
	cmd.AddCommand(newKeywordsEditCmd(app, "remove", "Remove keywords from a document", keywords.Remove))
	return cmd
}

func newKeywordsEditCmd(app *App, use, short string, apply func([]string, string) ([]string, bool)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <doc-id> <keyword>...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(app, func(st *store.Store) error {
				doc, err := st.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				list := doc.Keywords
				changed := false
				for _, kw := range args[1:] {
					var ok bool
					list, ok = apply(list, kw)
					changed = changed || ok
				}
				if !changed {
					return nil
				}
				return st.SetKeywords(cmd.Context(), doc.ID, list)
			})
		},
	}
}

// markKeywords wraps every keyword match in text with [[ and ]], line by line.
func markKeywords(m *keywords.Matcher, text string) string {
	if m.Empty() {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		spans := m.Line(line)
		if len(spans) == 0 {
			continue
		}
		rs := []rune(line)
		var b strings.Builder
		prev := 0
		for _, sp := range spans {
			b.WriteString(string(rs[prev:sp.Start]))
			b.WriteString("[[")
			b.WriteString(string(rs[sp.Start:sp.End]))
			b.WriteString("]]")
			prev = sp.End
		}
		b.WriteString(string(rs[prev:]))
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
