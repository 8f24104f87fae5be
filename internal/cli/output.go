package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/docassist/internal/keywords"
	"github.com/kobzarvs/docassist/internal/store"
)

type documentJSON struct {
	ID        string     `json:"id"`
	Owner     string     `json:"owner"`
	Title     string     `json:"title"`
	Keywords  []string   `json:"keywords"`
	Files     []fileJSON `json:"files"`
	Content   string     `json:"content,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type fileJSON struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Format  string    `json:"format"`
	Read    bool      `json:"read"`
	AddedAt time.Time `json:"addedAt"`
}

// relatedFileJSON is one related file with its text and keyword counts.
type relatedFileJSON struct {
	fileJSON
	Content string          `json:"content"`
	Matches []keywords.Stat `json:"matches"`
}

func toFileJSON(f store.RelatedFile) fileJSON {
	return fileJSON{ID: f.ID, Name: f.Name, Format: f.Format, Read: f.Read, AddedAt: f.AddedAt}
}

func toJSON(d store.Document, withContent bool) documentJSON {
	out := documentJSON{
		ID:        d.ID,
		Owner:     d.Owner,
		Title:     d.Title,
		Keywords:  d.Keywords,
		Files:     []fileJSON{},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if out.Keywords == nil {
		out.Keywords = []string{}
	}
	if withContent {
		out.Content = d.Content
	}
	for _, f := range d.Files {
		out.Files = append(out.Files, toFileJSON(f))
	}
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"data": v})
}

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func readMark(read bool) string {
	if read {
		return "read"
	}
	return "unread"
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
