package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)}
	st, err := Open(filepath.Join(t.TempDir(), "db", "docs.db"), WithClock(clock.now))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenAppliesPragmas(t *testing.T) {
	st := openTestStore(t)
	var fk int
	if err := st.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d, want 1", fk)
	}
	var mode string
	if err := st.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}
}

func TestCreateDefaultTitle(t *testing.T) {
	st := openTestStore(t)
	doc, err := st.Create(context.Background(), "alice", "  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.Title != "20240309_notes" {
		t.Fatalf("Title = %q, want 20240309_notes", doc.Title)
	}
	if doc.ID == "" {
		t.Fatalf("Create returned empty ID")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	doc, err := st.Create(ctx, "alice", "Plan")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	doc.Content = "1. first\n    a. nested"
	doc.Keywords = []string{"budget", "risk"}
	doc.Files = []RelatedFile{
		{Name: "brief.pdf", Format: "pdf", Content: "budget is tight"},
		{Name: "notes.txt", Format: "text", Content: "risk", Read: true},
	}
	if err := st.Save(ctx, &doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := st.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Content != doc.Content || got.Title != "Plan" || got.Owner != "alice" {
		t.Fatalf("Load = %+v", got)
	}
	if !reflect.DeepEqual(got.Keywords, doc.Keywords) {
		t.Fatalf("Keywords = %v, want %v", got.Keywords, doc.Keywords)
	}
	if len(got.Files) != 2 || got.Files[0].Name != "brief.pdf" || !got.Files[1].Read {
		t.Fatalf("Files = %+v", got.Files)
	}
	if got.Files[0].ID == "" || got.Files[0].ID != doc.Files[0].ID {
		t.Fatalf("file IDs not assigned consistently: %q vs %q", got.Files[0].ID, doc.Files[0].ID)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("UpdatedAt %v not after CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestSaveInsertsNewDocument(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	doc := Document{Owner: "bob", Content: "x"}
	if err := st.Save(ctx, &doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if doc.ID == "" || doc.Title == "" {
		t.Fatalf("Save did not fill defaults: %+v", doc)
	}
	got, err := st.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Content != "x" || len(got.Keywords) != 0 {
		t.Fatalf("Load = %+v", got)
	}
}

func TestListNewestFirstPerOwner(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	a, _ := st.Create(ctx, "alice", "A")
	if _, err := st.Create(ctx, "alice", "B"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Create(ctx, "bob", "other"); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveContent(ctx, a.ID, "touched"); err != nil {
		t.Fatalf("SaveContent: %v", err)
	}

	docs, err := st.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var titles []string
	for _, d := range docs {
		titles = append(titles, d.Title)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	if docs[0].Content != "touched" {
		t.Fatalf("content = %q", docs[0].Content)
	}
}

func TestRenameDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	doc, _ := st.Create(ctx, "alice", "old")

	if err := st.Rename(ctx, doc.ID, " new title "); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	got, _ := st.Load(ctx, doc.ID)
	if got.Title != "new title" {
		t.Fatalf("Title = %q", got.Title)
	}
	if err := st.Rename(ctx, doc.ID, ""); err == nil {
		t.Fatalf("Rename accepted empty title")
	}

	if err := st.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Load(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after delete err = %v, want ErrNotFound", err)
	}
	for name, err := range map[string]error{
		"delete":   st.Delete(ctx, doc.ID),
		"rename":   st.Rename(ctx, "missing", "x"),
		"content":  st.SaveContent(ctx, "missing", "x"),
		"keywords": st.SetKeywords(ctx, "missing", nil),
	} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s err = %v, want ErrNotFound", name, err)
		}
	}
}

func TestFilesAndReadStatus(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	doc, _ := st.Create(ctx, "alice", "")

	f1, err := st.AddFile(ctx, doc.ID, RelatedFile{Name: "a.txt", Format: "text", Content: "aaa"})
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if _, err := st.AddFile(ctx, doc.ID, RelatedFile{Name: "b.docx", Format: "word", Content: "bbb"}); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if err := st.SetFileRead(ctx, doc.ID, f1.ID, true); err != nil {
		t.Fatalf("SetFileRead: %v", err)
	}

	got, _ := st.Load(ctx, doc.ID)
	if len(got.Files) != 2 || got.Files[0].Name != "a.txt" || got.Files[1].Name != "b.docx" {
		t.Fatalf("Files = %+v", got.Files)
	}
	if f, ok := got.File(f1.ID); !ok || !f.Read {
		t.Fatalf("File(%s) = %+v, %v", f1.ID, f, ok)
	}

	if err := st.SetFileRead(ctx, doc.ID, "nope", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetFileRead missing err = %v", err)
	}
	if _, err := st.AddFile(ctx, "missing", RelatedFile{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AddFile missing doc err = %v", err)
	}

	if err := st.Delete(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := st.db.QueryRow(`SELECT COUNT(*) FROM related_files`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("related files left after delete: %d", n)
	}
}

func TestSetKeywords(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	doc, _ := st.Create(ctx, "alice", "k")
	if err := st.SetKeywords(ctx, doc.ID, []string{"alpha"}); err != nil {
		t.Fatalf("SetKeywords: %v", err)
	}
	got, _ := st.Load(ctx, doc.ID)
	if !reflect.DeepEqual(got.Keywords, []string{"alpha"}) {
		t.Fatalf("Keywords = %v", got.Keywords)
	}
}
