package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/docassist/internal/config"
	"github.com/kobzarvs/docassist/internal/session"
	"github.com/kobzarvs/docassist/internal/store"
)

type harness struct {
	cfg      config.Config
	store    *store.Store
	sessions *session.Manager
	screen   tcell.SimulationScreen
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "docs.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	sessions, err := session.Open(filepath.Join(dir, "session.json"), 0)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}

	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(60, 12)

	cfg := config.Default()
	cfg.Store.Owner = "tester"
	cfg.Editor.AutosaveDelay = "1h"
	return &harness{cfg: cfg, store: st, sessions: sessions, screen: s}
}

// feed posts events one by one so a full event queue never drops input.
func (h *harness) feed(events ...tcell.Event) {
	go func() {
		for _, ev := range events {
			for h.screen.PostEvent(ev) != nil {
				time.Sleep(time.Millisecond)
			}
		}
	}()
}

func (h *harness) run(t *testing.T, docID string) {
	t.Helper()
	a := New(h.cfg, h.store, WithScreen(h.screen), WithSessions(h.sessions))
	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background(), docID) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return")
	}
}

func typed(text string) []tcell.Event {
	var evs []tcell.Event
	for _, r := range text {
		evs = append(evs, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return evs
}

func TestRunSavesOnQuit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	doc, err := h.store.Create(ctx, "tester", "plan")
	if err != nil {
		t.Fatal(err)
	}

	var evs []tcell.Event
	evs = append(evs, typed("1. a")...)
	evs = append(evs, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	evs = append(evs, typed("b")...)
	evs = append(evs, tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	h.feed(evs...)
	h.run(t, doc.ID)

	got, err := h.store.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Content != "1. a\n2. b" {
		t.Fatalf("content = %q", got.Content)
	}
	st, ok := h.sessions.Doc(doc.ID)
	if !ok || st.CursorLine != 1 || st.CursorOffset != 4 {
		t.Fatalf("view state = %+v, %v", st, ok)
	}
}

func TestRunRestoresCursorOfActiveDocument(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	doc, err := h.store.Create(ctx, "tester", "")
	if err != nil {
		t.Fatal(err)
	}
	doc.Content = "1. a\n2. b"
	if err := h.store.Save(ctx, &doc); err != nil {
		t.Fatal(err)
	}
	h.sessions.SetDoc(doc.ID, session.DocState{CursorLine: 0, CursorOffset: 4, ShowKeywords: true})

	var evs []tcell.Event
	evs = append(evs, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	evs = append(evs, tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	h.feed(evs...)
	h.run(t, "")

	got, err := h.store.Load(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "1. a\n3. \n2. b" {
		t.Fatalf("content = %q", got.Content)
	}
}

func TestRunCreatesDocumentWhenStoreIsEmpty(t *testing.T) {
	h := newHarness(t)
	h.feed(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
	h.run(t, "")

	docs, err := h.store.List(context.Background(), "tester")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	if h.sessions.ActiveDoc() != docs[0].ID {
		t.Fatalf("active doc = %q, want %q", h.sessions.ActiveDoc(), docs[0].ID)
	}
}

func TestRunUnknownDocument(t *testing.T) {
	h := newHarness(t)
	a := New(h.cfg, h.store, WithScreen(h.screen), WithSessions(h.sessions))
	if err := a.Run(context.Background(), "missing"); err == nil {
		t.Fatalf("Run accepted a missing document")
	}
}
