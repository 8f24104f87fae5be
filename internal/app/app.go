package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/docassist/internal/autosave"
	"github.com/kobzarvs/docassist/internal/config"
	"github.com/kobzarvs/docassist/internal/editor"
	"github.com/kobzarvs/docassist/internal/logger"
	"github.com/kobzarvs/docassist/internal/outline"
	"github.com/kobzarvs/docassist/internal/session"
	"github.com/kobzarvs/docassist/internal/store"
)

// App is the interactive editing runtime for one document.
type App struct {
	cfg      config.Config
	store    *store.Store
	sessions *session.Manager
	screen   tcell.Screen
}

type Option func(*App)

// WithScreen runs on an already initialized screen. The caller keeps
// ownership and must call Fini.
func WithScreen(s tcell.Screen) Option {
	return func(a *App) { a.screen = s }
}

// WithSessions uses m for view state instead of the default state file.
func WithSessions(m *session.Manager) Option {
	return func(a *App) { a.sessions = m }
}

func New(cfg config.Config, st *store.Store, opts ...Option) *App {
	a := &App{cfg: cfg, store: st}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run edits docID until the user quits or ctx is cancelled. An empty docID
// reopens the last document, or the newest one, or creates a fresh one.
func (a *App) Run(ctx context.Context, docID string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sessions := a.sessions
	if sessions == nil {
		m, err := session.NewManager()
		if err != nil {
			return err
		}
		sessions = m
	}
	defer func() {
		if err := sessions.Stop(); err != nil {
			logger.Warn("session state not saved", "err", err)
		}
	}()

	doc, err := a.resolveDocument(ctx, docID, sessions.ActiveDoc())
	if err != nil {
		return err
	}
	logger.Info("editing", "doc", doc.ID, "title", doc.Title)

	sess := outline.NewSession(doc.Content)
	ed := editor.New(a.cfg, sess)
	ed.SetTitle(doc.Title)
	ed.SetKeywords(doc.Keywords)
	if st, ok := sessions.Doc(doc.ID); ok {
		sess.SetCursor(outline.Cursor{Line: st.CursorLine, Offset: st.CursorOffset})
		ed.SetScroll(st.ScrollY)
		ed.SetShowKeywords(st.ShowKeywords)
	}

	saver := autosave.New(a.store, doc.ID, a.cfg.Editor.AutosaveInterval())
	saver.Attach(sess)
	saver.Start(ctx)
	defer saver.Stop()

	ed.SetSaveFunc(func() error {
		saver.Notify(sess.Text())
		return saver.Flush(ctx)
	})
	ed.SetSaveStateFunc(func() editor.SaveState {
		saved, err := saver.Status()
		return editor.SaveState{Dirty: saver.Dirty(), LastSaved: saved, Err: err}
	})

	s := a.screen
	if s == nil {
		s, err = tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := s.Init(); err != nil {
			return err
		}
		defer s.Fini()
	}
	s.EnablePaste()
	defer s.DisablePaste()

	// Periodic interrupts keep the save indicator current and notice a
	// cancelled context while PollEvent blocks.
	stopTicks := make(chan struct{})
	defer close(stopTicks)
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopTicks:
				return
			case <-ctx.Done():
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	defer func() {
		c := sess.Cursor()
		sessions.SetDoc(doc.ID, session.DocState{
			CursorLine:   c.Line,
			CursorOffset: c.Offset,
			ScrollY:      ed.Scroll(),
			ShowKeywords: ed.ShowKeywords(),
		})
	}()

	ed.Render(s)
	for {
		ev := s.PollEvent()
		if ev == nil {
			return nil
		}
		if handleEvent(s, ed, ev) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		ed.Render(s)
	}
}

func handleEvent(s tcell.Screen, ed *editor.Editor, ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ed.HandleKey(ev)
	case *tcell.EventPaste:
		ed.HandlePaste(ev)
	case *tcell.EventResize:
		s.Sync()
	case *tcell.EventInterrupt:
	}
	return false
}

func (a *App) resolveDocument(ctx context.Context, docID, active string) (store.Document, error) {
	if docID != "" {
		doc, err := a.store.Load(ctx, docID)
		if err != nil {
			return store.Document{}, fmt.Errorf("open document %s: %w", docID, err)
		}
		return doc, nil
	}
	if active != "" {
		doc, err := a.store.Load(ctx, active)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return store.Document{}, err
		}
	}
	docs, err := a.store.List(ctx, a.cfg.Store.Owner)
	if err != nil {
		return store.Document{}, err
	}
	if len(docs) > 0 {
		return a.store.Load(ctx, docs[0].ID)
	}
	return a.store.Create(ctx, a.cfg.Store.Owner, "")
}
