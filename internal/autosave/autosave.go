// Package autosave writes the editor content back to the store after the
// user pauses typing.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/kobzarvs/docassist/internal/logger"
	"github.com/kobzarvs/docassist/internal/outline"
)

// Saver persists the text of one document.
type Saver interface {
	SaveContent(ctx context.Context, id, content string) error
}

// Autosaver debounces content snapshots and saves the latest one once no
// new snapshot has arrived for the configured delay.
type Autosaver struct {
	saver Saver
	docID string
	delay time.Duration

	mu        sync.Mutex
	pending   string
	dirty     bool
	lastSaved time.Time
	lastErr   error
	started   bool

	kick     chan struct{}
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New returns an Autosaver for docID. Call Start to begin saving.
func New(saver Saver, docID string, delay time.Duration) *Autosaver {
	return &Autosaver{
		saver:    saver,
		docID:    docID,
		delay:    delay,
		kick:     make(chan struct{}, 1),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Attach subscribes to every change of s.
func (a *Autosaver) Attach(s *outline.Session) {
	s.OnChange(func(outline.Change) {
		a.Notify(s.Text())
	})
}

// Notify records content as the latest snapshot and restarts the delay.
func (a *Autosaver) Notify(content string) {
	a.mu.Lock()
	a.pending = content
	a.dirty = true
	a.mu.Unlock()
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

// Start runs the debounce loop until ctx is cancelled or Stop is called.
// A pending snapshot is saved before the loop exits.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return
	}
	a.started = true
	go a.loop(ctx)
}

func (a *Autosaver) loop(ctx context.Context) {
	defer close(a.done)
	timer := time.NewTimer(a.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-a.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(a.delay)
		case <-timer.C:
			_ = a.Flush(ctx)
		case <-ctx.Done():
			// The parent context is gone; use a fresh one so the last
			// snapshot still reaches the store.
			_ = a.Flush(context.Background())
			return
		case <-a.stopChan:
			_ = a.Flush(ctx)
			return
		}
	}
}

// Flush saves the pending snapshot now, if there is one.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if !a.dirty {
		a.mu.Unlock()
		return nil
	}
	content := a.pending
	a.dirty = false
	a.mu.Unlock()

	err := a.saver.SaveContent(ctx, a.docID, content)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = err
	if err != nil {
		logger.Error("autosave failed", "doc", a.docID, "err", err)
		// Keep the snapshot unless a newer one arrived meanwhile.
		if !a.dirty {
			a.pending = content
			a.dirty = true
		}
		return err
	}
	a.lastSaved = time.Now()
	logger.Debug("autosaved", "doc", a.docID, "bytes", len(content))
	return nil
}

// Stop ends the loop and waits for the final save. Without a running loop
// it saves the pending snapshot directly.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if !started {
		_ = a.Flush(context.Background())
		return
	}
	a.stopOnce.Do(func() { close(a.stopChan) })
	<-a.done
}

// Status reports the time of the last successful save and the error of the
// last attempt.
func (a *Autosaver) Status() (time.Time, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSaved, a.lastErr
}

// Dirty reports whether a snapshot is waiting to be saved.
func (a *Autosaver) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}
