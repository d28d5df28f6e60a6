// Package threadview maintains a client-side projection of one thread level:
// the snapshot returned by the initial query, kept current by merging the two
// live comment streams into it.
package threadview

import (
	"context"
	"sync"

	"redline/internal/models"
)

// State is the view's lifecycle phase.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

// Fetcher produces the current snapshot for the view's thread level, in
// creation order.
type Fetcher func(ctx context.Context) ([]models.Comment, error)

// View holds an ordered comment list and folds live events into it. Added
// comments append in arrival order. Updated comments merge in place by id;
// an update for an id the view does not hold yet is dropped; the next
// Refetch recovers it.
type View struct {
	mu       sync.Mutex
	state    State
	err      error
	comments []models.Comment
	fetch    Fetcher
}

// New creates a View in the Loading state.
func New(fetch Fetcher) *View {
	return &View{state: StateLoading, fetch: fetch}
}

// Load runs the initial query and moves the view to Ready or Failed.
func (v *View) Load(ctx context.Context) error {
	comments, err := v.fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state = StateFailed
		v.err = err
		return err
	}
	v.comments = comments
	v.state = StateReady
	v.err = nil
	return nil
}

// Refetch replaces the held list with a fresh snapshot, picking up anything
// the live merge dropped or missed.
func (v *View) Refetch(ctx context.Context) error {
	return v.Load(ctx)
}

// Run consumes both live streams until ctx is cancelled or both streams
// close.
func (v *View) Run(ctx context.Context, added, updated <-chan models.Comment) {
	for added != nil || updated != nil {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-added:
			if !ok {
				added = nil
				continue
			}
			v.ApplyAdded(c)
		case c, ok := <-updated:
			if !ok {
				updated = nil
				continue
			}
			v.ApplyUpdated(c)
		}
	}
}

// ApplyAdded appends a newly created comment, preserving arrival order.
// Duplicate delivery of an id the view already holds merges instead.
func (v *View) ApplyAdded(c models.Comment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.comments {
		if v.comments[i].ID == c.ID {
			v.comments[i] = c
			return
		}
	}
	v.comments = append(v.comments, c)
}

// ApplyUpdated merges an updated comment in place. Returns false when the id
// is not held and the event was dropped.
func (v *View) ApplyUpdated(c models.Comment) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.comments {
		if v.comments[i].ID == c.ID {
			v.comments[i] = c
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current ordered comment list.
func (v *View) Snapshot() []models.Comment {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.Comment, len(v.comments))
	copy(out, v.comments)
	return out
}

// State reports the view's lifecycle phase.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the failure that moved the view to Failed, if any.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}
