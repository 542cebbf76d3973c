package papertrail

import (
	"sync"

	"github.com/agentstation/papertrail/pkg/papers"
	psync "github.com/agentstation/papertrail/pkg/sync"
)

// Hook function types for paper events
type (
	// PaperAddedHook is called when a paper is stored for the first time
	PaperAddedHook func(p *papers.Paper)

	// PaperUpdatedHook is called when a newer version of a paper is stored
	PaperUpdatedHook func(old, new *papers.Paper)

	// PaperRejectedHook is called when a fetched paper is older than the stored one
	PaperRejectedHook func(p *papers.Paper, err error)
)

// Hooks registers callbacks fired after a successful commit. Dry runs fire
// nothing.
type Hooks interface {
	OnPaperAdded(fn PaperAddedHook)
	OnPaperUpdated(fn PaperUpdatedHook)
	OnPaperRejected(fn PaperRejectedHook)
}

// hooks manages event callbacks for store changes
type hooks struct {
	mu              sync.RWMutex
	onPaperAdded    []PaperAddedHook
	onPaperUpdated  []PaperUpdatedHook
	onPaperRejected []PaperRejectedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnPaperAdded registers a callback for new papers
func (p *papertrail) OnPaperAdded(fn PaperAddedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onPaperAdded = append(p.hooks.onPaperAdded, fn)
}

// OnPaperUpdated registers a callback for updated papers
func (p *papertrail) OnPaperUpdated(fn PaperUpdatedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onPaperUpdated = append(p.hooks.onPaperUpdated, fn)
}

// OnPaperRejected registers a callback for rejected papers
func (p *papertrail) OnPaperRejected(fn PaperRejectedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onPaperRejected = append(p.hooks.onPaperRejected, fn)
}

// trigger fires the hooks for every change recorded in a committed batch.
func (h *hooks) trigger(batch *psync.Batch) {
	if batch == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, p := range batch.NewPapers {
		for _, hook := range h.onPaperAdded {
			hook(p)
		}
	}
	for _, u := range batch.UpdatedPapers {
		for _, hook := range h.onPaperUpdated {
			hook(u.Old, u.New)
		}
	}
	for _, r := range batch.RejectedPapers {
		for _, hook := range h.onPaperRejected {
			hook(r.Paper, r.Err)
		}
	}
}
