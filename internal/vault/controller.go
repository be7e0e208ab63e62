// Package vault maintains the local view of the signed-in user's credential
// collection and the mutation flows that keep it consistent with the server.
package vault

import (
	"context"
	"sync"

	"github.com/padlock-app/padlock/internal/vaultapi"
)

// Controller owns the in-memory record collection, the reveal set, and the
// per-record deleting markers. All mutation goes through its methods;
// readers get consistent snapshots via View. Results of network calls are
// applied in completion order — a refresh that finishes after a local patch
// supersedes it wholesale, the server being the source of truth.
type Controller struct {
	svc vaultapi.VaultService

	mu       sync.Mutex
	records  []vaultapi.Record
	revealed map[int64]struct{}
	deleting map[int64]struct{}
	loading  int
	gen      uint64
}

// View is a consistent snapshot for the presentation layer. A deleted
// record never appears revealed or deleting in any snapshot.
type View struct {
	Records  []vaultapi.Record
	Revealed map[int64]bool
	Deleting map[int64]bool
	Loading  bool
}

// NewController creates a Controller backed by svc.
func NewController(svc vaultapi.VaultService) *Controller {
	return &Controller{
		svc:      svc,
		revealed: make(map[int64]struct{}),
		deleting: make(map[int64]struct{}),
	}
}

// Refresh fetches the full collection and replaces the local one wholesale,
// preserving server order. Reveal and deleting markers for identifiers that
// no longer exist are pruned in the same step. A refresh made irrelevant by
// Invalidate discards its result without effect.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading++
	gen := c.gen
	c.mu.Unlock()

	records, err := c.svc.ListRecords(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--

	if err != nil {
		return err
	}
	if gen != c.gen {
		return nil // result no longer wanted
	}

	c.records = records

	present := make(map[int64]struct{}, len(records))
	for _, r := range records {
		present[r.ID] = struct{}{}
	}
	for id := range c.revealed {
		if _, ok := present[id]; !ok {
			delete(c.revealed, id)
		}
	}
	for id := range c.deleting {
		if _, ok := present[id]; !ok {
			delete(c.deleting, id)
		}
	}

	return nil
}

// Invalidate marks any in-flight refresh as superseded; its result will be
// discarded. Used when the presentation layer navigates away.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
}

// ApplyCreate appends a server-confirmed record to the end of the
// collection. An identifier already present is replaced in place rather
// than duplicated.
func (c *Controller) ApplyCreate(record vaultapi.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range c.records {
		if r.ID == record.ID {
			c.records[i] = record
			return
		}
	}
	c.records = append(c.records, record)
}

// ApplyDelete removes the record and its reveal/deleting markers in one
// step; no reader ever observes the identifier gone from one but present in
// another.
func (c *Controller) ApplyDelete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range c.records {
		if r.ID == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			break
		}
	}
	delete(c.revealed, id)
	delete(c.deleting, id)
}

// ToggleReveal flips the reveal state for id. Unknown identifiers are a
// silent no-op: a stale toggle arriving after a delete must not resurrect
// the entry. Returns whether the toggle applied.
func (c *Controller) ToggleReveal(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasLocked(id) {
		return false
	}

	if _, ok := c.revealed[id]; ok {
		delete(c.revealed, id)
	} else {
		c.revealed[id] = struct{}{}
	}
	return true
}

// MarkDeleting flags a record as awaiting delete confirmation from the
// server. Returns false if the record is unknown or already flagged, which
// blocks duplicate submissions of the same delete.
func (c *Controller) MarkDeleting(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasLocked(id) {
		return false
	}
	if _, ok := c.deleting[id]; ok {
		return false
	}
	c.deleting[id] = struct{}{}
	return true
}

// ClearDeleting removes the deleting flag after a failed delete.
func (c *Controller) ClearDeleting(id int64) {
	c.mu.Lock()
	delete(c.deleting, id)
	c.mu.Unlock()
}

// Record returns the record with the given identifier.
func (c *Controller) Record(id int64) (vaultapi.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return vaultapi.Record{}, false
}

// View returns a consistent snapshot of the collection and its local-only
// display state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Records:  make([]vaultapi.Record, len(c.records)),
		Revealed: make(map[int64]bool, len(c.revealed)),
		Deleting: make(map[int64]bool, len(c.deleting)),
		Loading:  c.loading > 0,
	}
	copy(v.Records, c.records)
	for id := range c.revealed {
		v.Revealed[id] = true
	}
	for id := range c.deleting {
		v.Deleting[id] = true
	}
	return v
}

func (c *Controller) hasLocked(id int64) bool {
	for _, r := range c.records {
		if r.ID == id {
			return true
		}
	}
	return false
}
