// Package store implements the shared state store the engines coordinate
// through: a keyed hierarchical document tree with last-write-wins
// semantics per leaf path, atomic multi-path batches, and per-path
// subscriptions that push the full snapshot under the subscribed path on
// every change beneath it.
package store

import (
	"errors"
	"strings"
)

var (
	// ErrUnavailable is returned when the backing database cannot accept a
	// commit. The caller may retry the whole operation; no partial state is
	// ever visible.
	ErrUnavailable = errors.New("store: unavailable")

	// ErrConflict is returned by conditional batches when an expected value
	// no longer matches. The caller should re-read and re-decide.
	ErrConflict = errors.New("store: conflict")
)

// Store is the protocol the engines consume. Values are JSON-shaped: maps
// become subtrees, everything else is a leaf. A nil value in a batch
// deletes the path.
type Store interface {
	// Get returns the full value rooted at path, or ok=false when nothing
	// exists beneath it.
	Get(path string) (any, bool)

	// Write upserts the value at path, replacing any existing subtree.
	Write(path string, value any) error

	// MultiWrite applies all updates as one atomic commit. Subscribers
	// never observe a partially applied batch.
	MultiWrite(updates map[string]any) error

	// MultiWriteIf is MultiWrite guarded by per-path expected current
	// values. If any expectation fails the whole batch is rejected with
	// ErrConflict and nothing is written.
	MultiWriteIf(expect map[string]any, updates map[string]any) error

	// Subscribe registers a watcher on path. The current snapshot is
	// pushed immediately, then again on every change beneath the path.
	Subscribe(path string) *Subscription
}

// Subscription delivers snapshots of a watched path. Delivery never blocks
// a writer: a slow consumer is fast-forwarded to the latest snapshot.
type Subscription struct {
	C      <-chan any
	path   string
	ch     chan any
	cancel func(*Subscription)
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	if s.cancel != nil {
		s.cancel(s)
		s.cancel = nil
	}
}

// Path returns the subscribed path.
func (s *Subscription) Path() string { return s.path }

// normPath trims surrounding slashes so "orders/x", "/orders/x" and
// "orders/x/" address the same node.
func normPath(p string) string {
	return strings.Trim(p, "/")
}

// underPath reports whether leaf lies at or beneath root.
func underPath(leaf, root string) bool {
	if root == "" {
		return true
	}
	return leaf == root || strings.HasPrefix(leaf, root+"/")
}
