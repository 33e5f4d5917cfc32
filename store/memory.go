package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps the document tree as a flat map of leaf path → value,
// which makes last-write-wins per leaf literal. All commits happen under
// one mutex; fan-out to subscribers is asynchronous and never blocks the
// writer. An optional persister writes leaf deltas through to a database
// inside the same commit.
type MemoryStore struct {
	mu        sync.Mutex
	leaves    map[string]any
	subs      map[*Subscription]struct{}
	persister Persister
}

// Persister is the write-through hook. Apply receives the leaf deltas of
// one commit (nil value = deleted leaf) and must apply them atomically.
type Persister interface {
	Apply(deltas map[string]any) error
}

// New returns an empty in-memory store with no persistence.
func New() *MemoryStore {
	return &MemoryStore{
		leaves: make(map[string]any),
		subs:   make(map[*Subscription]struct{}),
	}
}

// NewPersistent returns a store backed by p, pre-loaded with the given
// leaves (normally those p recovered from the database).
func NewPersistent(p Persister, leaves map[string]any) *MemoryStore {
	s := New()
	s.persister = p
	for k, v := range leaves {
		s.leaves[normPath(k)] = v
	}
	return s
}

func (s *MemoryStore) Get(path string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(normPath(path))
}

func (s *MemoryStore) Write(path string, value any) error {
	return s.MultiWrite(map[string]any{path: value})
}

func (s *MemoryStore) MultiWrite(updates map[string]any) error {
	return s.MultiWriteIf(nil, updates)
}

func (s *MemoryStore) MultiWriteIf(expect map[string]any, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for p, want := range expect {
		cur, _ := s.snapshotLocked(normPath(p))
		if !reflect.DeepEqual(cur, normalize(want)) {
			return fmt.Errorf("%w: %s changed", ErrConflict, normPath(p))
		}
	}

	deltas := make(map[string]any)
	for p, v := range updates {
		p = normPath(p)
		// A write replaces the whole subtree at p.
		for leaf := range s.leaves {
			if underPath(leaf, p) {
				deltas[leaf] = nil
			}
		}
		if v != nil {
			flatten(p, normalize(v), deltas)
		}
	}

	if s.persister != nil {
		if err := s.persister.Apply(deltas); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	changed := make([]string, 0, len(deltas))
	for leaf, v := range deltas {
		if v == nil {
			delete(s.leaves, leaf)
		} else {
			s.leaves[leaf] = v
		}
		changed = append(changed, leaf)
	}

	s.notifyLocked(changed)
	return nil
}

func (s *MemoryStore) Subscribe(path string) *Subscription {
	sub := &Subscription{
		path:   normPath(path),
		ch:     make(chan any, 1),
		cancel: s.unsubscribe,
	}
	sub.C = sub.ch

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	snap, _ := s.snapshotLocked(sub.path)
	// Push before releasing the lock so the initial snapshot cannot
	// overwrite a newer one from a concurrent commit. push never blocks,
	// so holding the mutex here is safe.
	sub.push(snap)
	s.mu.Unlock()

	return sub
}

func (s *MemoryStore) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
	close(sub.ch)
}

// notifyLocked pushes fresh snapshots to every subscription whose path
// overlaps a changed leaf.
func (s *MemoryStore) notifyLocked(changed []string) {
	for sub := range s.subs {
		hit := false
		for _, leaf := range changed {
			if underPath(leaf, sub.path) || underPath(sub.path, leaf) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		snap, _ := s.snapshotLocked(sub.path)
		sub.push(snap)
	}
}

// push delivers without blocking: if the subscriber has not consumed the
// previous snapshot it is replaced by the newer one.
func (sub *Subscription) push(snap any) {
	for {
		select {
		case sub.ch <- snap:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

// snapshotLocked rebuilds the nested value under root from the flat leaves.
func (s *MemoryStore) snapshotLocked(root string) (any, bool) {
	if v, ok := s.leaves[root]; ok {
		return copyValue(v), true
	}
	var keys []string
	for leaf := range s.leaves {
		if underPath(leaf, root) {
			keys = append(keys, leaf)
		}
	}
	if len(keys) == 0 {
		return nil, false
	}
	sort.Strings(keys)
	out := make(map[string]any)
	for _, leaf := range keys {
		rel := leaf
		if root != "" {
			rel = strings.TrimPrefix(leaf, root+"/")
		}
		insert(out, strings.Split(rel, "/"), copyValue(s.leaves[leaf]))
	}
	return out, true
}

func insert(m map[string]any, segs []string, v any) {
	if len(segs) == 1 {
		m[segs[0]] = v
		return
	}
	child, ok := m[segs[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[segs[0]] = child
	}
	insert(child, segs[1:], v)
}

// normalize maps any Go value onto the JSON shape the tree stores:
// map[string]any for subtrees, primitives/slices as leaves.
func normalize(v any) any {
	switch v.(type) {
	case nil, bool, string, float64:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Sprint(v)
	}
	return out
}

// flatten expands a normalized value into leaf deltas rooted at path.
// Non-empty maps become subtrees; everything else is a single leaf.
func flatten(path string, v any, deltas map[string]any) {
	if m, ok := v.(map[string]any); ok && len(m) > 0 {
		for k, child := range m {
			flatten(path+"/"+k, child, deltas)
		}
		return
	}
	deltas[path] = v
}

func copyValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
