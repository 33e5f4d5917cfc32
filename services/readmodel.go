package services

import (
	"sync"

	"github.com/cachapa/comanda-api/models"
	"github.com/cachapa/comanda-api/store"
)

// ReadModel is the subscription-driven local view every actor renders
// from. It watches the four roots and rebuilds the affected slice wholly
// on each push; derivation is pure, so replaying the same push is
// harmless. Writers see their own effects only through the same pushes as
// everyone else.
type ReadModel struct {
	mu          sync.RWMutex
	orders      []models.Order
	waiters     []string
	calls       []models.WaiterCall
	assignments map[string]string

	subs []*store.Subscription
	done chan struct{}
	wg   sync.WaitGroup
}

// NewReadModel subscribes to st and starts consuming pushes. Close must be
// called to release the subscriptions.
func NewReadModel(st store.Store) *ReadModel {
	m := &ReadModel{done: make(chan struct{})}

	watch := func(path string, apply func(any)) {
		sub := st.Subscribe(path)
		m.subs = append(m.subs, sub)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for {
				select {
				case snap, ok := <-sub.C:
					if !ok {
						return
					}
					apply(snap)
				case <-m.done:
					return
				}
			}
		}()
	}

	watch(PathOrders, func(snap any) {
		orders, err := DecodeOrders(snap)
		if err != nil {
			return
		}
		m.mu.Lock()
		m.orders = orders
		m.mu.Unlock()
	})
	watch(PathWaiters, func(snap any) {
		waiters, err := DecodeWaiters(snap)
		if err != nil {
			return
		}
		m.mu.Lock()
		m.waiters = waiters
		m.mu.Unlock()
	})
	watch(PathCalls, func(snap any) {
		calls, err := DecodeCalls(snap)
		if err != nil {
			return
		}
		m.mu.Lock()
		m.calls = calls
		m.mu.Unlock()
	})
	watch(PathAssignments, func(snap any) {
		assignments, err := DecodeAssignments(snap)
		if err != nil {
			return
		}
		m.mu.Lock()
		m.assignments = assignments
		m.mu.Unlock()
	})

	return m
}

// Close stops the watchers and releases the subscriptions.
func (m *ReadModel) Close() {
	close(m.done)
	for _, sub := range m.subs {
		sub.Close()
	}
	m.wg.Wait()
}

// Orders returns the current order view, pending queue first
// (oldest-first), then everything else newest-first.
func (m *ReadModel) Orders() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pending, rest []models.Order
	for _, o := range m.orders {
		if o.Status == models.StatusPending {
			pending = append(pending, o)
		} else {
			rest = append(rest, o)
		}
	}
	SortPendingQueue(pending)
	SortNewestFirst(rest)
	return append(pending, rest...)
}

// OrdersForTable returns the table's orders in display order.
func (m *ReadModel) OrdersForTable(table string) []models.Order {
	return OrdersForTable(m.Orders(), table)
}

// Waiters returns the current roster.
func (m *ReadModel) Waiters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.waiters))
	copy(out, m.waiters)
	return out
}

// Calls returns the outstanding calls visible to the session.
func (m *ReadModel) Calls(session models.SessionInfo) []models.WaiterCall {
	m.mu.RLock()
	calls := make([]models.WaiterCall, len(m.calls))
	copy(calls, m.calls)
	m.mu.RUnlock()
	return CallsFor(calls, session)
}

// Assignments returns the table→waiter map.
func (m *ReadModel) Assignments() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.assignments))
	for k, v := range m.assignments {
		out[k] = v
	}
	return out
}
