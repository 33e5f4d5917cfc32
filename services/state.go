package services

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cachapa/comanda-api/models"
	"github.com/cachapa/comanda-api/store"
)

// Store paths. The engines hold no state of their own; every operation
// reads the latest snapshot under one of these roots, validates, and
// writes deltas back.
const (
	PathOrders      = "orders"
	PathWaiters     = "waiters"
	PathCalls       = "waiterCalls"
	PathAssignments = "tableAssignments"
)

func orderPath(id string) string { return PathOrders + "/" + id }
func callPath(table string) string { return PathCalls + "/" + table }
func assignmentPath(table string) string { return PathAssignments + "/" + table }

// decode maps a snapshot value (JSON-shaped maps/slices) onto out.
func decode(snap any, out any) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// DecodeOrders turns the snapshot under "orders" into a slice, folding the
// store key into each order's ID.
func DecodeOrders(snap any) ([]models.Order, error) {
	if snap == nil {
		return nil, nil
	}
	byID := make(map[string]models.Order)
	if err := decode(snap, &byID); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	orders := make([]models.Order, 0, len(byID))
	for id, o := range byID {
		o.ID = id
		orders = append(orders, o)
	}
	return orders, nil
}

// DecodeCalls turns the snapshot under "waiterCalls" into a slice, folding
// the table-number key into each call.
func DecodeCalls(snap any) ([]models.WaiterCall, error) {
	if snap == nil {
		return nil, nil
	}
	byTable := make(map[string]models.WaiterCall)
	if err := decode(snap, &byTable); err != nil {
		return nil, fmt.Errorf("decode waiter calls: %w", err)
	}
	calls := make([]models.WaiterCall, 0, len(byTable))
	for table, c := range byTable {
		c.TableNumber = table
		calls = append(calls, c)
	}
	return calls, nil
}

// DecodeWaiters turns the snapshot under "waiters" into the roster slice.
func DecodeWaiters(snap any) ([]string, error) {
	if snap == nil {
		return nil, nil
	}
	var waiters []string
	if err := decode(snap, &waiters); err != nil {
		return nil, fmt.Errorf("decode waiters: %w", err)
	}
	return waiters, nil
}

// DecodeAssignments turns the snapshot under "tableAssignments" into the
// table→waiter map. An empty waiter name means unassigned.
func DecodeAssignments(snap any) (map[string]string, error) {
	if snap == nil {
		return nil, nil
	}
	assignments := make(map[string]string)
	if err := decode(snap, &assignments); err != nil {
		return nil, fmt.Errorf("decode table assignments: %w", err)
	}
	return assignments, nil
}

func loadOrders(st store.Store) ([]models.Order, error) {
	snap, _ := st.Get(PathOrders)
	return DecodeOrders(snap)
}

func loadAssignments(st store.Store) (map[string]string, error) {
	snap, _ := st.Get(PathAssignments)
	return DecodeAssignments(snap)
}

func loadWaiters(st store.Store) ([]string, error) {
	snap, _ := st.Get(PathWaiters)
	return DecodeWaiters(snap)
}

// OrdersForTable filters orders down to one table.
func OrdersForTable(orders []models.Order, table string) []models.Order {
	var out []models.Order
	for _, o := range orders {
		if o.TableNumber == table {
			out = append(out, o)
		}
	}
	return out
}

// SortPendingQueue orders a pending list oldest-first, approximating FIFO
// service at the kitchen.
func SortPendingQueue(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp < orders[j].Timestamp
	})
}

// SortNewestFirst orders an active or historical list newest-first.
func SortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp > orders[j].Timestamp
	})
}

// Seed writes the initial roster and table assignments when the store has
// neither, so a fresh installation can take orders immediately.
func Seed(st store.Store) error {
	updates := make(map[string]any)
	if _, ok := st.Get(PathWaiters); !ok {
		updates[PathWaiters] = models.InitialWaiters
	}
	if _, ok := st.Get(PathAssignments); !ok {
		for table, waiter := range models.InitialTableAssignments {
			updates[assignmentPath(table)] = waiter
		}
	}
	if len(updates) == 0 {
		return nil
	}
	return st.MultiWrite(updates)
}
