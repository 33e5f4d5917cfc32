package services

import (
	"fmt"
	"sort"

	"github.com/cachapa/comanda-api/models"
	"github.com/cachapa/comanda-api/store"
)

// TableService owns the waiter↔table mapping and the waiter roster,
// including the cascading effects of roster changes on assignments and
// active orders.
type TableService struct {
	store store.Store
}

// NewTableService returns an engine bound to st.
func NewTableService(st store.Store) *TableService {
	return &TableService{store: st}
}

// ReassignTable hands the table to newWaiterID and, in the same batch,
// rewrites the waiter of record on every non-Paid order of the table.
// Paid orders keep their original waiter for historical accuracy.
func (s *TableService) ReassignTable(tableNumber, newWaiterID string, session models.SessionInfo) error {
	if session.Role != models.RoleCashier {
		return &AuthorizationError{Message: "only the cashier can reassign tables"}
	}

	assignments, err := loadAssignments(s.store)
	if err != nil {
		return err
	}
	if _, ok := assignments[tableNumber]; !ok {
		return &ValidationError{Field: "tableNumber", Message: "unknown table number"}
	}

	waiters, err := loadWaiters(s.store)
	if err != nil {
		return err
	}
	if !contains(waiters, newWaiterID) {
		return &ValidationError{Field: "waiterId", Message: fmt.Sprintf("%q is not on the roster", newWaiterID)}
	}

	orders, err := loadOrders(s.store)
	if err != nil {
		return err
	}
	updates := map[string]any{
		assignmentPath(tableNumber): newWaiterID,
	}
	for _, o := range OrdersForTable(orders, tableNumber) {
		if o.Status == models.StatusPaid {
			continue
		}
		updates[orderPath(o.ID)+"/waiterId"] = newWaiterID
	}
	return s.store.MultiWrite(updates)
}

// AddWaiter appends a new identity to the roster. Uniqueness is enforced
// here; the store itself is just a list.
func (s *TableService) AddWaiter(name string, session models.SessionInfo) error {
	if session.Role != models.RoleCashier {
		return &AuthorizationError{Message: "only the cashier can manage the roster"}
	}
	if name == "" {
		return &ValidationError{Field: "name", Message: "waiter name is required"}
	}

	waiters, err := loadWaiters(s.store)
	if err != nil {
		return err
	}
	if contains(waiters, name) {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("%q is already on the roster", name)}
	}
	roster := append(waiters, name)
	sort.Strings(roster)
	return s.store.Write(PathWaiters, roster)
}

// DeleteWaiter removes an identity from the roster and nulls every table
// assignment pointing at it, in one batch. Affected tables cannot take new
// orders until reassigned. Orders keep their waiter of record.
func (s *TableService) DeleteWaiter(name string, session models.SessionInfo) error {
	if session.Role != models.RoleCashier {
		return &AuthorizationError{Message: "only the cashier can manage the roster"}
	}

	waiters, err := loadWaiters(s.store)
	if err != nil {
		return err
	}
	if !contains(waiters, name) {
		return &NotFoundError{Message: fmt.Sprintf("%q is not on the roster", name)}
	}

	remaining := make([]string, 0, len(waiters))
	for _, w := range waiters {
		if w != name {
			remaining = append(remaining, w)
		}
	}

	assignments, err := loadAssignments(s.store)
	if err != nil {
		return err
	}
	updates := map[string]any{
		PathWaiters: remaining,
	}
	for table, waiter := range assignments {
		if waiter == name {
			updates[assignmentPath(table)] = ""
		}
	}
	return s.store.MultiWrite(updates)
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}
