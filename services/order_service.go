package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cachapa/comanda-api/models"
	"github.com/cachapa/comanda-api/store"
)

// OrderService owns the order lifecycle: creation, approval, delivery,
// bill request, payment and table clearing. It holds no state between
// calls; every operation reads the latest snapshot from the store,
// validates the session against it, and commits deltas.
type OrderService struct {
	store store.Store
	now   func() int64
	newID func() string
}

// NewOrderService returns an engine bound to st.
func NewOrderService(st store.Store) *OrderService {
	return &OrderService{
		store: st,
		now:   func() int64 { return time.Now().UnixMilli() },
		newID: func() string { return uuid.NewString() },
	}
}

// PlaceOrder creates a Pending order from the cart. The session must be
// scoped to a table whose assignment resolves to a waiter; the waiter of
// record comes from the assignment map, not from the caller. The total is
// computed here once and never changes afterwards.
func (s *OrderService) PlaceOrder(cart []models.CartItem, session models.SessionInfo) (models.Order, error) {
	if session.Role != models.RoleClient {
		return models.Order{}, &AuthorizationError{Message: "only clients can place orders"}
	}
	if !session.TableScoped() {
		return models.Order{}, &ValidationError{Field: "tableNumber", Message: "session is not scoped to a table"}
	}
	if len(cart) == 0 {
		return models.Order{}, &ValidationError{Field: "cart", Message: "cart is empty"}
	}
	for _, item := range cart {
		if item.Quantity < 1 {
			return models.Order{}, &ValidationError{
				Field:   "cart",
				Message: fmt.Sprintf("item %q has quantity %d", item.Name, item.Quantity),
			}
		}
	}

	assignments, err := loadAssignments(s.store)
	if err != nil {
		return models.Order{}, err
	}
	waiterID, ok := assignments[session.TableNumber]
	if !ok {
		return models.Order{}, &ValidationError{Field: "tableNumber", Message: "unknown table number"}
	}
	if waiterID == "" {
		return models.Order{}, &ValidationError{Field: "tableNumber", Message: "table has no assigned waiter"}
	}

	order := models.Order{
		ID:          s.newID(),
		TableNumber: session.TableNumber,
		WaiterID:    waiterID,
		ClientName:  session.ClientName,
		Items:       cart,
		Total:       models.CartTotal(cart),
		Status:      models.StatusPending,
		Timestamp:   s.now(),
	}
	if err := s.store.Write(orderPath(order.ID), order.StoreValue()); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// ApproveOrder moves a Pending order to Approved. Only the order's
// assigned waiter may approve it. The write carries an
// expected-previous-status precondition, so two waiters racing on the
// same order leave exactly one winner; the loser gets a conflict instead
// of a silent overwrite.
func (s *OrderService) ApproveOrder(orderID string, session models.SessionInfo) error {
	return s.transition(orderID, session, models.StatusPending, models.StatusApproved)
}

// MarkDelivered moves an Approved order to Delivered, under the same
// ownership and precondition rules as ApproveOrder.
func (s *OrderService) MarkDelivered(orderID string, session models.SessionInfo) error {
	return s.transition(orderID, session, models.StatusApproved, models.StatusDelivered)
}

func (s *OrderService) transition(orderID string, session models.SessionInfo, from, to models.OrderStatus) error {
	if session.Role != models.RoleWaiter {
		return &AuthorizationError{Message: "only waiters can update order status"}
	}
	order, err := s.getOrder(orderID)
	if err != nil {
		return err
	}
	if order.WaiterID != session.Identity {
		return &AuthorizationError{
			Message: fmt.Sprintf("order belongs to %s", order.WaiterID),
		}
	}
	if order.Status != from {
		return &ConflictError{
			Message: fmt.Sprintf("order is %q, expected %q", order.Status, from),
		}
	}
	return s.store.MultiWriteIf(
		map[string]any{orderPath(orderID) + "/status": string(from)},
		map[string]any{orderPath(orderID) + "/status": string(to)},
	)
}

// RequestBill transitions every Approved or Delivered order of the table
// to BillRequested in one atomic batch, stamping the chosen payment method
// on each. Pending orders are left untouched: nothing unapproved can be
// billed. With no eligible orders the call is a no-op.
func (s *OrderService) RequestBill(tableNumber, paymentMethod string, session models.SessionInfo) error {
	if err := requireTableAccess(session, tableNumber); err != nil {
		return err
	}
	if paymentMethod == "" {
		return &ValidationError{Field: "paymentMethod", Message: "payment method is required"}
	}

	orders, err := loadOrders(s.store)
	if err != nil {
		return err
	}
	expect := make(map[string]any)
	updates := make(map[string]any)
	for _, o := range OrdersForTable(orders, tableNumber) {
		if o.Status != models.StatusApproved && o.Status != models.StatusDelivered {
			continue
		}
		expect[orderPath(o.ID)+"/status"] = string(o.Status)
		updates[orderPath(o.ID)+"/status"] = string(models.StatusBillRequested)
		updates[orderPath(o.ID)+"/paymentMethod"] = paymentMethod
	}
	if len(updates) == 0 {
		return nil
	}
	return s.store.MultiWriteIf(expect, updates)
}

// MarkTableAsPaid closes out every non-Pending order of the table as Paid
// in one batch. Pending orders stay open for a future cycle.
func (s *OrderService) MarkTableAsPaid(tableNumber string, session models.SessionInfo) error {
	if session.Role != models.RoleCashier {
		return &AuthorizationError{Message: "only the cashier can mark a table as paid"}
	}

	orders, err := loadOrders(s.store)
	if err != nil {
		return err
	}
	expect := make(map[string]any)
	updates := make(map[string]any)
	for _, o := range OrdersForTable(orders, tableNumber) {
		if o.Status == models.StatusPending || o.Status == models.StatusPaid {
			continue
		}
		expect[orderPath(o.ID)+"/status"] = string(o.Status)
		updates[orderPath(o.ID)+"/status"] = string(models.StatusPaid)
	}
	if len(updates) == 0 {
		return nil
	}
	return s.store.MultiWriteIf(expect, updates)
}

// ClearTable destructively removes every order record of the table,
// regardless of status. Irreversible; callers are expected to confirm
// payment (CanCloseTable, then MarkTableAsPaid) before clearing.
func (s *OrderService) ClearTable(tableNumber string, session models.SessionInfo) error {
	if session.Role != models.RoleCashier {
		return &AuthorizationError{Message: "only the cashier can clear a table"}
	}

	orders, err := loadOrders(s.store)
	if err != nil {
		return err
	}
	updates := make(map[string]any)
	for _, o := range OrdersForTable(orders, tableNumber) {
		updates[orderPath(o.ID)] = nil
	}
	if len(updates) == 0 {
		return nil
	}
	return s.store.MultiWrite(updates)
}

func (s *OrderService) getOrder(orderID string) (models.Order, error) {
	snap, ok := s.store.Get(orderPath(orderID))
	if !ok {
		return models.Order{}, &NotFoundError{Message: "order not found"}
	}
	var order models.Order
	if err := decode(snap, &order); err != nil {
		return models.Order{}, fmt.Errorf("decode order: %w", err)
	}
	order.ID = orderID
	return order, nil
}

// requireTableAccess lets a cashier act on any table and a table-scoped
// session act on its own table only.
func requireTableAccess(session models.SessionInfo, tableNumber string) error {
	if session.Role == models.RoleCashier {
		return nil
	}
	if session.TableNumber != tableNumber {
		return &AuthorizationError{Message: "session is not scoped to this table"}
	}
	return nil
}
