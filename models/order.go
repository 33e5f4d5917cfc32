package models

// OrderStatus is the lifecycle state of an order. The values are the
// display strings the restaurant staff sees, kept verbatim in the store.
type OrderStatus string

const (
	StatusPending       OrderStatus = "Pendiente de Aprobación"
	StatusApproved      OrderStatus = "Aprobado - En Cocina"
	StatusDelivered     OrderStatus = "Entregado"
	StatusBillRequested OrderStatus = "Solicitando Cuenta"
	StatusPaid          OrderStatus = "Pagado"
)

// statusRank orders the lifecycle. Transitions are forward-only; there is
// no path back from a later state to an earlier one.
var statusRank = map[OrderStatus]int{
	StatusPending:       0,
	StatusApproved:      1,
	StatusDelivered:     2,
	StatusBillRequested: 3,
	StatusPaid:          4,
}

// IsValid reports whether s is one of the known lifecycle states.
func (s OrderStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal step.
// Any forward move is allowed once an order has been approved (a table
// close-out jumps Approved and Delivered orders straight to Paid); a
// Pending order can only be approved, never billed or delivered directly.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	if s == StatusPending {
		return next == StatusApproved
	}
	return to > from
}

// IsBillable reports whether the order counts toward a table's payable
// total: anything already approved but not yet paid.
func (s OrderStatus) IsBillable() bool {
	return s.IsValid() && s != StatusPending && s != StatusPaid
}

// CartItem is a single menu line in a cart or order. Quantity is at least 1
// by the time an order is placed; Price is the unit price in USD.
type CartItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Quantity    int     `json:"quantity"`
}

// Order is a single comanda for a table. Items and Total are fixed at
// creation; later actions only touch status, waiter of record and payment
// method. Corrections are a new order, never an edit.
type Order struct {
	ID            string      `json:"id"`
	TableNumber   string      `json:"tableNumber"`
	WaiterID      string      `json:"waiterId"`
	ClientName    string      `json:"clientName,omitempty"`
	Items         []CartItem  `json:"items"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	Timestamp     int64       `json:"timestamp"` // milliseconds since epoch
	PaymentMethod string      `json:"paymentMethod,omitempty"`
}

// StoreValue is the order as written to the store; the ID is the store
// key, not a field of the value.
func (o Order) StoreValue() map[string]any {
	v := map[string]any{
		"tableNumber": o.TableNumber,
		"waiterId":    o.WaiterID,
		"items":       o.Items,
		"total":       o.Total,
		"status":      string(o.Status),
		"timestamp":   o.Timestamp,
	}
	if o.ClientName != "" {
		v["clientName"] = o.ClientName
	}
	if o.PaymentMethod != "" {
		v["paymentMethod"] = o.PaymentMethod
	}
	return v
}

// CartTotal sums price×quantity over the cart.
func CartTotal(items []CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}
