package services

import "github.com/cachapa/comanda-api/models"

// Billing derivations are pure functions over an order snapshot, so the
// same push can be re-derived any number of times with the same result.

// ComputeBillableTotal sums the totals of every billable order: approved
// work not yet paid. Pending and Paid orders never count.
func ComputeBillableTotal(orders []models.Order) float64 {
	var sum float64
	for _, o := range orders {
		if o.Status.IsBillable() {
			sum += o.Total
		}
	}
	return sum
}

// CanRequestBill reports whether the table may ask for its bill: at least
// one billable order and nothing still Pending. A pending order means the
// kitchen queue is unresolved, so billing stays blocked.
func CanRequestBill(orders []models.Order) bool {
	any := false
	for _, o := range orders {
		if o.Status == models.StatusPending {
			return false
		}
		if o.Status.IsBillable() {
			any = true
		}
	}
	return any
}

// CanCloseTable is the stricter gate in front of the irreversible
// close-out: at least one order has reached BillRequested, and every order
// is either Delivered or BillRequested. Nothing Pending, nothing approved
// but still undelivered, nothing already Paid left dangling.
func CanCloseTable(orders []models.Order) bool {
	any := false
	for _, o := range orders {
		switch o.Status {
		case models.StatusBillRequested:
			any = true
		case models.StatusDelivered:
		default:
			return false
		}
	}
	return any
}
