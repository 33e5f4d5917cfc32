package services

import (
	"time"

	"github.com/cachapa/comanda-api/models"
	"github.com/cachapa/comanda-api/store"
)

// CallService owns the transient waiter-summon signals. Calls are keyed by
// table, so a table has at most one outstanding call at a time.
type CallService struct {
	store store.Store
	now   func() int64
}

// NewCallService returns an engine bound to st.
func NewCallService(st store.Store) *CallService {
	return &CallService{
		store: st,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// CallWaiter upserts the call record for the session's table, targeting
// the table's assigned waiter. A second call before acknowledgment simply
// refreshes timestamp and target; nothing queues.
func (s *CallService) CallWaiter(session models.SessionInfo) (models.WaiterCall, error) {
	if session.Role != models.RoleClient {
		return models.WaiterCall{}, &AuthorizationError{Message: "only clients can call a waiter"}
	}
	if !session.TableScoped() {
		return models.WaiterCall{}, &ValidationError{Field: "tableNumber", Message: "session is not scoped to a table"}
	}

	assignments, err := loadAssignments(s.store)
	if err != nil {
		return models.WaiterCall{}, err
	}
	waiterID, ok := assignments[session.TableNumber]
	if !ok {
		return models.WaiterCall{}, &ValidationError{Field: "tableNumber", Message: "unknown table number"}
	}
	if waiterID == "" {
		return models.WaiterCall{}, &ValidationError{Field: "tableNumber", Message: "table has no assigned waiter"}
	}

	call := models.WaiterCall{
		TableNumber: session.TableNumber,
		WaiterID:    waiterID,
		Timestamp:   s.now(),
	}
	err = s.store.Write(callPath(call.TableNumber), map[string]any{
		"waiterId":  call.WaiterID,
		"timestamp": call.Timestamp,
	})
	if err != nil {
		return models.WaiterCall{}, err
	}
	return call, nil
}

// AcknowledgeCall deletes the table's call record. The targeted waiter
// acknowledges their own calls; a cashier may clear any.
func (s *CallService) AcknowledgeCall(tableNumber string, session models.SessionInfo) error {
	snap, ok := s.store.Get(callPath(tableNumber))
	if !ok {
		return &NotFoundError{Message: "no outstanding call for this table"}
	}
	if session.Role != models.RoleCashier {
		if session.Role != models.RoleWaiter {
			return &AuthorizationError{Message: "only waiters can acknowledge calls"}
		}
		var call models.WaiterCall
		if err := decode(snap, &call); err != nil {
			return err
		}
		if call.WaiterID != session.Identity {
			return &AuthorizationError{Message: "call is for another waiter"}
		}
	}
	return s.store.MultiWrite(map[string]any{callPath(tableNumber): nil})
}

// CallsFor filters calls down to what the viewing session should see: a
// waiter sees calls targeting them, narrowed to their table when the
// session is table-scoped; a cashier sees everything.
func CallsFor(calls []models.WaiterCall, session models.SessionInfo) []models.WaiterCall {
	if session.Role == models.RoleCashier {
		return calls
	}
	var out []models.WaiterCall
	for _, c := range calls {
		if c.WaiterID != session.Identity {
			continue
		}
		if session.TableScoped() && c.TableNumber != session.TableNumber {
			continue
		}
		out = append(out, c)
	}
	return out
}
