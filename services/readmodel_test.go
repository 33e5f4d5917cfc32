package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachapa/comanda-api/models"
)

// eventually retries an assertion until the read model has caught up with
// the store's pushes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestReadModelTracksStore(t *testing.T) {
	st := newTestStore(t)
	m := NewReadModel(st)
	defer m.Close()

	eventually(t, func() bool {
		return len(m.Waiters()) == len(models.InitialWaiters)
	}, "read model never saw the seeded roster")

	orders := newTestOrderService(st)
	placed, err := orders.PlaceOrder(sampleCart(), clientAt("3"))
	require.NoError(t, err)

	eventually(t, func() bool {
		got := m.OrdersForTable("3")
		return len(got) == 1 && got[0].ID == placed.ID
	}, "read model never saw the new order")

	require.NoError(t, orders.ApproveOrder(placed.ID, waiter("Luis Jimenez")))
	eventually(t, func() bool {
		got := m.OrdersForTable("3")
		return len(got) == 1 && got[0].Status == models.StatusApproved
	}, "read model never saw the approval")

	calls := newTestCallService(st)
	_, err = calls.CallWaiter(clientAt("3"))
	require.NoError(t, err)
	eventually(t, func() bool {
		return len(m.Calls(waiter("Luis Jimenez"))) == 1
	}, "read model never saw the call")

	assert.Equal(t, "Luis Jimenez", m.Assignments()["3"])
}

func TestReadModelDisplayOrder(t *testing.T) {
	st := newTestStore(t)
	m := NewReadModel(st)
	defer m.Close()

	orders := newTestOrderService(st)
	first, err := orders.PlaceOrder(sampleCart(), clientAt("3"))
	require.NoError(t, err)
	second, err := orders.PlaceOrder(sampleCart(), clientAt("3"))
	require.NoError(t, err)
	third, err := orders.PlaceOrder(sampleCart(), clientAt("3"))
	require.NoError(t, err)

	// Approve the middle one; pending queue stays oldest-first, the
	// active list is newest-first and follows the pending block.
	require.NoError(t, orders.ApproveOrder(second.ID, waiter("Luis Jimenez")))

	eventually(t, func() bool {
		got := m.Orders()
		return len(got) == 3 &&
			got[0].ID == first.ID &&
			got[1].ID == third.ID &&
			got[2].ID == second.ID
	}, "display order never settled")
}

func TestReadModelIsIdempotentOnRepeatedPushes(t *testing.T) {
	st := newTestStore(t)
	m := NewReadModel(st)
	defer m.Close()

	orders := newTestOrderService(st)
	_, err := orders.PlaceOrder(sampleCart(), clientAt("3"))
	require.NoError(t, err)

	// Touching an unrelated table re-pushes the whole orders snapshot;
	// re-deriving it must not duplicate anything.
	_, err = orders.PlaceOrder(sampleCart(), clientAt("5"))
	require.NoError(t, err)

	eventually(t, func() bool {
		return len(m.Orders()) == 2 && len(m.OrdersForTable("3")) == 1
	}, "derived view drifted across pushes")
}
