package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallEndpoints(t *testing.T) {
	router := setupAPI(t)

	t.Run("client calls their waiter", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/calls", asClient3, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := parse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "3", data["tableNumber"])
		assert.Equal(t, "Luis Jimenez", data["waiterId"])
	})

	t.Run("waiter cannot place calls", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/calls", asLuis, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("targeted waiter sees the call, others do not", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			w := do(router, http.MethodGet, "/api/v1/calls", asLuis, nil)
			return len(list(t, w)) == 1
		}, 2*time.Second, 10*time.Millisecond)

		w := do(router, http.MethodGet, "/api/v1/calls", asAna, nil)
		assert.Empty(t, parse(t, w)["data"])
	})

	t.Run("another waiter cannot acknowledge", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/api/v1/calls/3", asAna, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("targeted waiter acknowledges", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/api/v1/calls/3", asLuis, nil)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Eventually(t, func() bool {
			w := do(router, http.MethodGet, "/api/v1/calls", asCashier, nil)
			return len(list(t, w)) == 0
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("acknowledging an absent call is not found", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/api/v1/calls/3", asLuis, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
