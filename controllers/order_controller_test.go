package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/models"
	"github.com/cachapa/comanda-api/services"
	"github.com/cachapa/comanda-api/store"
	"github.com/cachapa/comanda-api/tests/testutil"
)

// setupAPI wires a fresh in-memory store, seeded state, read model and a
// router whose auth middleware is replaced by a header-driven session
// injector, so handlers are exercised exactly as in production minus JWT
// parsing.
func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	require.NoError(t, services.Seed(st))
	config.SetStore(st)
	config.SetConfig(&config.Config{BCVRate: 242.79, GoEnv: "test"})

	m := services.NewReadModel(st)
	t.Cleanup(m.Close)
	SetReadModel(m)

	router := gin.New()
	router.Use(testutil.HeaderSessionInjector())

	v1 := router.Group("/api/v1")
	v1.GET("/orders", ListOrders)
	v1.POST("/orders", PlaceOrder)
	v1.POST("/orders/:id/approve", ApproveOrder)
	v1.POST("/orders/:id/deliver", MarkDelivered)
	v1.GET("/tables/:table/billing", GetTableBilling)
	v1.POST("/tables/:table/bill", RequestBill)
	v1.POST("/tables/:table/paid", MarkTableAsPaid)
	v1.DELETE("/tables/:table/orders", ClearTable)
	v1.PUT("/tables/:table/waiter", ReassignTable)
	v1.GET("/waiters", ListWaiters)
	v1.POST("/waiters", AddWaiter)
	v1.DELETE("/waiters/:name", DeleteWaiter)
	v1.GET("/calls", ListCalls)
	v1.POST("/calls", CallWaiter)
	v1.DELETE("/calls/:table", AcknowledgeCall)

	return router
}

type session struct {
	role     string
	identity string
	table    string
	client   string
}

var (
	asClient3 = session{role: "client", table: "3", client: "María"}
	asLuis    = session{role: "waiter", identity: "Luis Jimenez"}
	asAna     = session{role: "waiter", identity: "Ana Fuentes"}
	asCashier = session{role: "cashier", identity: "Caja"}
)

func do(router *gin.Engine, method, path string, s session, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.role != "" {
		req.Header.Set("X-Test-Role", s.role)
		req.Header.Set("X-Test-Identity", s.identity)
		req.Header.Set("X-Test-Table", s.table)
		req.Header.Set("X-Test-Client", s.client)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// list extracts the data array from a list response, treating null as empty.
func list(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	data, _ := parse(t, w)["data"].([]interface{})
	return data
}

func placeOrder(t *testing.T, router *gin.Engine, s session) string {
	t.Helper()
	w := do(router, http.MethodPost, "/api/v1/orders", s, map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": "a", "name": "Cachapa", "price": 5, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := parse(t, w)["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestPlaceOrderEndpoint(t *testing.T) {
	router := setupAPI(t)

	tests := []struct {
		name           string
		session        session
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:    "client places an order",
			session: asClient3,
			body: map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "a", "name": "Cachapa", "price": 5, "quantity": 2},
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing items",
			session:        asClient3,
			body:           map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:    "empty cart",
			session: asClient3,
			body: map[string]interface{}{
				"items": []map[string]interface{}{},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:    "unassigned table",
			session: session{role: "client", table: "13"},
			body: map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "a", "name": "Cachapa", "price": 5, "quantity": 2},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:    "waiter cannot place orders",
			session: asLuis,
			body: map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "a", "name": "Cachapa", "price": 5, "quantity": 2},
				},
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name:    "no session",
			session: session{},
			body: map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "a", "name": "Cachapa", "price": 5, "quantity": 2},
				},
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/api/v1/orders", tt.session, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			response := parse(t, w)
			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errObj := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errObj["code"])
				return
			}

			assert.True(t, response["success"].(bool))
			data := response["data"].(map[string]interface{})
			assert.Equal(t, "3", data["tableNumber"])
			assert.Equal(t, "Luis Jimenez", data["waiterId"])
			assert.Equal(t, float64(10), data["total"])
			assert.Equal(t, string(models.StatusPending), data["status"])
		})
	}
}

func TestApproveAndDeliverEndpoints(t *testing.T) {
	router := setupAPI(t)
	orderID := placeOrder(t, router, asClient3)

	t.Run("another waiter is forbidden", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/orders/"+orderID+"/approve", asAna, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("deliver before approve conflicts", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/orders/"+orderID+"/deliver", asLuis, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("assigned waiter approves then delivers", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/orders/"+orderID+"/approve", asLuis, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = do(router, http.MethodPost, "/api/v1/orders/"+orderID+"/deliver", asLuis, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("double approve conflicts", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/orders/"+orderID+"/approve", asLuis, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/orders/missing/approve", asLuis, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// failingPersister rejects every store commit.
type failingPersister struct{}

func (failingPersister) Apply(map[string]any) error {
	return errors.New("connection refused")
}

func TestPlaceOrderStoreOutage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Reads still resolve the table assignment; the commit itself fails.
	st := store.NewPersistent(failingPersister{}, map[string]any{
		"tableAssignments/3": "Luis Jimenez",
	})
	config.SetStore(st)

	router := gin.New()
	router.Use(testutil.HeaderSessionInjector())
	router.POST("/api/v1/orders", PlaceOrder)

	w := do(router, http.MethodPost, "/api/v1/orders", asClient3, map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": "a", "name": "Cachapa", "price": 5, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

	response := parse(t, w)
	assert.False(t, response["success"].(bool))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "STORE_UNAVAILABLE", errObj["code"])
}

func TestListOrdersEndpoint(t *testing.T) {
	router := setupAPI(t)
	placeOrder(t, router, asClient3)
	placeOrder(t, router, session{role: "client", table: "5"})

	t.Run("client sees own table only", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			w := do(router, http.MethodGet, "/api/v1/orders", asClient3, nil)
			if w.Code != http.StatusOK {
				return false
			}
			data := list(t, w)
			return len(data) == 1
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("waiter sees all tables", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			w := do(router, http.MethodGet, "/api/v1/orders", asLuis, nil)
			if w.Code != http.StatusOK {
				return false
			}
			data := list(t, w)
			return len(data) == 2
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("table-scoped waiter sees only that table", func(t *testing.T) {
		scoped := session{role: "waiter", identity: "Luis Jimenez", table: "3"}
		assert.Eventually(t, func() bool {
			w := do(router, http.MethodGet, "/api/v1/orders", scoped, nil)
			if w.Code != http.StatusOK {
				return false
			}
			data := list(t, w)
			if len(data) != 1 {
				return false
			}
			order := data[0].(map[string]interface{})
			return order["tableNumber"] == "3"
		}, 2*time.Second, 10*time.Millisecond)
	})
}
