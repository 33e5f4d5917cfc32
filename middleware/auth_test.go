package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachapa/comanda-api/models"
)

func TestSessionClaimsValidate(t *testing.T) {
	tests := []struct {
		name    string
		claims  SessionClaims
		wantErr bool
	}{
		{"client with table", SessionClaims{Role: "client", TableNumber: "3", ClientName: "María"}, false},
		{"waiter with identity", SessionClaims{Role: "waiter", Identity: "Luis Jimenez"}, false},
		{"cashier with identity", SessionClaims{Role: "cashier", Identity: "Caja"}, false},
		{"missing role", SessionClaims{Identity: "x"}, true},
		{"bogus role", SessionClaims{Role: "admin", Identity: "x"}, true},
		{"waiter without identity", SessionClaims{Role: "waiter"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.claims.Validate(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSessionClaimsSession(t *testing.T) {
	claims := SessionClaims{
		Role:        "client",
		TableNumber: "3",
		ClientName:  "María",
	}
	session := claims.Session()
	assert.Equal(t, models.RoleClient, session.Role)
	assert.Equal(t, "3", session.TableNumber)
	assert.Equal(t, "María", session.ClientName)
	assert.True(t, session.TableScoped())
}

func TestGetSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		_, err := GetSession(c)
		var ae *AuthError
		assert.ErrorAs(t, err, &ae)
	})

	t.Run("round trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		want := models.SessionInfo{Role: models.RoleWaiter, Identity: "Luis Jimenez"}
		SetSession(c, want)
		got, err := GetSession(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/cashier-only",
		func(c *gin.Context) {
			SetSession(c, models.SessionInfo{Role: models.RoleWaiter, Identity: "Luis Jimenez"})
		},
		RequireRole(models.RoleCashier),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)
	router.GET("/waiter-only",
		func(c *gin.Context) {
			SetSession(c, models.SessionInfo{Role: models.RoleWaiter, Identity: "Luis Jimenez"})
		},
		RequireRole(models.RoleWaiter),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)
	router.GET("/no-session",
		RequireRole(models.RoleWaiter),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)

	t.Run("wrong role is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cashier-only", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("matching role passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/waiter-only", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no session is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/no-session", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
