package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/models"
)

// SessionClaims carries the acting role and identity inside the JWT. The
// check-in flow issues a token per actor: clients get a table-scoped
// token, waiters and the cashier get identity tokens.
type SessionClaims struct {
	Role        string `json:"role"`
	Identity    string `json:"identity"`
	TableNumber string `json:"tableNumber,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
}

// Validate checks that the claims describe a usable session.
func (c SessionClaims) Validate(ctx context.Context) error {
	if !models.Role(c.Role).IsValid() {
		return &AuthError{Code: "INVALID_ROLE", Message: "token carries no valid role"}
	}
	if c.Identity == "" && models.Role(c.Role) != models.RoleClient {
		return &AuthError{Code: "MISSING_IDENTITY", Message: "token carries no identity"}
	}
	return nil
}

// Session maps the claims onto the engine-level session context.
func (c SessionClaims) Session() models.SessionInfo {
	return models.SessionInfo{
		Role:        models.Role(c.Role),
		Identity:    c.Identity,
		TableNumber: c.TableNumber,
		ClientName:  c.ClientName,
	}
}

// EnsureValidToken is a middleware that will check the validity of our JWT
// and put the resulting SessionInfo into the Gin context.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		log.Fatalf("Failed to parse the issuer url: %v", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &SessionClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator")
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	jwtMiddleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			claims, ok := token.CustomClaims.(*SessionClaims)
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INVALID_CLAIMS",
						"message": "Token claims are not in the expected format",
					},
				})
				return
			}

			c.Set("session", claims.Session())
			c.Next()
		}

		jwtMiddleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
	}
}

// GetSession extracts the SessionInfo from the Gin context
func GetSession(c *gin.Context) (models.SessionInfo, error) {
	v, exists := c.Get("session")
	if !exists {
		return models.SessionInfo{}, &AuthError{Code: "MISSING_SESSION", Message: "Session not found in context"}
	}

	session, ok := v.(models.SessionInfo)
	if !ok {
		return models.SessionInfo{}, &AuthError{Code: "INVALID_SESSION", Message: "Session is not in the expected format"}
	}

	return session, nil
}

// SetSession stores a SessionInfo in the Gin context (primarily for testing)
func SetSession(c *gin.Context, session models.SessionInfo) {
	c.Set("session", session)
}

// RequireRole is a middleware that rejects sessions of any other role
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_SESSION",
					"message": "Could not retrieve session",
				},
			})
			c.Abort()
			return
		}

		if session.Role != role {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
