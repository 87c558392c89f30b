package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	errs "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/server/response"
)

// quickbooksEndpoint only carries the authorize URL: the code-for-token
// exchange is performed by the accounting backend, not this service
var quickbooksEndpoint = oauth2.Endpoint{
	AuthURL: "https://appcenter.intuit.com/connect/oauth2",
}

var quickbooksScopes = []string{
	"com.intuit.quickbooks.accounting",
	"openid",
	"profile",
	"email",
	"phone",
	"address",
}

// generateJWTState produces the short-lived anti-forgery state carried
// through the OAuth redirect. Signing it means no server-side session is
// needed to verify it on callback.
func generateJWTState(secret string) (string, error) {
	claims := jwt.MapClaims{
		"exp":   time.Now().Add(10 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
		"state": uuid.New().String(),
		"type":  "oauth_state",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signedToken, nil
}

func verifyState(state string, secret string) bool {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	tokenType, _ := claims["type"].(string)
	return tokenType == "oauth_state"
}

func (s *Server) HandleQuickBooksConnect() gin.HandlerFunc {
	return func(c *gin.Context) {
		conf := &oauth2.Config{
			ClientID:    s.Config.QuickbooksClientID,
			RedirectURL: s.Config.QuickbooksRedirectURL,
			Endpoint:    quickbooksEndpoint,
			Scopes:      quickbooksScopes,
		}

		state, err := generateJWTState(s.Config.JWTSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate state"})
			return
		}

		authURL := conf.AuthCodeURL(state)
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// HandleQuickBooksCallback verifies the anti-forgery state and hands the
// authorization code back to the caller. Exchanging the code for tokens is
// out of scope here and belongs to the trusted accounting backend.
func (s *Server) HandleQuickBooksCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		state := c.Query("state")
		realmID := c.Query("realmId")

		if !verifyState(state, s.Config.JWTSecret) {
			log.Println("Invalid or expired state")
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired state"})
			return
		}

		if code == "" {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("no authorization code received", http.StatusBadRequest))
			return
		}

		response.JSON(c, "QuickBooks authorization received", http.StatusOK, gin.H{
			"code":     code,
			"realm_id": realmID,
		}, nil)
	}
}
