// utils/auth.go
package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionCookie       = "salon_session"
	LegacySessionCookie = "salonx_session"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Generate JWT token
func GenerateToken(userID, salonID string, isAdmin bool) (string, error) {
	expiryHours := 24 // default
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			expiryHours = h
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     userID,
		"salonId": salonID,
		"isAdmin": isAdmin,
		"exp":     time.Now().Add(time.Duration(expiryHours) * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	return token.SignedString([]byte(secret))
}

// SetSessionCookie attaches the session token to the response.
func SetSessionCookie(c *gin.Context, token string) {
	expiryHours := 24
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			expiryHours = h
		}
	}
	c.SetCookie(SessionCookie, token, expiryHours*3600, "/", "", true, true)
}

// Session is what the auth middleware extracts from a request.
type Session struct {
	UserID  string
	SalonID string
	IsAdmin bool
}

// ParseLegacySession decodes the raw-JSON session blob the old dashboard
// stored in its cookie. Both snake_case and camelCase key spellings occur
// in the wild, so each field falls back to the alternate name.
func ParseLegacySession(raw []byte) (Session, error) {
	var blob struct {
		SalonID      string `json:"salon_id"`
		SalonIDCamel string `json:"salonId"`
		UserID       string `json:"user_id"`
		UserIDCamel  string `json:"userId"`
		IsAdmin      bool   `json:"isAdmin"`
	}
	if err := json.Unmarshal(raw, &blob); err != nil {
		return Session{}, err
	}

	s := Session{
		SalonID: blob.SalonID,
		UserID:  blob.UserID,
		IsAdmin: blob.IsAdmin,
	}
	if s.SalonID == "" {
		s.SalonID = blob.SalonIDCamel
	}
	if s.UserID == "" {
		s.UserID = blob.UserIDCamel
	}
	if s.SalonID == "" {
		return Session{}, errors.New("session blob missing salon id")
	}
	return s, nil
}

func parseJWTSession(tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return Session{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, errors.New("invalid token claims")
	}

	s := Session{}
	if sub, ok := claims["sub"].(string); ok {
		s.UserID = sub
	}
	if salonID, ok := claims["salonId"].(string); ok {
		s.SalonID = salonID
	}
	if isAdmin, ok := claims["isAdmin"].(bool); ok {
		s.IsAdmin = isAdmin
	}
	if s.SalonID == "" && !s.IsAdmin {
		return Session{}, errors.New("token missing salon id")
	}
	return s, nil
}

// SessionFromRequest resolves the session from the Authorization header, the
// session cookie, or the legacy cookie, in that order. Cookies may carry
// either a JWT or the legacy raw-JSON blob.
func SessionFromRequest(c *gin.Context) (Session, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		tokenString := header
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}
		return parseJWTSession(tokenString)
	}

	for _, name := range []string{SessionCookie, LegacySessionCookie} {
		value, err := c.Cookie(name)
		if err != nil || value == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(value), "{") {
			return ParseLegacySession([]byte(value))
		}
		return parseJWTSession(value)
	}

	return Session{}, errors.New("no session")
}

// Auth middleware
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := SessionFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set("userId", session.UserID)
		c.Set("salonId", session.SalonID)
		c.Set("isAdmin", session.IsAdmin)

		c.Next()
	}
}

// AdminMiddleware guards the admin panel. An admin session works, as does
// the raw panel key sent in X-Admin-Key and checked against its stored hash.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-Admin-Key"); key != "" {
			hash := os.Getenv("ADMIN_API_KEY_HASH")
			if hash != "" && CheckPasswordHash(key, hash) {
				c.Set("isAdmin", true)
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid admin key"})
			return
		}

		session, err := SessionFromRequest(c)
		if err != nil || !session.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Set("userId", session.UserID)
		c.Set("salonId", session.SalonID)
		c.Set("isAdmin", true)

		c.Next()
	}
}
