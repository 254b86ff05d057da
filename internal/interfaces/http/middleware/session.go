package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/billed/backend/internal/domain/route"
	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/auth"
	"github.com/billed/backend/internal/infrastructure/cache"
	"github.com/billed/backend/internal/infrastructure/logger"
	"github.com/billed/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys and transport names of the session
const (
	SessionKey    = "session"
	SessionCookie = "billed_session"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// SessionConfig holds the session middleware dependencies
type SessionConfig struct {
	// JWTService validates bearer tokens and stored session tokens
	JWTService *auth.JWTService
	// Store resolves the SessionCookie; optional
	Store cache.SessionStore
	// HTML makes unauthenticated requests redirect to the login page
	// instead of answering 401 JSON
	HTML   bool
	Logger *zap.Logger
}

// Session authenticates the request and stores the session.Context under
// SessionKey. A bearer token wins over the session cookie.
func Session(cfg SessionConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		s, err := resolveSession(c, cfg)
		if err != nil {
			log.Warn("Session authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			abortUnauthenticated(c, cfg.HTML, err)
			return
		}

		c.Set(SessionKey, s)
		ctx, _ := logger.WithUserEmail(c.Request.Context(), logger.FromContext(c.Request.Context()), s.User.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func resolveSession(c *gin.Context, cfg SessionConfig) (session.Context, error) {
	if header := c.GetHeader(AuthHeaderKey); header != "" {
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			return session.Context{}, auth.ErrInvalidToken
		}
		return cfg.JWTService.Session(token)
	}

	if cfg.Store == nil {
		return session.Context{}, session.ErrNoSession
	}
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		return session.Context{}, session.ErrNoSession
	}
	s, err := session.Load(c.Request.Context(), cfg.Store.ForSession(id))
	if err != nil {
		return session.Context{}, err
	}
	// the stored token must still be valid and belong to the stored user
	verified, err := cfg.JWTService.Session(s.JWT)
	if err != nil {
		return session.Context{}, err
	}
	if verified.User != s.User {
		return session.Context{}, auth.ErrInvalidClaims
	}
	return verified, nil
}

func abortUnauthenticated(c *gin.Context, html bool, err error) {
	if html {
		c.Redirect(http.StatusSeeOther, route.Login.Path())
		c.Abort()
		return
	}

	code := dto.ErrCodeUnauthorized
	message := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	case errors.Is(err, session.ErrNoSession):
		code, message = dto.ErrCodeNoSession, "No user is signed in"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetSession retrieves the session stored by Session
func GetSession(c *gin.Context) (session.Context, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return session.Context{}, false
	}
	s, ok := v.(session.Context)
	return s, ok
}
