package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/billed/backend/internal/domain/route"
	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/auth"
	"github.com/billed/backend/internal/infrastructure/cache"
	"github.com/billed/backend/internal/infrastructure/logger"
	"github.com/billed/backend/internal/interfaces/http/dto"
	"github.com/billed/backend/internal/interfaces/http/middleware"
	"github.com/billed/backend/internal/interfaces/view"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHandler opens and closes cookie sessions from issued tokens
type SessionHandler struct {
	BaseHandler
	jwt          *auth.JWTService
	store        cache.SessionStore
	secureCookie bool
}

// NewSessionHandler creates a new SessionHandler. secureCookie marks the
// session cookie as https-only.
func NewSessionHandler(jwt *auth.JWTService, store cache.SessionStore, secureCookie bool) *SessionHandler {
	return &SessionHandler{
		jwt:          jwt,
		store:        store,
		secureCookie: secureCookie,
	}
}

// Create stores the user and token of a valid JWT under a fresh session ID
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	s, err := h.open(c, req.Token)
	if err != nil {
		if code, ok := tokenErrorCode(err); ok {
			h.Unauthorized(c, code, "Invalid token")
			return
		}
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(sessionResponse(s)))
}

// LoginPage renders the sign-in form
// GET /
func (h *SessionHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, "")
}

// Login opens a cookie session from the submitted token and sends the user
// to the bills page
// POST /
func (h *SessionHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, http.StatusBadRequest, "Jeton de connexion requis")
		return
	}

	if _, err := h.open(c, form.Token); err != nil {
		if _, ok := tokenErrorCode(err); ok {
			h.renderLogin(c, http.StatusUnauthorized, "Jeton invalide ou expiré")
			return
		}
		logger.L(c.Request.Context()).Error("Failed to open session", zap.Error(err))
		h.renderLogin(c, http.StatusInternalServerError, "Erreur 500")
		return
	}
	c.Redirect(http.StatusSeeOther, PagePath(route.Bills))
}

// Logout clears the cookie session and returns to the login page
// POST /logout
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.clear(c); err != nil {
		logger.L(c.Request.Context()).Warn("Failed to clear session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, PagePath(route.Login))
}

// open validates token, saves the session and sets its cookie
func (h *SessionHandler) open(c *gin.Context, token string) (session.Context, error) {
	s, err := h.jwt.Session(token)
	if err != nil {
		return session.Context{}, err
	}

	id := uuid.NewString()
	if err := session.Save(c.Request.Context(), h.store.ForSession(id), s); err != nil {
		return session.Context{}, err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, id, int(h.jwt.Expiration().Seconds()), "/", "", h.secureCookie, true)
	logger.L(c.Request.Context()).Info("Session opened", zap.String("user_email", s.User.Email))
	return s, nil
}

// clear drops the stored session, if any, and expires the cookie
func (h *SessionHandler) clear(c *gin.Context) error {
	var err error
	if id, cerr := c.Cookie(middleware.SessionCookie); cerr == nil && id != "" {
		err = session.Clear(c.Request.Context(), h.store.ForSession(id))
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	return err
}

func (h *SessionHandler) renderLogin(c *gin.Context, status int, errMsg string) {
	var buf bytes.Buffer
	if err := view.RenderLogin(&buf, "fr", errMsg); err != nil {
		logger.L(c.Request.Context()).Error("Failed to render page", zap.Error(err))
		h.InternalError(c)
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}

// tokenErrorCode maps a token rejection to its API error code
func tokenErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, true
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrEmptySecret):
		return dto.ErrCodeTokenInvalid, true
	default:
		return "", false
	}
}

// Current describes the signed-in user
// GET /api/v1/sessions/current
func (h *SessionHandler) Current(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		h.Unauthorized(c, dto.ErrCodeNoSession, "No user is signed in")
		return
	}
	h.Success(c, sessionResponse(s))
}

// Delete clears the cookie session. Deleting a missing session succeeds.
// DELETE /api/v1/sessions
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.clear(c); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func sessionResponse(s session.Context) dto.SessionResponse {
	return dto.SessionResponse{
		Type:  string(s.User.Type),
		Email: s.User.Email,
	}
}
