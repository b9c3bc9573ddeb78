package http

import (
	"net/http"
	"time"

	"github.com/lifepost/lifepost/internal/auth/guard"
	"github.com/lifepost/lifepost/internal/auth/service"
	"github.com/lifepost/lifepost/internal/auth/session"
	commonhttp "github.com/lifepost/lifepost/internal/common/http"
	"github.com/lifepost/lifepost/internal/common/logger"
	userdomain "github.com/lifepost/lifepost/internal/user/domain"
)

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password2"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type Handler struct {
	auth       *service.AuthService
	binder     *session.Binder
	guard      *guard.Guard
	sessionTTL time.Duration
	timeout    time.Duration
	errors     *commonhttp.ErrorHandler
	log        *logger.Logger
}

func NewHandler(
	auth *service.AuthService,
	binder *session.Binder,
	g *guard.Guard,
	sessionTTL time.Duration,
	timeout time.Duration,
	log *logger.Logger,
) *Handler {
	return &Handler{
		auth:       auth,
		binder:     binder,
		guard:      g,
		sessionTTL: sessionTTL,
		timeout:    timeout,
		errors:     commonhttp.NewErrorHandler(log),
		log:        log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	post := commonhttp.RequireMethod(http.MethodPost)
	get := commonhttp.RequireMethod(http.MethodGet)

	mux.HandleFunc("/api/users/register", post(withTimeout(h.register)))
	mux.HandleFunc("/api/users/login", post(withTimeout(h.login)))
	mux.HandleFunc("/api/users/logout", post(withTimeout(h.logout)))
	mux.HandleFunc("/api/users/me", get(withTimeout(h.me)))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	user, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "You have been logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.guard.Identity(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user userdomain.User, status int) {
	token, err := h.binder.Bind(user)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	commonhttp.WriteJSON(w, status, toUserResponse(user))
}

func toUserResponse(user userdomain.User) userResponse {
	summary := user.Summary()
	return userResponse{
		ID:       string(summary.ID),
		Name:     summary.Name,
		Username: summary.Username,
	}
}
