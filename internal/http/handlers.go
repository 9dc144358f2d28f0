package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xplorhq/asset-service/internal/domain"
	"github.com/xplorhq/asset-service/internal/log"
	"github.com/xplorhq/asset-service/internal/metrics"
	"github.com/xplorhq/asset-service/internal/oauth"
	"github.com/xplorhq/asset-service/internal/queue"
	"github.com/xplorhq/asset-service/internal/service"
)

const (
	accountExchange   = "account.events"
	stateCookie       = "oauth_state"
	stateCookieMaxAge = 600
)

// Pinger is what the health endpoint needs from the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Auth            *service.Auth
	Assets          *service.Assets
	Google          *oauth.GoogleOAuth
	Events          queue.Publisher
	Limiter         AttemptCounter
	RateLimitPerMin int
	Health          Pinger
}

func NewHandler(auth *service.Auth, assets *service.Assets, google *oauth.GoogleOAuth,
	events queue.Publisher, limiter AttemptCounter, rlPerMin int, health Pinger) *Handler {
	return &Handler{
		Auth:            auth,
		Assets:          assets,
		Google:          google,
		Events:          events,
		Limiter:         limiter,
		RateLimitPerMin: rlPerMin,
		Health:          health,
	}
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"status": "error", "message": msg})
}

// renderError translates the failure taxonomy into the documented status
// codes. Unclassified errors are logged with context and reported as a
// generic internal failure.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateAccount),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrWrongProvider),
		errors.Is(err, domain.ErrNotVerified),
		errors.Is(err, domain.ErrOAuthExchange):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUnknownSubject):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrAssetNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDependencyUnavailable):
		fail(c, http.StatusServiceUnavailable, "service dependency unavailable")
	default:
		log.L.Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") || len(in.Password) < 8 {
		fail(c, http.StatusBadRequest, "invalid email or weak password")
		return
	}

	if err := h.Auth.Register(c.Request.Context(), email, in.Password, strings.TrimSpace(in.FullName)); err != nil {
		h.renderError(c, err)
		return
	}

	// WithoutCancel keeps the request-ID value but lets the publish outlive
	// the response; the request context is torn down once the handler returns.
	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), accountExchange, "account.registered",
		queue.AccountRegistered{Email: email, FullName: in.FullName}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email. Please verify."})
}

type verifyReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyEmail godoc
// @Summary Confirm a registration OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body verifyReq true "verify"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/verify-email [post]
func (h *Handler) VerifyEmail(c *gin.Context) {
	var in verifyReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	err := h.Auth.VerifyEmail(c.Request.Context(), strings.TrimSpace(in.Email), in.OTP)
	if errors.Is(err, domain.ErrAccountNotFound) {
		// this route reports an unknown email as a plain bad request
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}

	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), accountExchange, "account.verified",
		queue.AccountVerified{Email: in.Email}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "email"
// @Param password formData string true "password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		fail(c, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.Auth.Login(c.Request.Context(), email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		h.renderError(c, err)
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), accountExchange, "account.loggedin",
		queue.AccountLoggedIn{Email: email, Provider: string(domain.ProviderEmail)}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

type forgotReq struct {
	Email string `json:"email"`
}

// ForgotPassword godoc
// @Summary Request a password-reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body forgotReq true "forgot"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var in forgotReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), strings.TrimSpace(in.Email)); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email."})
}

type resetReq struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ResetPassword godoc
// @Summary Reset the password with an OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body resetReq true "reset"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var in resetReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if len(in.NewPassword) < 8 {
		fail(c, http.StatusBadRequest, "weak password")
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), strings.TrimSpace(in.Email), in.OTP, in.NewPassword); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// GoogleLogin godoc
// @Summary Start the Google OAuth flow
// @Tags auth
// @Success 302
// @Router /auth/google [get]
func (h *Handler) GoogleLogin(c *gin.Context) {
	if h.Google == nil {
		fail(c, http.StatusServiceUnavailable, "oauth is not configured")
		return
	}
	state, err := h.Google.NewState()
	if err != nil {
		h.renderError(c, err)
		return
	}
	// the cookie pins the state to this browser session across the redirect
	c.SetCookie(stateCookie, state, stateCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, h.Google.AuthURL(state))
}

// GoogleCallback godoc
// @Summary Complete the Google OAuth flow
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /auth/google/callback [get]
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.Google == nil {
		fail(c, http.StatusServiceUnavailable, "oauth is not configured")
		return
	}

	state := c.Query("state")
	saved, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != saved || !h.Google.VerifyState(state) {
		h.renderError(c, domain.ErrOAuthExchange)
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	claims, err := h.Google.ExchangeAndVerify(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.L.Warn("oauth exchange failed", zap.String("request_id", requestID(c)), zap.Error(err))
		h.renderError(c, domain.ErrOAuthExchange)
		return
	}

	token, err := h.Auth.OAuthLogin(c.Request.Context(), claims)
	if err != nil {
		h.renderError(c, err)
		return
	}

	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), accountExchange, "account.loggedin",
		queue.AccountLoggedIn{Email: claims.Email, Provider: string(domain.ProviderGoogle)}, requestID(c))

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Me godoc
// @Summary Current account profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Profile
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		fail(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	c.JSON(http.StatusOK, u.Profile())
}

func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Xplor 3D asset backend"})
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Health.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
