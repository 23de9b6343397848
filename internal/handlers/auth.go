package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/dimitrije/officehub/internal/config"
	"github.com/dimitrije/officehub/internal/middleware"
	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/oauth"
	"github.com/dimitrije/officehub/internal/services"
	"github.com/dimitrije/officehub/internal/sse"
	"github.com/dimitrije/officehub/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	cfg          *config.Config
	providers    map[string]oauth.Provider
	verifiers    map[string]oauth.Verifier
	userService  UserServiceInterface
	tokenService TokenServiceInterface
	jwtService   JWTServiceInterface
	streams      *sse.Hub
	states       sync.Map
	authCodes    sync.Map
}

type stateData struct {
	expiresAt time.Time
}

type authCodeData struct {
	userID    string
	expiresAt time.Time
}

// NewAuthHandler wires the Google consent flow when a client id is
// configured. ID token verifiers are registered with WithVerifier.
func NewAuthHandler(
	cfg *config.Config,
	userService UserServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
) *AuthHandler {
	h := &AuthHandler{
		cfg:          cfg,
		providers:    make(map[string]oauth.Provider),
		verifiers:    make(map[string]oauth.Verifier),
		userService:  userService,
		tokenService: tokenService,
		jwtService:   jwtService,
	}

	if cfg.Google.ClientID != "" {
		h.providers["google"] = oauth.NewGoogleProvider(cfg.Google)
	}

	go h.cleanupStates()

	return h
}

// WithVerifier accepts ID tokens for name on POST /auth/{name}.
func (h *AuthHandler) WithVerifier(name string, v oauth.Verifier) *AuthHandler {
	h.verifiers[name] = v
	return h
}

// WithStreams lets logout-all end the user's open event streams.
func (h *AuthHandler) WithStreams(hub *sse.Hub) *AuthHandler {
	h.streams = hub
	return h
}

func (h *AuthHandler) cleanupStates() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		now := time.Now()
		h.states.Range(func(key, value any) bool {
			if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
				h.states.Delete(key)
			}
			return true
		})
		h.authCodes.Range(func(key, value any) bool {
			if acd, ok := value.(authCodeData); ok && now.After(acd.expiresAt) {
				h.authCodes.Delete(key)
			}
			return true
		})
	}
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	h.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	_ = c.JSON(200, dto.ConsentURLResponse{
		URL: p.GetConsentURL(state),
	})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers[provider]
	if !ok {
		h.redirectWithError(c, "unsupported provider")
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.redirectWithError(c, "missing state parameter")
		return
	}

	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		h.redirectWithError(c, "invalid or expired state")
		return
	}

	sdTyped, ok := sd.(stateData)
	if !ok || time.Now().After(sdTyped.expiresAt) {
		h.redirectWithError(c, "state expired")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.redirectWithError(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	identity, err := p.ExchangeCode(ctx, code)
	if err != nil {
		log.Printf("OAuth exchange with %s failed: %v", provider, err)
		h.redirectWithError(c, "failed to exchange code")
		return
	}

	user, err := h.userService.SignIn(ctx, identity)
	if err != nil {
		h.redirectWithError(c, "failed to save profile")
		return
	}

	authCode, err := oauth.GenerateState()
	if err != nil {
		h.redirectWithError(c, "failed to generate auth code")
		return
	}

	h.authCodes.Store(authCode, authCodeData{
		userID:    user.UID,
		expiresAt: time.Now().Add(30 * time.Second),
	})

	redirectURL := fmt.Sprintf("%s?code=%s",
		h.cfg.FrontendCallbackURL,
		url.QueryEscape(authCode),
	)

	h.renderCallbackPage(c, redirectURL, "")
}

func (h *AuthHandler) ExchangeCode(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Code == "" {
		c.BadRequest("code is required")
		return
	}

	acd, ok := h.authCodes.LoadAndDelete(req.Code)
	if !ok {
		c.Unauthorized("invalid or expired code")
		return
	}

	codeData, ok := acd.(authCodeData)
	if !ok || time.Now().After(codeData.expiresAt) {
		c.Unauthorized("code expired")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.Get(ctx, codeData.userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	h.issueTokens(c, user)
}

// SignInWithIDToken signs in with a token issued to the client by the named
// identity platform.
func (h *AuthHandler) SignInWithIDToken(name string) drift.HandlerFunc {
	return func(c *drift.Context) {
		v, ok := h.verifiers[name]
		if !ok {
			c.BadRequest("unsupported provider: " + name)
			return
		}

		var req dto.IDTokenRequest
		if err := c.BindJSON(&req); err != nil {
			c.BadRequest("invalid request body")
			return
		}
		if req.IDToken == "" {
			c.BadRequest("id_token is required")
			return
		}

		ctx := c.Request.Context()

		identity, err := v.Verify(ctx, req.IDToken)
		if err != nil {
			if !errors.Is(err, oauth.ErrInvalidToken) {
				log.Printf("Verifying %s token failed: %v", name, err)
			}
			c.Unauthorized("invalid id token")
			return
		}

		user, err := h.userService.SignIn(ctx, identity)
		if err != nil {
			c.InternalServerError("failed to save profile")
			return
		}

		h.issueTokens(c, user)
	}
}

func (h *AuthHandler) issueTokens(c *drift.Context, user *models.User) {
	tokenPair, err := h.jwtService.GenerateTokenPair(user.UID, user.Email, h.userService.EffectiveRole(user))
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return
	}

	tokenHash := services.HashToken(tokenPair.RefreshToken)
	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(c.Request.Context(), user.UID, tokenHash, expiresAt); err != nil {
		c.InternalServerError("failed to store refresh token")
		return
	}

	_ = c.JSON(200, dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	tokenHash := services.HashToken(req.RefreshToken)
	ctx := c.Request.Context()

	storedUserID, err := h.tokenService.ValidateRefreshToken(ctx, tokenHash)
	if err != nil || storedUserID != userID {
		c.Unauthorized("refresh token not found or expired")
		return
	}

	user, err := h.userService.Get(ctx, userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	if err := h.tokenService.RevokeRefreshToken(ctx, tokenHash); err != nil {
		c.InternalServerError("failed to revoke old token")
		return
	}

	h.issueTokens(c, user)
}

// Logout revokes the given refresh token. It succeeds whether or not the
// token was known.
func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		tokenHash := services.HashToken(req.RefreshToken)
		_ = h.tokenService.RevokeRefreshToken(c.Request.Context(), tokenHash)
	}

	_ = c.JSON(200, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.tokenService.RevokeAllUserTokens(c.Request.Context(), userID); err != nil {
		c.InternalServerError("failed to revoke tokens")
		return
	}

	if h.streams != nil {
		h.streams.DisconnectUser(userID)
	}

	_ = c.JSON(200, map[string]string{"message": "all sessions logged out"})
}

func (h *AuthHandler) redirectWithError(c *drift.Context, errMsg string) {
	redirectURL := fmt.Sprintf("%s?error=%s",
		h.cfg.FrontendCallbackURL,
		url.QueryEscape(errMsg),
	)
	h.renderCallbackPage(c, redirectURL, errMsg)
}

// renderCallbackPage sends the browser on to the frontend. A non-empty
// errMsg is shown while it does.
func (h *AuthHandler) renderCallbackPage(c *drift.Context, redirectURL, errMsg string) {
	title := "Signed in"
	message := "Taking you to OfficeHub..."
	statusCode := 200
	if errMsg != "" {
		title = "Sign-in failed"
		message = errMsg
		statusCode = 400
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: system-ui, -apple-system, sans-serif; background: #f9fafb; color: #374151; padding: 40px 20px; }
        .container { max-width: 400px; margin: 0 auto; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 32px; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
    <script>window.location.href = %q;</script>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), html.EscapeString(message), redirectURL)

	_ = c.HTML(statusCode, page)
}
