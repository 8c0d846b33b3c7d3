package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/config"
	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/repository"
	"github.com/iliyamo/shop-reservation/internal/utils"
)

var (
	userNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// UserStore is the user persistence used by AuthHandler.
type UserStore interface {
	Create(ctx context.Context, userName, email, password, role string, cost int) (*model.User, error)
	GetByLogin(ctx context.Context, identifier string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, userName, email string) (*model.User, error)
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	// Login is an email address or a user name. Email is accepted as an
	// alias so clients that only know emails keep working.
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type profileReq struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func toUserPart(u *model.User) userPart {
	return userPart{ID: u.ID, UserName: u.UserName, Email: u.Email, Role: u.Role}
}

func validateProfile(userName, email string) map[string]string {
	errs := map[string]string{}
	if !userNamePattern.MatchString(userName) {
		errs["user_name"] = "user name must be 3-50 letters, digits or underscores"
	}
	if len(email) > 255 || !emailPattern.MatchString(email) {
		errs["email"] = "email address is not valid"
	}
	return errs
}

// Register signs up a USER.
func (h *AuthHandler) Register(c echo.Context) error { return h.register(c, model.RoleUser) }

// RegisterShopAdmin signs up a SHOP_ADMIN.
func (h *AuthHandler) RegisterShopAdmin(c echo.Context) error {
	return h.register(c, model.RoleShopAdmin)
}

// RegisterSystemAdmin signs up a SYSTEM_ADMIN.
func (h *AuthHandler) RegisterSystemAdmin(c echo.Context) error {
	return h.register(c, model.RoleSystemAdmin)
}

// register creates the user and returns tokens immediately.
func (h *AuthHandler) register(c echo.Context, role string) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs := validateProfile(req.UserName, req.Email)
	if n := utf8.RuneCountInString(req.Password); n < 8 || n > 100 {
		errs["password"] = "password must be 8-100 characters"
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "errors": errs})
	}

	ctx, cancel := dbContext(c, h.Cfg.DBTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.UserName, req.Email, req.Password, role, h.Cfg.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, repository.ErrUserNameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "user name already exists"})
	case errors.Is(err, utils.ErrPasswordTooLong):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed",
			"errors": map[string]string{"password": "password must be at most 72 bytes"}})
	case err != nil:
		return serverError(c, "create user failed", err)
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return serverError(c, "issue tokens failed", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies the credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	login := strings.TrimSpace(req.Login)
	if login == "" {
		login = strings.TrimSpace(req.Email)
	}
	if login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login/password required"})
	}

	ctx, cancel := dbContext(c, h.Cfg.DBTimeout)
	defer cancel()

	u, err := h.Users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return serverError(c, "query failed", err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return serverError(c, "issue tokens failed", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh validates by hash, revokes the old token and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := dbContext(c, h.Cfg.DBTimeout)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return serverError(c, "load user failed", err)
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return serverError(c, "revoke refresh failed", err)
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return serverError(c, "issue tokens failed", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := dbContext(c, h.Cfg.DBTimeout)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return serverError(c, "load user failed", err)
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.UserName, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return serverError(c, "issue access failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes one session when a refresh_token is posted, or every
// session of the bearer when only an Authorization header is sent. It is
// mounted without JWTAuth so an expired access token does not block it.
func (h *AuthHandler) Logout(c echo.Context) error {
	var uid string
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		if claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer ")); err == nil {
			uid = claims.Subject
		}
	}

	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := dbContext(c, h.Cfg.DBTimeout)
	defer cancel()

	switch {
	case refreshToken != "":
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return serverError(c, "logout failed", err)
		}
		return c.NoContent(http.StatusNoContent)
	case uid != "":
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return serverError(c, "logout failed", err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbContext(c, h.Cfg.DBTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return serverError(c, "load user failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// UpdateMe changes the authenticated user's name and email.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validateProfile(req.UserName, req.Email); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "errors": errs})
	}

	ctx, cancel := dbContext(c, h.Cfg.DBTimeout)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, req.UserName, req.Email)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, repository.ErrUserNameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "user name already exists"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case err != nil:
		return serverError(c, "update user failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// issuePair signs an access token and stores a fresh refresh token.
func (h *AuthHandler) issuePair(ctx context.Context, u *model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.UserName, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, fmt.Errorf("issue refresh: %w", err)
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, fmt.Errorf("save refresh: %w", err)
	}
	return authResp{
		User:    toUserPart(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}
