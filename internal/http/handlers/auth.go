package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/fittrack/internal/domain/user"
	"github.com/geocoder89/fittrack/internal/http/middlewares"
	"github.com/geocoder89/fittrack/internal/observability"
	"github.com/geocoder89/fittrack/internal/security"
	"github.com/gin-gonic/gin"
)

const authTimeout = 3 * time.Second

type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email string, isAdmin bool) (string, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

type AuthHandler struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	revoker TokenRevoker
	prom    *observability.Prom
	log     *slog.Logger
}

func NewAuthHandler(users UserStore, hasher PasswordHasher, tokens TokenIssuer, revoker TokenRevoker, prom *observability.Prom, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}

	return &AuthHandler{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		prom:    prom,
		log:     log,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		h.prom.AuthAttempt("register", "invalid")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			h.prom.AuthAttempt("register", "invalid")
			RespondBadRequest(ctx, "password_too_long", "Password must be at most 72 bytes")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "hash password failed", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	cctx, cancel := opContext(ctx, authTimeout)
	defer cancel()

	created, err := h.users.Create(cctx, user.New(req.Email, hash, false))
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.prom.AuthAttempt("register", "conflict")
			RespondBadRequest(ctx, "email_taken", "User already exists")
			return
		}

		h.log.ErrorContext(cctx, "create user failed", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	h.prom.AuthAttempt("register", "success")
	h.log.InfoContext(cctx, "user registered", "user_id", created.ID)

	ctx.JSON(http.StatusCreated, gin.H{"message": "Registered Successfully"})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		h.prom.AuthAttempt("login", "invalid")
		return
	}

	cctx, cancel := opContext(ctx, authTimeout)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.prom.AuthAttempt("login", "unknown_email")
			RespondNotFound(ctx, "No Email Found")
			return
		}

		h.log.ErrorContext(cctx, "lookup user failed", "err", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	if err := h.hasher.Compare(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			h.prom.AuthAttempt("login", "bad_password")
			RespondUnauthorized(ctx, "invalid_credentials", "Email and password do not match")
			return
		}

		h.log.ErrorContext(cctx, "compare password failed", "err", err, "user_id", u.ID)
		RespondInternal(ctx, "Could not log in")
		return
	}

	token, err := h.tokens.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		h.log.ErrorContext(cctx, "sign token failed", "err", err)
		RespondInternal(ctx, "Could not generate token")
		return
	}

	h.prom.AuthAttempt("login", "success")

	ctx.JSON(http.StatusOK, gin.H{"access": token})
}

// Verify runs behind RequireAuth, so the token is already valid here.
func (h *AuthHandler) Verify(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Failed. No Token")
		return
	}

	cctx, cancel := opContext(ctx, authTimeout)
	defer cancel()

	u, err := h.users.GetByID(cctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		h.log.ErrorContext(cctx, "lookup user failed", "err", err)
		RespondInternal(ctx, "Could not verify user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u})
}

// Logout revokes the presented token until it would have expired anyway.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	jti, exp, ok := middlewares.TokenFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "invalid_token", "Token cannot be revoked")
		return
	}

	cctx, cancel := opContext(ctx, authTimeout)
	defer cancel()

	if err := h.revoker.Revoke(cctx, jti, exp); err != nil {
		h.log.ErrorContext(cctx, "revoke token failed", "err", err)
		RespondInternal(ctx, "Could not log out")
		return
	}

	h.prom.AuthAttempt("logout", "success")

	ctx.Status(http.StatusNoContent)
}
