package handlers_test

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/fittrack/internal/auth"
	"github.com/geocoder89/fittrack/internal/domain/user"
	"github.com/geocoder89/fittrack/internal/domain/workout"
	"github.com/geocoder89/fittrack/internal/http/middlewares"
	"github.com/geocoder89/fittrack/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testToken  = "good-token"
	testUserID = "7a1e6f0c-4c55-4e0e-9a52-1d2c3b4a5f60"
	testJTI    = "jti-1"
)

// fakeVerifier accepts testToken only and reports it as testUserID's token.
type fakeVerifier struct{}

func (fakeVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	if token != testToken {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return &auth.Claims{
		UserID: testUserID,
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        testJTI,
			Subject:   testUserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, nil
}

// setupAuthedRouter mounts one handler behind the real auth middleware.
func setupAuthedRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	am := middlewares.NewAuthMiddleware(fakeVerifier{}, nil)

	r.Handle(method, path, am.RequireAuth(), h)

	return r
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

type fakeUsersRepo struct {
	createFn     func(ctx context.Context, u user.User) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id string) (user.User, error)
}

func (f *fakeUsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}

	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}

	return user.User{}, user.ErrNotFound
}

// plainHasher stores "hashed:" + plaintext so tests skip bcrypt's cost.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return security.ErrPasswordMismatch
	}

	return nil
}

type fakeIssuer struct {
	err error
}

func (f fakeIssuer) GenerateAccessToken(userID, email string, isAdmin bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}

	return "token-for-" + userID, nil
}

type fakeRevoker struct {
	revoked map[string]time.Time
	err     error
}

func (f *fakeRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[jti] = until

	return nil
}

type fakeWorkoutsRepo struct {
	listFn     func(ctx context.Context, ownerID string) ([]workout.Workout, error)
	createFn   func(ctx context.Context, w workout.Workout) (workout.Workout, error)
	updateFn   func(ctx context.Context, ownerID, id string, req workout.UpdateWorkoutRequest) (workout.Workout, error)
	completeFn func(ctx context.Context, ownerID, id string) (workout.Workout, error)
	deleteFn   func(ctx context.Context, ownerID, id string) error

	calls int
}

func (f *fakeWorkoutsRepo) ListByOwner(ctx context.Context, ownerID string) ([]workout.Workout, error) {
	f.calls++
	if f.listFn != nil {
		return f.listFn(ctx, ownerID)
	}

	return nil, nil
}

func (f *fakeWorkoutsRepo) Create(ctx context.Context, w workout.Workout) (workout.Workout, error) {
	f.calls++
	if f.createFn != nil {
		return f.createFn(ctx, w)
	}

	return w, nil
}

func (f *fakeWorkoutsRepo) Update(ctx context.Context, ownerID, id string, req workout.UpdateWorkoutRequest) (workout.Workout, error) {
	f.calls++
	if f.updateFn != nil {
		return f.updateFn(ctx, ownerID, id, req)
	}

	return workout.Workout{}, workout.ErrNotFound
}

func (f *fakeWorkoutsRepo) Complete(ctx context.Context, ownerID, id string) (workout.Workout, error) {
	f.calls++
	if f.completeFn != nil {
		return f.completeFn(ctx, ownerID, id)
	}

	return workout.Workout{}, workout.ErrNotFound
}

func (f *fakeWorkoutsRepo) Delete(ctx context.Context, ownerID, id string) error {
	f.calls++
	if f.deleteFn != nil {
		return f.deleteFn(ctx, ownerID, id)
	}

	return workout.ErrNotFound
}
