package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfare/internal/domain"
	"wayfare/internal/service"
)

type stubEmailSender struct {
	lastToken string
	lastCode  string
	err       error
}

func (m *stubEmailSender) SendVerificationLink(_ context.Context, _, _, token string) error {
	m.lastToken = token
	return m.err
}

func (m *stubEmailSender) SendWelcome(_ context.Context, _, _ string) error {
	return nil
}

func (m *stubEmailSender) SendPasswordReset(_ context.Context, _, _, code string) error {
	m.lastCode = code
	return m.err
}

type stubSMSSender struct {
	lastCode string
	err      error
}

func (m *stubSMSSender) SendVerificationCode(_ context.Context, _, code string) error {
	m.lastCode = code
	return m.err
}

type stubTripRepo struct {
	lastStatuses []string
}

func (*stubTripRepo) Create(context.Context, domain.Trip) error { return nil }
func (s *stubTripRepo) ListByDriver(_ context.Context, _ string, statuses []string, _ int) ([]domain.Trip, error) {
	s.lastStatuses = statuses
	return nil, nil
}

type stubBookingRepo struct{}

func (stubBookingRepo) Create(context.Context, domain.Booking) error { return nil }
func (stubBookingRepo) ListByGuest(context.Context, string, int) ([]domain.BookingDetail, error) {
	return nil, nil
}

type stubReviewRepo struct{}

func (stubReviewRepo) Create(context.Context, domain.Review) error { return nil }
func (stubReviewRepo) ListReceived(context.Context, string, int) ([]domain.ReviewDetail, error) {
	return nil, nil
}
func (stubReviewRepo) ListGiven(context.Context, string, int) ([]domain.ReviewDetail, error) {
	return nil, nil
}

type stubVehicleRepo struct{}

func (stubVehicleRepo) Create(context.Context, domain.Vehicle) error { return nil }
func (stubVehicleRepo) ListActiveByOwner(context.Context, string) ([]domain.Vehicle, error) {
	return nil, nil
}

type stubListingRepo struct{}

func (stubListingRepo) Create(context.Context, domain.Listing) error { return nil }
func (stubListingRepo) ListPublishedByHost(context.Context, string, int) ([]domain.Listing, error) {
	return nil, nil
}

type stubConnectionRepo struct{}

func (stubConnectionRepo) Create(context.Context, domain.Connection) error { return nil }
func (stubConnectionRepo) ListForUser(context.Context, string, int) ([]domain.ConnectionDetail, error) {
	return nil, nil
}

type apiFixture struct {
	store  *mockUserStore
	mail   *stubEmailSender
	sms    *stubSMSSender
	trips  *stubTripRepo
	jwtSvc *service.JWTService
	router *gin.Engine
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMockUserStore()
	mail := &stubEmailSender{}
	smsSender := &stubSMSSender{}
	trips := &stubTripRepo{}
	jwtSvc := service.NewJWTService("secret", time.Hour, time.Hour)

	accountSvc := service.NewAccountService(zap.NewNop(), store, mail, smsSender, nil)
	profileSvc := service.NewProfileService(zap.NewNop(), store, trips, stubBookingRepo{}, stubReviewRepo{}, stubVehicleRepo{}, stubListingRepo{}, stubConnectionRepo{})

	accountH := NewAccountHandler(zap.NewNop(), accountSvc, jwtSvc)
	profileH := NewProfileHandler(zap.NewNop(), profileSvc)

	return &apiFixture{
		store:  store,
		mail:   mail,
		sms:    smsSender,
		trips:  trips,
		jwtSvc: jwtSvc,
		router: NewRouter(zap.NewNop(), jwtSvc, store, accountH, profileH),
	}
}

func signupBody() map[string]string {
	return map[string]string{
		"fullname":           "Ana Lee",
		"nickname":           "ana_99",
		"email":              "ana@x.com",
		"password":           "secret1",
		"phoneNumber":        "+15551234567",
		"dateOfBirth":        "1990-05-10",
		"verificationMethod": "email",
	}
}

func TestSignupEndpoint_Success(t *testing.T) {
	api := setupAPI(t)

	rec := performRequest(api.router, http.MethodPost, "/auth/signup", signupBody(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		User struct {
			AccountStatus string `json:"accountStatus"`
			Verification  struct {
				Email bool `json:"email"`
				Phone bool `json:"phone"`
			} `json:"verification"`
		} `json:"user"`
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.User.AccountStatus != domain.StatusPending {
		t.Fatalf("expected pending account, got %q", body.User.AccountStatus)
	}
	if body.User.Verification.Email || body.User.Verification.Phone {
		t.Fatalf("expected verification flags false")
	}
	if body.Tokens.AccessToken == "" || body.Tokens.RefreshToken == "" {
		t.Fatalf("expected issued token pair")
	}
	if api.mail.lastToken == "" {
		t.Fatalf("expected verification link dispatch")
	}
}

func TestSignupEndpoint_PasswordNeverSerialized(t *testing.T) {
	api := setupAPI(t)

	rec := performRequest(api.router, http.MethodPost, "/auth/signup", signupBody(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	user := body["user"].(map[string]any)
	for _, key := range []string{"password", "passwordHash", "verificationCode", "loginAttempts"} {
		if _, ok := user[key]; ok {
			t.Fatalf("sensitive field %q leaked in signup response", key)
		}
	}
}

func TestSignupEndpoint_ValidationAndConflict(t *testing.T) {
	api := setupAPI(t)

	short := signupBody()
	short["password"] = "123"
	rec := performRequest(api.router, http.MethodPost, "/auth/signup", short, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	rec = performRequest(api.router, http.MethodPost, "/auth/signup", signupBody(), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed signup: got %d", rec.Code)
	}
	rec = performRequest(api.router, http.MethodPost, "/auth/signup", signupBody(), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on duplicate, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["field"] != "email" {
		t.Fatalf("expected email conflict to win, got %q", body["field"])
	}
}

func TestVerifyCodeEndpoint(t *testing.T) {
	api := setupAPI(t)

	if rec := performRequest(api.router, http.MethodPost, "/auth/signup", signupBody(), nil); rec.Code != http.StatusCreated {
		t.Fatalf("signup: got %d", rec.Code)
	}

	rec := performRequest(api.router, http.MethodPost, "/auth/verify-code", map[string]string{
		"identifier": "ana@x.com",
		"code":       api.mail.lastToken,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		User struct {
			AccountStatus string `json:"accountStatus"`
			TrustScore    int    `json:"trustScore"`
		} `json:"user"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.User.AccountStatus != domain.StatusActive || body.User.TrustScore != 20 {
		t.Fatalf("expected active account with trust 20, got %+v", body.User)
	}

	rec = performRequest(api.router, http.MethodPost, "/auth/verify-code", map[string]string{
		"identifier": "ana@x.com",
		"code":       "000000",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad code, got %d", rec.Code)
	}
}

func TestVerifyEmailLinkEndpoint(t *testing.T) {
	api := setupAPI(t)

	if rec := performRequest(api.router, http.MethodPost, "/auth/signup", signupBody(), nil); rec.Code != http.StatusCreated {
		t.Fatalf("signup: got %d", rec.Code)
	}

	rec := performRequest(api.router, http.MethodGet, "/auth/verify-email/"+api.mail.lastToken, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSigninEndpoint(t *testing.T) {
	api := setupAPI(t)
	seedUser(api.store, "u1", domain.StatusActive)

	rec := performRequest(api.router, http.MethodPost, "/auth/signin", map[string]string{
		"identifier": "ana@x.com",
		"password":   "secret1",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(api.router, http.MethodPost, "/auth/signin", map[string]string{
		"identifier": "ana@x.com",
		"password":   "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestSigninEndpoint_Locked(t *testing.T) {
	api := setupAPI(t)
	seedUser(api.store, "u1", domain.StatusActive)

	for i := 0; i < 5; i++ {
		performRequest(api.router, http.MethodPost, "/auth/signin", map[string]string{
			"identifier": "ana@x.com",
			"password":   "wrong",
		}, nil)
	}

	rec := performRequest(api.router, http.MethodPost, "/auth/signin", map[string]string{
		"identifier": "ana@x.com",
		"password":   "secret1",
	}, nil)
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected status 423, got %d", rec.Code)
	}
}

func TestForgotPasswordEndpoint_GenericMessage(t *testing.T) {
	api := setupAPI(t)
	seedUser(api.store, "u1", domain.StatusActive)

	known := performRequest(api.router, http.MethodPost, "/auth/forgot-password", map[string]string{"email": "ana@x.com"}, nil)
	unknown := performRequest(api.router, http.MethodPost, "/auth/forgot-password", map[string]string{"email": "nobody@x.com"}, nil)

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Fatalf("expected identical responses, got %s vs %s", known.Body.String(), unknown.Body.String())
	}
}

func TestForgotPasswordEndpoint_DispatchFailure(t *testing.T) {
	api := setupAPI(t)
	seedUser(api.store, "u1", domain.StatusActive)
	api.mail.err = errors.New("smtp down")

	rec := performRequest(api.router, http.MethodPost, "/auth/forgot-password", map[string]string{"email": "ana@x.com"}, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 on dispatch failure, got %d", rec.Code)
	}
}

func TestResetPasswordEndpoint(t *testing.T) {
	api := setupAPI(t)
	seedUser(api.store, "u1", domain.StatusActive)

	if rec := performRequest(api.router, http.MethodPost, "/auth/forgot-password", map[string]string{"email": "ana@x.com"}, nil); rec.Code != http.StatusOK {
		t.Fatalf("forgot password: got %d", rec.Code)
	}

	rec := performRequest(api.router, http.MethodPost, "/auth/verify-reset-code", map[string]string{
		"email": "ana@x.com",
		"code":  api.mail.lastCode,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify reset code: got %d", rec.Code)
	}

	rec = performRequest(api.router, http.MethodPost, "/auth/reset-password", map[string]string{
		"email":       "ana@x.com",
		"code":        api.mail.lastCode,
		"newPassword": "newsecret",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset password: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(api.router, http.MethodPost, "/auth/signin", map[string]string{
		"identifier": "ana@x.com",
		"password":   "newsecret",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected signin with new password, got %d", rec.Code)
	}
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	api := setupAPI(t)
	seedUser(api.store, "u1", domain.StatusActive)

	rec := performRequest(api.router, http.MethodPost, "/auth/check-availability", map[string]string{
		"field": "nickname",
		"value": "ana_99",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]bool
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["available"] {
		t.Fatalf("expected nickname to be taken")
	}

	rec = performRequest(api.router, http.MethodPost, "/auth/check-availability", map[string]string{
		"field": "favoriteColor",
		"value": "blue",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown field, got %d", rec.Code)
	}
}

func TestMeEndpoint(t *testing.T) {
	api := setupAPI(t)
	user := seedUser(api.store, "u1", domain.StatusActive)

	rec := performRequest(api.router, http.MethodGet, "/auth/me", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	pair, err := api.jwtSvc.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	rec = performRequest(api.router, http.MethodGet, "/auth/me", nil, bearer(pair.AccessToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRefreshAndSignoutEndpoints(t *testing.T) {
	api := setupAPI(t)
	user := seedUser(api.store, "u1", domain.StatusActive)

	pair, err := api.jwtSvc.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	rec := performRequest(api.router, http.MethodPost, "/auth/refresh-token", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	// El refresh ya roto: volver a usarlo debe fallar.
	rec = performRequest(api.router, http.MethodPost, "/auth/refresh-token", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for reused refresh token, got %d", rec.Code)
	}

	pair, err = api.jwtSvc.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	rec = performRequest(api.router, http.MethodPost, "/auth/signout", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	rec = performRequest(api.router, http.MethodPost, "/auth/refresh-token", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 after signout, got %d", rec.Code)
	}
}
