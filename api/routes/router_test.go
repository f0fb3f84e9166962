package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/assetmanage/assetmanage-backend/internal/assets"
	"github.com/assetmanage/assetmanage-backend/internal/payments"
	"github.com/assetmanage/assetmanage-backend/internal/requests"
	"github.com/assetmanage/assetmanage-backend/internal/users"
	pkgauth "github.com/assetmanage/assetmanage-backend/pkg/auth"
	"github.com/assetmanage/assetmanage-backend/pkg/config"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	"github.com/assetmanage/assetmanage-backend/pkg/logger"
	"github.com/assetmanage/assetmanage-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) Register(ctx context.Context, input users.RegisterUserDTO) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUsersService) GetByEmail(ctx context.Context, email string) (*users.UserDTO, error) {
	return &users.UserDTO{Email: email, Role: enums.UserRoleEmployee}, nil
}

func (stubUsersService) HasRole(ctx context.Context, email string, role enums.UserRole) (bool, error) {
	return false, nil
}

func (stubUsersService) Rename(ctx context.Context, email, name string) (*users.UserDTO, error) {
	return &users.UserDTO{Email: email, Name: name}, nil
}

func (stubUsersService) AssignCompany(ctx context.Context, input users.AssignCompanyInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) UnassignCompany(ctx context.Context, actorEmail string, userID uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) ListByCompany(ctx context.Context, companyName string) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

type stubAssetsService struct {
	created *assets.CreateAssetDTO
}

func (s *stubAssetsService) Create(ctx context.Context, input assets.CreateAssetDTO) (*assets.AssetDTO, error) {
	s.created = &input
	return &assets.AssetDTO{ID: uuid.New(), ProductName: input.ProductName}, nil
}

func (s *stubAssetsService) GetByID(ctx context.Context, id uuid.UUID) (*assets.AssetDTO, error) {
	return &assets.AssetDTO{ID: id}, nil
}

func (s *stubAssetsService) Update(ctx context.Context, companyName string, id uuid.UUID, input assets.UpdateAssetDTO) (*assets.AssetDTO, error) {
	panic("unimplemented")
}

func (s *stubAssetsService) Delete(ctx context.Context, companyName string, id uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubAssetsService) List(ctx context.Context, companyName string, filters assets.ListFilters, params pagination.Params) (*assets.AssetListDTO, error) {
	return &assets.AssetListDTO{}, nil
}

func (s *stubAssetsService) ListLimitedStock(ctx context.Context, companyName string) ([]assets.AssetDTO, error) {
	return []assets.AssetDTO{}, nil
}

type stubRequestsService struct{}

func (stubRequestsService) Create(ctx context.Context, input requests.CreateRequestDTO) (*requests.RequestDTO, error) {
	return &requests.RequestDTO{ID: uuid.New(), Status: enums.RequestStatusPending}, nil
}

func (stubRequestsService) Decide(ctx context.Context, input requests.DecideInput) (*requests.RequestDTO, error) {
	return &requests.RequestDTO{ID: input.RequestID}, nil
}

func (stubRequestsService) Cancel(ctx context.Context, requestID uuid.UUID, actorEmail string) (*requests.RequestDTO, error) {
	return &requests.RequestDTO{ID: requestID}, nil
}

func (stubRequestsService) Return(ctx context.Context, requestID uuid.UUID, actorEmail string) (*requests.RequestDTO, error) {
	return &requests.RequestDTO{ID: requestID}, nil
}

func (stubRequestsService) Get(ctx context.Context, requestID uuid.UUID) (*requests.RequestDTO, error) {
	return &requests.RequestDTO{ID: requestID}, nil
}

func (stubRequestsService) List(ctx context.Context, filters requests.ListFilters, params pagination.Params) (*requests.RequestListDTO, error) {
	return &requests.RequestListDTO{}, nil
}

type stubPaymentsService struct{}

func (stubPaymentsService) CreateIntent(ctx context.Context, pkg enums.BillingPackage) (*payments.IntentDTO, error) {
	return &payments.IntentDTO{}, nil
}

func (stubPaymentsService) RecordPayment(ctx context.Context, input payments.RecordPaymentDTO) (*payments.PaymentDTO, error) {
	return &payments.PaymentDTO{}, nil
}

func (stubPaymentsService) UpgradePackage(ctx context.Context, input payments.UpgradePackageDTO) (*payments.PaymentDTO, error) {
	return &payments.PaymentDTO{}, nil
}

func (stubPaymentsService) ListByHR(ctx context.Context, hrEmail string) ([]payments.PaymentDTO, error) {
	return []payments.PaymentDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		prometheus.NewRegistry(),
		stubUsersService{},
		&stubAssetsService{},
		stubRequestsService{},
		stubPaymentsService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole, company string) string {
	t.Helper()
	payload := pkgauth.AccessTokenPayload{
		Email: "actor@example.com",
		Name:  "Actor",
		Role:  role,
	}
	if company != "" {
		payload.CompanyName = &company
	}
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleEmployee, ""))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready", "/metrics", "/api/public/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestAssetMutationsRequireHRRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"product_name":"Laptop","product_type":"Returnable","product_quantity":3}`

	employee := httptest.NewRequest(http.MethodPost, "/api/v1/assets", strings.NewReader(body))
	employee.Header.Set("Content-Type", "application/json")
	employee.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleEmployee, "Initech"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, employee)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee asset create got %d", resp.Code)
	}

	hr := httptest.NewRequest(http.MethodPost, "/api/v1/assets", strings.NewReader(body))
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHR, "Initech"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, hr)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for hr asset create got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRequestCreationRequiresEmployeeRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"asset_id":"` + uuid.NewString() + `","requester_name":"Kim"}`

	hr := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHR, "Initech"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, hr)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for hr request create got %d", resp.Code)
	}

	employee := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	employee.Header.Set("Content-Type", "application/json")
	employee.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleEmployee, "Initech"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, employee)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for employee request create got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDecisionRouteRequiresHRRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/requests/" + uuid.NewString() + "/decision"
	body := `{"decision":"approve"}`

	employee := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	employee.Header.Set("Content-Type", "application/json")
	employee.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleEmployee, "Initech"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, employee)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee decision got %d", resp.Code)
	}

	hr := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHR, "Initech"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, hr)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for hr decision got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPaymentsGroupRequiresHRRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	employee := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
	employee.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleEmployee, "Initech"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, employee)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee payments got %d", resp.Code)
	}

	hr := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
	hr.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHR, "Initech"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, hr)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for hr payments got %d", resp.Code)
	}
}

func TestRegistrationIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"email":"new@example.com","name":"New User","role":"employee"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for public registration got %d: %s", resp.Code, resp.Body.String())
	}
}
