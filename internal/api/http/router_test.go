package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/account-registry/internal/api/http"
	"github.com/spec-kit/account-registry/internal/api/http/handlers"
	"github.com/spec-kit/account-registry/internal/auth"
	"github.com/spec-kit/account-registry/internal/config"
	"github.com/spec-kit/account-registry/internal/events"
	"github.com/spec-kit/account-registry/internal/observability"
	"github.com/spec-kit/account-registry/internal/repository/sqlitestore"
	"github.com/spec-kit/account-registry/internal/service"
	"github.com/spec-kit/account-registry/internal/testutil"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, authorizer auth.Authorizer, deps map[string]handlers.Pinger) *testServer {
	t.Helper()

	db := testutil.OpenSQLite(t)
	store := sqlitestore.NewStore(db)
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	identity, err := service.NewIdentityService(config.AuthConfig{BcryptCost: bcrypt.MinCost}, service.IdentityDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("NewIdentityService: %v", err)
	}
	approval := service.NewApprovalService(service.ApprovalDependencies{Store: store, Dispatcher: dispatcher, Logger: logger})
	tickets := service.NewTicketService(service.TicketDependencies{Store: store, Dispatcher: dispatcher, Logger: logger})

	if deps == nil {
		deps = map[string]handlers.Pinger{"sqlite": db}
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler("account-registry", "test", metrics, deps),
		Users:      handlers.NewUsersHandler(identity),
		Companies:  handlers.NewCompaniesHandler(identity, approval),
		Admins:     handlers.NewAdminsHandler(identity),
		Problems:   handlers.NewProblemsHandler(tickets),
		Authorizer: authorizer,
	})
	return &testServer{t: t, app: app}
}

// do sends a request and decodes a JSON response body into out when non-nil.
func (s *testServer) do(method, path string, body any, out any, headers ...string) int {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			s.t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type messageBody struct {
	Message   string `json:"message"`
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id"`
	Error     struct {
		Code string `json:"code"`
	} `json:"error"`
}

func expectStatus(t *testing.T, what string, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: status = %d, want %d", what, got, want)
	}
}

func TestUserAndProblemFlow(t *testing.T) {
	s := newTestServer(t, nil, nil)
	creds := fiber.Map{"username": "alice", "password": "pw1"}

	var msg messageBody
	expectStatus(t, "register", s.do("POST", "/user/register", creds, &msg), fiber.StatusCreated)
	if msg.Message != "User registered successfully" {
		t.Errorf("register message = %q", msg.Message)
	}

	msg = messageBody{}
	expectStatus(t, "duplicate register", s.do("POST", "/user/register", creds, &msg), fiber.StatusBadRequest)
	if msg.Error.Code != "CONFLICT" {
		t.Errorf("duplicate code = %q, want CONFLICT", msg.Error.Code)
	}

	msg = messageBody{}
	expectStatus(t, "login", s.do("POST", "/user/login", creds, &msg), fiber.StatusOK)
	if msg.UserID != 1 {
		t.Errorf("user_id = %d, want 1", msg.UserID)
	}

	expectStatus(t, "submit", s.do("POST", "/problems/submit", fiber.Map{"description": "printer broken", "user_id": 1}, nil), fiber.StatusCreated)

	var descriptions []string
	expectStatus(t, "list", s.do("GET", "/problems", nil, &descriptions), fiber.StatusOK)
	if len(descriptions) != 1 || descriptions[0] != "printer broken" {
		t.Errorf("descriptions = %v", descriptions)
	}

	var problems []struct {
		ProblemID   int64  `json:"problem_id"`
		Description string `json:"description"`
	}
	expectStatus(t, "admin list", s.do("GET", "/admin/problems", nil, &problems), fiber.StatusOK)
	if len(problems) != 1 || problems[0].ProblemID != 1 || problems[0].Description != "printer broken" {
		t.Errorf("problems = %+v", problems)
	}

	expectStatus(t, "review", s.do("POST", "/admin/review", fiber.Map{"problem_id": 1, "response": "sent technician"}, nil), fiber.StatusCreated)

	msg = messageBody{}
	expectStatus(t, "review missing problem", s.do("POST", "/admin/review", fiber.Map{"problem_id": 999, "response": "x"}, &msg), fiber.StatusNotFound)
	if msg.Error.Code != "NOT_FOUND" {
		t.Errorf("review missing code = %q", msg.Error.Code)
	}

	var reviews []struct {
		ReviewID int64  `json:"review_id"`
		Response string `json:"response"`
	}
	expectStatus(t, "reviews", s.do("GET", "/admin/problems/1/reviews", nil, &reviews), fiber.StatusOK)
	if len(reviews) != 1 || reviews[0].Response != "sent technician" {
		t.Errorf("reviews = %+v", reviews)
	}
	expectStatus(t, "reviews missing problem", s.do("GET", "/admin/problems/999/reviews", nil, nil), fiber.StatusNotFound)
	expectStatus(t, "reviews bad id", s.do("GET", "/admin/problems/abc/reviews", nil, nil), fiber.StatusBadRequest)
}

func TestValidationAndAuthErrors(t *testing.T) {
	s := newTestServer(t, nil, nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"user register missing password", "POST", "/user/register", fiber.Map{"username": "bob"}, fiber.StatusBadRequest},
		{"user login missing fields", "POST", "/user/login", fiber.Map{}, fiber.StatusBadRequest},
		{"user login unknown", "POST", "/user/login", fiber.Map{"username": "ghost", "password": "x"}, fiber.StatusUnauthorized},
		{"company register missing name", "POST", "/company/register", fiber.Map{"password": "x"}, fiber.StatusBadRequest},
		{"company login unknown", "POST", "/company/login", fiber.Map{"name": "ghost", "password": "x"}, fiber.StatusUnauthorized},
		{"admin create missing", "POST", "/admin/create", fiber.Map{"username": "root"}, fiber.StatusBadRequest},
		{"submit missing user", "POST", "/problems/submit", fiber.Map{"description": "d"}, fiber.StatusBadRequest},
		{"submit unknown user", "POST", "/problems/submit", fiber.Map{"description": "d", "user_id": 42}, fiber.StatusNotFound},
		{"review missing response", "POST", "/admin/review", fiber.Map{"problem_id": 1}, fiber.StatusBadRequest},
		{"approve missing id", "POST", "/companies/approve", fiber.Map{}, fiber.StatusBadRequest},
		{"unknown route", "GET", "/nope", nil, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var msg messageBody
			got := s.do(tc.method, tc.path, tc.body, &msg)
			if got != tc.status {
				t.Fatalf("status = %d, want %d (%+v)", got, tc.status, msg)
			}
			if msg.Message == "" || msg.Error.Code == "" {
				t.Errorf("error body incomplete: %+v", msg)
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t, nil, nil)

	req := httptest.NewRequest("POST", "/user/register", bytes.NewBufferString("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCompanyApprovalFlow(t *testing.T) {
	s := newTestServer(t, nil, nil)

	expectStatus(t, "register acme", s.do("POST", "/company/register", fiber.Map{"name": "Acme", "password": "pw"}, nil), fiber.StatusCreated)
	expectStatus(t, "register globex", s.do("POST", "/company/register", fiber.Map{"name": "Globex", "password": "pw"}, nil), fiber.StatusCreated)
	expectStatus(t, "duplicate company", s.do("POST", "/company/register", fiber.Map{"name": "Acme", "password": "other"}, nil), fiber.StatusBadRequest)

	var msg messageBody
	expectStatus(t, "pending login", s.do("POST", "/company/login", fiber.Map{"name": "Acme", "password": "pw"}, &msg), fiber.StatusOK)
	if msg.CompanyID != 1 {
		t.Errorf("company_id = %d, want 1", msg.CompanyID)
	}

	var pending []string
	expectStatus(t, "awaiting", s.do("GET", "/companies/awaiting_approval", nil, &pending), fiber.StatusOK)
	if len(pending) != 2 || pending[0] != "Acme" || pending[1] != "Globex" {
		t.Fatalf("pending = %v", pending)
	}

	expectStatus(t, "approve", s.do("POST", "/companies/approve", fiber.Map{"company_id": 1}, nil), fiber.StatusOK)
	expectStatus(t, "approve again", s.do("POST", "/companies/approve", fiber.Map{"company_id": 1}, nil), fiber.StatusOK)
	expectStatus(t, "reject approved", s.do("POST", "/companies/reject", fiber.Map{"company_id": 1}, nil), fiber.StatusBadRequest)

	expectStatus(t, "reject", s.do("POST", "/companies/reject", fiber.Map{"company_id": 2}, nil), fiber.StatusOK)
	expectStatus(t, "reject again", s.do("POST", "/companies/reject", fiber.Map{"company_id": 2}, nil), fiber.StatusNotFound)
	expectStatus(t, "approve rejected", s.do("POST", "/companies/approve", fiber.Map{"company_id": 2}, nil), fiber.StatusNotFound)

	pending = nil
	expectStatus(t, "awaiting after", s.do("GET", "/companies/awaiting_approval", nil, &pending), fiber.StatusOK)
	if len(pending) != 0 {
		t.Errorf("pending = %v, want empty", pending)
	}
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t, nil, nil)

	var msg messageBody
	expectStatus(t, "create", s.do("POST", "/admin/create", fiber.Map{"username": "root", "password": "pw"}, &msg), fiber.StatusOK)
	if msg.Message != "Admin created successfully" {
		t.Errorf("message = %q", msg.Message)
	}
	expectStatus(t, "create second", s.do("POST", "/admin/create", fiber.Map{"username": "ops", "password": "pw"}, nil), fiber.StatusOK)
	expectStatus(t, "duplicate", s.do("POST", "/admin/create", fiber.Map{"username": "root", "password": "pw"}, nil), fiber.StatusBadRequest)

	var names []string
	expectStatus(t, "list", s.do("GET", "/admin", nil, &names), fiber.StatusOK)
	if len(names) != 2 || names[0] != "root" || names[1] != "ops" {
		t.Errorf("names = %v", names)
	}
}

func TestEmptyListsAreArrays(t *testing.T) {
	s := newTestServer(t, nil, nil)

	for _, path := range []string{"/admin", "/problems", "/admin/problems", "/companies/awaiting_approval"} {
		var list []any
		expectStatus(t, path, s.do("GET", path, nil, &list), fiber.StatusOK)
		if list == nil {
			t.Errorf("%s returned null, want []", path)
		}
	}
}

func TestAuthorizerGuardsAdminRoutes(t *testing.T) {
	deny := auth.AuthorizerFunc(func(_ context.Context, authorization string, capability auth.Capability) error {
		if authorization == "Bearer "+string(capability) {
			return nil
		}
		return auth.NewTokenAuthorizer(auth.NewTokenVerifier("unused")).Authorize(context.Background(), "", capability)
	})
	s := newTestServer(t, deny, nil)

	expectStatus(t, "public register", s.do("POST", "/user/register", fiber.Map{"username": "a", "password": "b"}, nil), fiber.StatusCreated)
	expectStatus(t, "admin list denied", s.do("GET", "/admin", nil, nil), fiber.StatusUnauthorized)
	expectStatus(t, "awaiting denied", s.do("GET", "/companies/awaiting_approval", nil, nil), fiber.StatusUnauthorized)
	expectStatus(t, "review list denied", s.do("GET", "/admin/problems", nil, nil), fiber.StatusUnauthorized)

	var names []string
	expectStatus(t, "admin list allowed",
		s.do("GET", "/admin", nil, &names, fiber.HeaderAuthorization, "Bearer "+string(auth.CapabilityManageAdmins)),
		fiber.StatusOK)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil, nil)
	expectStatus(t, "live", s.do("GET", "/health/live", nil, nil), fiber.StatusOK)
	expectStatus(t, "ready", s.do("GET", "/health/ready", nil, nil), fiber.StatusOK)

	var snap observability.Snapshot
	expectStatus(t, "metrics", s.do("GET", "/metrics", nil, &snap), fiber.StatusOK)
	if snap.Requests["/health/live|GET|200"] != 1 {
		t.Errorf("metrics = %+v", snap.Requests)
	}

	down := newTestServer(t, nil, map[string]handlers.Pinger{
		"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	expectStatus(t, "not ready", down.do("GET", "/health/ready", nil, nil), fiber.StatusServiceUnavailable)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil, nil)

	req := httptest.NewRequest("GET", "/health/live", nil)
	req.Header.Set(observability.RequestIDHeader, "abc-123")
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(observability.RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want propagated value", got)
	}

	resp, err = s.app.Test(httptest.NewRequest("GET", "/health/live", nil), -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get(observability.RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}
}

func TestLongCredentialsAreAccepted(t *testing.T) {
	s := newTestServer(t, nil, nil)
	username := strings.Repeat("u", 300)
	password := strings.Repeat("p", 80)
	creds := fiber.Map{"username": username, "password": password}

	expectStatus(t, "register", s.do("POST", "/user/register", creds, nil), fiber.StatusCreated)

	var msg messageBody
	expectStatus(t, "login", s.do("POST", "/user/login", creds, &msg), fiber.StatusOK)
	if msg.UserID != 1 {
		t.Errorf("user_id = %d, want 1", msg.UserID)
	}
	expectStatus(t, "wrong tail",
		s.do("POST", "/user/login", fiber.Map{"username": username, "password": password[:79] + "q"}, nil),
		fiber.StatusUnauthorized)

	expectStatus(t, "company", s.do("POST", "/company/register", fiber.Map{"name": username, "password": password}, nil), fiber.StatusCreated)
	expectStatus(t, "admin", s.do("POST", "/admin/create", creds, nil), fiber.StatusOK)
}

func TestNumericStringIDs(t *testing.T) {
	s := newTestServer(t, nil, nil)

	expectStatus(t, "register user", s.do("POST", "/user/register", fiber.Map{"username": "alice", "password": "pw"}, nil), fiber.StatusCreated)
	expectStatus(t, "register company", s.do("POST", "/company/register", fiber.Map{"name": "Acme", "password": "pw"}, nil), fiber.StatusCreated)

	expectStatus(t, "approve", s.do("POST", "/companies/approve", fiber.Map{"company_id": "1"}, nil), fiber.StatusOK)
	expectStatus(t, "submit", s.do("POST", "/problems/submit", fiber.Map{"description": "d", "user_id": "1"}, nil), fiber.StatusCreated)
	expectStatus(t, "review", s.do("POST", "/admin/review", fiber.Map{"problem_id": "1", "response": "r"}, nil), fiber.StatusCreated)
	expectStatus(t, "reject missing", s.do("POST", "/companies/reject", fiber.Map{"company_id": "2"}, nil), fiber.StatusNotFound)
	expectStatus(t, "non-numeric", s.do("POST", "/companies/approve", fiber.Map{"company_id": "one"}, nil), fiber.StatusBadRequest)
}

func TestErrorMetricsUseRoutePattern(t *testing.T) {
	s := newTestServer(t, nil, nil)

	expectStatus(t, "first", s.do("GET", "/admin/problems/998/reviews", nil, nil), fiber.StatusNotFound)
	expectStatus(t, "second", s.do("GET", "/admin/problems/999/reviews", nil, nil), fiber.StatusNotFound)

	var snap observability.Snapshot
	expectStatus(t, "metrics", s.do("GET", "/metrics", nil, &snap), fiber.StatusOK)
	if got := snap.Errors["/admin/problems/:id/reviews|GET|NOT_FOUND"]; got != 2 {
		t.Errorf("error counter = %d, want 2 (errors: %v)", got, snap.Errors)
	}
	if got := snap.Requests["/admin/problems/:id/reviews|GET|404"]; got != 2 {
		t.Errorf("request counter = %d, want 2 (requests: %v)", got, snap.Requests)
	}
	for key := range snap.Errors {
		if strings.Contains(key, "/998/") || strings.Contains(key, "/999/") {
			t.Errorf("per-id error key %q", key)
		}
	}
}
