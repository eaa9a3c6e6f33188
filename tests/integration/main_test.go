//go:build integration

package integration

import (
	"context"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vkazarin/clinicdesk/internal/accounts"
	accountspostgres "github.com/vkazarin/clinicdesk/internal/accounts/postgres"
	"github.com/vkazarin/clinicdesk/internal/app"
	"github.com/vkazarin/clinicdesk/internal/config"
	"github.com/vkazarin/clinicdesk/internal/domain"
	"github.com/vkazarin/clinicdesk/internal/testutil"
)

var (
	testServer    *httptest.Server
	testClient    *testutil.Client
	testValidator *testutil.OpenAPIValidator
	testDB        *pgxpool.Pool
)

const (
	adminUsername = "admin"
	adminPassword = "admin-pass-123"

	// OpenAPI spec path relative to the tests/integration directory.
	openAPISpecPath = "../../api/openapi/openapi.yaml"
)

// newTestClient creates a new test client with OpenAPI validation enabled.
// Use this at the beginning of each test that makes API calls.
func newTestClient(t *testing.T) *testutil.Client {
	t.Helper()
	client := testutil.NewClientWithValidator(testServer.URL, testValidator)
	client.SetT(t)
	return client
}

// newTestClientWithoutValidation creates a test client without OpenAPI validation.
// Use this for tests that intentionally test error responses or invalid scenarios.
func newTestClientWithoutValidation() *testutil.Client {
	return testutil.NewClient(testServer.URL)
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := testutil.NewPostgresContainer(ctx)
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         "0",
			MetricsPort:  "0",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: config.DatabaseConfig{
			URL:             pgContainer.ConnectionString,
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnectTimeout:  30 * time.Second,
			ConnectAttempts: 3,
			MigrateOnStart:  true,
		},
		Session: config.SessionConfig{
			Secret:              "integration-test-secret-0123456789ab",
			AccessTokenDuration: 15 * time.Minute,
			Duration:            24 * time.Hour,
			CleanupInterval:     time.Hour,
		},
		Cookie: config.CookieConfig{
			Secure: false, // Not using HTTPS in tests
			Domain: "",
		},
		Contact: config.ContactConfig{
			// High limit so unrelated tests never hit the limiter
			RateLimitPerMinute: 1000,
			RateLimitBurst:     1000,
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "text",
		},
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("create app: %v", err)
	}

	// Create a direct DB connection for tests that need it
	testDB, err = pgxpool.New(ctx, pgContainer.ConnectionString)
	if err != nil {
		log.Fatalf("create test db pool: %v", err)
	}

	if err := seedAdmin(ctx, testDB); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	testServer = httptest.NewServer(application.Router())

	// Load OpenAPI validator
	testValidator, err = testutil.LoadOpenAPIValidator(openAPISpecPath)
	if err != nil {
		log.Fatalf("load OpenAPI validator: %v", err)
	}

	// Create client with OpenAPI validation enabled
	testClient = testutil.NewClientWithValidator(testServer.URL, testValidator)

	code := m.Run()

	testServer.Close()
	testDB.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown app: %v", err)
	}

	os.Exit(code)
}

// seedAdmin creates the initial administrator account that all tests log in with.
func seedAdmin(ctx context.Context, db *pgxpool.Pool) error {
	service := accounts.NewService(accountspostgres.NewRepository(db))
	_, err := service.CreateUser(ctx, accounts.CreateUserInput{
		Username:    adminUsername,
		DisplayName: "Test Admin",
		Password:    adminPassword,
		Role:        domain.RoleAdmin,
	})
	return err
}
