//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	propfoliov1 "github.com/simaogato/propfolio-backend/internal/adapter/grpc/propfolio/v1"
	"github.com/simaogato/propfolio-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/propfolio-backend/internal/testutil/repomock"
)

var (
	db         *postgres.DB
	grpcClient propfoliov1.PropertyMetricsServiceClient
	grpcConn   *grpc.ClientConn
	fourplexID uuid.UUID
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	ctx := context.Background()

	// 1. Connect to Database
	var err error
	db, err = postgres.NewDB(getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	if err := db.Migrate(ctx); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	// 2. Connect to gRPC Server
	grpcConn, err = grpc.NewClient(getGRPCAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}

	grpcClient = propfoliov1.NewPropertyMetricsServiceClient(grpcConn)

	// 3. Seed a property the tests own
	fourplexID = uuid.New()
	if err := seedFourplex(ctx, fourplexID); err != nil {
		panic(fmt.Sprintf("Failed to seed property: %v", err))
	}

	code := m.Run()

	_, _ = db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, fourplexID)
	grpcConn.Close()
	db.Close()
	os.Exit(code)
}

// seedFourplex writes the four-unit fixture property straight into the tables
func seedFourplex(ctx context.Context, id uuid.UUID) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO properties (id, name, status, purchase_price, version) VALUES ($1, $2, 'ACTIVE', 400000, 1)`,
		id, "Integration Fourplex"); err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	for _, number := range []string{"1A", "1B", "2A", "2B"} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rent_roll_units (id, property_id, unit_number, is_occupied, current_rent) VALUES ($1, $2, $3, TRUE, 1000)`,
			uuid.New(), id, number); err != nil {
			return fmt.Errorf("insert unit %s: %w", number, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO expense_items (id, property_id, name, kind, annual_amount) VALUES ($1, $2, 'Taxes and insurance', 'FIXED', 12000)`,
		uuid.New(), id); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO loans (id, property_id, principal, interest_rate, term_years, payment_type, is_active, current_balance)
		 VALUES ($1, $2, 300000, 0.06, 30, 'AMORTIZING', TRUE, 300000)`,
		uuid.New(), id); err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}

	return tx.Commit()
}

// bumpVersion simulates a write path: change a child, bump the version, invalidate
func bumpVersion(t *testing.T, ctx context.Context, id uuid.UUID) {
	t.Helper()
	_, err := db.ExecContext(ctx, `UPDATE rent_roll_units SET current_rent = 1100 WHERE property_id = $1 AND unit_number = '1A'`, id)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE properties SET version = version + 1 WHERE id = $1`, id)
	require.NoError(t, err)
	_, err = grpcClient.InvalidateMetrics(ctx, &propfoliov1.InvalidateMetricsRequest{PropertyId: id.String()})
	require.NoError(t, err)
}

// getAuthContext returns a context with authorization metadata
func getAuthContext() context.Context {
	token := os.Getenv("API_TOKEN")
	if token == "" {
		token = "dev-token"
	}
	md := metadata.New(map[string]string{
		"authorization": "Bearer " + token,
	})
	return metadata.NewOutgoingContext(context.Background(), md)
}

// getDBConnectionString returns the database connection string from environment or defaults
func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := getenv("DB_HOST", "localhost")
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", "postgres")
	password := getenv("DB_PASSWORD", "postgres")
	dbname := getenv("DB_NAME", "propfolio")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// getGRPCAddress returns the gRPC server address from environment or defaults
func getGRPCAddress() string {
	return getenv("GRPC_ADDRESS", "localhost:8080")
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func requireDecimal(t *testing.T, want, got string) {
	t.Helper()
	d, err := decimal.NewFromString(got)
	require.NoError(t, err, "not a decimal: %q", got)
	assert.True(t, decimal.RequireFromString(want).Equal(d), "want %s, got %s", want, got)
}

// TestEndToEndFlow evaluates a stored property, changes it and checks the
// recomputed metrics and the recorded history
func TestEndToEndFlow(t *testing.T) {
	ctx := getAuthContext()

	// Step 1: first evaluation creates default assumptions and computes
	resp, err := grpcClient.GetMetrics(ctx, &propfoliov1.GetMetricsRequest{PropertyId: fourplexID.String()})
	require.NoError(t, err)
	require.NotNil(t, resp.Metrics)

	assert.Equal(t, int64(1), resp.Metrics.SnapshotVersion)
	requireDecimal(t, "48000", resp.Metrics.GrossRentalIncome)
	requireDecimal(t, "45600", resp.Metrics.EffectiveGrossIncome)
	requireDecimal(t, "29952", resp.Metrics.NetOperatingIncome)
	require.NotNil(t, resp.Metrics.Dscr)

	var assumptionRows int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM property_assumptions WHERE property_id = $1`, fourplexID).Scan(&assumptionRows))
	assert.Equal(t, 1, assumptionRows)

	// Step 2: the same version evaluates to the same numbers
	again, err := grpcClient.GetMetrics(ctx, &propfoliov1.GetMetricsRequest{PropertyId: fourplexID.String()})
	require.NoError(t, err)
	assert.Equal(t, resp.Metrics.NetOperatingIncome, again.Metrics.NetOperatingIncome)

	// Step 3: a write bumps the version and the next read recomputes
	bumpVersion(t, ctx, fourplexID)

	updated, err := grpcClient.GetMetrics(ctx, &propfoliov1.GetMetricsRequest{PropertyId: fourplexID.String()})
	require.NoError(t, err)
	assert.False(t, updated.Cached)
	assert.Equal(t, int64(2), updated.Metrics.SnapshotVersion)
	requireDecimal(t, "49200", updated.Metrics.GrossRentalIncome)

	// Step 4: history has a point per computed version, newest first
	history, err := grpcClient.ListMetricsHistory(ctx, &propfoliov1.ListMetricsHistoryRequest{
		PropertyId: fourplexID.String(),
		Limit:      10,
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(history.Entries), 2)
	assert.Equal(t, int64(2), history.Entries[0].SnapshotVersion)
}

func TestCalculateMetrics_StatelessAgainstServer(t *testing.T) {
	ctx := getAuthContext()

	raw, err := json.Marshal(repomock.Fourplex(uuid.New(), 1))
	require.NoError(t, err)

	resp, err := grpcClient.CalculateMetrics(ctx, &propfoliov1.CalculateMetricsRequest{Snapshot: raw})
	require.NoError(t, err)
	requireDecimal(t, "29952", resp.Metrics.NetOperatingIncome)
}

func TestBatchGetMetrics_MixedResults(t *testing.T) {
	ctx := getAuthContext()
	missing := uuid.New()

	resp, err := grpcClient.BatchGetMetrics(ctx, &propfoliov1.BatchGetMetricsRequest{
		PropertyIds: []string{fourplexID.String(), missing.String()},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	assert.NotNil(t, resp.Results[0].Metrics)
	assert.Empty(t, resp.Results[0].Error)
	assert.Nil(t, resp.Results[1].Metrics)
	assert.Contains(t, resp.Results[1].Error, "property not found")
}

func TestGetMetrics_Errors(t *testing.T) {
	t.Run("unknown property", func(t *testing.T) {
		_, err := grpcClient.GetMetrics(getAuthContext(), &propfoliov1.GetMetricsRequest{PropertyId: uuid.NewString()})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := grpcClient.GetMetrics(context.Background(), &propfoliov1.GetMetricsRequest{PropertyId: fourplexID.String()})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}
