package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	propfoliov1 "github.com/simaogato/propfolio-backend/internal/adapter/grpc/propfolio/v1"
	"github.com/simaogato/propfolio-backend/internal/domain"
	"github.com/simaogato/propfolio-backend/internal/testutil/repomock"
	"github.com/simaogato/propfolio-backend/internal/usecase/portfolio"
)

const testToken = "test-token-123"

type testEnv struct {
	properties  *repomock.PropertyRepository
	assumptions *repomock.AssumptionsRepository
	history     *repomock.MetricsHistoryRepository
	cache       *repomock.MetricsCache
	client      propfoliov1.PropertyMetricsServiceClient
}

// newTestEnv serves the metrics service over an in-memory listener with both interceptors installed
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		properties:  new(repomock.PropertyRepository),
		assumptions: new(repomock.AssumptionsRepository),
		history:     new(repomock.MetricsHistoryRepository),
		cache:       new(repomock.MetricsCache),
	}
	service := portfolio.NewMetricsService(env.properties, env.assumptions, env.history, env.cache)

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(log.New(io.Discard, "", 0)),
		AuthInterceptor(testToken),
	))
	propfoliov1.RegisterPropertyMetricsServiceServer(server, NewServer(service))
	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	env.client = propfoliov1.NewPropertyMetricsServiceClient(conn)
	return env
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+testToken)
}

func requireDecimal(t *testing.T, want string, got string) {
	t.Helper()
	g, err := decimal.NewFromString(got)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(want).Equal(g), "want %s, got %s", want, got)
}

func TestGetMetrics(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	snapshot := repomock.Fourplex(id, 5)
	snapshot.Assumptions = repomock.Defaults(id)

	env.properties.On("GetPropertyWithChildren", mock.Anything, id).Return(snapshot, nil)
	env.cache.On("Get", mock.Anything, domain.CacheKey{PropertyID: id, Version: 5}).Return(nil, false, nil)
	env.cache.On("Set", mock.Anything, domain.CacheKey{PropertyID: id, Version: 5}, mock.Anything).Return(nil)
	env.history.On("Record", mock.Anything, mock.Anything).Return(nil)

	resp, err := env.client.GetMetrics(authed(), &propfoliov1.GetMetricsRequest{PropertyId: id.String()})
	require.NoError(t, err)

	m := resp.Metrics
	assert.False(t, resp.Cached)
	assert.Equal(t, id.String(), m.PropertyId)
	assert.Equal(t, int64(5), m.SnapshotVersion)
	assert.NotNil(t, m.ComputedAt)
	requireDecimal(t, "45600", m.EffectiveGrossIncome)
	requireDecimal(t, "29952", m.NetOperatingIncome)
	assert.Equal(t, string(domain.ARVBasisIncome), m.ArvBasis)
	assert.Equal(t, snapshot.Loans[0].ID.String(), m.ActiveLoanId)
	require.NotNil(t, m.DebtYield)
	requireDecimal(t, "0.09984", *m.DebtYield)
	assert.Empty(t, m.Warnings)
}

func TestGetMetrics_UndefinedRatiosAreNull(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	snapshot := repomock.Fourplex(id, 1)
	snapshot.Loans = nil
	snapshot.Assumptions = repomock.Defaults(id)

	env.properties.On("GetPropertyWithChildren", mock.Anything, id).Return(snapshot, nil)
	env.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
	env.cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	env.history.On("Record", mock.Anything, mock.Anything).Return(nil)

	resp, err := env.client.GetMetrics(authed(), &propfoliov1.GetMetricsRequest{PropertyId: id.String()})
	require.NoError(t, err)

	assert.Nil(t, resp.Metrics.Dscr)
	assert.Nil(t, resp.Metrics.DebtYield)
	assert.Empty(t, resp.Metrics.ActiveLoanId)
	require.NotNil(t, resp.Metrics.LoanToValue)
	requireDecimal(t, "0", *resp.Metrics.LoanToValue)
}

func TestGetMetrics_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		id       string
		setup    func(env *testEnv, id uuid.UUID)
		wantCode codes.Code
	}{
		{
			name:     "unauthenticated",
			ctx:      context.Background(),
			id:       uuid.NewString(),
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "malformed id",
			ctx:      authed(),
			id:       "not-a-uuid",
			wantCode: codes.InvalidArgument,
		},
		{
			name: "property not found",
			ctx:  authed(),
			id:   uuid.NewString(),
			setup: func(env *testEnv, id uuid.UUID) {
				env.properties.On("GetPropertyWithChildren", mock.Anything, id).
					Return(nil, &domain.MissingPropertyError{PropertyID: id})
			},
			wantCode: codes.NotFound,
		},
		{
			name: "invalid stored data",
			ctx:  authed(),
			id:   uuid.NewString(),
			setup: func(env *testEnv, id uuid.UUID) {
				snapshot := repomock.Fourplex(id, 1)
				snapshot.Assumptions = repomock.Defaults(id)
				snapshot.Assumptions.VacancyRate = decimal.NewFromInt(5)
				env.properties.On("GetPropertyWithChildren", mock.Anything, id).Return(snapshot, nil)
				env.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "storage failure",
			ctx:  authed(),
			id:   uuid.NewString(),
			setup: func(env *testEnv, id uuid.UUID) {
				env.properties.On("GetPropertyWithChildren", mock.Anything, id).
					Return(nil, errors.New("connection refused"))
			},
			wantCode: codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(env, uuid.MustParse(tt.id))
			}

			_, err := env.client.GetMetrics(tt.ctx, &propfoliov1.GetMetricsRequest{PropertyId: tt.id})

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}
}

func TestBatchGetMetrics(t *testing.T) {
	env := newTestEnv(t)
	good, missing := uuid.New(), uuid.New()
	snapshot := repomock.Fourplex(good, 2)
	snapshot.Assumptions = repomock.Defaults(good)

	env.properties.On("GetPropertyWithChildren", mock.Anything, good).Return(snapshot, nil)
	env.properties.On("GetPropertyWithChildren", mock.Anything, missing).
		Return(nil, &domain.MissingPropertyError{PropertyID: missing})
	env.cache.On("Get", mock.Anything, mock.Anything).Return(&domain.MetricsResult{PropertyID: good, SnapshotVersion: 2}, true, nil)

	resp, err := env.client.BatchGetMetrics(authed(), &propfoliov1.BatchGetMetricsRequest{
		PropertyIds: []string{good.String(), missing.String()},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, good.String(), resp.Results[0].PropertyId)
	assert.True(t, resp.Results[0].Cached)
	require.NotNil(t, resp.Results[0].Metrics)
	assert.Empty(t, resp.Results[0].Error)

	assert.Equal(t, missing.String(), resp.Results[1].PropertyId)
	assert.Nil(t, resp.Results[1].Metrics)
	assert.Contains(t, resp.Results[1].Error, "property not found")
}

func TestCalculateMetrics(t *testing.T) {
	env := newTestEnv(t)
	snapshot := repomock.Fourplex(uuid.New(), 1)
	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)

	resp, err := env.client.CalculateMetrics(authed(), &propfoliov1.CalculateMetricsRequest{Snapshot: raw})
	require.NoError(t, err)

	requireDecimal(t, "29952", resp.Metrics.NetOperatingIncome)
	env.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	env.history.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestCalculateMetrics_BadInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		snapshot string
	}{
		{name: "empty", snapshot: ""},
		{name: "malformed json", snapshot: `{"property":`},
		{name: "unknown expense kind", snapshot: `{"property":{"status":"ACTIVE"},"expenses":[{"name":"x","kind":"PER_UNIT"}]}`},
		{name: "negative purchase price", snapshot: `{"property":{"status":"ACTIVE","purchase_price":"-1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.snapshot != "" {
				raw = json.RawMessage(tt.snapshot)
			}
			_, err := env.client.CalculateMetrics(authed(), &propfoliov1.CalculateMetricsRequest{Snapshot: raw})
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestCalculateMetrics_MissingPropertyIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.CalculateMetrics(authed(), &propfoliov1.CalculateMetricsRequest{Snapshot: json.RawMessage(`{"rent_roll":[]}`)})

	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestInvalidateMetrics(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.cache.On("Invalidate", mock.Anything, id).Return(nil)

	_, err := env.client.InvalidateMetrics(authed(), &propfoliov1.InvalidateMetricsRequest{PropertyId: id.String()})

	require.NoError(t, err)
	env.cache.AssertExpectations(t)
}

func TestListMetricsHistory(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	entries := []*domain.MetricsHistoryEntry{
		{
			ID:                 uuid.New(),
			PropertyID:         id,
			SnapshotVersion:    3,
			NetOperatingIncome: decimal.NewFromInt(29952),
			CapRate:            domain.NewRatio(decimal.RequireFromString("0.055")),
			DSCR:               domain.UndefinedRatio(),
		},
	}
	env.history.On("ListRecent", mock.Anything, id, DefaultHistoryLimit).Return(entries, nil)

	resp, err := env.client.ListMetricsHistory(authed(), &propfoliov1.ListMetricsHistoryRequest{PropertyId: id.String()})
	require.NoError(t, err)

	require.Len(t, resp.Entries, 1)
	assert.Equal(t, int64(3), resp.Entries[0].SnapshotVersion)
	require.NotNil(t, resp.Entries[0].CapRate)
	requireDecimal(t, "0.055", *resp.Entries[0].CapRate)
	assert.Nil(t, resp.Entries[0].Dscr)

	_, err = env.client.ListMetricsHistory(authed(), &propfoliov1.ListMetricsHistoryRequest{PropertyId: id.String(), Limit: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"missing property", &domain.MissingPropertyError{PropertyID: uuid.New()}, codes.NotFound},
		{"wrapped invalid input", errors.Join(errors.New("context"), &domain.InvalidInputError{Field: "loans[0].principal", Reason: "must not be negative"}), codes.InvalidArgument},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"unknown", errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(mapError(tt.err)))
		})
	}

	assert.NoError(t, mapError(nil))
}
