package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	propfoliov1 "github.com/simaogato/propfolio-backend/internal/adapter/grpc/propfolio/v1"
	"github.com/simaogato/propfolio-backend/internal/domain"
	"github.com/simaogato/propfolio-backend/internal/usecase/portfolio"
)

// DefaultHistoryLimit applies when ListMetricsHistory is called without a limit
const DefaultHistoryLimit = 50

// Server implements the PropertyMetricsService gRPC server
type Server struct {
	propfoliov1.UnimplementedPropertyMetricsServiceServer

	MetricsService *portfolio.MetricsService
}

// NewServer creates a new gRPC server instance
func NewServer(metricsService *portfolio.MetricsService) *Server {
	return &Server{
		MetricsService: metricsService,
	}
}

// GetMetrics handles the GetMetrics RPC
func (s *Server) GetMetrics(ctx context.Context, req *propfoliov1.GetMetricsRequest) (*propfoliov1.GetMetricsResponse, error) {
	propertyID, err := uuid.Parse(req.PropertyId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid property_id format: %v", err)
	}

	evaluation, err := s.MetricsService.Evaluate(ctx, propertyID)
	if err != nil {
		return nil, mapError(err)
	}

	return &propfoliov1.GetMetricsResponse{
		Metrics: metricsToProto(evaluation.Result),
		Cached:  evaluation.Cached,
	}, nil
}

// BatchGetMetrics handles the BatchGetMetrics RPC
// A property that fails is reported in its own result; the call itself succeeds.
func (s *Server) BatchGetMetrics(ctx context.Context, req *propfoliov1.BatchGetMetricsRequest) (*propfoliov1.BatchGetMetricsResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.PropertyIds))
	for _, raw := range req.PropertyIds {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid property_id %q: %v", raw, err)
		}
		ids = append(ids, id)
	}

	outcomes, err := s.MetricsService.EvaluateBatch(ctx, ids)
	if err != nil {
		return nil, mapError(err)
	}

	results := make([]*propfoliov1.BatchResult, 0, len(outcomes))
	for _, outcome := range outcomes {
		result := &propfoliov1.BatchResult{PropertyId: outcome.PropertyID.String()}
		if outcome.Err != nil {
			result.Error = outcome.Err.Error()
		} else {
			result.Metrics = metricsToProto(outcome.Evaluation.Result)
			result.Cached = outcome.Evaluation.Cached
		}
		results = append(results, result)
	}

	return &propfoliov1.BatchGetMetricsResponse{Results: results}, nil
}

// CalculateMetrics handles the CalculateMetrics RPC (what-if analysis on a supplied snapshot)
func (s *Server) CalculateMetrics(ctx context.Context, req *propfoliov1.CalculateMetricsRequest) (*propfoliov1.CalculateMetricsResponse, error) {
	if len(req.Snapshot) == 0 || string(req.Snapshot) == "null" {
		return nil, status.Error(codes.InvalidArgument, "snapshot is required")
	}

	var snapshot domain.PropertySnapshot
	if err := json.Unmarshal(req.Snapshot, &snapshot); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid snapshot: %v", err)
	}

	result, err := s.MetricsService.Calculate(&snapshot)
	if err != nil {
		return nil, mapError(err)
	}

	return &propfoliov1.CalculateMetricsResponse{Metrics: metricsToProto(result)}, nil
}

// InvalidateMetrics handles the InvalidateMetrics RPC
func (s *Server) InvalidateMetrics(ctx context.Context, req *propfoliov1.InvalidateMetricsRequest) (*propfoliov1.InvalidateMetricsResponse, error) {
	propertyID, err := uuid.Parse(req.PropertyId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid property_id format: %v", err)
	}

	if err := s.MetricsService.Invalidate(ctx, propertyID); err != nil {
		return nil, mapError(err)
	}

	return &propfoliov1.InvalidateMetricsResponse{}, nil
}

// ListMetricsHistory handles the ListMetricsHistory RPC
func (s *Server) ListMetricsHistory(ctx context.Context, req *propfoliov1.ListMetricsHistoryRequest) (*propfoliov1.ListMetricsHistoryResponse, error) {
	propertyID, err := uuid.Parse(req.PropertyId)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid property_id format: %v", err)
	}

	limit := int(req.Limit)
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	entries, err := s.MetricsService.History(ctx, propertyID, limit)
	if err != nil {
		return nil, mapError(err)
	}

	protoEntries := make([]*propfoliov1.MetricsHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		protoEntries = append(protoEntries, historyEntryToProto(entry))
	}

	return &propfoliov1.ListMetricsHistoryResponse{Entries: protoEntries}, nil
}

// metricsToProto converts a domain MetricsResult to a proto Metrics message
func metricsToProto(result *domain.MetricsResult) *propfoliov1.Metrics {
	m := &propfoliov1.Metrics{
		PropertyId:      result.PropertyID.String(),
		SnapshotVersion: result.SnapshotVersion,
		ComputedAt:      timestamppb.New(result.ComputedAt),

		GrossRentalIncome:      result.GrossRentalIncome.String(),
		VacancyLoss:            result.VacancyLoss.String(),
		OtherIncome:            result.OtherIncome.String(),
		EffectiveGrossIncome:   result.EffectiveGrossIncome.String(),
		ItemizedExpenses:       result.ItemizedExpenses.String(),
		ManagementFee:          result.ManagementFee.String(),
		TotalOperatingExpenses: result.TotalOperatingExpenses.String(),
		NetOperatingIncome:     result.NetOperatingIncome.String(),

		MonthlyDebtService: result.MonthlyDebtService.String(),
		AnnualDebtService:  result.AnnualDebtService.String(),
		OutstandingDebt:    result.OutstandingDebt.String(),
		CashFlow:           result.CashFlow.String(),

		Arv:                  result.ARV.String(),
		ArvBasis:             string(result.ARVBasis),
		DownPayment:          result.DownPayment.String(),
		TotalInvestedCapital: result.TotalInvestedCapital.String(),

		CapRate:            ratioToProto(result.CapRate),
		PurchaseCapRate:    ratioToProto(result.PurchaseCapRate),
		CashOnCashReturn:   ratioToProto(result.CashOnCashReturn),
		Dscr:               ratioToProto(result.DSCR),
		LoanToValue:        ratioToProto(result.LoanToValue),
		DebtYield:          ratioToProto(result.DebtYield),
		BreakEvenOccupancy: ratioToProto(result.BreakEvenOccupancy),
		EquityMultiple:     ratioToProto(result.EquityMultiple),
	}

	if result.ActiveLoanID != nil {
		m.ActiveLoanId = result.ActiveLoanID.String()
	}

	for _, w := range result.Warnings {
		m.Warnings = append(m.Warnings, &propfoliov1.Warning{Code: string(w.Code), Message: w.Message})
	}

	return m
}

// historyEntryToProto converts a domain MetricsHistoryEntry to a proto message
func historyEntryToProto(entry *domain.MetricsHistoryEntry) *propfoliov1.MetricsHistoryEntry {
	return &propfoliov1.MetricsHistoryEntry{
		Id:                 entry.ID.String(),
		PropertyId:         entry.PropertyID.String(),
		SnapshotVersion:    entry.SnapshotVersion,
		ComputedAt:         timestamppb.New(entry.ComputedAt),
		NetOperatingIncome: entry.NetOperatingIncome.String(),
		CashFlow:           entry.CashFlow.String(),
		Arv:                entry.ARV.String(),
		CapRate:            ratioToProto(entry.CapRate),
		CashOnCashReturn:   ratioToProto(entry.CashOnCashReturn),
		Dscr:               ratioToProto(entry.DSCR),
		EquityMultiple:     ratioToProto(entry.EquityMultiple),
	}
}

// ratioToProto returns nil for an undefined ratio
func ratioToProto(r domain.Ratio) *string {
	v, ok := r.Value()
	if !ok {
		return nil
	}
	s := v.String()
	return &s
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var missing *domain.MissingPropertyError
	if errors.As(err, &missing) {
		return status.Errorf(codes.NotFound, "%s", err.Error())
	}

	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
