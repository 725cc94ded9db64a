package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/simaogato/propfolio-backend/internal/domain"
	"github.com/simaogato/propfolio-backend/internal/usecase/portfolio"
)

// DefaultHistoryLimit applies when the history endpoint is called without ?limit=
const DefaultHistoryLimit = 50

type MetricsHandler struct{ svc *portfolio.MetricsService }

func NewMetricsHandler(svc *portfolio.MetricsService) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

type metricsResponse struct {
	*domain.MetricsResult
	Cached bool `json:"cached"`
}

type batchReq struct {
	PropertyIDs []string `json:"property_ids" validate:"max=500,dive,uuid"`
}

type batchResult struct {
	PropertyID uuid.UUID             `json:"property_id"`
	Metrics    *domain.MetricsResult `json:"metrics,omitempty"`
	Cached     bool                  `json:"cached"`
	Error      string                `json:"error,omitempty"`
}

type historyQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=500"`
}

func (h *MetricsHandler) GetMetrics(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid property id"})
	}

	evaluation, err := h.svc.Evaluate(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, metricsResponse{MetricsResult: evaluation.Result, Cached: evaluation.Cached})
}

func (h *MetricsHandler) BatchGetMetrics(c echo.Context) error {
	var req batchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	ids := make([]uuid.UUID, 0, len(req.PropertyIDs))
	for _, raw := range req.PropertyIDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	outcomes, err := h.svc.EvaluateBatch(c.Request().Context(), ids)
	if err != nil {
		return writeError(c, err)
	}

	results := make([]batchResult, 0, len(outcomes))
	for _, o := range outcomes {
		r := batchResult{PropertyID: o.PropertyID}
		if o.Err != nil {
			r.Error = o.Err.Error()
		} else {
			r.Metrics = o.Evaluation.Result
			r.Cached = o.Evaluation.Cached
		}
		results = append(results, r)
	}

	return c.JSON(http.StatusOK, map[string]any{"results": results})
}

// Calculate evaluates a snapshot posted in the body without touching storage
func (h *MetricsHandler) Calculate(c echo.Context) error {
	var snapshot domain.PropertySnapshot
	if err := c.Bind(&snapshot); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	result, err := h.svc.Calculate(&snapshot)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *MetricsHandler) Invalidate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid property id"})
	}

	if err := h.svc.Invalidate(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *MetricsHandler) History(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid property id"})
	}

	var q historyQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if q.Limit == 0 {
		q.Limit = DefaultHistoryLimit
	}

	entries, err := h.svc.History(c.Request().Context(), id, q.Limit)
	if err != nil {
		return writeError(c, err)
	}
	if entries == nil {
		entries = []*domain.MetricsHistoryEntry{}
	}

	return c.JSON(http.StatusOK, map[string]any{"entries": entries})
}

// writeError maps engine and service errors to HTTP responses
func writeError(c echo.Context, err error) error {
	var missing *domain.MissingPropertyError
	if errors.As(err, &missing) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	}

	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid input",
			Details: []FieldError{{Field: invalid.Field, Message: invalid.Reason}},
		})
	}

	log.Printf("Error handling %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
