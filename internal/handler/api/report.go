package api

import (
	"errors"
	"net/http"

	models "PredEval/internal/domain/models"
	domrepo "PredEval/internal/domain/repository"
	"PredEval/internal/eval"
	"PredEval/internal/report"
	"PredEval/internal/usecase"
	xhttp "PredEval/pkg/http"
	xlogger "PredEval/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReportHandler exposes the evaluation results over HTTP. Every endpoint is
// read-only; the builder recomputes (or serves from cache) on each call.
type ReportHandler struct {
	logger  *xlogger.Logger
	builder *usecase.ReportBuilder
	params  usecase.EvalParams
}

// NewReportHandler wires the builder behind the routes. params carries the
// deployment's evaluation settings so the full report matches a one-shot run.
func NewReportHandler(logger *xlogger.Logger, builder *usecase.ReportBuilder, params usecase.EvalParams) *ReportHandler {
	return &ReportHandler{logger: logger, builder: builder, params: params}
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/report", h.Report)
	g.GET("/accuracy", h.Accuracy)
	g.GET("/calibration", h.Calibration)
	g.GET("/simulation", h.Simulation)
	g.GET("/regimes", h.Regimes)
	g.GET("/buckets", h.Buckets)
}

func (h *ReportHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.builder.Build(c.Request().Context(), h.params)
	if err != nil {
		h.logger.Error("report usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if req.Format == "text" {
		return c.String(http.StatusOK, report.RenderText(res))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ReportHandler) Accuracy(c echo.Context) error {
	req := &models.AccuracyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.builder.Accuracy(c.Request().Context(), domrepo.Component(req.Component))
	if err != nil {
		return h.sectionError(c, "accuracy", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ReportHandler) Calibration(c echo.Context) error {
	req := &models.CalibrationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.builder.Calibration(c.Request().Context(), domrepo.Component(req.Component), req.Bins)
	if err != nil {
		return h.sectionError(c, "calibration", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ReportHandler) Simulation(c echo.Context) error {
	req := &models.SimulationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.ShortThreshold >= req.LongThreshold {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_THRESHOLDS",
			Field:   "short",
			Message: "short threshold must be below long threshold",
		}})
	}

	sum, _, err := h.builder.Simulation(c.Request().Context(),
		domrepo.Component(req.Component), req.LongThreshold, req.ShortThreshold)
	if err != nil {
		return h.sectionError(c, "simulation", err)
	}
	return xhttp.SuccessResponse(c, sum)
}

func (h *ReportHandler) Regimes(c echo.Context) error {
	req := &models.RegimeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.builder.Regimes(c.Request().Context(), domrepo.Component(req.Component), req.HighThreshold)
	if err != nil {
		return h.sectionError(c, "regimes", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ReportHandler) Buckets(c echo.Context) error {
	req := &models.BucketsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.builder.Buckets(c.Request().Context(), domrepo.Component(req.Component))
	if err != nil {
		return h.sectionError(c, "buckets", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// sectionError maps an empty population to 404 instead of 500.
func (h *ReportHandler) sectionError(c echo.Context, op string, err error) error {
	if errors.Is(err, eval.ErrInsufficientData) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no resolved predictions to evaluate"))
	}
	h.logger.Error(op+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}
