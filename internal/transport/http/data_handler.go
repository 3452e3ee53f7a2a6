package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ecdash/internal/dataset"
	apierrors "ecdash/internal/errors"
	"ecdash/internal/exporter"
	"ecdash/internal/services"
)

// DataHandler serves the dataset, analysis and export endpoints.
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a data handler.
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /api routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/schools", h.GetSchools)

	r.Route("/environment", func(r chi.Router) {
		r.Get("/", h.GetEnvironment)
		r.Get("/summary", h.GetEnvironmentSummary)
		r.Get("/outliers", h.GetEnvironmentOutliers)
	})

	r.Route("/growth", func(r chi.Router) {
		r.Get("/", h.GetGrowth)
		r.Get("/summary", h.GetGrowthSummary)
	})

	r.Get("/analysis/optimal-ec", h.GetOptimalEC)
	r.Post("/reload", h.PostReload)

	r.Get("/export/{dataset}.{format}", h.GetExport)

	return r
}

// handleServiceError maps service and loader errors onto the API error
// taxonomy before rendering them as problem details.
func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *dataset.MissingDatasetError
	if errors.As(err, &missing) {
		h.errorHandler.HandleError(w, r, apierrors.DatasetMissingError(missing.Dataset, missing.File, err))
		return
	}

	var parseErr *dataset.ParseError
	if errors.As(err, &parseErr) {
		h.errorHandler.HandleError(w, r, apierrors.DatasetParseError(parseErr.File, err))
		return
	}

	switch {
	case errors.Is(err, services.ErrUnknownSchool):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound, "SCHOOL_NOT_FOUND", "Unknown school", err.Error()))
	case errors.Is(err, services.ErrUnknownDataset):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dataset", err.Error()))
	case errors.Is(err, services.ErrNoGrowthData):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusServiceUnavailable, "DATASET_MISSING", "No growth data loaded", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// GetSchools handles GET /api/schools.
func (h *DataHandler) GetSchools(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"schools": h.service.Schools(),
	})
}

// GetEnvironment handles GET /api/environment with an optional ?school=
// filter.
func (h *DataHandler) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.Environment(r.Context(), r.URL.Query().Get("school"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"environment": tables,
	})
}

// GetEnvironmentSummary handles GET /api/environment/summary.
func (h *DataHandler) GetEnvironmentSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.EnvironmentSummary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"summaries": summaries,
	})
}

// GetEnvironmentOutliers handles GET /api/environment/outliers.
func (h *DataHandler) GetEnvironmentOutliers(w http.ResponseWriter, r *http.Request) {
	outliers, err := h.service.EnvironmentOutliers(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"outliers": outliers,
		"count":    len(outliers),
	})
}

// GetGrowth handles GET /api/growth with an optional ?school= filter.
func (h *DataHandler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.Growth(r.Context(), r.URL.Query().Get("school"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"growth": tables,
	})
}

// GetGrowthSummary handles GET /api/growth/summary.
func (h *DataHandler) GetGrowthSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.GrowthSummary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"summaries": summaries,
	})
}

// GetOptimalEC handles GET /api/analysis/optimal-ec.
func (h *DataHandler) GetOptimalEC(w http.ResponseWriter, r *http.Request) {
	best, err := h.service.OptimalEC(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"optimal": best,
	})
}

// PostReload handles POST /api/reload. A failed reload keeps the
// previous snapshot serving, so the error response names the dataset
// that failed without taking the API down.
func (h *DataHandler) PostReload(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reload(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "datasets reloaded",
		slog.Int("environment_schools", result.EnvironmentSchools),
		slog.Int("growth_schools", result.GrowthSchools))
	render.JSON(w, r, result)
}

// GetExport handles GET /api/export/{dataset}.{format}, streaming the
// table as a download.
func (h *DataHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "dataset")
	format := chi.URLParam(r, "format")

	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format",
			fmt.Sprintf("unsupported export format: %s", format)))
		return
	}

	table, err := h.service.ExportTable(r.Context(), name)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", name, format)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = exporter.WriteCSV(w, table)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = exporter.WriteXLSX(w, table)
	}
	if err != nil {
		// Headers are already sent; log instead of re-rendering.
		h.logger.ErrorContext(r.Context(), "export stream failed",
			slog.String("dataset", name),
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
}
