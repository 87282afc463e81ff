package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

const defaultFormat = "json"

var contentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"tsv":  "text/tab-separated-values; charset=utf-8",
	"md":   "text/markdown; charset=utf-8",
	"json": "application/json",
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ReportService é o que o servidor precisa do caso de uso.
type ReportService interface {
	LoadModel(path string) (*entity.Document, error)
	GenerateReport(doc *entity.Document, sched *entity.Schedule, args *types.CLIArgs) *entity.Grid
	LoadStoredSchedule(ctx context.Context, dbPath, label string) (*entity.Schedule, error)
	ListStoredSchedules(ctx context.Context, dbPath string) ([]string, error)
}

// OperationRow é uma linha de schedule no corpo de POST /reports.
type OperationRow struct {
	Operation string   `json:"operation"`
	Value     string   `json:"value"`
	Unit      string   `json:"unit"`
	Objects   []string `json:"objects"`
	Filter    string   `json:"filter"`
}

// ReportRequest é o corpo de POST /api/v1/reports.
type ReportRequest struct {
	Label           string         `json:"label"`
	DetailedResults bool           `json:"detailed_results"`
	Rows            []OperationRow `json:"rows"`
}

func (r ReportRequest) schedule() *entity.Schedule {
	s := &entity.Schedule{Label: r.Label, DetailedResults: r.DetailedResults}
	for _, row := range r.Rows {
		s.AppendRow(entity.OperationRow{
			Name:    row.Operation,
			Value:   row.Value,
			Unit:    row.Unit,
			Objects: row.Objects,
			Filter:  row.Filter,
		})
	}
	return s
}

// Handler serve relatórios gerados contra o modelo configurado.
type Handler struct {
	reports  ReportService
	exporter repository.ExportRepository
	args     types.CLIArgs
}

func NewHandler(reports ReportService, exporter repository.ExportRepository, args types.CLIArgs) *Handler {
	return &Handler{reports: reports, exporter: exporter, args: args}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if h.args.PsetDB == "" {
		http.Error(w, "no pset store configured", http.StatusNotFound)
		return
	}
	labels, err := h.reports.ListStoredSchedules(ctx, h.args.PsetDB)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list schedules")
		http.Error(w, "failed to list schedules", http.StatusInternalServerError)
		return
	}
	if labels == nil {
		labels = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(labels); err != nil {
		logger.Error().Err(err).Msg("failed to encode schedules")
	}
}

// GetStoredReport gera o relatório de um schedule guardado no pset store.
func (h *Handler) GetStoredReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	label := chi.URLParam(r, "label")

	if h.args.PsetDB == "" {
		http.Error(w, "no pset store configured", http.StatusNotFound)
		return
	}
	sched, err := h.reports.LoadStoredSchedule(ctx, h.args.PsetDB, label)
	switch {
	case errors.Is(err, types.ErrScheduleNotFound):
		http.Error(w, "schedule not found", http.StatusNotFound)
		return
	case errors.Is(err, types.ErrMalformedInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		logger.Error().Err(err).Str("label", label).Msg("failed to load schedule")
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return
	}

	h.render(w, r, sched)
}

// CreateReport gera o relatório do schedule enviado no corpo.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.render(w, r, req.schedule())
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, sched *entity.Schedule) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	query := r.URL.Query()

	format := strings.ToLower(query.Get("format"))
	if format == "" {
		format = defaultFormat
	}
	contentType, ok := contentTypes[format]
	if !ok {
		http.Error(w, types.ErrUnrecognizedExportFormat.Error()+": "+format, http.StatusBadRequest)
		return
	}

	args := h.args
	if d := query.Get("decimals"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			http.Error(w, "invalid 'decimals': expected a non-negative integer", http.StatusBadRequest)
			return
		}
		args.Decimals = &n
	}
	if detailed, err := strconv.ParseBool(query.Get("detailed")); err == nil {
		args.Detailed = detailed
	}

	doc, err := h.reports.LoadModel(args.Model)
	if err != nil {
		logger.Error().Err(err).Str("model", args.Model).Msg("failed to load model")
		http.Error(w, "failed to load model", http.StatusInternalServerError)
		return
	}

	grid := h.reports.GenerateReport(doc, sched, &args)

	var buf bytes.Buffer
	if err := h.exporter.WriteTo(&buf, grid, format); err != nil {
		logger.Error().Err(err).Str("format", format).Msg("failed to render report")
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if format == "pdf" || format == "xlsx" {
		name := sched.Label
		if name == "" {
			name = "schedule"
		}
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": name + "." + format})
		if disposition == "" {
			disposition = "attachment"
		}
		w.Header().Set("Content-Disposition", disposition)
	}
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error().Err(err).Msg("failed to write report")
	}
}
