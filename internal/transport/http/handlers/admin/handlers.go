package adminhandler

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"ptoportal/internal/domain/request"
	"ptoportal/internal/requestctx"
	"ptoportal/internal/transport/http/api"
)

type Service interface {
	List(ctx context.Context, employeeID string, f request.FilterState) ([]request.LeaveRequest, error)
	SetStatus(ctx context.Context, requestID, newStatus string) (request.LeaveRequest, error)
}

// Handler serves the admin review endpoints. The router mounts it
// behind the admin guard.
type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/requests", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/export", h.handleExport)
		r.Post("/{requestID}/approve", h.handleApprove)
		r.Post("/{requestID}/deny", h.handleDeny)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filters, err := request.ParseFilters(r.URL.Query())
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_filters", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	items, err := h.Service.List(r.Context(), "", filters)
	if err != nil {
		slog.Warn("admin list requests failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list requests", requestctx.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []request.LeaveRequest{}
	}
	api.Success(w, items, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, request.StatusApproved)
}

func (h *Handler) handleDeny(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, request.StatusDenied)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, newStatus string) {
	requestID := chi.URLParam(r, "requestID")
	updated, err := h.Service.SetStatus(r.Context(), requestID, newStatus)
	if err != nil {
		switch {
		case errors.Is(err, request.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "request not found", requestctx.GetRequestID(r.Context()))
		case errors.Is(err, request.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "not_pending", "request has already been decided", requestctx.GetRequestID(r.Context()))
		default:
			slog.Warn("set request status failed", "requestId", requestID, "status", newStatus, "err", err)
			api.Fail(w, http.StatusInternalServerError, "update_failed", "could not update request", requestctx.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, updated, requestctx.GetRequestID(r.Context()))
}

// handleExport streams the filtered request register as CSV or PDF.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	filters, err := request.ParseFilters(r.URL.Query())
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_filters", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be csv or pdf", requestctx.GetRequestID(r.Context()))
		return
	}

	items, err := h.Service.List(r.Context(), "", filters)
	if err != nil {
		slog.Warn("export requests failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "could not export requests", requestctx.GetRequestID(r.Context()))
		return
	}

	if format == "pdf" {
		h.writePDF(w, items)
		return
	}
	h.writeCSV(w, items)
}

func (h *Handler) writeCSV(w http.ResponseWriter, items []request.LeaveRequest) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=leave-requests.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "employee_id", "employee_name", "leave_type", "start_date", "end_date", "num_days", "reason", "status", "created_at"}); err != nil {
		slog.Warn("export csv header write failed", "err", err)
	}
	for _, item := range items {
		row := []string{
			item.ID,
			item.EmployeeID,
			item.EmployeeName,
			item.LeaveType,
			item.StartDate.Format(request.DateLayout),
			item.EndDate.Format(request.DateLayout),
			fmt.Sprintf("%d", item.NumDays),
			item.Reason,
			item.Status,
			item.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			slog.Warn("export csv row write failed", "err", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("export csv flush failed", "err", err)
	}
}

func (h *Handler) writePDF(w http.ResponseWriter, items []request.LeaveRequest) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Requests")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	widths := []float64{35, 22, 45, 25, 25, 25, 15, 60, 22}
	headers := []string{"ID", "Employee", "Name", "Type", "Start", "End", "Days", "Reason", "Status"}
	for i, head := range headers {
		pdf.CellFormat(widths[i], 8, head, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		cols := []string{
			shorten(item.ID, 18),
			item.EmployeeID,
			shorten(item.EmployeeName, 24),
			item.LeaveType,
			item.StartDate.Format(request.DateLayout),
			item.EndDate.Format(request.DateLayout),
			fmt.Sprintf("%d", item.NumDays),
			shorten(item.Reason, 34),
			item.Status,
		}
		for i, col := range cols {
			pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=leave-requests.pdf")
	if err := pdf.Output(w); err != nil {
		slog.Warn("export pdf write failed", "err", err)
	}
}

func shorten(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
