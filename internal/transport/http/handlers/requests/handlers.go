package requesthandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ptoportal/internal/domain/employee"
	"ptoportal/internal/domain/request"
	"ptoportal/internal/requestctx"
	"ptoportal/internal/transport/http/api"
	"ptoportal/internal/transport/http/middleware"
)

type Service interface {
	Submit(ctx context.Context, emp employee.Employee, sub request.Submission) (request.LeaveRequest, int, error)
	Get(ctx context.Context, requestID string) (request.LeaveRequest, error)
	List(ctx context.Context, employeeID string, f request.FilterState) ([]request.LeaveRequest, error)
}

// Handler serves the employee-facing request endpoints. Every route
// requires an authenticated session; listings and lookups are scoped
// to the session holder.
type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/requests", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{requestID}", h.handleGet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	emp, ok := middleware.GetEmployee(r.Context())
	if !ok {
		middleware.FailUnauthenticated(w, r)
		return
	}

	filters, err := request.ParseFilters(r.URL.Query())
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_filters", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	items, err := h.Service.List(r.Context(), emp.ID, filters)
	if err != nil {
		slog.Warn("list requests failed", "employeeId", emp.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list requests", requestctx.GetRequestID(r.Context()))
		return
	}
	if items == nil {
		items = []request.LeaveRequest{}
	}
	api.Success(w, items, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	emp, ok := middleware.GetEmployee(r.Context())
	if !ok {
		middleware.FailUnauthenticated(w, r)
		return
	}

	var form request.SubmitForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	sub, issues := form.Validate()
	if len(issues) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "one or more fields are invalid", issues, requestctx.GetRequestID(r.Context()))
		return
	}

	created, newBalance, err := h.Service.Submit(r.Context(), emp, sub)
	if err != nil {
		if errors.Is(err, request.ErrInsufficientBalance) {
			api.Fail(w, http.StatusUnprocessableEntity, "insufficient_balance", "requested days exceed the remaining leave balance", requestctx.GetRequestID(r.Context()))
			return
		}
		slog.Warn("submit request failed", "employeeId", emp.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "submit_failed", "could not submit request", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Created(w, map[string]any{
		"request":      created,
		"leaveBalance": newBalance,
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, ok := middleware.GetEmployee(r.Context())
	if !ok {
		middleware.FailUnauthenticated(w, r)
		return
	}

	requestID := chi.URLParam(r, "requestID")
	req, err := h.Service.Get(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "request not found", requestctx.GetRequestID(r.Context()))
			return
		}
		slog.Warn("get request failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "get_failed", "could not load request", requestctx.GetRequestID(r.Context()))
		return
	}

	// Ownership reads as absence to non-admins.
	if req.EmployeeID != emp.ID && !emp.IsAdmin {
		api.Fail(w, http.StatusNotFound, "not_found", "request not found", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, req, requestctx.GetRequestID(r.Context()))
}
