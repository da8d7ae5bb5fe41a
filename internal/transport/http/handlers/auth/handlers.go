package authhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ptoportal/internal/domain/employee"
	"ptoportal/internal/domain/otp"
	"ptoportal/internal/requestctx"
	"ptoportal/internal/transport/http/api"
	"ptoportal/internal/transport/http/middleware"
)

type OTPService interface {
	Send(ctx context.Context, employeeID string) error
	Validate(ctx context.Context, employeeID, code string) error
}

type SessionService interface {
	Login(ctx context.Context, employeeID string) (string, employee.Employee, error)
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	OTP      OTPService
	Sessions SessionService
}

func NewHandler(otpSvc OTPService, sessions SessionService) *Handler {
	return &Handler{OTP: otpSvc, Sessions: sessions}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/otp/send", h.handleSendOTP)
		r.Post("/otp/verify", h.handleVerifyOTP)
		r.Get("/me", h.handleMe)
		r.Post("/logout", h.handleLogout)
	})
}

type sendOTPRequest struct {
	EmployeeID string `json:"employeeId"`
}

type verifyOTPRequest struct {
	EmployeeID string `json:"employeeId"`
	Passcode   string `json:"passcode"`
}

func (h *Handler) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var payload sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	employeeID := strings.TrimSpace(payload.EmployeeID)
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.OTP.Send(r.Context(), employeeID); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee with that ID", requestctx.GetRequestID(r.Context()))
			return
		}
		slog.Warn("send passcode failed", "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "send_failed", "could not send passcode", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{"message": "passcode sent"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var payload verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	employeeID := strings.TrimSpace(payload.EmployeeID)
	passcode := strings.TrimSpace(payload.Passcode)
	if employeeID == "" || passcode == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId and passcode are required", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.OTP.Validate(r.Context(), employeeID, passcode); err != nil {
		switch {
		case errors.Is(err, otp.ErrPasscodeExpired):
			api.Fail(w, http.StatusUnauthorized, "passcode_expired", "passcode expired, request a new one", requestctx.GetRequestID(r.Context()))
		case errors.Is(err, otp.ErrInvalidPasscode):
			api.Fail(w, http.StatusUnauthorized, "invalid_passcode", "invalid passcode", requestctx.GetRequestID(r.Context()))
		default:
			slog.Warn("validate passcode failed", "employeeId", employeeID, "err", err)
			api.Fail(w, http.StatusInternalServerError, "verify_failed", "could not verify passcode", requestctx.GetRequestID(r.Context()))
		}
		return
	}

	token, emp, err := h.Sessions.Login(r.Context(), employeeID)
	if err != nil {
		slog.Warn("login failed after passcode", "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "session_error", "could not start session", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token":    token,
		"employee": emp,
	}, requestctx.GetRequestID(r.Context()))
}

// handleMe returns the fresh directory record for the session holder,
// including the current leave balance.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	emp, ok := middleware.GetEmployee(r.Context())
	if !ok {
		middleware.FailUnauthenticated(w, r)
		return
	}
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	token := ""
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 {
		token = parts[1]
	}

	if err := h.Sessions.Logout(r.Context(), token); err != nil {
		slog.Warn("logout failed", "err", err)
	}
	api.Success(w, map[string]string{"message": "logged out"}, requestctx.GetRequestID(r.Context()))
}
