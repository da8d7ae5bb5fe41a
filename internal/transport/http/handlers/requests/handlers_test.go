package requesthandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"ptoportal/internal/domain/employee"
	"ptoportal/internal/domain/request"
	"ptoportal/internal/domain/session"
	"ptoportal/internal/transport/http/middleware"
)

type fakeService struct {
	submitErr    error
	created      request.LeaveRequest
	newBalance   int
	getResult    request.LeaveRequest
	getErr       error
	listResult   []request.LeaveRequest
	listErr      error
	listEmployee string
	listFilters  request.FilterState
	submitted    *request.Submission
}

func (f *fakeService) Submit(_ context.Context, _ employee.Employee, sub request.Submission) (request.LeaveRequest, int, error) {
	f.submitted = &sub
	if f.submitErr != nil {
		return request.LeaveRequest{}, 0, f.submitErr
	}
	return f.created, f.newBalance, nil
}

func (f *fakeService) Get(_ context.Context, _ string) (request.LeaveRequest, error) {
	return f.getResult, f.getErr
}

func (f *fakeService) List(_ context.Context, employeeID string, filters request.FilterState) ([]request.LeaveRequest, error) {
	f.listEmployee = employeeID
	f.listFilters = filters
	return f.listResult, f.listErr
}

type staticResolver struct {
	emp employee.Employee
}

func (s *staticResolver) Resolve(_ context.Context, token string) (employee.Employee, error) {
	if token != "good" {
		return employee.Employee{}, session.ErrInvalidToken
	}
	return s.emp, nil
}

func newTestRouter(service *fakeService, emp employee.Employee) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Auth(&staticResolver{emp: emp}))
	NewHandler(service).RegisterRoutes(r)
	return r
}

func doRequest(handler http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("Authorization", "Bearer good")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListRequiresSession(t *testing.T) {
	router := newTestRouter(&fakeService{}, employee.Employee{ID: "E100"})
	rec := doRequest(router, http.MethodGet, "/requests", "", false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListScopedToSessionHolder(t *testing.T) {
	service := &fakeService{}
	router := newTestRouter(service, employee.Employee{ID: "E100"})

	rec := doRequest(router, http.MethodGet, "/requests?statuses=Pending,Approved&days=5", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "E100", service.listEmployee)
	require.ElementsMatch(t, []string{"Pending", "Approved"}, service.listFilters.Statuses)
	require.Equal(t, "5", service.listFilters.Days)
}

func TestListRejectsBadFilter(t *testing.T) {
	router := newTestRouter(&fakeService{}, employee.Employee{ID: "E100"})
	rec := doRequest(router, http.MethodGet, "/requests?statuses=Maybe", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReturnsEmptyArrayNotNull(t *testing.T) {
	router := newTestRouter(&fakeService{}, employee.Employee{ID: "E100"})
	rec := doRequest(router, http.MethodGet, "/requests", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestCreateValidRequest(t *testing.T) {
	service := &fakeService{
		created: request.LeaveRequest{
			ID:         "req-1",
			EmployeeID: "E100",
			LeaveType:  request.TypeVacation,
			StartDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			NumDays:    5,
			Status:     request.StatusPending,
		},
		newBalance: 15,
	}
	router := newTestRouter(service, employee.Employee{ID: "E100", Name: "Avery Collins", LeaveBalance: 20})

	body := `{"leaveType":"Vacation","startDate":"2026-03-02","endDate":"2026-03-06","reason":"family trip"}`
	rec := doRequest(router, http.MethodPost, "/requests", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, service.submitted)
	require.Equal(t, 5, service.submitted.NumDays)

	var envelope struct {
		Data struct {
			Request      request.LeaveRequest `json:"request"`
			LeaveBalance int                  `json:"leaveBalance"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Equal(t, 15, envelope.Data.LeaveBalance)
	require.Equal(t, "req-1", envelope.Data.Request.ID)
}

func TestCreateValidationIssues(t *testing.T) {
	router := newTestRouter(&fakeService{}, employee.Employee{ID: "E100"})

	body := `{"leaveType":"Maybe","startDate":"2026-03-06","endDate":"2026-03-02","reason":""}`
	rec := doRequest(router, http.MethodPost, "/requests", body, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Error struct {
			Code    string          `json:"code"`
			Details []request.Issue `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Equal(t, "validation_error", envelope.Error.Code)
	require.NotEmpty(t, envelope.Error.Details)
}

func TestCreateInsufficientBalance(t *testing.T) {
	service := &fakeService{submitErr: request.ErrInsufficientBalance}
	router := newTestRouter(service, employee.Employee{ID: "E100", LeaveBalance: 2})

	body := `{"leaveType":"Vacation","startDate":"2026-03-02","endDate":"2026-03-06","reason":"family trip"}`
	rec := doRequest(router, http.MethodPost, "/requests", body, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient_balance")
}

func TestGetOwnRequest(t *testing.T) {
	service := &fakeService{
		getResult: request.LeaveRequest{ID: "req-1", EmployeeID: "E100"},
	}
	router := newTestRouter(service, employee.Employee{ID: "E100"})

	rec := doRequest(router, http.MethodGet, "/requests/req-1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetForeignRequestReadsAsMissing(t *testing.T) {
	service := &fakeService{
		getResult: request.LeaveRequest{ID: "req-2", EmployeeID: "E101"},
	}
	router := newTestRouter(service, employee.Employee{ID: "E100"})

	rec := doRequest(router, http.MethodGet, "/requests/req-2", "", true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMissingRequest(t *testing.T) {
	service := &fakeService{getErr: request.ErrNotFound}
	router := newTestRouter(service, employee.Employee{ID: "E100"})

	rec := doRequest(router, http.MethodGet, "/requests/nope", "", true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
