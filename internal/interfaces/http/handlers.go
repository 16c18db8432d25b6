package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/leave-desk/internal/application/port"
	"github.com/garyjia/leave-desk/internal/application/service"
	"github.com/garyjia/leave-desk/internal/domain/entity"
	"github.com/garyjia/leave-desk/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers
type Handlers struct {
	leaveService service.LeaveService
	employees    port.EmployeeRepository
	exporter     *report.ExcelExporter
	sessions     *SessionStore
	health       HealthFunc
	logger       *zap.Logger
}

// ComponentHealth is the state of one dependency in the health report
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthFunc reports the health of the server's dependencies by name
type HealthFunc func(ctx context.Context) map[string]ComponentHealth

// NewHandlers creates a new Handlers instance
func NewHandlers(
	leaveService service.LeaveService,
	employees port.EmployeeRepository,
	exporter *report.ExcelExporter,
	sessions *SessionStore,
	health HealthFunc,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		leaveService: leaveService,
		employees:    employees,
		exporter:     exporter,
		sessions:     sessions,
		health:       health,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string                     `json:"status"`
	Timestamp      string                     `json:"timestamp"`
	Version        string                     `json:"version"`
	ActiveSessions int                        `json:"active_sessions"`
	Components     map[string]ComponentHealth `json:"components,omitempty"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token. The password is never echoed.
type LoginResponse struct {
	Token      string       `json:"token"`
	ExpiresAt  string       `json:"expires_at"`
	EmployeeID int          `json:"employee_id"`
	Name       string       `json:"name"`
	Role       service.Role `json:"role"`
}

// SubmitLeaveRequest is the body of POST /api/leaves
type SubmitLeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// LeaveResponse represents a leave application in API responses
type LeaveResponse struct {
	ID         int64  `json:"id"`
	EmployeeID int    `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	// Actions lists the decisions an administrator may take; set in the
	// administrator table only
	Actions []service.Decision `json:"actions,omitempty"`
}

// DashboardResponse represents an employee's own view
type DashboardResponse struct {
	EmployeeID   int             `json:"employee_id"`
	Name         string          `json:"name"`
	LeaveBalance int             `json:"leave_balance"`
	Leaves       []LeaveResponse `json:"leaves"`
}

// ReviewResponse represents a review journal entry in API responses
type ReviewResponse struct {
	ID             int64  `json:"id"`
	LeaveID        int64  `json:"leave_id"`
	ReviewerID     int    `json:"reviewer_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Timestamp      string `json:"timestamp"`
}

// HealthCheck handles GET /health. Any unhealthy component turns the
// response into 503.
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Version:        "1.0.0",
		ActiveSessions: h.sessions.Len(),
	}

	if h.health != nil {
		response.Components = h.health(c.Request.Context())
		for _, component := range response.Components {
			if !component.Healthy {
				response.Status = "degraded"
			}
		}
	}

	if response.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Data:    response,
			Error:   "one or more components are unhealthy",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// Login handles POST /api/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid login body", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	session, err := h.leaveService.Authenticate(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, expiresAt := h.sessions.Create(*session)

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: LoginResponse{
			Token:      token,
			ExpiresAt:  expiresAt.UTC().Format(time.RFC3339),
			EmployeeID: session.EmployeeID,
			Name:       session.Name,
			Role:       session.Role,
		},
	})
}

// Logout handles POST /api/logout
func (h *Handlers) Logout(c *gin.Context) {
	h.sessions.Delete(c.GetString(tokenContextKey))
	c.JSON(http.StatusOK, Response{Success: true})
}

// Dashboard handles GET /api/me/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	dashboard, err := h.leaveService.Dashboard(c.Request.Context(), currentSession(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: DashboardResponse{
			EmployeeID:   dashboard.EmployeeID,
			Name:         dashboard.Name,
			LeaveBalance: dashboard.LeaveBalance,
			Leaves:       toLeaveResponses(dashboard.Leaves),
		},
	})
}

// SubmitLeave handles POST /api/leaves
func (h *Handlers) SubmitLeave(c *gin.Context) {
	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	leave, err := h.leaveService.SubmitLeave(c.Request.Context(), currentSession(c), service.SubmitLeaveInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toLeaveResponse(*leave),
	})
}

// ListLeaves handles GET /api/leaves
func (h *Handlers) ListLeaves(c *gin.Context) {
	leaves, err := h.leaveService.ListLeaves(c.Request.Context(), currentSession(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	responses := toLeaveResponses(leaves)
	for i := range responses {
		responses[i].Actions = service.AllowedDecisions(leaves[i].Status)
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responses,
	})
}

// ApproveLeave handles POST /api/leaves/:id/approve
func (h *Handlers) ApproveLeave(c *gin.Context) {
	h.review(c, service.DecisionApprove)
}

// RejectLeave handles POST /api/leaves/:id/reject
func (h *Handlers) RejectLeave(c *gin.Context) {
	h.review(c, service.DecisionReject)
}

// review applies a decision. With ?by=position the path parameter is the
// zero-based row in the leave table instead of the leave ID.
func (h *Handlers) review(c *gin.Context, decision service.Decision) {
	idStr := c.Param("id")
	ref, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid leave ID",
		})
		return
	}

	var leave *entity.LeaveApplication
	if c.Query("by") == "position" {
		leave, err = h.leaveService.ReviewLeaveAt(c.Request.Context(), currentSession(c), int(ref), decision)
	} else {
		leave, err = h.leaveService.ReviewLeave(c.Request.Context(), currentSession(c), ref, decision)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toLeaveResponse(*leave),
	})
}

// ReviewHistory handles GET /api/leaves/:id/reviews
func (h *Handlers) ReviewHistory(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid leave ID",
		})
		return
	}

	records, err := h.leaveService.ReviewHistory(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	responses := make([]ReviewResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, ReviewResponse{
			ID:             record.ID,
			LeaveID:        record.LeaveID,
			ReviewerID:     record.ReviewerID,
			PreviousStatus: record.PreviousStatus.String(),
			NewStatus:      record.NewStatus.String(),
			Timestamp:      record.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responses,
	})
}

// ExportLeaves handles GET /api/leaves/export
func (h *Handlers) ExportLeaves(c *gin.Context) {
	ctx := c.Request.Context()

	leaves, err := h.leaveService.ListLeaves(ctx, currentSession(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	employees := h.employees.LoadEmployees(ctx).Items

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, leaves, employees); err != nil {
		h.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("leaves-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// writeError maps workflow errors onto HTTP status codes
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		message = "internal error"
	}

	c.JSON(status, Response{
		Success: false,
		Error:   message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidDecision):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrLeaveNotFound), errors.Is(err, service.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDocumentCorrupt):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// toLeaveResponse converts domain entity to API response
func toLeaveResponse(leave entity.LeaveApplication) LeaveResponse {
	return LeaveResponse{
		ID:         leave.ID,
		EmployeeID: leave.EmployeeID,
		StartDate:  leave.StartDate.String(),
		EndDate:    leave.EndDate.String(),
		Reason:     leave.Reason,
		Status:     leave.Status.String(),
	}
}

func toLeaveResponses(leaves []entity.LeaveApplication) []LeaveResponse {
	responses := make([]LeaveResponse, 0, len(leaves))
	for _, leave := range leaves {
		responses = append(responses, toLeaveResponse(leave))
	}
	return responses
}
