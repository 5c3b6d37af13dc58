package worklog

import (
	"errors"
	"net/http"
	"time"

	"worklog/internal/domain/auth"
	"worklog/internal/pkg/response"
	"worklog/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actor(c *gin.Context) (int64, auth.Role) {
	return c.GetInt64("user_id"), auth.Role(c.GetString("role"))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", details)
		return
	}

	in, details := req.toInput()
	if details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", details)
		return
	}

	actorID, _ := actor(c)
	l, err := h.service.Create(c.Request.Context(), actorID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateLog):
			response.Error(c, http.StatusConflict, "DUPLICATE_LOG", "A log already exists for this date and project")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", "End time must be after start time and required fields must be non-empty")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create log")
		}
		return
	}

	response.Success(c, http.StatusCreated, l)
}

func (h *Handler) List(c *gin.Context) {
	actorID, role := actor(c)

	f := ListFilter{Status: Status(c.Query("status"))}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(dateLayout, from); err == nil {
			f.From = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(dateLayout, to); err == nil {
			f.To = t
		}
	}

	logs, err := h.service.List(c.Request.Context(), actorID, role, f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list logs")
		return
	}
	response.Success(c, http.StatusOK, logs)
}

func (h *Handler) GetByID(c *gin.Context) {
	actorID, role := actor(c)

	l, err := h.service.GetByID(c.Request.Context(), actorID, role, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to get log")
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	in, details := req.toInput()
	if details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", details)
		return
	}

	actorID, role := actor(c)
	l, err := h.service.Update(c.Request.Context(), actorID, role, c.Param("id"), in)
	if err != nil {
		h.writeError(c, err, "Failed to update log")
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Submit(c *gin.Context) {
	actorID, role := actor(c)

	l, err := h.service.Submit(c.Request.Context(), actorID, role, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to submit log")
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Approve(c *gin.Context) {
	actorID, role := actor(c)

	l, err := h.service.Approve(c.Request.Context(), actorID, role, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to approve log")
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) Delete(c *gin.Context) {
	actorID, role := actor(c)

	if err := h.service.Delete(c.Request.Context(), actorID, role, c.Param("id")); err != nil {
		h.writeError(c, err, "Failed to delete log")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Log deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrLogNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Log not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not authorized to access this log")
	case errors.Is(err, ErrLogApproved):
		response.Error(c, http.StatusBadRequest, "LOG_APPROVED", "Log is approved and can no longer be modified")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid status transition")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed")
	case errors.Is(err, ErrVersionConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Log was modified concurrently, retry")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
