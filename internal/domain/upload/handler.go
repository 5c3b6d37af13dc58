package upload

import (
	"errors"
	"io"
	"net/http"

	"worklog/internal/domain/auth"
	"worklog/internal/domain/worklog"
	"worklog/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxRequestBytes caps the whole multipart body: 10 photos + 1 document
// plus form overhead.
const maxRequestBytes = 64 * 1024 * 1024

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actor(c *gin.Context) (int64, auth.Role) {
	return c.GetInt64("user_id"), auth.Role(c.GetString("role"))
}

// UploadFiles handles POST /uploads/:logId/files with multipart fields
// workPhotos (0-10) and deliveryCertificate (0-1).
func (h *Handler) UploadFiles(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_MULTIPART", "Invalid multipart form")
		return
	}

	var files []UploadedFile
	for field, headers := range form.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				response.Error(c, http.StatusBadRequest, "INVALID_MULTIPART", "Failed to read uploaded file")
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				response.Error(c, http.StatusBadRequest, "INVALID_MULTIPART", "Failed to read uploaded file")
				return
			}

			files = append(files, UploadedFile{
				Field:        field,
				OriginalName: fh.Filename,
				ContentType:  fh.Header.Get("Content-Type"),
				Size:         fh.Size,
				Data:         data,
			})
		}
	}

	actorID, role := actor(c)
	outcome, err := h.service.UploadFiles(c.Request.Context(), c.Param("logId"), actorID, role, files)
	if err != nil {
		h.writeError(c, err, outcome)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":        "Files uploaded successfully",
		"uploaded_files": outcome,
	})
}

// DeleteFile handles DELETE /uploads/:logId/:fileType/:fileId.
func (h *Handler) DeleteFile(c *gin.Context) {
	actorID, role := actor(c)

	err := h.service.DetachFile(
		c.Request.Context(),
		c.Param("logId"),
		actorID,
		role,
		c.Param("fileType"),
		c.Param("fileId"),
	)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "File deleted successfully"})
}

func (h *Handler) writeError(c *gin.Context, err error, outcome *AttachOutcome) {
	switch {
	case errors.Is(err, ErrNoFiles):
		response.Error(c, http.StatusBadRequest, "NO_FILES", "No files uploaded")
	case errors.Is(err, ErrNoValidFiles):
		var details any
		if outcome != nil {
			details = outcome.Rejected
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, "NO_VALID_FILES", "No valid files in request", details)
	case errors.Is(err, ErrInvalidFileType):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "fileType must be workPhotos or deliveryCertificate")
	case errors.Is(err, worklog.ErrLogNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Log not found")
	case errors.Is(err, worklog.ErrAttachmentNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "File not found")
	case errors.Is(err, worklog.ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not authorized to modify files on this log")
	case errors.Is(err, worklog.ErrLogApproved):
		response.Error(c, http.StatusBadRequest, "LOG_APPROVED", "Cannot modify files on an approved log")
	case errors.Is(err, worklog.ErrVersionConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Log was modified concurrently, retry")
	default:
		response.Error(c, http.StatusInternalServerError, "UPSTREAM_FAILURE", "File storage error")
	}
}
