package bulkimport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"geoimport/internal/pkg/response"
)

// multipartSlack leaves room for boundaries and headers around the file part.
const multipartSlack = 1 << 20

const serverErrorMessage = "Server error during file processing. Please try again."

type Handler struct {
	service        *Service
	maxUploadBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes registers the import endpoints on a group that already
// runs JWTAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploadLocationFile", h.UploadLocationFile)
	rg.POST("/v1/locations/import", h.UploadLocationFile)
}

// UploadLocationFile godoc
// @Summary Bulk import locations from a ZIP archive
// @Description The archive must contain exactly one .txt file with Name,Latitude,Longitude lines.
// @Tags Locations
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "ZIP archive"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,413,500 {object} map[string]interface{}
// @Router /uploadLocationFile [post]
func (h *Handler) UploadLocationFile(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Authentication failed: No token provided")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartSlack)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, ErrFileTooLarge)
			return
		}
		h.writeError(c, ErrNoFile)
		return
	}

	result, err := h.service.Import(c.Request.Context(), userID, fileHeader)
	if err != nil {
		h.writeError(c, err)
		return
	}

	switch result.Outcome {
	case OutcomeRejected:
		response.ErrorWithDetails(c, http.StatusBadRequest, result.Message, result.Errors)
	default:
		response.Success(c, http.StatusOK, result.Message, gin.H{"insertedCount": result.InsertedCount})
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, message := h.errorResponse(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.Error(c, status, message)
}

func (h *Handler) errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNoFile):
		return http.StatusBadRequest, "No file uploaded."
	case errors.Is(err, ErrInvalidExtension):
		return http.StatusBadRequest, "Only ZIP files are allowed."
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File too large. Maximum size is " + sizeLabel(h.maxUploadBytes) + "."
	case errors.Is(err, ErrExtraction):
		return http.StatusBadRequest, "The uploaded file is not a valid ZIP archive."
	case errors.Is(err, ErrNoManifestFound):
		return http.StatusBadRequest, "No .txt files found in the zip. Please include one .txt file."
	case errors.Is(err, ErrMultipleManifestsFound):
		return http.StatusBadRequest, "Multiple .txt files found. Only one is allowed."
	case errors.Is(err, ErrNoValidRecords):
		return http.StatusBadRequest, "The uploaded file contains no valid location data."
	}
	return http.StatusInternalServerError, serverErrorMessage
}

func sizeLabel(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
