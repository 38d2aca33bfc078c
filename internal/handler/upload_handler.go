package handler

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thehamzam/kyc-idp/internal/config"
	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/service"
)

// UploadHandler handles document upload and extraction endpoints.
type UploadHandler struct {
	submissionService service.SubmissionService
	uploadCfg         *config.UploadConfig
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(submissionService service.SubmissionService, uploadCfg *config.UploadConfig) *UploadHandler {
	return &UploadHandler{submissionService: submissionService, uploadCfg: uploadCfg}
}

// maxRequestBytes is the request-level body cap: the per-file limit times
// the bulk file count, plus slack for multipart framing. Individual files
// are still validated separately; this only bounds what one request may
// buffer in total.
func (h *UploadHandler) maxRequestBytes() int64 {
	perFile := h.uploadCfg.MaxFileSizeBytes()
	if perFile <= 0 {
		perFile = domain.DefaultMaxFileSize
	}
	files := int64(h.uploadCfg.MaxBulkFiles)
	if files <= 0 {
		files = 1
	}
	return perFile*files + 1<<20
}

// limitBody rejects oversized requests up front via Content-Length and caps
// the body read regardless, since Content-Length may be absent or lie.
// Returns false with a 413 envelope already written when the cap is hit.
func (h *UploadHandler) limitBody(c *gin.Context) bool {
	maxBytes := h.maxRequestBytes()
	if c.Request.ContentLength > maxBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "request body exceeds the maximum upload size")
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return true
}

// isBodyTooLarge reports whether a multipart parse failed because the
// MaxBytesReader cap was hit mid-read.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// BulkUploadResponse is the aggregate response for a bulk upload.
type BulkUploadResponse struct {
	Success bool                    `json:"success"`
	Results []domain.PerFileOutcome `json:"results"`
	Summary domain.BulkSummary      `json:"summary"`
}

// Upload handles POST /api/v1/upload
// @Summary Upload a single document
// @Description Upload one identity document image and extract its fields
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document image (JPEG, PNG, GIF, or WebP)"
// @Param document_hint formData string false "Declared document category (passport, license)"
// @Security BearerAuth
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.limitBody(c) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			RespondError(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "request body exceeds the maximum upload size")
			return
		}
		RespondError(c, http.StatusBadRequest, "NO_FILES", "no file uploaded")
		return
	}
	if fileHeader.Filename == "" {
		RespondError(c, http.StatusBadRequest, "NO_FILES", "no file uploaded")
		return
	}

	file, err := readUpload(fileHeader)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}
	file.DocumentHint = c.PostForm("document_hint")

	result, err := h.submissionService.ProcessSingle(c.Request.Context(), userID, *file)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"data":          result.Data,
		"image_data":    result.ImageData,
		"submission_id": result.SubmissionID,
	})
}

// UploadBulk handles POST /api/v1/upload-bulk
// @Summary Upload multiple documents
// @Description Upload identity document images under a repeated "files" part.
// @Description Each file is processed independently; per-file failures never
// @Description fail the request.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Document images"
// @Param document_hint formData string false "Declared document category applied to all files"
// @Security BearerAuth
// @Router /upload-bulk [post]
func (h *UploadHandler) UploadBulk(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.limitBody(c) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		if isBodyTooLarge(err) {
			RespondError(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "request body exceeds the maximum upload size")
			return
		}
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed multipart request")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		// Older clients post under "files[]".
		headers = form.File["files[]"]
	}

	hint := c.PostForm("document_hint")
	files := make([]service.BulkFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		file, err := readUpload(fh)
		if err != nil {
			log.Printf("uploadHandler.UploadBulk: unreadable part %q: %v", fh.Filename, err)
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
			return
		}
		file.DocumentHint = hint
		files = append(files, *file)
	}

	result, err := h.submissionService.ProcessBulk(c.Request.Context(), userID, files)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, BulkUploadResponse{
		Success: true,
		Results: result.Results,
		Summary: result.Summary,
	})
}

// readUpload drains one multipart file part into memory.
func readUpload(fh *multipart.FileHeader) (*service.BulkFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &service.BulkFile{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
