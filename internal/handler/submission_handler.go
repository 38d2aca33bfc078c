package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thehamzam/kyc-idp/internal/export"
	"github.com/thehamzam/kyc-idp/internal/service"
)

// SubmissionHandler handles submission history endpoints.
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// List handles GET /api/v1/submissions
// @Summary List submissions
// @Description List the caller's submissions, newest first
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	subs, err := h.submissionService.List(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submissions": subs})
}

// GetByID handles GET /api/v1/submissions/:id
// @Summary Get submission by ID
// @Description Get one submission including the stored image and extracted fields
// @Tags submissions
// @Produce json
// @Param id path int true "Submission ID"
// @Security BearerAuth
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	sub, err := h.submissionService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": sub})
}

// Delete handles DELETE /api/v1/submissions/:id
// @Summary Delete a submission
// @Description Delete one submission; its ID is never reused
// @Tags submissions
// @Produce json
// @Param id path int true "Submission ID"
// @Security BearerAuth
// @Router /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), userID, id); err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Export handles GET /api/v1/submissions/export?format=csv|xlsx
// @Summary Export submission history
// @Description Download the caller's submission history as CSV or XLSX
// @Tags submissions
// @Produce octet-stream
// @Param format query string false "Export format (csv or xlsx)" default(csv)
// @Security BearerAuth
// @Router /submissions/export [get]
func (h *SubmissionHandler) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	subs, err := h.submissionService.ListFull(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == "xlsx" {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.WriteXLSX(c.Writer, subs); err != nil {
			HandleError(c, err)
		}
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	if err := export.WriteCSV(c.Writer, subs); err != nil {
		HandleError(c, err)
	}
}
