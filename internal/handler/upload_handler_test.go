package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thehamzam/kyc-idp/internal/config"
	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/handler"
	"github.com/thehamzam/kyc-idp/internal/middleware"
	"github.com/thehamzam/kyc-idp/internal/service"
	"github.com/thehamzam/kyc-idp/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testUploadCfg() *config.UploadConfig {
	return &config.UploadConfig{MaxFileSizeMB: 10, MaxBulkFiles: 20, Concurrency: 4}
}

// newTestRouter returns a router with the user already authenticated.
func newTestRouter(userID uuid.UUID, register func(*gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	grp := r.Group("")
	grp.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	})
	register(grp)
	return r
}

func multipartBody(t *testing.T, field string, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range filenames {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadBulk_Success(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockSubmissionService{}
	h := handler.NewUploadHandler(svc, testUploadCfg())

	name := "JANE DOE"
	id := int64(1)
	svc.On("ProcessBulk", mock.Anything, userID, mock.MatchedBy(func(files []service.BulkFile) bool {
		return len(files) == 2 && files[0].Filename == "a.png" && files[1].Filename == "b.png"
	})).Return(&domain.BulkResult{
		Results: []domain.PerFileOutcome{
			{Filename: "a.png", Success: true, Data: &domain.ExtractionResult{Name: &name}, SubmissionID: &id},
			{Filename: "b.png", Success: false, Error: "extraction failed"},
		},
		Summary: domain.BulkSummary{Total: 2, Succeeded: 1, Failed: 1},
	}, nil)

	r := newTestRouter(userID, func(g *gin.RouterGroup) {
		g.POST("/upload-bulk", h.UploadBulk)
	})

	body, contentType := multipartBody(t, "files", "a.png", "b.png")
	req := httptest.NewRequest(http.MethodPost, "/upload-bulk", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.BulkUploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "a.png", resp.Results[0].Filename)
	assert.Equal(t, 2, resp.Summary.Total)
	svc.AssertExpectations(t)
}

func TestUploadBulk_LegacyFieldName(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockSubmissionService{}
	h := handler.NewUploadHandler(svc, testUploadCfg())

	svc.On("ProcessBulk", mock.Anything, userID, mock.MatchedBy(func(files []service.BulkFile) bool {
		return len(files) == 1 && files[0].Filename == "a.png"
	})).Return(&domain.BulkResult{
		Results: []domain.PerFileOutcome{{Filename: "a.png", Success: true}},
		Summary: domain.BulkSummary{Total: 1, Succeeded: 1},
	}, nil)

	r := newTestRouter(userID, func(g *gin.RouterGroup) {
		g.POST("/upload-bulk", h.UploadBulk)
	})

	body, contentType := multipartBody(t, "files[]", "a.png")
	req := httptest.NewRequest(http.MethodPost, "/upload-bulk", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUploadBulk_ZeroFiles(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockSubmissionService{}
	h := handler.NewUploadHandler(svc, testUploadCfg())

	svc.On("ProcessBulk", mock.Anything, userID, mock.Anything).Return(nil, domain.ErrNoFiles)

	r := newTestRouter(userID, func(g *gin.RouterGroup) {
		g.POST("/upload-bulk", h.UploadBulk)
	})

	body, contentType := multipartBody(t, "files")
	req := httptest.NewRequest(http.MethodPost, "/upload-bulk", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NO_FILES", resp.Error.Code)
}

func TestUploadBulk_TooManyFiles(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockSubmissionService{}
	h := handler.NewUploadHandler(svc, testUploadCfg())

	svc.On("ProcessBulk", mock.Anything, userID, mock.Anything).Return(nil, domain.ErrTooManyFiles)

	r := newTestRouter(userID, func(g *gin.RouterGroup) {
		g.POST("/upload-bulk", h.UploadBulk)
	})

	body, contentType := multipartBody(t, "files", "a.png")
	req := httptest.NewRequest(http.MethodPost, "/upload-bulk", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_Single_Success(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockSubmissionService{}
	h := handler.NewUploadHandler(svc, testUploadCfg())

	name := "JANE DOE"
	svc.On("ProcessSingle", mock.Anything, userID, mock.MatchedBy(func(f service.BulkFile) bool {
		return f.Filename == "id.png" && f.DocumentHint == "passport"
	})).Return(&service.SingleResult{
		Data:         &domain.ExtractionResult{Name: &name},
		ImageData:    "data:image/png;base64,AAAA",
		SubmissionID: 5,
	}, nil)

	r := newTestRouter(userID, func(g *gin.RouterGroup) {
		g.POST("/upload", h.Upload)
	})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "id.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("document_hint", "passport"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(5), resp["submission_id"])
	svc.AssertExpectations(t)
}

func TestUploadBulk_RequestBodyTooLarge(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockSubmissionService{}
	h := handler.NewUploadHandler(svc, testUploadCfg())

	r := newTestRouter(userID, func(g *gin.RouterGroup) {
		g.POST("/upload-bulk", h.UploadBulk)
	})

	body, contentType := multipartBody(t, "files", "a.png")
	req := httptest.NewRequest(http.MethodPost, "/upload-bulk", body)
	req.Header.Set("Content-Type", contentType)
	// Claim a body far beyond max_bulk_files * max_file_size_mb.
	req.ContentLength = 1 << 40
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REQUEST_TOO_LARGE", resp.Error.Code)
	svc.AssertNotCalled(t, "ProcessBulk")
}

func TestUploadBulk_BodyExceedsCapMidRead(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockSubmissionService{}
	// Tight limits keep the oversized body small: the cap here is
	// 1 MB * 1 file + 1 MB of framing slack.
	h := handler.NewUploadHandler(svc, &config.UploadConfig{MaxFileSizeMB: 1, MaxBulkFiles: 1, Concurrency: 1})

	r := newTestRouter(userID, func(g *gin.RouterGroup) {
		g.POST("/upload-bulk", h.UploadBulk)
	})

	// An unknown length (chunked encoding) bypasses the Content-Length
	// check; the MaxBytesReader must still stop the read.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("files", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), 3*1024*1024))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-bulk", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	svc.AssertNotCalled(t, "ProcessBulk")
}

func TestUpload_Single_NoFile(t *testing.T) {
	userID := uuid.New()
	h := handler.NewUploadHandler(&mocks.MockSubmissionService{}, testUploadCfg())

	r := newTestRouter(userID, func(g *gin.RouterGroup) {
		g.POST("/upload", h.Upload)
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_MissingAuthContext(t *testing.T) {
	h := handler.NewUploadHandler(&mocks.MockSubmissionService{}, testUploadCfg())

	r := gin.New()
	r.POST("/upload", h.Upload)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
