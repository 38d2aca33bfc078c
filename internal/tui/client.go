package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/staging"
)

// APIClient is a thin HTTP client for the extraction server API.
type APIClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewAPIClient creates a new API client. Bulk uploads can take a while, so
// the timeout is generous.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// apiError extracts the server's error message from a non-2xx response.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, env.Error.Message)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
}

// Login authenticates and stores the access token for later calls.
func (c *APIClient) Login(email, password string) error {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := c.client.Post(c.baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}
	if body.Data.AccessToken == "" {
		return fmt.Errorf("login response missing access token")
	}
	c.token = body.Data.AccessToken
	return nil
}

func (c *APIClient) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.client.Do(req)
}

// UploadBulk submits the staged files as one multipart request.
func (c *APIClient) UploadBulk(files []staging.StagedFile, documentHint string) (*domain.BulkResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("building multipart body: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("building multipart body: %w", err)
		}
	}
	if documentHint != "" {
		if err := w.WriteField("document_hint", documentHint); err != nil {
			return nil, fmt.Errorf("building multipart body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/v1/upload-bulk", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("bulk upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var body struct {
		Success bool                    `json:"success"`
		Results []domain.PerFileOutcome `json:"results"`
		Summary domain.BulkSummary      `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding bulk response: %w", err)
	}
	return &domain.BulkResult{Results: body.Results, Summary: body.Summary}, nil
}

// ListSubmissions fetches the full submission history, newest first.
func (c *APIClient) ListSubmissions() ([]domain.SubmissionSummary, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/v1/submissions", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var body struct {
		Success     bool                       `json:"success"`
		Submissions []domain.SubmissionSummary `json:"submissions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding submissions: %w", err)
	}
	return body.Submissions, nil
}

// GetSubmission fetches one submission including its extracted fields.
func (c *APIClient) GetSubmission(id int64) (*domain.Submission, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/v1/submissions/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching submission %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var body struct {
		Success    bool              `json:"success"`
		Submission domain.Submission `json:"submission"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding submission: %w", err)
	}
	return &body.Submission, nil
}

// DeleteSubmission deletes one submission by id.
func (c *APIClient) DeleteSubmission(id int64) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/submissions/%d", c.baseURL, id), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("deleting submission %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}
