package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/thehamzam/kyc-idp/internal/config"
	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/extractor"
	"github.com/thehamzam/kyc-idp/internal/port"
)

// BulkFile is one uploaded file within a bulk submission. The bytes are
// owned by the server for the duration of the request.
type BulkFile struct {
	Filename     string
	ContentType  string
	DocumentHint string
	Data         []byte
}

// SingleResult is the outcome of a single-file upload.
type SingleResult struct {
	Data         *domain.ExtractionResult `json:"data"`
	ImageData    string                   `json:"image_data"`
	SubmissionID int64                    `json:"submission_id"`
}

// SubmissionService coordinates extraction and persistence for uploads and
// serves the submission history.
type SubmissionService interface {
	ProcessSingle(ctx context.Context, userID uuid.UUID, file BulkFile) (*SingleResult, error)
	ProcessBulk(ctx context.Context, userID uuid.UUID, files []BulkFile) (*domain.BulkResult, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.SubmissionSummary, error)
	ListFull(ctx context.Context, userID uuid.UUID) ([]domain.Submission, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Submission, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

type submissionService struct {
	repo      port.SubmissionRepository
	gateway   port.DocumentExtractor
	archive   port.ObjectStorage // nil when archiving is disabled
	uploadCfg *config.UploadConfig
	s3Cfg     *config.S3Config
}

// NewSubmissionService creates a new SubmissionService implementation.
// archive may be nil; the original image is then retained inline only.
func NewSubmissionService(
	repo port.SubmissionRepository,
	gateway port.DocumentExtractor,
	archive port.ObjectStorage,
	uploadCfg *config.UploadConfig,
	s3Cfg *config.S3Config,
) SubmissionService {
	return &submissionService{
		repo:      repo,
		gateway:   gateway,
		archive:   archive,
		uploadCfg: uploadCfg,
		s3Cfg:     s3Cfg,
	}
}

func (s *submissionService) ProcessSingle(ctx context.Context, userID uuid.UUID, file BulkFile) (*SingleResult, error) {
	if err := s.validate(file); err != nil {
		return nil, err
	}

	result, err := s.gateway.Extract(ctx, port.ExtractInput{
		ImageBytes:   file.Data,
		ContentType:  file.ContentType,
		DocumentHint: file.DocumentHint,
	})
	if err != nil {
		log.Printf("submissionService.ProcessSingle: extraction failed for %q: %v", file.Filename, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	sub, err := s.persist(ctx, userID, file, result)
	if err != nil {
		return nil, err
	}

	return &SingleResult{
		Data:         result,
		ImageData:    sub.ImageData,
		SubmissionID: sub.ID,
	}, nil
}

func (s *submissionService) ProcessBulk(ctx context.Context, userID uuid.UUID, files []BulkFile) (*domain.BulkResult, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if s.uploadCfg.MaxBulkFiles > 0 && len(files) > s.uploadCfg.MaxBulkFiles {
		return nil, domain.ErrTooManyFiles
	}

	concurrency := s.uploadCfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	// Outcomes are written by input index so the response order always
	// matches submission order, regardless of completion order. Each slot
	// is owned by exactly one goroutine; no cross-file locking needed.
	outcomes := make([]domain.PerFileOutcome, len(files))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range files {
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // release
			outcomes[i] = s.processOne(ctx, userID, files[i])
		}(i)
	}
	wg.Wait()

	result := &domain.BulkResult{Results: outcomes}
	result.Summarize()

	log.Printf("submissionService.ProcessBulk: user %s: %d files, %d succeeded, %d failed",
		userID, result.Summary.Total, result.Summary.Succeeded, result.Summary.Failed)

	return result, nil
}

// processOne handles one file as an independent unit of work. Every failure
// is converted to a failed outcome; it never aborts sibling files.
func (s *submissionService) processOne(ctx context.Context, userID uuid.UUID, file BulkFile) domain.PerFileOutcome {
	outcome := domain.PerFileOutcome{Filename: file.Filename}

	if err := s.validate(file); err != nil {
		outcome.Error = s.userMessage(err)
		return outcome
	}

	result, err := s.gateway.Extract(ctx, port.ExtractInput{
		ImageBytes:   file.Data,
		ContentType:  file.ContentType,
		DocumentHint: file.DocumentHint,
	})
	if err != nil {
		log.Printf("submissionService.processOne: extraction failed for %q: %v", file.Filename, err)
		outcome.Error = s.userMessage(err)
		return outcome
	}

	sub, err := s.persist(ctx, userID, file, result)
	if err != nil {
		log.Printf("submissionService.processOne: persist failed for %q: %v", file.Filename, err)
		outcome.Error = "failed to save submission"
		return outcome
	}

	outcome.Success = true
	outcome.Data = result
	outcome.SubmissionID = &sub.ID
	return outcome
}

// validate is the authoritative server-side re-check of size and type. The
// client validates too, but requests may bypass it.
func (s *submissionService) validate(file BulkFile) error {
	maxBytes := s.uploadCfg.MaxFileSizeBytes()
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxFileSize
	}
	if int64(len(file.Data)) > maxBytes {
		return domain.ErrFileTooLarge
	}
	if len(file.Data) == 0 {
		return domain.ErrUnsupportedFileType
	}

	// Sniff the actual bytes rather than trusting the declared content type.
	sniffLen := len(file.Data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	detected := http.DetectContentType(file.Data[:sniffLen])
	if _, ok := domain.AllowedContentTypes[detected]; !ok {
		return domain.ErrUnsupportedFileType
	}
	return nil
}

func (s *submissionService) persist(ctx context.Context, userID uuid.UUID, file BulkFile, result *domain.ExtractionResult) (*domain.Submission, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshaling extraction data: %w", err)
	}

	sub := &domain.Submission{
		UserID:         userID,
		Filename:       file.Filename,
		ContentType:    file.ContentType,
		DocumentType:   domain.FieldOrEmpty(result.DocumentType),
		Name:           domain.FieldOrEmpty(result.Name),
		ExtractionData: data,
		ImageData:      toDataURL(file.ContentType, file.Data),
	}

	// Archive the verbatim original bytes when a bucket is configured.
	// Archive failure is logged, not fatal: the inline copy remains the
	// source of truth for display.
	if s.archive != nil && s.s3Cfg.Bucket != "" {
		key := fmt.Sprintf("users/%s/images/%s/%s", userID, uuid.New(), file.Filename)
		_, err := s.archive.Upload(ctx, port.UploadInput{
			Bucket:      s.s3Cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(file.Data),
			ContentType: file.ContentType,
			Size:        int64(len(file.Data)),
		})
		if err != nil {
			log.Printf("submissionService.persist: archive upload failed for %q: %v", file.Filename, err)
		} else {
			bucket := s.s3Cfg.Bucket
			sub.ArchiveBucket = &bucket
			sub.ArchiveKey = &key
		}
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// userMessage converts an internal error into the plain-text message shown
// per file. Internal detail is logged, never returned.
func (s *submissionService) userMessage(err error) string {
	maxMB := s.uploadCfg.MaxFileSizeMB
	if maxMB <= 0 {
		maxMB = domain.DefaultMaxFileSize / (1024 * 1024)
	}

	var rateErr *extractor.RateLimitError
	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		return fmt.Sprintf("file exceeds maximum %dMB limit", maxMB)
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return "invalid file type; use JPEG, PNG, GIF, or WebP"
	case errors.As(err, &rateErr):
		return "extraction service is rate limited; try again later"
	case errors.Is(err, extractor.ErrInvalidImage):
		return "image could not be processed by the extraction service"
	case errors.Is(err, extractor.ErrMissingAPIKey):
		return "extraction service is not configured"
	case errors.Is(err, extractor.ErrNoData):
		return "extraction service returned no output"
	default:
		return "extraction failed"
	}
}

func (s *submissionService) List(ctx context.Context, userID uuid.UUID) ([]domain.SubmissionSummary, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *submissionService) ListFull(ctx context.Context, userID uuid.UUID) ([]domain.Submission, error) {
	return s.repo.ListFullByUser(ctx, userID)
}

func (s *submissionService) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*domain.Submission, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *submissionService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}

// toDataURL encodes the verbatim image bytes for inline display. No
// transcoding is performed.
func toDataURL(contentType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}
