package port

import (
	"context"

	"github.com/thehamzam/kyc-idp/internal/domain"
)

// ExtractInput carries one document image to the extraction model.
type ExtractInput struct {
	ImageBytes   []byte
	ContentType  string
	DocumentHint string // optional declared category ("passport", "license")
}

// DocumentExtractor abstracts the hosted AI model that reads identity
// documents. Implementations return typed errors from the extractor package.
type DocumentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.ExtractionResult, error)
	Healthy() (bool, string)
}
