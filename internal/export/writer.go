package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/thehamzam/kyc-idp/internal/domain"
)

// BOM is prepended to CSV output so Excel detects UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{
	"ID", "Filename", "Document Type", "Name", "Date of Birth",
	"Document Number", "Expiry Date", "Nationality", "Address", "Sex",
	"Created At",
}

// row flattens one submission into the export column order. Extraction
// fields come from the stored JSON, not the denormalized columns, so the
// export reflects exactly what was extracted.
func row(sub domain.Submission) []string {
	var res domain.ExtractionResult
	if len(sub.ExtractionData) > 0 {
		// Corrupt rows export their denormalized columns only.
		_ = json.Unmarshal(sub.ExtractionData, &res)
	}

	return []string{
		fmt.Sprintf("%d", sub.ID),
		sub.Filename,
		sub.DocumentType,
		sub.Name,
		domain.FieldOrEmpty(res.DateOfBirth),
		domain.FieldOrEmpty(res.DocumentNumber),
		domain.FieldOrEmpty(res.ExpiryDate),
		domain.FieldOrEmpty(res.Nationality),
		domain.FieldOrEmpty(res.Address),
		domain.FieldOrEmpty(res.Sex),
		sub.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteCSV writes the submissions as a UTF-8 CSV with a BOM prefix.
func WriteCSV(w io.Writer, subs []domain.Submission) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, sub := range subs {
		if err := cw.Write(row(sub)); err != nil {
			return fmt.Errorf("writing row %d: %w", sub.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
