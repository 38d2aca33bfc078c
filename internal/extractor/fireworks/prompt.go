package fireworks

import "fmt"

const basePrompt = `Look at this identity document image carefully.

READ THE ACTUAL TEXT visible and extract real information. DO NOT use placeholder data.
If you cannot read a field, use null.

Return JSON only:
{
  "name": "full name on document",
  "date_of_birth": "YYYY-MM-DD format",
  "document_number": "document/license number",
  "document_type": "passport or license",
  "expiry_date": "YYYY-MM-DD or null",
  "nationality": "country or null",
  "address": "address or null",
  "sex": "M or F or null"
}`

// buildPrompt returns the extraction prompt, optionally steering the model
// toward a declared document category.
func buildPrompt(documentHint string) string {
	if documentHint == "" {
		return basePrompt
	}
	return fmt.Sprintf("%s\n\nThe uploader declared this document as a %s.", basePrompt, documentHint)
}
