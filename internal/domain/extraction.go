package domain

import (
	"encoding/json"
	"regexp"
)

// ExtractionResult holds the structured fields read off an identity document.
// A nil field means the model could not extract it; that is not an error.
type ExtractionResult struct {
	Name             *string           `json:"name"`
	DateOfBirth      *string           `json:"date_of_birth"`
	DocumentNumber   *string           `json:"document_number"`
	DocumentType     *string           `json:"document_type"`
	ExpiryDate       *string           `json:"expiry_date"`
	Nationality      *string           `json:"nationality"`
	Address          *string           `json:"address"`
	Sex              *string           `json:"sex"`
	AdditionalFields map[string]string `json:"additional_fields"`
}

var knownFields = map[string]bool{
	"name": true, "date_of_birth": true, "document_number": true,
	"document_type": true, "expiry_date": true, "nationality": true,
	"address": true, "sex": true,
}

// Models sometimes wrap the JSON in prose or markdown fences; grab the first
// flat brace block if one exists.
var jsonBlockRe = regexp.MustCompile(`(?s)\{[^{}]*\}`)

// ParseExtractionText recovers an ExtractionResult from raw model output.
// Unreadable output yields an empty result rather than an error: a document
// the model could not read is a valid "no data found" extraction.
func ParseExtractionText(text string) *ExtractionResult {
	res := &ExtractionResult{AdditionalFields: map[string]string{}}
	if text == "" {
		return res
	}

	candidate := text
	if m := jsonBlockRe.FindString(text); m != "" {
		candidate = m
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return res
	}

	res.Name = stringField(raw, "name")
	res.DateOfBirth = stringField(raw, "date_of_birth")
	res.DocumentNumber = stringField(raw, "document_number")
	res.DocumentType = stringField(raw, "document_type")
	res.ExpiryDate = stringField(raw, "expiry_date")
	res.Nationality = stringField(raw, "nationality")
	res.Address = stringField(raw, "address")
	res.Sex = stringField(raw, "sex")

	for k, v := range raw {
		if knownFields[k] {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			res.AdditionalFields[k] = s
		}
	}
	return res
}

func stringField(raw map[string]interface{}, key string) *string {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// FieldOrEmpty dereferences an optional field for display.
func FieldOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
