package tui

import "github.com/thehamzam/kyc-idp/internal/domain"

// BulkDoneMsg is sent when a bulk upload finishes, success or not.
type BulkDoneMsg struct {
	Result *domain.BulkResult
	Err    error
}

// HistoryMsg carries a refreshed submission history.
type HistoryMsg struct {
	Submissions []domain.SubmissionSummary
	Err         error
}

// DetailMsg carries one full submission for the detail view.
type DetailMsg struct {
	Submission *domain.Submission
	Err        error
}

// DeleteDoneMsg is sent after a delete attempt; the history is re-fetched
// on success.
type DeleteDoneMsg struct {
	Err error
}
