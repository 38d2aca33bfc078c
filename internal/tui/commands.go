package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thehamzam/kyc-idp/internal/staging"
)

// submitBulk uploads the valid staged files.
func submitBulk(client *APIClient, files []staging.StagedFile, hint string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.UploadBulk(files, hint)
		return BulkDoneMsg{Result: result, Err: err}
	}
}

// fetchHistory re-fetches the submission history in full.
func fetchHistory(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		subs, err := client.ListSubmissions()
		return HistoryMsg{Submissions: subs, Err: err}
	}
}

// fetchDetail loads one submission for the detail view.
func fetchDetail(client *APIClient, id int64) tea.Cmd {
	return func() tea.Msg {
		sub, err := client.GetSubmission(id)
		return DetailMsg{Submission: sub, Err: err}
	}
}

// deleteSubmission deletes one record.
func deleteSubmission(client *APIClient, id int64) tea.Cmd {
	return func() tea.Msg {
		return DeleteDoneMsg{Err: client.DeleteSubmission(id)}
	}
}
