package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/staging"
)

// errNoValidFiles is surfaced when a submit is attempted with nothing valid
// staged. The list is kept so the user can fix or remove entries.
var errNoValidFiles = errors.New("no valid files to submit; fix or remove the invalid entries")

// State is the upload flow state machine. The history view is orthogonal:
// it overlays whichever upload state is current.
type State string

const (
	StateStaging    State = "staging"
	StateSubmitting State = "submitting"
	StateResults    State = "results"
)

// Model is the TUI client state. Rendering is a pure function of this
// struct; every mutation goes through Update.
type Model struct {
	Client *APIClient

	State        State
	Staging      *staging.Model
	DocumentHint string
	Result       *domain.BulkResult
	Err          error

	// History overlay, independent of the upload flow.
	ShowHistory bool
	History     []domain.SubmissionSummary
	Detail      *domain.Submission // non-nil = detail modal open
	Cursor      int
}

// NewModel creates the TUI model with files already staged.
func NewModel(client *APIClient, staged *staging.Model, documentHint string) Model {
	return Model{
		Client:       client,
		State:        StateStaging,
		Staging:      staged,
		DocumentHint: documentHint,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}
