package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case BulkDoneMsg:
		return m.handleBulkDone(msg)
	case HistoryMsg:
		return m.handleHistory(msg)
	case DetailMsg:
		return m.handleDetail(msg)
	case DeleteDoneMsg:
		return m.handleDeleteDone(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	if m.ShowHistory {
		return m.handleHistoryKey(key)
	}

	switch m.State {
	case StateStaging:
		return m.handleStagingKey(key)
	case StateSubmitting:
		// No cancellation: the submission runs to completion.
		return m, nil
	case StateResults:
		switch key {
		case "u":
			// Upload another batch.
			m.State = StateStaging
			m.Staging.Clear()
			m.Result = nil
			m.Err = nil
		case "h":
			m.ShowHistory = true
			m.Cursor = 0
			return m, fetchHistory(m.Client)
		}
	}
	return m, nil
}

func (m Model) handleStagingKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < m.Staging.Len()-1 {
			m.Cursor++
		}
	case "x", "delete":
		m.Staging.Remove(m.Cursor)
		if m.Cursor >= m.Staging.Len() && m.Cursor > 0 {
			m.Cursor--
		}
	case "c":
		m.Staging.Clear()
		m.Cursor = 0
	case "enter", "s":
		valid := m.Staging.Valid()
		if len(valid) == 0 {
			// All staged files invalid: surface the error, keep the list.
			m.Err = errNoValidFiles
			return m, nil
		}
		m.State = StateSubmitting
		m.Err = nil
		return m, submitBulk(m.Client, valid, m.DocumentHint)
	case "h":
		m.ShowHistory = true
		m.Cursor = 0
		return m, fetchHistory(m.Client)
	}
	return m, nil
}

func (m Model) handleHistoryKey(key string) (tea.Model, tea.Cmd) {
	if m.Detail != nil {
		// Any of these closes the modal.
		if key == "esc" || key == "enter" || key == "backspace" {
			m.Detail = nil
		}
		return m, nil
	}

	switch key {
	case "esc", "backspace":
		m.ShowHistory = false
		m.Cursor = 0
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.History)-1 {
			m.Cursor++
		}
	case "enter":
		if m.Cursor < len(m.History) {
			return m, fetchDetail(m.Client, m.History[m.Cursor].ID)
		}
	case "d":
		if m.Cursor < len(m.History) {
			return m, deleteSubmission(m.Client, m.History[m.Cursor].ID)
		}
	case "r":
		return m, fetchHistory(m.Client)
	}
	return m, nil
}

func (m Model) handleBulkDone(msg BulkDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Request-level failure falls back to staging with the error shown;
		// the staged list is kept so the user can retry.
		m.State = StateStaging
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateResults
	m.Result = msg.Result
	m.Staging.Clear()
	m.Cursor = 0
	// A successful submission changes the history; re-fetch it in full so
	// the overlay is current whenever it is opened.
	return m, fetchHistory(m.Client)
}

func (m Model) handleHistory(msg HistoryMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.History = msg.Submissions
	m.Err = nil
	if m.Cursor >= len(m.History) && m.Cursor > 0 {
		m.Cursor = len(m.History) - 1
	}
	return m, nil
}

func (m Model) handleDetail(msg DetailMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.Detail = msg.Submission
	return m, nil
}

func (m Model) handleDeleteDone(msg DeleteDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	// Full re-fetch after every deletion, no partial update.
	return m, fetchHistory(m.Client)
}
