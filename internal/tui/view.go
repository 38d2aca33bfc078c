package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/thehamzam/kyc-idp/internal/domain"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("KYC Document Extraction"))
	b.WriteString("\n")

	if m.ShowHistory {
		b.WriteString(m.viewHistory())
	} else {
		switch m.State {
		case StateStaging:
			b.WriteString(m.viewStaging())
		case StateSubmitting:
			b.WriteString(InfoStyle.Render("Extracting documents, please wait..."))
			b.WriteString("\n")
		case StateResults:
			b.WriteString(m.viewResults())
		}
	}

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("Error: " + Sanitize(m.Err.Error())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(m.footer()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewStaging() string {
	var b strings.Builder
	files := m.Staging.Files()

	if len(files) == 0 {
		b.WriteString(InfoStyle.Render("No files staged."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Staged files (%d):\n\n", len(files)))
	for i, f := range files {
		line := fmt.Sprintf("%s  (%s)", Sanitize(f.Name), formatSize(f.Size))
		if f.Valid {
			line = SuccessStyle.Render("ok      ") + line
		} else {
			line = ErrorStyle.Render("invalid ") + line + ErrorStyle.Render("  "+Sanitize(f.Error))
		}
		if i == m.Cursor {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	if m.Result == nil {
		return b.String()
	}

	s := m.Result.Summary
	b.WriteString(fmt.Sprintf("Processed %d file(s): %s, %s\n\n",
		s.Total,
		SuccessStyle.Render(fmt.Sprintf("%d succeeded", s.Succeeded)),
		ErrorStyle.Render(fmt.Sprintf("%d failed", s.Failed))))

	for _, r := range m.Result.Results {
		if r.Success {
			b.WriteString(SuccessStyle.Render("✓ " + Sanitize(r.Filename)))
			b.WriteString("\n")
			if r.Data != nil {
				b.WriteString(renderFields(r.Data, "    "))
			}
		} else {
			b.WriteString(ErrorStyle.Render("✗ " + Sanitize(r.Filename) + " — " + Sanitize(r.Error)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewHistory() string {
	var b strings.Builder

	if m.Detail != nil {
		return m.viewDetail()
	}

	b.WriteString(InfoStyle.Render("Submission history (newest first):"))
	b.WriteString("\n\n")

	if len(m.History) == 0 {
		b.WriteString(InfoStyle.Render("No submissions yet."))
		b.WriteString("\n")
		return b.String()
	}

	for i, s := range m.History {
		line := fmt.Sprintf("#%-5d %-30s %-15s %-20s %s",
			s.ID,
			truncate(Sanitize(s.Filename), 30),
			truncate(Sanitize(s.DocumentType), 15),
			truncate(Sanitize(s.Name), 20),
			s.CreatedAt.Local().Format("2006-01-02 15:04"))
		if i == m.Cursor {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewDetail() string {
	sub := m.Detail
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Submission #%d\n", sub.ID))
	b.WriteString(fmt.Sprintf("File: %s\n", Sanitize(sub.Filename)))
	b.WriteString(fmt.Sprintf("Submitted: %s\n\n", sub.CreatedAt.Local().Format("2006-01-02 15:04:05")))

	var res domain.ExtractionResult
	if len(sub.ExtractionData) > 0 && json.Unmarshal(sub.ExtractionData, &res) == nil {
		b.WriteString(renderFields(&res, ""))
	}

	return BoxStyle.Render(b.String()) + "\n"
}

// renderFields prints the fixed schema fields that are present, then any
// additional fields in stable order.
func renderFields(res *domain.ExtractionResult, indent string) string {
	var b strings.Builder
	write := func(label string, val *string) {
		if val != nil && *val != "" {
			b.WriteString(fmt.Sprintf("%s%-16s %s\n", indent, label+":", Sanitize(*val)))
		}
	}
	write("Name", res.Name)
	write("Date of Birth", res.DateOfBirth)
	write("Document No.", res.DocumentNumber)
	write("Document Type", res.DocumentType)
	write("Expiry Date", res.ExpiryDate)
	write("Nationality", res.Nationality)
	write("Address", res.Address)
	write("Sex", res.Sex)

	if len(res.AdditionalFields) > 0 {
		keys := make([]string, 0, len(res.AdditionalFields))
		for k := range res.AdditionalFields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("%s%-16s %s\n", indent, Sanitize(k)+":", Sanitize(res.AdditionalFields[k])))
		}
	}
	return b.String()
}

func (m Model) footer() string {
	if m.ShowHistory {
		if m.Detail != nil {
			return "esc: close | q: quit"
		}
		return "enter: detail | d: delete | r: refresh | esc: back | q: quit"
	}
	switch m.State {
	case StateStaging:
		return "enter: submit | x: remove | c: clear | h: history | q: quit"
	case StateResults:
		return "u: upload another | h: history | q: quit"
	default:
		return "q: quit"
	}
}

func formatSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	}
	return fmt.Sprintf("%.1fKB", float64(n)/1024)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
