package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arogyalabs/arogya/internal/browser"
	"github.com/arogyalabs/arogya/pkg/domain"
)

// doneModel is the post-verification screen: session summary, copy
// username, reopen the dashboard.
type doneModel struct {
	rec          domain.SessionRecord
	dashboardURL string
	statusMsg    string
	redirected   bool
}

func newDoneModel(rec domain.SessionRecord, dashboardURL string) doneModel {
	return doneModel{rec: rec, dashboardURL: dashboardURL}
}

func (m doneModel) Update(msg tea.Msg) (doneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardOpenedMsg:
		m.redirected = true
		if msg.err != nil {
			m.statusMsg = "could not open browser — visit " + m.dashboardURL
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			if err := clipboard.WriteAll(m.rec.Username); err != nil {
				m.statusMsg = fmt.Sprintf("copy failed: %v", err)
			} else {
				m.statusMsg = "username copied!"
			}
		case "o":
			url := m.dashboardURL
			return m, func() tea.Msg {
				return dashboardOpenedMsg{err: browser.Open(url)}
			}
		}
	}
	return m, nil
}

func (m doneModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("you're in") + "\n\n")
	fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("name    "), normalStyle.Render(m.rec.DisplayName))
	fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("username"), selectedStyle.Render(m.rec.Username))
	fmt.Fprintf(&b, "  %s %s %s\n", metaStyle.Render("email   "), normalStyle.Render(m.rec.Email), verifiedBadge(m.rec.EmailVerified))
	fmt.Fprintf(&b, "  %s %s %s\n", metaStyle.Render("phone   "), normalStyle.Render(m.rec.Phone), verifiedBadge(m.rec.PhoneVerified))

	b.WriteString("\n")
	if m.redirected {
		b.WriteString(dimStyle.Render("dashboard opened in your browser") + "\n")
	} else {
		b.WriteString(dimStyle.Render("taking you to your dashboard...") + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString(okStyle.Render(m.statusMsg) + "\n")
	}

	return b.String()
}

func verifiedBadge(v bool) string {
	if v {
		return okStyle.Render("verified")
	}
	return warnStyle.Render("pending")
}
