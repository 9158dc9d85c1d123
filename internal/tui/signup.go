package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arogyalabs/arogya/internal/flow"
	"github.com/arogyalabs/arogya/pkg/client"
	"github.com/arogyalabs/arogya/pkg/domain"
)

type signupField int

const (
	fieldFirstName signupField = iota
	fieldLastName
	fieldUsername
	fieldPassword
	fieldConfirm
	fieldPhone
	fieldEmail
	numSignupFields
)

var signupLabels = [numSignupFields]string{
	"first name", "last name", "username", "password", "confirm", "phone", "email",
}

// debounceMsg fires after the username quiet period. Carries the checker
// generation so a tick from a superseded edit is ignored.
type debounceMsg struct {
	gen uint64
}

// availabilityMsg carries one username lookup result, tagged with the
// generation of the input it was issued for.
type availabilityMsg struct {
	gen  uint64
	resp *client.CheckUsernameResponse
	err  error
}

// registeredMsg carries the account-creation outcome up to the app.
type registeredMsg struct {
	draft domain.RegistrationDraft
	err   error
}

// signupModel is the account draft collector.
type signupModel struct {
	api        flow.API
	fields     [numSignupFields]string
	focus      signupField
	checker    *flow.UsernameChecker
	errMsg     string
	submitting bool
}

func newSignupModel(api flow.API) signupModel {
	return signupModel{
		api:     api,
		checker: flow.NewUsernameChecker(),
	}
}

func (m signupModel) Init() tea.Cmd {
	return nil
}

// draft assembles the current form state.
func (m signupModel) draft() domain.RegistrationDraft {
	return domain.RegistrationDraft{
		FirstName:       strings.TrimSpace(m.fields[fieldFirstName]),
		LastName:        strings.TrimSpace(m.fields[fieldLastName]),
		Username:        strings.TrimSpace(m.fields[fieldUsername]),
		Password:        m.fields[fieldPassword],
		ConfirmPassword: m.fields[fieldConfirm],
		Phone:           m.fields[fieldPhone],
		Email:           strings.TrimSpace(m.fields[fieldEmail]),
	}
}

func (m signupModel) Update(msg tea.Msg) (signupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		if !m.checker.ShouldFire(msg.gen) {
			return m, nil
		}
		value := m.fields[fieldUsername]
		gen := msg.gen
		return m, func() tea.Msg {
			resp, err := m.api.CheckUsername(context.Background(), value)
			return availabilityMsg{gen: gen, resp: resp, err: err}
		}

	case availabilityMsg:
		m.checker.Apply(msg.gen, msg.resp, msg.err)
		return m, nil

	case registeredMsg:
		// Success and duplicate-account are routed by the app; anything
		// reaching here is a failure to show inline.
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m signupModel) updateKeys(msg tea.KeyMsg) (signupModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numSignupFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numSignupFields) % numSignupFields
	case "enter":
		if m.focus == numSignupFields-1 {
			return m.submit()
		}
		m.focus++
	case "backspace":
		m.fields[m.focus] = editRune(m.fields[m.focus], "backspace")
		if m.focus == fieldUsername {
			return m, m.noteUsername()
		}
	default:
		before := m.fields[m.focus]
		m.fields[m.focus] = editRune(before, msg.String())
		if m.focus == fieldUsername && m.fields[m.focus] != before {
			return m, m.noteUsername()
		}
	}
	return m, nil
}

// noteUsername registers the edit with the checker and, for eligible input,
// schedules the debounce tick. Typing again before the tick fires issues a
// newer generation, which cancels this one.
func (m *signupModel) noteUsername() tea.Cmd {
	gen, eligible := m.checker.Note(m.fields[fieldUsername])
	if !eligible {
		return nil
	}
	return tea.Tick(flow.DebounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen}
	})
}

func (m signupModel) submit() (signupModel, tea.Cmd) {
	draft := m.draft()
	avail := m.checker.Availability()
	if err := flow.ValidateDraft(draft, avail); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.submitting = true
	api := m.api
	return m, func() tea.Msg {
		_, err := flow.SubmitDraft(context.Background(), api, draft, avail)
		return registeredMsg{draft: draft, err: err}
	}
}

func (m signupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("create your account") + "\n\n")

	for i := signupField(0); i < numSignupFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}

		value := m.fields[i]
		switch i {
		case fieldPassword, fieldConfirm:
			value = mask(value)
		case fieldPhone:
			value = dimStyle.Render(domain.CountryPrefix+" ") + normalStyle.Render(value)
		default:
			value = normalStyle.Render(value)
		}
		if i == m.focus {
			value += accentStyle.Render("█")
		}

		fmt.Fprintf(&b, "%s %-12s %s\n", cursor, style.Render(signupLabels[i]), value)

		if i == fieldUsername {
			b.WriteString(m.availabilityLine())
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(dimStyle.Render("creating account..."))
	case m.errMsg != "":
		b.WriteString(errStyle.Render(m.errMsg))
	}

	return b.String()
}

// availabilityLine renders the live username lookup state under the field.
func (m signupModel) availabilityLine() string {
	const indent = "               "

	avail := m.checker.Availability()
	switch avail.Status {
	case domain.AvailabilityChecking:
		return indent + dimStyle.Render("checking availability...") + "\n"
	case domain.AvailabilityAvailable:
		return indent + okStyle.Render("✓ available") + "\n"
	case domain.AvailabilityTaken:
		line := indent + errStyle.Render("✗ taken")
		if len(avail.Suggestions) > 0 {
			line += dimStyle.Render("  try: " + strings.Join(avail.Suggestions, ", "))
		}
		return line + "\n"
	}
	if avail.Message != "" {
		return indent + warnStyle.Render(avail.Message) + "\n"
	}
	return ""
}
