package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arogyalabs/arogya/internal/flow"
	"github.com/arogyalabs/arogya/pkg/client"
	"github.com/arogyalabs/arogya/pkg/domain"
)

// dispatchedMsg carries the dual-channel OTP send outcome.
type dispatchedMsg struct {
	res flow.DispatchResult
}

// resendDoneMsg carries a single-channel resend outcome.
type resendDoneMsg struct {
	res flow.ChannelResult
}

// verifyDoneMsg carries the provider's OTP check response.
type verifyDoneMsg struct {
	resp *client.VerifyOTPResponse
	err  error
}

// channelVerifiedMsg tells the app one channel reached verified.
type channelVerifiedMsg struct {
	channel domain.Channel
	draft   domain.RegistrationDraft
}

// verifyModel is the dispatcher + verification gate stage: it fires the
// dual-channel send, lets the user pick a channel, and collects the code.
type verifyModel struct {
	api        flow.API
	draft      domain.RegistrationDraft
	gate       *flow.Gate
	res        flow.DispatchResult
	dispatched bool
	cursor     domain.Channel
	entering   bool
	verifying  bool
	code       string
	errMsg     string
}

func newVerifyModel(api flow.API, draft domain.RegistrationDraft) verifyModel {
	return verifyModel{
		api:    api,
		draft:  draft,
		gate:   flow.NewGate(),
		cursor: domain.ChannelEmail,
	}
}

// Init dispatches OTPs to both channels.
func (m verifyModel) Init() tea.Cmd {
	api, draft := m.api, m.draft
	return func() tea.Msg {
		res := flow.Dispatch(context.Background(), api, draft.Email, draft.CanonicalPhone())
		return dispatchedMsg{res: res}
	}
}

func (m verifyModel) channelResult(ch domain.Channel) flow.ChannelResult {
	if ch == domain.ChannelPhone {
		return m.res.Phone
	}
	return m.res.Email
}

func (m verifyModel) Update(msg tea.Msg) (verifyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchedMsg:
		m.dispatched = true
		m.res = msg.res
		if err := msg.res.Err(); err != nil {
			m.errMsg = err.Error()
		}
		// If only one channel survived, preselect it.
		switch {
		case m.res.Email.Sent && !m.res.Phone.Sent:
			m.cursor = domain.ChannelEmail
		case m.res.Phone.Sent && !m.res.Email.Sent:
			m.cursor = domain.ChannelPhone
		}
		return m, nil

	case resendDoneMsg:
		if msg.res.Channel == domain.ChannelPhone {
			m.res.Phone = msg.res
		} else {
			m.res.Email = msg.res
		}
		if msg.res.Err != nil {
			m.errMsg = msg.res.Err.Error()
		} else {
			m.errMsg = ""
		}
		return m, nil

	case verifyDoneMsg:
		m.verifying = false
		if err := m.gate.Finish(msg.resp, msg.err); err != nil {
			// Back to Sent; unlimited retry, the provider owns lockout.
			m.errMsg = err.Error()
			m.code = ""
			return m, nil
		}
		channel, draft := m.gate.Channel(), m.draft
		return m, func() tea.Msg {
			return channelVerifiedMsg{channel: channel, draft: draft}
		}

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m verifyModel) updateKeys(msg tea.KeyMsg) (verifyModel, tea.Cmd) {
	if m.verifying || !m.dispatched {
		return m, nil
	}

	if m.entering {
		switch msg.String() {
		case "esc":
			m.entering = false
			m.code = ""
			m.errMsg = ""
		case "r":
			return m, m.resend(m.gate.Channel())
		case "enter":
			return m.beginVerify()
		default:
			m.code = editDigits(m.code, msg.String(), 6)
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down", "k", "up", "tab":
		m.cursor = m.cursor.Other()
	case "r":
		return m, m.resend(m.cursor)
	case "enter":
		if !m.channelResult(m.cursor).Sent {
			m.errMsg = fmt.Sprintf("no OTP was delivered to your %s — press r to resend", m.cursor)
			return m, nil
		}
		if err := m.gate.MarkSent(m.cursor); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.entering = true
		m.code = ""
		m.errMsg = ""
	}
	return m, nil
}

// resend requests a fresh OTP for one channel. Independent of any earlier
// attempt on either channel.
func (m verifyModel) resend(ch domain.Channel) tea.Cmd {
	api, draft := m.api, m.draft
	return func() tea.Msg {
		res := flow.Resend(context.Background(), api, ch, draft.Email, draft.CanonicalPhone())
		return resendDoneMsg{res: res}
	}
}

func (m verifyModel) beginVerify() (verifyModel, tea.Cmd) {
	if err := m.gate.Begin(m.code); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.verifying = true
	m.errMsg = ""

	api, draft, code := m.api, m.draft, m.code
	channel := m.gate.Channel()
	return m, func() tea.Msg {
		var resp *client.VerifyOTPResponse
		var err error
		if channel == domain.ChannelPhone {
			resp, err = api.VerifyPhoneOTP(context.Background(), draft.CanonicalPhone(), code)
		} else {
			resp, err = api.VerifyEmailOTP(context.Background(), draft.Email, code)
		}
		return verifyDoneMsg{resp: resp, err: err}
	}
}

func (m verifyModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("verify your account") + "\n\n")

	if !m.dispatched {
		b.WriteString(dimStyle.Render("sending verification codes..."))
		return b.String()
	}

	b.WriteString(normalStyle.Render("a 6-digit code was requested for each channel — verify one to continue") + "\n\n")

	for _, ch := range []domain.Channel{domain.ChannelEmail, domain.ChannelPhone} {
		res := m.channelResult(ch)
		cursor := " "
		style := metaStyle
		if ch == m.cursor && !m.entering {
			cursor = ">"
			style = selectedStyle
		}

		target := m.draft.Email
		if ch == domain.ChannelPhone {
			target = m.draft.CanonicalPhone()
		}

		status := errStyle.Render("✗ send failed")
		if res.Sent {
			status = okStyle.Render("✓ code sent")
		}
		fmt.Fprintf(&b, "%s %-6s %s  %s\n", cursor, style.Render(string(ch)), normalStyle.Render(target), status)

		if res.Sent && res.DevOTP != "" {
			b.WriteString("         " + warnStyle.Render("dev code: "+res.DevOTP) + "\n")
		}
	}

	if m.entering {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s%s\n",
			selectedStyle.Render(fmt.Sprintf("code (%s):", m.gate.Channel())),
			accentStyle.Render(m.code),
			accentStyle.Render("█"))
	}

	b.WriteString("\n")
	switch {
	case m.verifying:
		b.WriteString(dimStyle.Render("verifying..."))
	case m.errMsg != "":
		b.WriteString(errStyle.Render(m.errMsg))
	}

	return b.String()
}
