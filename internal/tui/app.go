package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arogyalabs/arogya/internal/browser"
	"github.com/arogyalabs/arogya/internal/bus"
	"github.com/arogyalabs/arogya/internal/flow"
	"github.com/arogyalabs/arogya/internal/session"
	"github.com/arogyalabs/arogya/pkg/domain"
)

type step int

const (
	stepForm step = iota
	stepVerify
	stepLocked // duplicate account, handing off to login
	stepDone
)

// materializedMsg carries the persisted session record.
type materializedMsg struct {
	rec domain.SessionRecord
	err error
}

// redirectTickMsg fires after the fixed dashboard-redirect delay.
type redirectTickMsg struct{}

// dashboardOpenedMsg reports the browser launch outcome.
type dashboardOpenedMsg struct {
	err error
}

// loginHandoffMsg fires after the duplicate-account notice delay.
type loginHandoffMsg struct{}

// App is the root Bubbletea model for the signup flow:
// collector form -> OTP dispatch + verification gate -> done.
type App struct {
	api          flow.API
	materializer *flow.Materializer
	dashboardURL string
	loginURL     string

	step      step
	signup    signupModel
	verify    verifyModel
	done      doneModel
	lockedMsg string

	width  int
	height int
}

// NewApp wires the flow against the given API, session store, and event bus.
// webURL is the marketplace web origin used for the dashboard and login
// hand-offs.
func NewApp(api flow.API, store session.Store, b *bus.Bus, webURL string) App {
	webURL = strings.TrimRight(webURL, "/")
	return App{
		api:          api,
		materializer: flow.NewMaterializer(store, b),
		dashboardURL: webURL + flow.DashboardPath,
		loginURL:     webURL + "/login",
		signup:       newSignupModel(api),
	}
}

func (a App) Init() tea.Cmd {
	return a.signup.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case registeredMsg:
		var dup *flow.DuplicateAccountError
		if errors.As(msg.err, &dup) {
			a.step = stepLocked
			a.lockedMsg = dup.Error()
			return a, tea.Tick(flow.LoginRedirectDelay, func(time.Time) tea.Msg {
				return loginHandoffMsg{}
			})
		}
		if msg.err == nil {
			a.step = stepVerify
			a.verify = newVerifyModel(a.api, msg.draft)
			return a, a.verify.Init()
		}
		// Other failures stay on the form.
		var cmd tea.Cmd
		a.signup, cmd = a.signup.Update(msg)
		return a, cmd

	case loginHandoffMsg:
		browser.Open(a.loginURL) //nolint:errcheck // best-effort; the notice names the URL
		return a, tea.Quit

	case channelVerifiedMsg:
		mat := a.materializer
		acct := flow.Account{
			Username:    msg.draft.Username,
			Email:       msg.draft.Email,
			Phone:       msg.draft.CanonicalPhone(),
			DisplayName: msg.draft.DisplayName(),
		}
		channel := msg.channel
		return a, func() tea.Msg {
			rec, err := mat.Materialize(channel, acct)
			return materializedMsg{rec: rec, err: err}
		}

	case materializedMsg:
		if msg.err != nil {
			// Session could not be written; surface it on the verify screen.
			a.verify.errMsg = msg.err.Error()
			return a, nil
		}
		a.step = stepDone
		a.done = newDoneModel(msg.rec, a.dashboardURL)
		return a, tea.Tick(flow.DashboardRedirectDelay, func(time.Time) tea.Msg {
			return redirectTickMsg{}
		})

	case redirectTickMsg:
		url := a.dashboardURL
		return a, func() tea.Msg {
			return dashboardOpenedMsg{err: browser.Open(url)}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			// "q" quits outside text entry; the form and code entry need it
			// as a literal character.
			if a.step == stepLocked || a.step == stepDone {
				return a, tea.Quit
			}
		case "esc":
			if a.step == stepForm || a.step == stepLocked || a.step == stepDone {
				return a, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch a.step {
	case stepForm:
		a.signup, cmd = a.signup.Update(msg)
	case stepVerify:
		a.verify, cmd = a.verify.Update(msg)
	case stepDone:
		a.done, cmd = a.done.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	header := " " + renderLogo() + "  " + metaStyle.Render("lab tests, delivered") + "\n\n"

	var body, help string
	switch a.step {
	case stepForm:
		body = a.signup.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "quit")
	case stepVerify:
		body = a.verify.View()
		if a.verify.entering {
			help = " " + helpEntry("enter", "verify") + "  " + helpEntry("r", "resend") + "  " + helpEntry("esc", "back")
		} else {
			help = " " + helpEntry("j/k", "channel") + "  " + helpEntry("enter", "choose") + "  " + helpEntry("r", "resend")
		}
	case stepLocked:
		body = titleStyle.Render("account already exists") + "\n\n" +
			errStyle.Render(a.lockedMsg) + "\n\n" +
			normalStyle.Render("taking you to the login page: ") + dimStyle.Render(a.loginURL)
		help = " " + helpEntry("q", "quit")
	case stepDone:
		body = a.done.View()
		help = " " + helpEntry("c", "copy username") + "  " + helpEntry("o", "open dashboard") + "  " + helpEntry("q", "quit")
	}

	if a.height > 0 {
		// Chrome: header(2) + help(1)
		body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
	}
	return header + body + "\n" + help
}
