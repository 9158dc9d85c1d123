package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arogyalabs/arogya/pkg/client"
)

// fakeAPI counts calls and delegates to per-method funcs; a nil func returns
// a plain success response.
type fakeAPI struct {
	checkCalls       int
	registerCalls    int
	sendEmailCalls   int
	sendPhoneCalls   int
	verifyEmailCalls int
	verifyPhoneCalls int

	checkFn       func(username string) (*client.CheckUsernameResponse, error)
	registerFn    func(req client.RegisterRequest) (*client.RegisterResponse, error)
	sendEmailFn   func(email string) (*client.SendOTPResponse, error)
	sendPhoneFn   func(phone string) (*client.SendOTPResponse, error)
	verifyEmailFn func(email, code string) (*client.VerifyOTPResponse, error)
	verifyPhoneFn func(phone, code string) (*client.VerifyOTPResponse, error)
}

func (f *fakeAPI) CheckUsername(_ context.Context, username string) (*client.CheckUsernameResponse, error) {
	f.checkCalls++
	if f.checkFn != nil {
		return f.checkFn(username)
	}
	return &client.CheckUsernameResponse{Success: true, Available: true}, nil
}

func (f *fakeAPI) Register(_ context.Context, req client.RegisterRequest) (*client.RegisterResponse, error) {
	f.registerCalls++
	if f.registerFn != nil {
		return f.registerFn(req)
	}
	return &client.RegisterResponse{Success: true}, nil
}

func (f *fakeAPI) SendEmailOTP(_ context.Context, email string) (*client.SendOTPResponse, error) {
	f.sendEmailCalls++
	if f.sendEmailFn != nil {
		return f.sendEmailFn(email)
	}
	return &client.SendOTPResponse{Success: true, Message: "sent"}, nil
}

func (f *fakeAPI) SendPhoneOTP(_ context.Context, phone string) (*client.SendOTPResponse, error) {
	f.sendPhoneCalls++
	if f.sendPhoneFn != nil {
		return f.sendPhoneFn(phone)
	}
	return &client.SendOTPResponse{Success: true, Message: "sent"}, nil
}

func (f *fakeAPI) VerifyEmailOTP(_ context.Context, email, code string) (*client.VerifyOTPResponse, error) {
	f.verifyEmailCalls++
	if f.verifyEmailFn != nil {
		return f.verifyEmailFn(email, code)
	}
	return &client.VerifyOTPResponse{Success: true, Verified: true}, nil
}

func (f *fakeAPI) VerifyPhoneOTP(_ context.Context, phone, code string) (*client.VerifyOTPResponse, error) {
	f.verifyPhoneCalls++
	if f.verifyPhoneFn != nil {
		return f.verifyPhoneFn(phone, code)
	}
	return &client.VerifyOTPResponse{Success: true, Verified: true}, nil
}

// key builds the KeyMsg for a single printable character or a named key.
func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeString feeds s into the model one keystroke at a time, dropping any
// scheduled commands.
func typeString(m signupModel, s string) signupModel {
	for _, r := range s {
		m, _ = m.Update(key(string(r)))
	}
	return m
}
