package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/arogyalabs/arogya/internal/bus"
	"github.com/arogyalabs/arogya/internal/session"
	"github.com/arogyalabs/arogya/internal/tui"
	"github.com/arogyalabs/arogya/pkg/client"
	"github.com/arogyalabs/arogya/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func init() {
	// Local development reads API overrides from a .env file.
	godotenv.Load() //nolint:errcheck // absent .env is the normal case
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	apiURL := os.Getenv("AROGYA_API_URL")
	if apiURL == "" {
		apiURL = "https://api.arogya.life"
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("arogya " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "signup":
			return runSignup(apiURL)
		case "status":
			return runStatus()
		case "logout":
			return runLogout()
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	return runSignup(apiURL)
}

func openStore() (*session.FileStore, error) {
	path, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	return session.Open(path)
}

func runSignup(apiURL string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if v, ok := store.Get(domain.KeyIsLoggedIn); ok && v == "true" {
		name, _ := store.Get(domain.KeyUserName)
		fmt.Printf("Already signed in as %s. Run `arogya logout` first.\n", name)
		return nil
	}

	app := tui.NewApp(client.New(apiURL), store, bus.New(), webURL(apiURL))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runStatus() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if v, ok := store.Get(domain.KeyIsLoggedIn); !ok || v != "true" {
		fmt.Println("Not signed in. Run `arogya signup` to create an account.")
		return nil
	}
	name, _ := store.Get(domain.KeyUserName)
	email, _ := store.Get(domain.KeyUserEmail)
	phone, _ := store.Get(domain.KeyUserPhone)
	emailV, _ := store.Get(domain.KeyEmailVerified)
	phoneV, _ := store.Get(domain.KeyPhoneVerified)

	fmt.Printf("Signed in as %s\n", name)
	fmt.Printf("  email: %s (verified: %s)\n", email, emailV)
	fmt.Printf("  phone: %s (verified: %s)\n", phone, phoneV)
	if pending, ok := store.Get(domain.KeyPendingVerificationMethod); ok {
		fmt.Printf("  pending verification: %s\n", pending)
	}
	return nil
}

func runLogout() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if v, ok := store.Get(domain.KeyIsLoggedIn); !ok || v != "true" {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

// webURL derives the marketplace web origin from the API URL: explicit
// override first, otherwise strip the "api." host prefix.
func webURL(apiURL string) string {
	if base := os.Getenv("AROGYA_WEB_URL"); base != "" {
		return base
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return apiURL
	}
	host := u.Hostname()
	if strings.HasPrefix(host, "api.") {
		u.Host = strings.TrimPrefix(host, "api.")
		if u.Port() != "" {
			u.Host += ":" + u.Port()
		}
	}
	return u.String()
}

func printHelp() {
	fmt.Println(`arogya — lab-test marketplace CLI

Usage:
  arogya [signup]    create an account and verify email or phone
  arogya status      show the local session
  arogya logout      clear the local session
  arogya version     print version

Environment:
  AROGYA_API_URL     API origin (default https://api.arogya.life)
  AROGYA_WEB_URL     web origin for dashboard/login hand-offs`)
}
