// Package devapi emulates the Arogya marketplace registration API in
// memory so the CLI and integration tests can run without the production
// backend. Codes are real TOTPs with a 5-minute period; nothing is
// delivered, the code is echoed in the dev fields of the send response.
package devapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// otpOpts mirrors the production provider: 6 digits, 5-minute validity.
var otpOpts = totp.ValidateOpts{
	Period:    300,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// account is a registered user held in memory.
type account struct {
	ID        string
	FirstName string
	LastName  string
	Username  string
	Password  string
	Phone     string
	Email     string
}

// Server is the in-memory registration API emulator.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account // by username
	secrets  map[string]string   // OTP secret by identity (email or phone)
	verified map[string]bool     // by identity
}

// NewServer creates an empty emulator.
func NewServer() *Server {
	return &Server{
		accounts: map[string]*account{},
		secrets:  map[string]string{},
		verified: map[string]bool{},
	}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/check-username", s.checkUsername).Methods("POST")
	r.HandleFunc("/api/register", s.register).Methods("POST")
	r.HandleFunc("/api/verify-email/send-otp", s.sendOTP("email")).Methods("POST")
	r.HandleFunc("/api/verify-phone/send-otp", s.sendOTP("phone")).Methods("POST")
	r.HandleFunc("/api/verify-email/verify-otp", s.verifyOTP("email")).Methods("POST")
	r.HandleFunc("/api/verify-phone/verify-otp", s.verifyOTP("phone")).Methods("POST")
	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck // headers already sent
}

func (s *Server) checkUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "username is required"})
		return
	}

	s.mu.Lock()
	_, taken := s.accounts[strings.ToLower(req.Username)]
	s.mu.Unlock()

	if taken {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"available":   false,
			"message":     "username is already taken",
			"suggestions": suggestUsernames(req.Username),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"available": true,
		"message":   "username is available",
	})
}

// suggestUsernames offers simple alternates for a taken name.
func suggestUsernames(base string) []string {
	year := time.Now().Year()
	return []string{
		base + "1",
		base + "01",
		fmt.Sprintf("%s%d", base, year),
		"the_" + base,
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"username"`
		Password  string `json:"password"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid request payload"})
		return
	}
	for _, v := range []string{req.FirstName, req.LastName, req.Username, req.Password, req.Phone, req.Email} {
		if strings.TrimSpace(v) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "missing fields"})
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(req.Username)
	if _, ok := s.accounts[key]; ok {
		writeJSON(w, http.StatusConflict, map[string]any{
			"success": false, "errorCode": "DUPLICATE_KEY", "message": "username is already registered",
		})
		return
	}
	for _, a := range s.accounts {
		if a.Phone == req.Phone {
			writeJSON(w, http.StatusConflict, map[string]any{
				"success": false, "errorCode": "PHONE_EXISTS", "message": "phone number is already registered",
			})
			return
		}
		if strings.EqualFold(a.Email, req.Email) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"success": false, "errorCode": "EMAIL_EXISTS", "message": "email is already registered",
			})
			return
		}
	}

	s.accounts[key] = &account{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	log.Printf("devapi: registered %s (%s)", req.Username, req.Email)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true, "message": fmt.Sprintf("account created for %s", req.Username),
	})
}

// identitySecret returns the OTP secret for an identity, creating one on
// first use.
func (s *Server) identitySecret(identity string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sec, ok := s.secrets[identity]; ok {
		return sec, nil
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Arogya",
		AccountName: identity,
	})
	if err != nil {
		return "", err
	}
	s.secrets[identity] = key.Secret()
	return key.Secret(), nil
}

func (s *Server) sendOTP(channel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email   string `json:"email"`
			Phone   string `json:"phone"`
			Context string `json:"context"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid request payload"})
			return
		}
		identity := req.Email
		if channel == "phone" {
			identity = req.Phone
		}
		if identity == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": channel + " is required"})
			return
		}

		secret, err := s.identitySecret(identity)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "failed to generate OTP secret"})
			return
		}
		code, err := totp.GenerateCodeCustom(secret, time.Now(), otpOpts)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "failed to generate OTP code"})
			return
		}
		log.Printf("devapi: OTP for %s (%s): %s", identity, channel, code)

		body := map[string]any{
			"success":           true,
			"message":           fmt.Sprintf("OTP sent to %s", identity),
			"isDevelopmentMode": true,
			"devOtp":            code,
		}
		if channel == "phone" {
			body["sid"] = uuid.NewString()
			body["status"] = "pending"
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func (s *Server) verifyOTP(channel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
			Phone string `json:"phone"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "verified": false, "message": "invalid request payload"})
			return
		}
		identity := req.Email
		if channel == "phone" {
			identity = req.Phone
		}
		if identity == "" || req.Code == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "verified": false, "message": "missing fields"})
			return
		}

		s.mu.Lock()
		secret, ok := s.secrets[identity]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "verified": false, "message": "no OTP was sent to this " + channel})
			return
		}

		valid, err := totp.ValidateCustom(req.Code, secret, time.Now(), otpOpts)
		if err != nil || !valid {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "verified": false, "message": "invalid OTP"})
			return
		}

		s.mu.Lock()
		s.verified[identity] = true
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "verified": true, "message": channel + " verified"})
	}
}

// Verified reports whether the identity completed verification. Test hook.
func (s *Server) Verified(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified[identity]
}
