package services

import (
	"log"
	"strings"
)

type AdminStore interface {
	CountAdmins() (int, error)
	FindAdmin(username string) (*AdminAccount, error)
	InsertAdmin(a *AdminAccount) error
	DeleteAdmin(username string) error
}

const policyMessage = "Password must be 8-32 characters and contain at least one uppercase letter, one lowercase letter, one digit and one symbol."

// AdminService orchestrates login, registration, logout and account
// deletion for the single administrator.
type AdminService struct {
	store    AdminStore
	sessions SessionManager
}

func NewAdminService(store AdminStore, sessions SessionManager) *AdminService {
	return &AdminService{store: store, sessions: sessions}
}

// Login verifies credentials and starts a session. Unknown usernames and
// wrong passwords produce the same generic message.
func (s *AdminService) Login(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", &ValidationError{Messages: []string{"Please fill in both fields."}}
	}
	acct, err := s.store.FindAdmin(username)
	if err != nil {
		log.Printf("admin service: find admin: %v", err)
		return "", NewStorageError("A database error occurred. Please try again later.")
	}
	if acct == nil || !VerifyPassword(password, acct.Password) {
		return "", NewAuthError("Invalid admin name or password.")
	}
	return s.sessions.Start(username), nil
}

// Register creates the sole admin account and starts a session as if
// logged in. It is rejected while any account exists.
func (s *AdminService) Register(username, password string) (string, error) {
	count, err := s.store.CountAdmins()
	if err != nil {
		log.Printf("admin service: count admins: %v", err)
		return "", NewStorageError("A database error occurred. Please try again later.")
	}
	if count > 0 {
		return "", NewConflictError("An administrator is already registered.")
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", &ValidationError{Messages: []string{"Please fill in both fields."}}
	}
	if !ValidPassword(password) {
		return "", &ValidationError{Messages: []string{policyMessage}}
	}
	hash, err := HashPassword(password)
	if err != nil {
		log.Printf("admin service: hash password: %v", err)
		return "", NewStorageError("A system error occurred. Please try again later.")
	}
	if err := s.store.InsertAdmin(&AdminAccount{Username: username, Password: hash}); err != nil {
		log.Printf("admin service: insert admin: %v", err)
		return "", NewStorageError("A database error occurred. Please try again later.")
	}
	return s.sessions.Start(username), nil
}

// AdminExists reports whether any account is registered, so the login
// page can decide whether to offer registration.
func (s *AdminService) AdminExists() bool {
	count, err := s.store.CountAdmins()
	if err != nil {
		log.Printf("admin service: count admins: %v", err)
		return false
	}
	return count > 0
}

// Logout clears the session and returns the username that was logged
// out, or empty when the session was already gone.
func (s *AdminService) Logout(sessionID string) string {
	username, ok := s.sessions.Check(sessionID)
	s.sessions.Clear(sessionID)
	if !ok {
		return ""
	}
	return username
}

// Unregister deletes the authenticated account and clears the session
// unconditionally. It returns the former username.
func (s *AdminService) Unregister(sessionID string) (string, error) {
	username, ok := s.sessions.Check(sessionID)
	if !ok {
		return "", NewAuthError("not authenticated")
	}
	defer s.sessions.Clear(sessionID)
	if err := s.store.DeleteAdmin(username); err != nil {
		log.Printf("admin service: delete admin: %v", err)
		return "", NewStorageError("A database error occurred. Please try again later.")
	}
	return username, nil
}
