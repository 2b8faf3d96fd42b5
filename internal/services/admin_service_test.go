package services

import (
	"strings"
	"testing"
	"time"
)

type adminStubStore struct {
	accounts map[string]*AdminAccount
}

func newAdminStubStore() *adminStubStore {
	return &adminStubStore{accounts: map[string]*AdminAccount{}}
}

func (s *adminStubStore) CountAdmins() (int, error) { return len(s.accounts), nil }

func (s *adminStubStore) FindAdmin(username string) (*AdminAccount, error) {
	if a, ok := s.accounts[username]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, nil
}

func (s *adminStubStore) InsertAdmin(a *AdminAccount) error {
	copy := *a
	s.accounts[a.Username] = &copy
	return nil
}

func (s *adminStubStore) DeleteAdmin(username string) error {
	delete(s.accounts, username)
	return nil
}

func newTestAdminService() (*AdminService, *adminStubStore, SessionManager) {
	store := newAdminStubStore()
	sessions := NewSessionManager(time.Minute)
	return NewAdminService(store, sessions), store, sessions
}

func TestRegisterFirstAdmin(t *testing.T) {
	svc, store, sessions := newTestAdminService()

	sid, err := svc.Register("admin", "Abcd123!")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if username, ok := sessions.Check(sid); !ok || username != "admin" {
		t.Fatalf("registration should start a session, got %q %v", username, ok)
	}
	acct := store.accounts["admin"]
	if acct == nil {
		t.Fatalf("account not stored")
	}
	if acct.Password == "Abcd123!" {
		t.Fatalf("password stored in plaintext")
	}
	if !VerifyPassword("Abcd123!", acct.Password) {
		t.Fatalf("stored hash does not verify the password")
	}
}

func TestRegisterRejectedWhenAdminExists(t *testing.T) {
	svc, store, _ := newTestAdminService()

	if _, err := svc.Register("admin", "Abcd123!"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := svc.Register("other", "Efgh456$")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(store.accounts) != 1 {
		t.Fatalf("second account must not be created")
	}
}

func TestRegisterEnforcesPasswordPolicy(t *testing.T) {
	svc, _, _ := newTestAdminService()

	_, err := svc.Register("admin", "weak")
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(ve.Messages[0], "8-32 characters") {
		t.Fatalf("expected the policy message, got %v", ve.Messages)
	}
}

func TestLoginGenericFailureMessage(t *testing.T) {
	svc, _, _ := newTestAdminService()
	if _, err := svc.Register("admin", "Abcd123!"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, errUnknown := svc.Login("nobody", "Abcd123!")
	_, errWrongPw := svc.Login("admin", "Wrong123!")
	if errUnknown == nil || errWrongPw == nil {
		t.Fatalf("both failures should error")
	}
	// Unknown user and wrong password must be indistinguishable.
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("messages differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
	se, ok := AsServiceError(errUnknown)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected auth error, got %v", errUnknown)
	}
}

func TestLoginStartsSession(t *testing.T) {
	svc, _, sessions := newTestAdminService()
	if _, err := svc.Register("admin", "Abcd123!"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	sid, err := svc.Login("admin", "Abcd123!")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if username, ok := sessions.Check(sid); !ok || username != "admin" {
		t.Fatalf("expected an authenticated session for admin")
	}
}

func TestLogout(t *testing.T) {
	svc, _, sessions := newTestAdminService()
	sid, err := svc.Register("admin", "Abcd123!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if got := svc.Logout(sid); got != "admin" {
		t.Fatalf("Logout returned %q, want admin", got)
	}
	if _, ok := sessions.Check(sid); ok {
		t.Fatalf("session should be cleared after logout")
	}
	if got := svc.Logout(sid); got != "" {
		t.Fatalf("second logout should report no username, got %q", got)
	}
}

func TestUnregister(t *testing.T) {
	svc, store, sessions := newTestAdminService()
	sid, err := svc.Register("admin", "Abcd123!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	username, err := svc.Unregister(sid)
	if err != nil {
		t.Fatalf("Unregister returned error: %v", err)
	}
	if username != "admin" {
		t.Fatalf("Unregister returned %q, want admin", username)
	}
	if len(store.accounts) != 0 {
		t.Fatalf("account should be deleted")
	}
	if _, ok := sessions.Check(sid); ok {
		t.Fatalf("session should be cleared after unregister")
	}
	// Registration opens up again once the account is gone.
	if _, err := svc.Register("admin2", "Abcd123!"); err != nil {
		t.Fatalf("re-registration after unregister failed: %v", err)
	}
}

func TestUnregisterWithoutSession(t *testing.T) {
	svc, _, _ := newTestAdminService()
	_, err := svc.Unregister("nope")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected auth error, got %v", err)
	}
}
