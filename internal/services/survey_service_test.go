package services

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type surveyStubStore struct {
	rows      []*SurveyResponse
	nextID    int64
	insertErr error
	emailErr  error
}

func newSurveyStubStore() *surveyStubStore {
	return &surveyStubStore{nextID: 1}
}

func (s *surveyStubStore) InsertSurvey(r *SurveyResponse) (int64, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	copy := *r
	copy.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, &copy)
	return copy.ID, nil
}

func (s *surveyStubStore) EmailExists(email string) (bool, error) {
	if s.emailErr != nil {
		return false, s.emailErr
	}
	for _, r := range s.rows {
		if r.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *surveyStubStore) ListSurveys() ([]*SurveyResponse, error) {
	out := make([]*SurveyResponse, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		copy := *s.rows[i]
		out = append(out, &copy)
	}
	return out, nil
}

func (s *surveyStubStore) DeleteSurvey(id int64) error {
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *surveyStubStore) DeleteAllSurveys() error {
	s.rows = nil
	return nil
}

func validSubmission() Submission {
	return Submission{
		Name:      "Taro",
		Email:     "taro@example.com",
		Age:       "25",
		Languages: []string{"Python", "Go"},
		PCType:    "Laptop",
		PCMaker:   "Dell",
	}
}

func newTestSurveyService(store SurveyStore) *SurveyService {
	svc := NewSurveyService(store)
	svc.now = func() time.Time { return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSubmitStoresNormalizedRecord(t *testing.T) {
	store := newSurveyStubStore()
	svc := newTestSurveyService(store)

	rec, err := svc.Submit(validSubmission())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if rec.ID != 1 {
		t.Fatalf("expected id 1, got %d", rec.ID)
	}
	if rec.Languages != "Python|Go" {
		t.Fatalf("languages = %q, want %q", rec.Languages, "Python|Go")
	}
	if rec.PCMaker != "Dell" {
		t.Fatalf("pc maker = %q, want Dell", rec.PCMaker)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatalf("created at should be set on insert")
	}
}

func TestSubmitRejectsDuplicateEmail(t *testing.T) {
	store := newSurveyStubStore()
	svc := newTestSurveyService(store)

	if _, err := svc.Submit(validSubmission()); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	_, err := svc.Submit(validSubmission())
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Messages) != 1 || !strings.Contains(ve.Messages[0], "already been submitted") {
		t.Fatalf("expected exactly one duplicate-email message, got %v", ve.Messages)
	}
	if len(store.rows) != 1 {
		t.Fatalf("duplicate submission must not insert a row, have %d", len(store.rows))
	}
}

func TestSubmitCollectsAllErrors(t *testing.T) {
	store := newSurveyStubStore()
	svc := newTestSurveyService(store)

	_, err := svc.Submit(Submission{})
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Messages) != 4 {
		t.Fatalf("expected 4 messages (name, email, age, pc type), got %v", ve.Messages)
	}
}

func TestSubmitAgeBoundaries(t *testing.T) {
	cases := []struct {
		age  string
		ok   bool
	}{
		{"17", false},
		{"18", true},
		{"110", true},
		{"111", false},
		{"abc", false},
	}
	for i, c := range cases {
		store := newSurveyStubStore()
		svc := newTestSurveyService(store)
		in := validSubmission()
		in.Email = "user" + c.age + "x" + string(rune('a'+i)) + "@example.com"
		in.Age = c.age
		_, err := svc.Submit(in)
		if c.ok && err != nil {
			t.Errorf("age %q should be accepted, got %v", c.age, err)
		}
		if !c.ok && err == nil {
			t.Errorf("age %q should be rejected", c.age)
		}
	}
}

func TestSubmitEmailShape(t *testing.T) {
	bad := []string{"taro", "taro@", "@example.com", "taro@example", "taro@localhost", "taro example@example.com"}
	for _, email := range bad {
		store := newSurveyStubStore()
		svc := newTestSurveyService(store)
		in := validSubmission()
		in.Email = email
		if _, err := svc.Submit(in); err == nil {
			t.Errorf("email %q should be rejected", email)
		}
	}
}

func TestSubmitDefaultsPCMaker(t *testing.T) {
	for _, maker := range []string{"", PCMakerPlaceholder} {
		store := newSurveyStubStore()
		svc := newTestSurveyService(store)
		in := validSubmission()
		in.PCMaker = maker
		rec, err := svc.Submit(in)
		if err != nil {
			t.Fatalf("pc maker %q should never produce an error: %v", maker, err)
		}
		if rec.PCMaker != PCMakerOther {
			t.Errorf("pc maker %q should default to %q, got %q", maker, PCMakerOther, rec.PCMaker)
		}
	}
}

func TestSubmitStorageFailure(t *testing.T) {
	store := newSurveyStubStore()
	store.insertErr = errors.New("disk full")
	svc := newTestSurveyService(store)

	_, err := svc.Submit(validSubmission())
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
	if strings.Contains(se.Message, "disk full") {
		t.Fatalf("storage detail must not leak to the user: %q", se.Message)
	}
}

func TestDeleteMissingIDIsNoOp(t *testing.T) {
	store := newSurveyStubStore()
	svc := newTestSurveyService(store)
	if err := svc.Delete(42); err != nil {
		t.Fatalf("deleting a missing id should be a silent no-op, got %v", err)
	}
}
