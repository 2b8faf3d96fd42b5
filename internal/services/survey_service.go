package services

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type SurveyStore interface {
	InsertSurvey(r *SurveyResponse) (int64, error)
	EmailExists(email string) (bool, error)
	ListSurveys() ([]*SurveyResponse, error)
	DeleteSurvey(id int64) error
	DeleteAllSurveys() error
}

// Submission is the raw form input for one survey response.
type Submission struct {
	Name      string
	Email     string
	Age       string
	Languages []string
	PCType    string
	PCMaker   string
	Comment   string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	ageMin = 18
	ageMax = 110
)

type SurveyService struct {
	store SurveyStore
	now   func() time.Time
}

func NewSurveyService(store SurveyStore) *SurveyService {
	return &SurveyService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates in, running every check and collecting every failing
// message, then inserts the normalized record. On validation failure it
// returns a *ValidationError with all messages; the caller re-renders the
// form with the original input.
func (s *SurveyService) Submit(in Submission) (*SurveyResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	age := strings.TrimSpace(in.Age)

	var msgs []string
	if name == "" {
		msgs = append(msgs, "Please enter your name.")
	}

	if email == "" {
		msgs = append(msgs, "Please enter your email address.")
	} else if !validEmail(email) {
		msgs = append(msgs, "Please enter a valid email address.")
	} else {
		exists, err := s.store.EmailExists(email)
		if err != nil {
			log.Printf("survey service: email check: %v", err)
			msgs = append(msgs, "A system error occurred. Please try again later.")
		} else if exists {
			msgs = append(msgs, "A response has already been submitted with this email address.")
		}
	}

	ageInt := 0
	if age == "" {
		msgs = append(msgs, "Please enter your age.")
	} else if n, err := strconv.Atoi(age); err != nil {
		msgs = append(msgs, "Age must be a number.")
	} else if n < ageMin || n > ageMax {
		msgs = append(msgs, "Age must be between 18 and 110.")
	} else {
		ageInt = n
	}

	if in.PCType == "" {
		msgs = append(msgs, "Please select the computer you use for studying.")
	}

	pcMaker := in.PCMaker
	if pcMaker == "" || pcMaker == PCMakerPlaceholder {
		pcMaker = PCMakerOther
	}

	if len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	rec := &SurveyResponse{
		Name:      name,
		Email:     email,
		Age:       ageInt,
		Languages: strings.Join(in.Languages, LanguageSeparator),
		PCType:    in.PCType,
		PCMaker:   pcMaker,
		Comment:   in.Comment,
		CreatedAt: s.now(),
	}
	id, err := s.store.InsertSurvey(rec)
	if err != nil {
		log.Printf("survey service: insert: %v", err)
		return nil, NewStorageError("An error occurred while saving your response. Please try again later.")
	}
	rec.ID = id
	return rec, nil
}

// validEmail checks the local@domain.tld shape and requires at least one
// dot in the domain.
func validEmail(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at >= 0 && strings.Contains(email[at+1:], ".")
}

// List returns all stored responses, newest first.
func (s *SurveyService) List() ([]*SurveyResponse, error) {
	rows, err := s.store.ListSurveys()
	if err != nil {
		log.Printf("survey service: list: %v", err)
		return nil, NewStorageError("could not load survey responses")
	}
	return rows, nil
}

// Delete removes one response. Deleting an id that does not exist is a
// silent no-op.
func (s *SurveyService) Delete(id int64) error {
	if err := s.store.DeleteSurvey(id); err != nil {
		log.Printf("survey service: delete %d: %v", id, err)
		return NewStorageError("could not delete survey response")
	}
	return nil
}

// DeleteAll removes every stored response.
func (s *SurveyService) DeleteAll() error {
	if err := s.store.DeleteAllSurveys(); err != nil {
		log.Printf("survey service: delete all: %v", err)
		return NewStorageError("could not delete survey responses")
	}
	return nil
}
