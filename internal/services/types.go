package services

import "time"

// SurveyResponse is one stored submission. Rows are never updated after
// insert; they are only listed, exported, or deleted.
type SurveyResponse struct {
	ID        int64
	Name      string
	Email     string
	Age       int
	Languages string // tokens joined with "|"
	PCType    string
	PCMaker   string
	Comment   string
	CreatedAt time.Time
}

// AdminAccount is the sole administrator. Password holds the opaque
// salt+digest token produced by HashPassword.
type AdminAccount struct {
	Username string
	Password string
}

// LanguageSeparator joins the multi-value languages field into a single
// column. Language tokens must not contain it.
const LanguageSeparator = "|"

// PCMakerPlaceholder is the form's unselected pc_maker option; it and the
// empty string both default to PCMakerOther.
const (
	PCMakerPlaceholder = "Please select"
	PCMakerOther       = "Other"
)
