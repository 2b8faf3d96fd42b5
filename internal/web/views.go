package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/towaos/enquete/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Views renders the embedded HTML templates.
type Views struct {
	t *template.Template
}

func NewViews() (*Views, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Views{t: t}, nil
}

func (v *Views) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := v.t.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("web: render %s: %v", name, err)
	}
}

// FormData repopulates the survey form after a failed submission.
type FormData struct {
	Errors    []string
	Name      string
	Email     string
	Age       string
	Languages []string
	PCType    string
	PCMaker   string
	Comment   string
}

// LanguageOptions and the selects below are the fixed form vocabulary.
var (
	LanguageOptions = []string{"Python", "Go", "JavaScript", "Java", "C++"}
	PCTypeOptions   = []string{"Laptop", "Desktop", "Tablet"}
	PCMakerOptions  = []string{"Dell", "HP", "Lenovo", "Apple", services.PCMakerOther}
)

func (d FormData) LanguageOptions() []string { return LanguageOptions }
func (d FormData) PCTypeOptions() []string   { return PCTypeOptions }
func (d FormData) PCMakerOptions() []string  { return PCMakerOptions }

// Checked reports whether lang was selected in the submitted form.
func (d FormData) Checked(lang string) bool {
	for _, l := range d.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func (d FormData) Placeholder() string { return services.PCMakerPlaceholder }

type completeData struct {
	Record *services.SurveyResponse
}

type dashboardData struct {
	Username string
	Surveys  []*services.SurveyResponse
	Notice   string
}

type loginData struct {
	AdminExists bool
	Errors      []string
	Notice      string
}

type registerData struct {
	Errors []string
}

type logoutData struct {
	Notice string
}

// Flash notices carried across one redirect in a short-lived cookie.

const flashCookieName = "flash"

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
