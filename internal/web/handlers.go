package web

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/towaos/enquete/internal/middleware"
	"github.com/towaos/enquete/internal/services"
)

// Router wires the HTTP surface: the public submission form and the
// session-gated admin panel.
type Router struct {
	surveys  *services.SurveyService
	admin    *services.AdminService
	sessions services.SessionManager
	signer   *middleware.CookieSigner
	views    *Views
}

func NewRouter(surveys *services.SurveyService, admin *services.AdminService, sessions services.SessionManager, signer *middleware.CookieSigner) (*Router, error) {
	views, err := NewViews()
	if err != nil {
		return nil, err
	}
	return &Router{surveys: surveys, admin: admin, sessions: sessions, signer: signer, views: views}, nil
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", rt.handleIndex)        // GET
	mux.HandleFunc("/submit", rt.handleSubmit) // POST

	// Admin pages render stored responses; never cache them.
	admin := func(h http.HandlerFunc) http.Handler { return middleware.NoStore(h) }
	mux.Handle("/admin/", admin(rt.handleDashboard))
	mux.Handle("/admin/login", admin(rt.handleLogin))
	mux.Handle("/admin/register", admin(rt.handleRegister))
	mux.Handle("/admin/delete_survey/", admin(rt.handleDeleteSurvey))
	mux.Handle("/admin/delete_all", admin(rt.handleDeleteAll))
	mux.Handle("/admin/download", admin(rt.handleDownload))
	mux.Handle("/admin/logout", admin(rt.handleLogout))
	mux.Handle("/admin/delete_user", admin(rt.handleDeleteUser))

	static, err := fs.Sub(staticFS, "static")
	if err == nil {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}
}

// currentAdmin resolves the request's session to a username, refreshing
// the sliding expiry. ok is false for anonymous and expired sessions.
func (rt *Router) currentAdmin(r *http.Request) (string, bool) {
	sid, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		return "", false
	}
	return rt.sessions.Check(sid)
}

func (rt *Router) setSessionCookie(w http.ResponseWriter, sessionID string) {
	tok, err := rt.signer.Sign(sessionID)
	if err != nil {
		log.Printf("web: sign session cookie: %v", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookieName, Value: "", Path: "/", MaxAge: -1})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// GET / — the public submission form.
func (rt *Router) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	rt.views.render(w, "survey_form.html", FormData{})
}

// POST /submit — validate and store one response.
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	in := services.Submission{
		Name:      r.PostForm.Get("name"),
		Email:     r.PostForm.Get("email"),
		Age:       r.PostForm.Get("age"),
		Languages: r.PostForm["languages"],
		PCType:    r.PostForm.Get("pc_type"),
		PCMaker:   r.PostForm.Get("pc_maker"),
		Comment:   r.PostForm.Get("comment"),
	}
	rec, err := rt.surveys.Submit(in)
	if err != nil {
		data := FormData{
			Name:      in.Name,
			Email:     in.Email,
			Age:       in.Age,
			Languages: in.Languages,
			PCType:    in.PCType,
			PCMaker:   in.PCMaker,
			Comment:   in.Comment,
		}
		if ve, ok := services.AsValidationError(err); ok {
			data.Errors = ve.Messages
		} else {
			data.Errors = []string{err.Error()}
		}
		rt.views.render(w, "survey_form.html", data)
		return
	}
	rt.views.render(w, "survey_complete.html", completeData{Record: rec})
}

// GET /admin/ — list all responses, newest first.
func (rt *Router) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/admin/" {
		http.NotFound(w, r)
		return
	}
	username, ok := rt.currentAdmin(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}
	data := dashboardData{Username: username, Notice: popFlash(w, r)}
	rows, err := rt.surveys.List()
	if err != nil {
		data.Notice = err.Error()
	} else {
		data.Surveys = rows
	}
	rt.views.render(w, "admin_dashboard.html", data)
}

// GET|POST /admin/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		sid, err := rt.admin.Login(r.PostForm.Get("username"), r.PostForm.Get("password"))
		if err == nil {
			rt.setSessionCookie(w, sid)
			http.Redirect(w, r, "/admin/", http.StatusSeeOther)
			return
		}
		data := loginData{AdminExists: true}
		if ve, ok := services.AsValidationError(err); ok {
			data.Errors = ve.Messages
		} else {
			data.Errors = []string{err.Error()}
		}
		rt.views.render(w, "admin_login.html", data)
		return
	}
	rt.views.render(w, "admin_login.html", loginData{
		AdminExists: rt.admin.AdminExists(),
		Notice:      popFlash(w, r),
	})
}

// GET|POST /admin/register — create the sole admin account.
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		if rt.admin.AdminExists() {
			setFlash(w, "An administrator is already registered.")
			redirectToLogin(w, r)
			return
		}
		rt.views.render(w, "admin_register.html", registerData{})
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sid, err := rt.admin.Register(r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err == nil {
		rt.setSessionCookie(w, sid)
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	if se, ok := services.AsServiceError(err); ok && se.Code == services.ErrorConflict {
		setFlash(w, se.Message)
		redirectToLogin(w, r)
		return
	}
	data := registerData{}
	if ve, ok := services.AsValidationError(err); ok {
		data.Errors = ve.Messages
	} else {
		data.Errors = []string{err.Error()}
	}
	rt.views.render(w, "admin_register.html", data)
}

// GET /admin/delete_survey/{id}
func (rt *Router) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.currentAdmin(r); !ok {
		redirectToLogin(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/admin/delete_survey/")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := rt.surveys.Delete(id); err != nil {
		setFlash(w, err.Error())
	}
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// GET /admin/delete_all
func (rt *Router) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.currentAdmin(r); !ok {
		redirectToLogin(w, r)
		return
	}
	if err := rt.surveys.DeleteAll(); err != nil {
		setFlash(w, err.Error())
	}
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// GET /admin/download — stream the CSV export.
func (rt *Router) handleDownload(w http.ResponseWriter, r *http.Request) {
	if _, ok := rt.currentAdmin(r); !ok {
		redirectToLogin(w, r)
		return
	}
	rows, err := rt.surveys.List()
	if err != nil {
		setFlash(w, err.Error())
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=survey_results.csv")
	if _, err := w.Write(services.ExportCSV(rows)); err != nil {
		log.Printf("web: write csv: %v", err)
	}
}

// GET /admin/logout
func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	var notice string
	if sid, ok := middleware.SessionIDFromContext(r.Context()); ok {
		if username := rt.admin.Logout(sid); username != "" {
			notice = fmt.Sprintf("%s - you have been logged out.", username)
		}
	}
	clearSessionCookie(w)
	rt.views.render(w, "admin_logout.html", logoutData{Notice: notice})
}

// GET /admin/delete_user — remove the admin account and end the session.
func (rt *Router) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	sid, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		redirectToLogin(w, r)
		return
	}
	username, err := rt.admin.Unregister(sid)
	if err != nil {
		if se, ok := services.AsServiceError(err); ok && se.Code == services.ErrorUnauthorized {
			redirectToLogin(w, r)
			return
		}
		setFlash(w, err.Error())
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	clearSessionCookie(w)
	rt.views.render(w, "admin_logout.html", logoutData{
		Notice: fmt.Sprintf("Administrator registration for %s has been removed.", username),
	})
}
