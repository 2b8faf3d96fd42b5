package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/towaos/enquete/internal/services"
)

// SQLiteStore persists survey responses and the admin account. It
// satisfies both services.SurveyStore and services.AdminStore.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

// EnsureSchema creates the two tables when absent. It is idempotent and
// safe to call at any time.
func (s *SQLiteStore) EnsureSchema() error {
	return RunMigrations(s.db)
}

// --- Surveys ---

func (s *SQLiteStore) InsertSurvey(r *services.SurveyResponse) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO surveys (name, email, age, languages, pc_type, pc_maker, comment, created_at)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Email, r.Age, r.Languages, r.PCType, r.PCMaker, r.Comment,
		r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert survey: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert survey id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) EmailExists(email string) (bool, error) {
	row := s.db.QueryRow(`SELECT id FROM surveys WHERE email = ?`, email)
	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) ListSurveys() ([]*services.SurveyResponse, error) {
	rows, err := s.db.Query(`SELECT id, name, email, age, languages, pc_type, pc_maker, comment, created_at
      FROM surveys ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logErr("ListSurveys: rows.Close", cerr)
		}
	}()
	out := []*services.SurveyResponse{}
	for rows.Next() {
		var r services.SurveyResponse
		var languages, comment sql.NullString
		var created string
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Age, &languages, &r.PCType, &r.PCMaker, &comment, &created); err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		r.Languages = languages.String
		r.Comment = comment.String
		if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
			r.CreatedAt = t
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteSurvey(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM surveys WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete survey %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAllSurveys() error {
	if _, err := s.db.Exec(`DELETE FROM surveys`); err != nil {
		return fmt.Errorf("delete all surveys: %w", err)
	}
	return nil
}

// --- Admins ---

func (s *SQLiteStore) CountAdmins() (int, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM admins`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) FindAdmin(username string) (*services.AdminAccount, error) {
	row := s.db.QueryRow(`SELECT username, password FROM admins WHERE username = ?`, username)
	var a services.AdminAccount
	if err := row.Scan(&a.Username, &a.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &a, nil
}

func (s *SQLiteStore) InsertAdmin(a *services.AdminAccount) error {
	if a == nil {
		return errors.New("nil admin")
	}
	if _, err := s.db.Exec(`INSERT INTO admins (username, password) VALUES (?, ?)`, a.Username, a.Password); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAdmin(username string) error {
	if _, err := s.db.Exec(`DELETE FROM admins WHERE username = ?`, username); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}
