package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/towaos/enquete/internal/config"
	"github.com/towaos/enquete/internal/db"
	"github.com/towaos/enquete/internal/middleware"
	"github.com/towaos/enquete/internal/services"
	"github.com/towaos/enquete/internal/web"
)

func main() {
	cfg := config.Load()

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}
	conn, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("close database: %v", cerr)
		}
	}()

	store, err := db.NewSQLiteStore(conn)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	if err := store.EnsureSchema(); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	sessions := services.NewSessionManager(cfg.IdleTimeout)
	surveys := services.NewSurveyService(store)
	admin := services.NewAdminService(store, sessions)
	signer := middleware.NewCookieSigner(cfg.SessionSecret)

	router, err := web.NewRouter(surveys, admin, sessions, signer)
	if err != nil {
		log.Fatalf("init router: %v", err)
	}

	mux := http.NewServeMux()
	router.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "name": "enquete"})
	})

	handler := middleware.SecureHeaders(signer.WithSession(mux))

	log.Printf("enquete server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
