// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL is unavailable. The published
// cache is left nil so the tests exercise the handlers without Valkey.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pagesmith/internal/database"
	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
	"pagesmith/internal/store"
	"pagesmith/internal/token"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pagesmith")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pagesmith")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Users     *store.UserStore
	Templates *store.TemplateStore
	Pages     *store.PageStore
	Actions   *store.ActionStore
	Tokens    *token.Manager

	Auth      *Auth
	Tmpl      *Templates
	Page      *Pages
	Admin     *Admin
	ActionsH  *Actions
	AccountsH *Users
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	users := store.NewUserStore(db)
	templates := store.NewTemplateStore(db)
	pages := store.NewPageStore(db)
	actions := store.NewActionStore(db)
	tokens := token.NewManager("handler-test-secret", time.Hour)

	return &testEnv{
		DB:        db,
		Users:     users,
		Templates: templates,
		Pages:     pages,
		Actions:   actions,
		Tokens:    tokens,
		Auth:      NewAuth(users, actions, tokens),
		Tmpl:      NewTemplates(templates, users, actions, nil),
		Page:      NewPages(pages, actions),
		Admin:     NewAdmin(templates, users, actions, nil),
		ActionsH:  NewActions(actions),
		AccountsH: NewUsers(users, actions),
	}
}

// testIdentity returns a middleware identity for the given account.
func testIdentity(id int64, role models.ProfileType) *middleware.Identity {
	return &middleware.Identity{ID: id, Email: "ident@test.local", Role: role}
}

// newRequest builds a JSON request carrying the identity and chi URL params.
// params is alternating key/value pairs; ident may be nil.
func newRequest(t *testing.T, method, target string, body any, ident *middleware.Identity, params ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)

	ctx := req.Context()
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	if ident != nil {
		ctx = context.WithValue(ctx, middleware.IdentityKey, ident)
	}
	return req.WithContext(ctx)
}

// decodeResponse parses a JSON response body into dst.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// responseMessage extracts the message envelope from a response.
func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeResponse(t, rec, &body)
	msg, _ := body["message"].(string)
	return msg
}

// createAccount inserts a verified account and registers cleanup.
func createAccount(t *testing.T, env *testEnv, email string, pt models.ProfileType) *models.User {
	t.Helper()
	u, err := env.Users.Create("Handler", "Test", email, "pass", pt)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	u.IsVerified = true
	if err := env.Users.Update(u); err != nil {
		t.Fatalf("verify account: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return u
}

// createTemplate inserts a template for the owner and registers cleanup.
func createTemplate(t *testing.T, env *testEnv, owner int64, name string, status models.PublishStatus) *models.Template {
	t.Helper()
	tmpl := &models.Template{
		UserID:        owner,
		TemplateName:  name,
		PublishStatus: status,
		Pages: []models.PageState{{
			Name:    "First",
			Content: "<div>content</div>",
			Style:   models.PageStyle{BackgroundColor: "#ffffff"},
		}},
	}
	if err := env.Templates.Create(tmpl); err != nil {
		t.Fatalf("create template: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM templates WHERE id = $1", string(tmpl.ID)) })
	return tmpl
}

// lastAction returns the newest audit entry with the given tag, or nil.
func lastAction(t *testing.T, env *testEnv, tag string) *models.Action {
	t.Helper()
	t.Cleanup(func() { env.DB.Exec("DELETE FROM actions WHERE action = $1", tag) })
	all, err := env.Actions.ListAll()
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	for i := range all {
		if all[i].Action == tag {
			return &all[i]
		}
	}
	return nil
}
