//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"band-manager-go/internal/config"
	"band-manager-go/internal/db"
	identitydomain "band-manager-go/internal/domain/identity"
	inventorydomain "band-manager-go/internal/domain/inventory"
	musicdomain "band-manager-go/internal/domain/music"
	rosterdomain "band-manager-go/internal/domain/roster"
	scheduledomain "band-manager-go/internal/domain/schedule"
	identityrepo "band-manager-go/internal/repository/postgres/identity"
	inventoryrepo "band-manager-go/internal/repository/postgres/inventory"
	musicrepo "band-manager-go/internal/repository/postgres/music"
	rosterrepo "band-manager-go/internal/repository/postgres/roster"
	schedulerepo "band-manager-go/internal/repository/postgres/schedule"
	"band-manager-go/internal/transport/httpserver"
	"band-manager-go/internal/transport/httpserver/handler"
	"band-manager-go/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewFromEnv()
	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	identityService := identitydomain.NewService(identityrepo.NewPostgres(dbConn))
	rosterService := rosterdomain.NewService(rosterrepo.NewPostgres(dbConn))
	scheduleService := scheduledomain.NewService(schedulerepo.NewPostgres(dbConn))
	musicService := musicdomain.NewService(musicrepo.NewPostgres(dbConn))
	inventoryService := inventorydomain.NewService(inventoryrepo.NewPostgres(dbConn))

	handlers := handler.New(identityService, rosterService, scheduleService, musicService, inventoryService, log)
	router := httpserver.NewRouter(cfg, handlers, identityService, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	tables := []string{
		"miscellaneous_loans", "miscellaneous", "instrument_notes", "instrument_loans", "instruments",
		"music_order_parts", "music_orders", "music_set_notes", "music_set_bands", "music_parts",
		"attendance_records", "performance_music_sets", "performance_bands", "performances", "music_sets",
		"memberships", "bands", "guardian_links", "user_roles", "users",
	}
	for _, table := range tables {
		if err := dbConn.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func (e *testEnv) request(t *testing.T, method, path, email, password string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.SetBasicAuth(email, password)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func (e *testEnv) register(t *testing.T, email, password, fullName string) string {
	t.Helper()

	resp, data := e.request(t, http.MethodPost, "/api/register", "", "", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d: %s", email, resp.StatusCode, data)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return user.ID
}

func (e *testEnv) grantRole(t *testing.T, userID, role string) {
	t.Helper()
	if err := e.db.Exec("INSERT INTO user_roles (user_id, role) VALUES (?, ?)", userID, role).Error; err != nil {
		t.Fatalf("grant role: %v", err)
	}
}

func TestRegisterAndAuthMe(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	env.register(t, "alice@example.com", "secret123", "Alice Cooper")

	resp, data := env.request(t, http.MethodGet, "/api/auth/me", "alice@example.com", "secret123", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("auth/me: status %d: %s", resp.StatusCode, data)
	}

	var me struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.Email != "alice@example.com" {
		t.Fatalf("expected alice, got %s", me.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	env.register(t, "bob@example.com", "secret123", "Bob Marley")

	resp, _ := env.request(t, http.MethodPost, "/api/register", "", "", map[string]string{
		"email":     "bob@example.com",
		"password":  "other",
		"full_name": "Other Bob",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestBandRosterFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	directorID := env.register(t, "director@example.com", "secret123", "Dana Director")
	env.grantRole(t, directorID, "DIRECTOR")
	env.register(t, "player@example.com", "secret123", "Pat Player")

	resp, data := env.request(t, http.MethodPost, "/api/bands", "director@example.com", "secret123", map[string]string{
		"name": "Senior",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create band: status %d: %s", resp.StatusCode, data)
	}
	var band struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &band); err != nil {
		t.Fatalf("decode band: %v", err)
	}

	resp, data = env.request(t, http.MethodPost, "/api/bands/"+band.ID+"/members", "director@example.com", "secret123", map[string]string{
		"email": "player@example.com",
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("add member: status %d: %s", resp.StatusCode, data)
	}

	resp, data = env.request(t, http.MethodGet, "/api/bands/"+band.ID+"/members", "player@example.com", "secret123", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list members: status %d: %s", resp.StatusCode, data)
	}
	var members []struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &members); err != nil {
		t.Fatalf("decode members: %v", err)
	}
	if len(members) != 1 || members[0].Email != "player@example.com" {
		t.Fatalf("expected player on roster, got %v", members)
	}
}

func TestPerformanceAttendanceFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	adminID := env.register(t, "admin@example.com", "secret123", "Casey Committee")
	env.grantRole(t, adminID, "DIRECTOR")
	env.grantRole(t, adminID, "COMMITTEE_MEMBER")
	env.register(t, "player@example.com", "secret123", "Pat Player")

	resp, data := env.request(t, http.MethodPost, "/api/bands", "admin@example.com", "secret123", map[string]string{"name": "Senior"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create band: status %d: %s", resp.StatusCode, data)
	}
	var band struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(data, &band)

	resp, data = env.request(t, http.MethodPost, "/api/bands/"+band.ID+"/members", "admin@example.com", "secret123", map[string]string{"email": "player@example.com"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("add member: status %d: %s", resp.StatusCode, data)
	}

	resp, data = env.request(t, http.MethodPost, "/api/performances", "admin@example.com", "secret123", map[string]string{
		"location":   "Town Hall",
		"date":       "2026-10-03",
		"start_time": "19:30",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create performance: status %d: %s", resp.StatusCode, data)
	}
	var performance struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(data, &performance)

	resp, data = env.request(t, http.MethodPut, "/api/performances/"+performance.ID+"/bands/"+band.ID, "admin@example.com", "secret123", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("link band: status %d: %s", resp.StatusCode, data)
	}

	// Linking seeds every member's attendance as unavailable.
	resp, data = env.request(t, http.MethodGet, "/api/performances/"+performance.ID+"/attendance", "admin@example.com", "secret123", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list attendance: status %d: %s", resp.StatusCode, data)
	}
	var records []struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("decode attendance: %v", err)
	}
	if len(records) != 1 || records[0].Available {
		t.Fatalf("expected one unavailable record, got %v", records)
	}

	resp, data = env.request(t, http.MethodPut, "/api/performances/"+performance.ID+"/attendance", "player@example.com", "secret123", map[string]interface{}{
		"band_id":   band.ID,
		"available": true,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("set availability: status %d: %s", resp.StatusCode, data)
	}

	resp, data = env.request(t, http.MethodGet, "/api/performances/"+performance.ID+"/attendance?available=true", "admin@example.com", "secret123", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list available: status %d: %s", resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("decode attendance: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one available record, got %d", len(records))
	}
}

func TestMiscellaneousLoanFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	adminID := env.register(t, "admin@example.com", "secret123", "Casey Committee")
	env.grantRole(t, adminID, "COMMITTEE_MEMBER")
	playerID := env.register(t, "player@example.com", "secret123", "Pat Player")

	resp, data := env.request(t, http.MethodPost, "/api/misc", "admin@example.com", "secret123", map[string]interface{}{
		"name":     "Reeds",
		"quantity": 10,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create misc: status %d: %s", resp.StatusCode, data)
	}
	var item struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(data, &item)

	resp, data = env.request(t, http.MethodPost, "/api/misc/"+item.ID+"/loan", "admin@example.com", "secret123", map[string]interface{}{
		"user_id":  playerID,
		"quantity": 6,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("loan misc: status %d: %s", resp.StatusCode, data)
	}

	// 10 owned with 6 out leaves 4; a request for 5 must be rejected.
	resp, data = env.request(t, http.MethodPost, "/api/misc/"+item.ID+"/loan", "admin@example.com", "secret123", map[string]interface{}{
		"user_id":  playerID,
		"quantity": 5,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, data)
	}

	resp, data = env.request(t, http.MethodGet, "/api/misc/"+item.ID, "admin@example.com", "secret123", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get misc: status %d: %s", resp.StatusCode, data)
	}
	var detail struct {
		Available int `json:"available"`
	}
	if err := json.Unmarshal(data, &detail); err != nil {
		t.Fatalf("decode misc: %v", err)
	}
	if detail.Available != 4 {
		t.Fatalf("expected 4 available, got %d", detail.Available)
	}
}
