package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"parley/config"
	"parley/internal/database"
	"parley/internal/models"
	"parley/internal/repository"
	"parley/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	realm  *models.Realm
	user   *models.User
	admin  *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	realm := &models.Realm{Subdomain: "test", Name: "Test"}
	if err := db.Create(realm).Error; err != nil {
		t.Fatal(err)
	}
	user := &models.User{RealmID: realm.ID, Email: "u@example.com", FullName: "User", Role: "MEMBER", PresenceEnabled: true}
	admin := &models.User{RealmID: realm.ID, Email: "a@example.com", FullName: "Admin", Role: "ADMIN", PresenceEnabled: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	presenceSvc := service.NewPresenceService(
		&config.PresenceConfig{OfflineThresholdSecs: 140, MirrorActivityWindow: 5 * time.Minute},
		repository.NewPresenceRepository(db),
		userRepo,
		repository.NewRealmRepository(db),
		repository.NewActivityRepository(db),
	)
	statusSvc := service.NewStatusService(repository.NewStatusRepository(db), repository.NewEmojiRepository(db))

	presenceHandler := NewPresenceHandler(presenceSvc, userRepo)
	statusHandler := NewStatusHandler(statusSvc, userRepo)

	env := &testEnv{db: db, realm: realm, user: user, admin: admin}

	asUser := func(u *models.User) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", u.ID)
			c.Set("realm_id", u.RealmID)
			c.Set("role", u.Role)
			c.Set("client_name", "website")
		}
	}

	r := gin.New()
	r.POST("/users/me/presence", asUser(user), presenceHandler.UpdateActiveStatus)
	r.GET("/users/:id/presence", asUser(user), presenceHandler.GetUserPresence)
	r.GET("/realm/presence", asUser(user), presenceHandler.GetRealmPresence)
	r.POST("/users/me/status", asUser(user), statusHandler.UpdateStatus)
	r.GET("/users/:id/status", asUser(user), statusHandler.GetStatus)
	r.POST("/admin/users/:id/status", asUser(admin), statusHandler.UpdateStatusAdmin)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHeartbeatEndpoint_ReturnsPresence(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/users/me/presence", `{"status":"ACTIVE"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Presence map[string]struct {
			Status string `json:"status"`
		} `json:"presence"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	agg, ok := resp.Presence["aggregated"]
	if !ok {
		t.Fatalf("response lacks aggregated entry: %s", w.Body.String())
	}
	if agg.Status != "ACTIVE" {
		t.Errorf("aggregated status = %s, want ACTIVE", agg.Status)
	}
}

func TestHeartbeatEndpoint_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/users/me/presence", `{"status":"NAPPING"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}

func TestHeartbeatEndpoint_PingOnly(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/users/me/presence", `{"status":"IDLE","ping_only":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "{}" {
		t.Errorf("ping-only body = %s, want {}", w.Body.String())
	}
}

func TestGetPresenceEndpoint_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/users/99999/presence", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", w.Code)
	}
}

func TestGetPresenceEndpoint_ByEmail(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodPost, "/users/me/presence", `{"status":"ACTIVE","ping_only":true}`); w.Code != http.StatusOK {
		t.Fatal("seed heartbeat failed")
	}
	w := env.do(t, http.MethodGet, "/users/u@example.com/presence", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestGetPresenceEndpoint_NoDataIs404(t *testing.T) {
	env := newTestEnv(t)
	// admin exists but has never sent a heartbeat
	w := env.do(t, http.MethodGet, "/users/"+itoa(env.admin.ID)+"/presence", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404 for a user with no presence data", w.Code)
	}
}

func TestStatusEndpoint_EmptyUpdateRejected(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/users/me/status", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}

func TestStatusEndpoint_AdminUpdatesOtherUser(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/admin/users/"+itoa(env.user.ID)+"/status", `{"status_text":"on leave"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	var st models.UserStatus
	if err := env.db.Where("user_id = ?", env.user.ID).First(&st).Error; err != nil {
		t.Fatal(err)
	}
	if st.StatusText != "on leave" {
		t.Errorf("status_text = %q, want %q", st.StatusText, "on leave")
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
