package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/config"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
	"github.com/BruksfildServices01/salon-manager/internal/validators"
)

func init() {
	gin.SetMode(gin.TestMode)
	validators.Setup()
	timezone.SetDefault("America/Sao_Paulo")
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestValidDay(t *testing.T) {
	tests := []struct {
		name string
		day  WorkingDayConfig
		want bool
	}{
		{"plain shift", WorkingDayConfig{StartTime: "09:00", EndTime: "18:00"}, true},
		{"with lunch", WorkingDayConfig{StartTime: "09:00", EndTime: "18:00", LunchStart: "12:00", LunchEnd: "13:00"}, true},
		{"end before start", WorkingDayConfig{StartTime: "18:00", EndTime: "09:00"}, false},
		{"empty clocks", WorkingDayConfig{}, false},
		{"bad clock", WorkingDayConfig{StartTime: "9h", EndTime: "18:00"}, false},
		{"lunch outside shift", WorkingDayConfig{StartTime: "09:00", EndTime: "18:00", LunchStart: "08:00", LunchEnd: "10:00"}, false},
		{"half lunch", WorkingDayConfig{StartTime: "09:00", EndTime: "18:00", LunchStart: "12:00"}, false},
		{"inverted lunch", WorkingDayConfig{StartTime: "09:00", EndTime: "18:00", LunchStart: "13:00", LunchEnd: "12:00"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validDay(tt.day))
		})
	}
}

func TestPeriodQuery(t *testing.T) {
	r := gin.New()
	r.GET("/p", func(c *gin.Context) {
		from, to, ok := periodQuery(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"from": from.Format(time.RFC3339), "to": to.Format(time.RFC3339)})
	})

	w := perform(r, http.MethodGet, "/p?from=2025-03-01&to=2025-03-31", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "2025-03-01T00:00:00-03:00", got["from"])
	assert.Equal(t, "2025-04-01T00:00:00-03:00", got["to"])

	w = perform(r, http.MethodGet, "/p?from=2025-03-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_period", errorCode(t, w))

	w = perform(r, http.MethodGet, "/p?from=01/03/2025&to=2025-03-31", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", errorCode(t, w))
}

func TestIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/x/12", "").Code)
	for _, bad := range []string{"0", "-1", "abc"} {
		w := perform(r, http.MethodGet, "/x/"+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Equal(t, "invalid_id", errorCode(t, w))
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 50},
		{"page=3&limit=20", 3, 20},
		{"page=0&limit=-5", 1, 50},
		{"page=x&limit=1000", 1, 200},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/logs?"+tt.query, nil)

		page, limit := pagination(c, auditDefaultLimit, auditMaxLimit)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.limit, limit, tt.query)
	}
}

func TestRegisterRejectsBeforeTouchingDatabase(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s"}
	valid := `{"salon_name":"Studio","salon_slug":"studio","name":"Ana","email":"ana@example.com","password":"secret1"`

	tests := []struct {
		name     string
		domainOK bool
		body     string
		code     string
	}{
		{"missing fields", true, `{"email":"ana@example.com"}`, "invalid_request"},
		{"short password", true, strings.Replace(valid, "secret1", "123", 1) + "}", "invalid_request"},
		{"email domain without mx", false, valid + "}", "invalid_email_domain"},
		{"unknown timezone", true, valid + `,"salon_timezone":"Mars/Olympus"}`, "invalid_timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandler{config: cfg, emailDomainOK: func(context.Context, string) bool { return tt.domainOK }}
			r := gin.New()
			r.POST("/register", h.Register)

			w := perform(r, http.MethodPost, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestGeneratedTokenPassesAuth(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", JWTExpirationHours: 1}
	h := &AuthHandler{config: cfg}

	token, err := h.generateToken(&models.User{ID: 7, SalonID: 3, Role: models.RoleOwner})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(cfg), middleware.OwnerOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": userID(c), "salon": salonID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":7,"salon":3}`, w.Body.String())
}

type fakeQueue struct {
	pending, retrying, dead int64
	err                     error
}

func (f fakeQueue) Len(context.Context) (int64, error)        { return f.pending, f.err }
func (f fakeQueue) DelayedLen(context.Context) (int64, error) { return f.retrying, f.err }
func (f fakeQueue) DLQLength(context.Context) (int64, error)  { return f.dead, f.err }

func TestJobStats(t *testing.T) {
	route := func(q QueueStats) *gin.Engine {
		r := gin.New()
		r.GET("/jobs", NewOpsHandler(nil, nil, q).JobStats)
		return r
	}

	w := perform(route(fakeQueue{pending: 4, retrying: 2, dead: 1}), http.MethodGet, "/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pending":4,"retrying":2,"dead":1}`, w.Body.String())

	w = perform(route(nil), http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "queue_disabled", errorCode(t, w))

	w = perform(route(fakeQueue{err: errors.New("redis down")}), http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
