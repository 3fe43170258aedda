package event

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/config"
	"github.com/courtsidehq/courtside/internal/user"
	"github.com/courtsidehq/courtside/pkg/token"

	"github.com/courtsidehq/courtside/internal/team"
)

const testJWTSecret = "attendance-route-test-secret"

func setupEventRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = testJWTSecret

	r := gin.New()
	api := r.Group("/api")
	RegisterEventRoutes(api, db, cfg)
	return r
}

func putAttendance(t *testing.T, r *gin.Engine, eventID uint, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/events/%d/attendance", eventID),
		strings.NewReader(`{"attendance":"ABSENT"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAttendanceRouteIsPlayerOnly(t *testing.T) {
	db := setupTestDB(t)
	router := setupEventRouter(t, db)

	coach := createCoach(t, db, "coach@club.test")
	tm := &team.Team{Name: "Hawks", CoachID: &coach.ID}
	require.NoError(t, db.Create(tm).Error)
	p := createRosteredPlayer(t, db, "p1@club.test", tm.ID)

	svc := NewEventService(db)
	e, err := svc.CreateEvent(trainingInput(tm.ID), Actor{UserID: coach.UserID, Role: user.RoleCoach, CoachID: coach.ID})
	require.NoError(t, err)

	adminUser := &user.User{Email: "admin@club.test", Password: "x", Role: user.RoleAdmin, Status: user.StatusActive}
	require.NoError(t, db.Create(adminUser).Error)

	assertUnchanged := func(t *testing.T) {
		t.Helper()
		ep, err := NewEventRepository(db).GetEventPlayer(e.ID, p.ID)
		require.NoError(t, err)
		require.NotNil(t, ep)
		assert.Equal(t, AttendancePlanned, ep.Attendance)
	}

	t.Run("coach cannot set a player's attendance", func(t *testing.T) {
		bearer, err := token.GenerateJWT(coach.UserID, string(user.RoleCoach), testJWTSecret, 60)
		require.NoError(t, err)

		w := putAttendance(t, router, e.ID, bearer)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assertUnchanged(t)
	})

	t.Run("admin cannot set a player's attendance", func(t *testing.T) {
		bearer, err := token.GenerateJWT(adminUser.ID, string(user.RoleAdmin), testJWTSecret, 60)
		require.NoError(t, err)

		w := putAttendance(t, router, e.ID, bearer)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assertUnchanged(t)
	})

	t.Run("player sets their own row", func(t *testing.T) {
		bearer, err := token.GenerateJWT(p.UserID, string(user.RolePlayer), testJWTSecret, 60)
		require.NoError(t, err)

		w := putAttendance(t, router, e.ID, bearer)
		assert.Equal(t, http.StatusOK, w.Code)

		ep, err := NewEventRepository(db).GetEventPlayer(e.ID, p.ID)
		require.NoError(t, err)
		require.NotNil(t, ep)
		assert.Equal(t, AttendanceAbsent, ep.Attendance)
	})
}
