package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/courtsidehq/courtside/internal/activity"
	"github.com/courtsidehq/courtside/internal/apperr"
	"github.com/courtsidehq/courtside/internal/match"
	"github.com/courtsidehq/courtside/internal/roster"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &user.Coach{}, &user.Player{},
		&team.Team{}, &roster.TeamPlayer{},
		&Event{}, &EventTeam{}, &EventPlayer{}, &EventCoach{},
		&match.Match{}, &match.PlayerStat{},
		&activity.Activity{},
	))
	return db
}

func createCoach(t *testing.T, db *gorm.DB, email string) *user.Coach {
	t.Helper()
	u := &user.User{Email: email, Password: "x", Role: user.RoleCoach, Status: user.StatusActive}
	require.NoError(t, db.Create(u).Error)
	c := &user.Coach{UserID: u.ID}
	require.NoError(t, db.Create(c).Error)
	return c
}

func createRosteredPlayer(t *testing.T, db *gorm.DB, email string, teamID uint) *user.Player {
	t.Helper()
	u := &user.User{Email: email, Password: "x", Role: user.RolePlayer, Status: user.StatusActive}
	require.NoError(t, db.Create(u).Error)
	p := &user.Player{UserID: u.ID}
	require.NoError(t, db.Create(p).Error)
	require.NoError(t, db.Create(&roster.TeamPlayer{
		TeamID: teamID, PlayerID: p.ID, IsActive: true, JoinedAt: time.Now(),
	}).Error)
	return p
}

func trainingInput(teamIDs ...uint) CreateEventInput {
	start := time.Now().Add(24 * time.Hour)
	return CreateEventInput{
		Title:     "Tuesday practice",
		Type:      TypeTraining,
		StartTime: start,
		EndTime:   start.Add(90 * time.Minute),
		TeamIDs:   teamIDs,
	}
}

func TestCreateEvent(t *testing.T) {
	t.Run("snapshots the active roster at creation", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewEventService(db)
		coach := createCoach(t, db, "coach@club.test")
		tm := &team.Team{Name: "Hawks", CoachID: &coach.ID}
		require.NoError(t, db.Create(tm).Error)

		createRosteredPlayer(t, db, "p1@club.test", tm.ID)
		createRosteredPlayer(t, db, "p2@club.test", tm.ID)
		createRosteredPlayer(t, db, "p3@club.test", tm.ID)

		actor := Actor{UserID: coach.UserID, Role: user.RoleCoach, CoachID: coach.ID}
		e, err := svc.CreateEvent(trainingInput(tm.ID), actor)
		require.NoError(t, err)

		assert.Len(t, e.Teams, 1)
		assert.Len(t, e.Coaches, 1)
		require.Len(t, e.Players, 3)
		for _, ep := range e.Players {
			assert.Equal(t, AttendancePlanned, ep.Attendance)
			assert.Equal(t, tm.ID, ep.TeamID)
		}

		// A player added after the event keeps no link to it.
		late := createRosteredPlayer(t, db, "late@club.test", tm.ID)
		repo := NewEventRepository(db)
		ep, err := repo.GetEventPlayer(e.ID, late.ID)
		require.NoError(t, err)
		assert.Nil(t, ep)
	})

	t.Run("match event creates the match and seeds stat lines", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewEventService(db)
		coach := createCoach(t, db, "coach@club.test")
		home := &team.Team{Name: "Hawks", CoachID: &coach.ID}
		require.NoError(t, db.Create(home).Error)
		away := &team.Team{Name: "Owls"}
		require.NoError(t, db.Create(away).Error)

		createRosteredPlayer(t, db, "p1@club.test", home.ID)
		createRosteredPlayer(t, db, "p2@club.test", away.ID)

		input := trainingInput(home.ID, away.ID)
		input.Type = TypeMatch
		input.Title = "Derby"

		actor := Actor{UserID: coach.UserID, Role: user.RoleCoach, CoachID: coach.ID}
		e, err := svc.CreateEvent(input, actor)
		require.NoError(t, err)

		m, err := match.NewMatchRepository(db).GetMatchByEventID(e.ID)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, home.ID, m.HomeTeamID)
		require.NotNil(t, m.AwayTeamID)
		assert.Equal(t, away.ID, *m.AwayTeamID)

		stats, err := match.NewMatchRepository(db).ListStatsByMatch(m.ID)
		require.NoError(t, err)
		assert.Len(t, stats, 2)
	})

	t.Run("match without an away team needs an external opponent", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewEventService(db)
		coach := createCoach(t, db, "coach@club.test")
		tm := &team.Team{Name: "Hawks", CoachID: &coach.ID}
		require.NoError(t, db.Create(tm).Error)

		input := trainingInput(tm.ID)
		input.Type = TypeMatch
		actor := Actor{UserID: coach.UserID, Role: user.RoleCoach, CoachID: coach.ID}

		_, err := svc.CreateEvent(input, actor)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		input.ExternalOpponent = "City Select"
		e, err := svc.CreateEvent(input, actor)
		require.NoError(t, err)

		m, err := match.NewMatchRepository(db).GetMatchByEventID(e.ID)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Nil(t, m.AwayTeamID)
		assert.Equal(t, "City Select", m.ExternalOpponent)
	})

	t.Run("coach must own one of the named teams", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewEventService(db)
		createCoach(t, db, "owner@club.test")
		outsider := createCoach(t, db, "outsider@club.test")
		tm := &team.Team{Name: "Hawks"}
		require.NoError(t, db.Create(tm).Error)

		actor := Actor{UserID: outsider.UserID, Role: user.RoleCoach, CoachID: outsider.ID}
		_, err := svc.CreateEvent(trainingInput(tm.ID), actor)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("rejects inverted time windows and empty team lists", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewEventService(db)
		actor := Actor{UserID: 1, Role: user.RoleAdmin}

		input := trainingInput(1)
		input.EndTime = input.StartTime.Add(-time.Hour)
		_, err := svc.CreateEvent(input, actor)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = svc.CreateEvent(trainingInput(), actor)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestUpdateAttendance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db)
	coach := createCoach(t, db, "coach@club.test")
	tm := &team.Team{Name: "Hawks", CoachID: &coach.ID}
	require.NoError(t, db.Create(tm).Error)
	p := createRosteredPlayer(t, db, "p1@club.test", tm.ID)

	actor := Actor{UserID: coach.UserID, Role: user.RoleCoach, CoachID: coach.ID}
	e, err := svc.CreateEvent(trainingInput(tm.ID), actor)
	require.NoError(t, err)

	ep, err := svc.UpdateAttendance(e.ID, p.ID, AttendanceAttended, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, AttendanceAttended, ep.Attendance)

	t.Run("unknown attendance value", func(t *testing.T) {
		_, err := svc.UpdateAttendance(e.ID, p.ID, "MAYBE", p.UserID)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("player not linked to the event", func(t *testing.T) {
		stranger := createRosteredPlayer(t, db, "late@club.test", tm.ID)
		_, err := svc.UpdateAttendance(e.ID, stranger.ID, AttendanceAttended, stranger.UserID)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db)
	coach := createCoach(t, db, "coach@club.test")
	outsider := createCoach(t, db, "outsider@club.test")
	tm := &team.Team{Name: "Hawks", CoachID: &coach.ID}
	require.NoError(t, db.Create(tm).Error)

	owner := Actor{UserID: coach.UserID, Role: user.RoleCoach, CoachID: coach.ID}
	e, err := svc.CreateEvent(trainingInput(tm.ID), owner)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(e.ID, StatusCancelled, Actor{UserID: outsider.UserID, Role: user.RoleCoach, CoachID: outsider.ID})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := svc.UpdateStatus(e.ID, StatusCancelled, owner)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)
}
