package match_test

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
	"github.com/courtsidehq/courtside/internal/event"
	"github.com/courtsidehq/courtside/internal/match"
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
		&team.Team{},
		&event.Event{}, &event.EventTeam{}, &event.EventPlayer{}, &event.EventCoach{},
		&match.Match{}, &match.PlayerStat{},
		&activity.Activity{},
	))
	return db
}

type fixture struct {
	db       *gorm.DB
	svc      *match.MatchService
	home     *team.Team
	away     *team.Team
	match    *match.Match
	playerID uint
}

func newFixture(t *testing.T, external bool) *fixture {
	t.Helper()
	db := setupTestDB(t)

	home := &team.Team{Name: "Hawks"}
	require.NoError(t, db.Create(home).Error)

	u := &user.User{Email: "p1@club.test", Password: "x", Role: user.RolePlayer, Status: user.StatusActive}
	require.NoError(t, db.Create(u).Error)
	p := &user.Player{UserID: u.ID}
	require.NoError(t, db.Create(p).Error)

	e := &event.Event{
		Title:     "League round",
		Type:      event.TypeMatch,
		StartTime: time.Now(),
		EndTime:   time.Now().Add(2 * time.Hour),
		Status:    event.StatusScheduled,
	}
	require.NoError(t, db.Create(e).Error)

	m := &match.Match{
		EventID:    e.ID,
		HomeTeamID: home.ID,
		Status:     match.StatusScheduled,
	}
	f := &fixture{db: db, svc: match.NewMatchService(db), home: home, match: m, playerID: p.ID}

	if external {
		m.ExternalOpponent = "City Select"
	} else {
		away := &team.Team{Name: "Owls"}
		require.NoError(t, db.Create(away).Error)
		m.AwayTeamID = &away.ID
		f.away = away
	}
	require.NoError(t, db.Create(m).Error)

	require.NoError(t, db.Create(&match.PlayerStat{
		MatchID:  m.ID,
		PlayerID: p.ID,
		TeamID:   home.ID,
	}).Error)
	return f
}

func admin() match.Actor {
	return match.Actor{UserID: 1, Role: user.RoleAdmin}
}

func TestUpdateScore(t *testing.T) {
	f := newFixture(t, false)

	m, err := f.svc.UpdateScore(f.match.ID, 40, 38, admin())
	require.NoError(t, err)
	assert.Equal(t, 40, m.HomeScore)
	assert.Equal(t, 38, m.AwayScore)
	assert.Equal(t, match.StatusInProgress, m.Status)

	_, err = f.svc.UpdateScore(f.match.ID, -1, 0, admin())
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateStatLine(t *testing.T) {
	f := newFixture(t, false)

	line := match.StatLine{
		Points: 20, Rebounds: 5, Assists: 3, Steals: 2, Blocks: 1, Turnovers: 4,
		MinutesPlayed:       32,
		FieldGoalsMade:      7,
		FieldGoalsAttempted: 14,
	}
	stat, err := f.svc.UpdateStatLine(f.match.ID, f.playerID, line, admin())
	require.NoError(t, err)
	assert.Equal(t, 20, stat.Points)
	assert.Equal(t, 27, stat.Efficiency())

	t.Run("made cannot exceed attempted", func(t *testing.T) {
		bad := line
		bad.FreeThrowsMade = 5
		bad.FreeThrowsAttempted = 3
		_, err := f.svc.UpdateStatLine(f.match.ID, f.playerID, bad, admin())
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unseeded player has no line", func(t *testing.T) {
		_, err := f.svc.UpdateStatLine(f.match.ID, f.playerID+100, line, admin())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("locked after completion", func(t *testing.T) {
		_, err := f.svc.CompleteMatch(f.match.ID, nil, nil, admin())
		require.NoError(t, err)
		_, err = f.svc.UpdateStatLine(f.match.ID, f.playerID, line, admin())
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestCompleteMatch(t *testing.T) {
	t.Run("applies results to both teams", func(t *testing.T) {
		f := newFixture(t, false)
		home, away := 52, 48

		m, err := f.svc.CompleteMatch(f.match.ID, &home, &away, admin())
		require.NoError(t, err)
		assert.Equal(t, match.StatusCompleted, m.Status)

		var ht, at team.Team
		require.NoError(t, f.db.First(&ht, f.home.ID).Error)
		require.NoError(t, f.db.First(&at, *f.match.AwayTeamID).Error)

		assert.Equal(t, 1, ht.GamesPlayed)
		assert.Equal(t, 1, ht.Wins)
		assert.Equal(t, 52, ht.PointsFor)
		assert.Equal(t, 48, ht.PointsAgainst)

		assert.Equal(t, 1, at.GamesPlayed)
		assert.Equal(t, 1, at.Losses)
		assert.Equal(t, 48, at.PointsFor)
		assert.Equal(t, 52, at.PointsAgainst)

		var e event.Event
		require.NoError(t, f.db.First(&e, f.match.EventID).Error)
		assert.Equal(t, event.StatusCompleted, e.Status)
	})

	t.Run("completing twice is a conflict", func(t *testing.T) {
		f := newFixture(t, false)
		home, away := 52, 48

		_, err := f.svc.CompleteMatch(f.match.ID, &home, &away, admin())
		require.NoError(t, err)
		_, err = f.svc.CompleteMatch(f.match.ID, &home, &away, admin())
		assert.ErrorIs(t, err, apperr.ErrConflict)

		// Counters applied exactly once.
		var ht team.Team
		require.NoError(t, f.db.First(&ht, f.home.ID).Error)
		assert.Equal(t, 1, ht.GamesPlayed)
	})

	t.Run("external opponent adjusts only the home team", func(t *testing.T) {
		f := newFixture(t, true)
		home, away := 60, 60

		_, err := f.svc.CompleteMatch(f.match.ID, &home, &away, admin())
		require.NoError(t, err)

		var ht team.Team
		require.NoError(t, f.db.First(&ht, f.home.ID).Error)
		assert.Equal(t, 1, ht.GamesPlayed)
		assert.Equal(t, 1, ht.Draws)

		var count int64
		f.db.Model(&team.Team{}).Where("games_played > 0").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("coach of neither team is forbidden", func(t *testing.T) {
		f := newFixture(t, false)
		u := &user.User{Email: "c@club.test", Password: "x", Role: user.RoleCoach, Status: user.StatusActive}
		require.NoError(t, f.db.Create(u).Error)
		c := &user.Coach{UserID: u.ID}
		require.NoError(t, f.db.Create(c).Error)

		_, err := f.svc.CompleteMatch(f.match.ID, nil, nil, match.Actor{UserID: u.ID, Role: user.RoleCoach, CoachID: c.ID})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}
