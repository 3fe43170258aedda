package stats

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
		&event.Event{}, &event.EventTeam{}, &event.EventPlayer{}, &event.EventCoach{},
		&match.Match{}, &match.PlayerStat{},
		&activity.Activity{},
	))
	return db
}

func createPlayer(t *testing.T, db *gorm.DB, email string) *user.Player {
	t.Helper()
	u := &user.User{Email: email, Password: "x", Role: user.RolePlayer, Status: user.StatusActive}
	require.NoError(t, db.Create(u).Error)
	p := &user.Player{UserID: u.ID}
	require.NoError(t, db.Create(p).Error)
	return p
}

// completedMatch writes a COMPLETED match plus one stat row for the player on
// the home side.
func completedMatch(t *testing.T, db *gorm.DB, home, away *team.Team, external string, homeScore, awayScore int, playerID uint, line match.PlayerStat) *match.Match {
	t.Helper()
	tipOff := time.Now().Add(-7 * 24 * time.Hour)
	e := &event.Event{
		Title:     "Round",
		Type:      event.TypeMatch,
		StartTime: tipOff,
		EndTime:   tipOff.Add(2 * time.Hour),
		Status:    event.StatusCompleted,
	}
	require.NoError(t, db.Create(e).Error)

	m := &match.Match{
		EventID:          e.ID,
		HomeTeamID:       home.ID,
		ExternalOpponent: external,
		HomeScore:        homeScore,
		AwayScore:        awayScore,
		Status:           match.StatusCompleted,
	}
	if away != nil {
		m.AwayTeamID = &away.ID
	}
	require.NoError(t, db.Create(m).Error)

	line.MatchID = m.ID
	line.PlayerID = playerID
	line.TeamID = home.ID
	require.NoError(t, db.Create(&line).Error)
	return m
}

func TestPlayerOverallStats(t *testing.T) {
	t.Run("no completed matches yields zeros, not NaN", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewStatsService(db)
		p := createPlayer(t, db, "p1@club.test")

		overall, err := svc.PlayerOverallStats(p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, overall.TotalGames)
		assert.Equal(t, 0.0, overall.PointsPerGame)
		assert.Equal(t, 0.0, overall.FieldGoalPercentage)
		assert.Equal(t, 0.0, overall.Efficiency)
	})

	t.Run("aggregates across completed matches", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewStatsService(db)
		p := createPlayer(t, db, "p1@club.test")
		home := &team.Team{Name: "Hawks"}
		require.NoError(t, db.Create(home).Error)

		completedMatch(t, db, home, nil, "City Select", 50, 40, p.ID, match.PlayerStat{
			Points: 20, Rebounds: 5, Assists: 3, Steals: 2, Blocks: 1, Turnovers: 4,
			MinutesPlayed: 30, FieldGoalsMade: 7, FieldGoalsAttempted: 14,
		})
		completedMatch(t, db, home, nil, "City Select", 40, 50, p.ID, match.PlayerStat{
			Points: 10, Rebounds: 3, Assists: 1,
			MinutesPlayed: 20, FieldGoalsMade: 3, FieldGoalsAttempted: 6,
		})

		overall, err := svc.PlayerOverallStats(p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, overall.TotalGames)
		assert.InDelta(t, 15.0, overall.PointsPerGame, 0.001)
		assert.InDelta(t, 4.0, overall.ReboundsPerGame, 0.001)
		assert.InDelta(t, 25.0, overall.MinutesPerGame, 0.001)
		assert.InDelta(t, 50.0, overall.FieldGoalPercentage, 0.001)
		// (27 + 14) / 2 games
		assert.InDelta(t, 20.5, overall.Efficiency, 0.001)
	})

	t.Run("scheduled matches are excluded", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewStatsService(db)
		p := createPlayer(t, db, "p1@club.test")
		home := &team.Team{Name: "Hawks"}
		require.NoError(t, db.Create(home).Error)

		e := &event.Event{Title: "Round", Type: event.TypeMatch, StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}
		require.NoError(t, db.Create(e).Error)
		m := &match.Match{EventID: e.ID, HomeTeamID: home.ID, ExternalOpponent: "X", Status: match.StatusScheduled}
		require.NoError(t, db.Create(m).Error)
		require.NoError(t, db.Create(&match.PlayerStat{MatchID: m.ID, PlayerID: p.ID, TeamID: home.ID, Points: 99}).Error)

		overall, err := svc.PlayerOverallStats(p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, overall.TotalGames)
		assert.Equal(t, 0.0, overall.PointsPerGame)
	})

	t.Run("unknown player", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewStatsService(db)
		_, err := svc.PlayerOverallStats(12345)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestPlayerGameLog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatsService(db)
	p := createPlayer(t, db, "p1@club.test")
	home := &team.Team{Name: "Hawks"}
	require.NoError(t, db.Create(home).Error)
	away := &team.Team{Name: "Owls"}
	require.NoError(t, db.Create(away).Error)

	m1 := completedMatch(t, db, home, away, "", 52, 48, p.ID, match.PlayerStat{
		Points: 20, Rebounds: 5, Assists: 3, Steals: 2, Blocks: 1, Turnovers: 4,
		FieldGoalsMade: 7, FieldGoalsAttempted: 14,
	})
	completedMatch(t, db, home, nil, "City Select", 40, 40, p.ID, match.PlayerStat{Points: 8})

	log, err := svc.PlayerGameLog(p.ID)
	require.NoError(t, err)
	require.Len(t, log, 2)

	// The entry is dated by the event's scheduled start, not by when the
	// match row happened to be written.
	var ev event.Event
	require.NoError(t, db.First(&ev, m1.EventID).Error)
	assert.WithinDuration(t, ev.StartTime, log[0].Date, time.Second)
	assert.False(t, log[0].Date.After(time.Now().Add(-6*24*time.Hour)))

	assert.Equal(t, "Owls", log[0].Opponent)
	assert.Equal(t, ResultWin, log[0].Result)
	assert.Equal(t, "7/14", log[0].FieldGoals)
	assert.Equal(t, 27, log[0].Efficiency)

	assert.Equal(t, "City Select", log[1].Opponent)
	assert.Equal(t, ResultDraw, log[1].Result)
}

func TestTeamStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatsService(db)

	hawks := &team.Team{Name: "Hawks", GamesPlayed: 4, Wins: 3, Losses: 1, PointsFor: 200, PointsAgainst: 180}
	require.NoError(t, db.Create(hawks).Error)
	owls := &team.Team{Name: "Owls"}
	require.NoError(t, db.Create(owls).Error)

	p := createPlayer(t, db, "p1@club.test")
	require.NoError(t, db.Create(&roster.TeamPlayer{TeamID: hawks.ID, PlayerID: p.ID, IsActive: true, JoinedAt: time.Now()}).Error)

	rows, err := svc.TeamStats(nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Hawks", rows[0].Name)
	assert.InDelta(t, 75.0, rows[0].WinPercentage, 0.001)
	assert.Equal(t, int64(1), rows[0].PlayersCount)

	assert.Equal(t, "Owls", rows[1].Name)
	assert.Equal(t, 0.0, rows[1].WinPercentage)
	assert.Equal(t, int64(0), rows[1].PlayersCount)

	scoped, err := svc.TeamStats([]uint{owls.ID})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, owls.ID, scoped[0].TeamID)
}

func TestDashboardAggregates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatsService(db)

	coachUser := &user.User{Email: "coach@club.test", Password: "x", Role: user.RoleCoach, Status: user.StatusActive}
	require.NoError(t, db.Create(coachUser).Error)
	coach := &user.Coach{UserID: coachUser.ID}
	require.NoError(t, db.Create(coach).Error)

	hawks := &team.Team{Name: "Hawks", CoachID: &coach.ID}
	require.NoError(t, db.Create(hawks).Error)
	owls := &team.Team{Name: "Owls"}
	require.NoError(t, db.Create(owls).Error)

	p := createPlayer(t, db, "p1@club.test")
	require.NoError(t, db.Create(&roster.TeamPlayer{TeamID: hawks.ID, PlayerID: p.ID, IsActive: true, JoinedAt: time.Now()}).Error)

	start := time.Now().Add(48 * time.Hour)
	e := &event.Event{Title: "Practice", Type: event.TypeTraining, StartTime: start, EndTime: start.Add(time.Hour), Status: event.StatusScheduled}
	require.NoError(t, db.Create(e).Error)
	require.NoError(t, db.Create(&event.EventTeam{EventID: e.ID, TeamID: hawks.ID}).Error)
	require.NoError(t, db.Create(&event.EventPlayer{EventID: e.ID, PlayerID: p.ID, TeamID: hawks.ID, Attendance: event.AttendancePlanned}).Error)

	t.Run("admin sees club-wide counts", func(t *testing.T) {
		dash, err := svc.DashboardAggregates(Scope{Role: user.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, int64(2), dash.TeamsCount)
		assert.Equal(t, int64(1), dash.PlayersCount)
		assert.Equal(t, int64(1), dash.CoachesCount)
		assert.Equal(t, int64(1), dash.UpcomingEvents)
		require.Len(t, dash.EventHistogram, 1)
		assert.Equal(t, start.Format("2006-01"), dash.EventHistogram[0].Month)
		assert.Equal(t, "TRAINING", dash.EventHistogram[0].EventType)
	})

	t.Run("coach sees only their teams", func(t *testing.T) {
		dash, err := svc.DashboardAggregates(Scope{Role: user.RoleCoach, CoachID: coach.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), dash.TeamsCount)
		assert.Equal(t, int64(1), dash.PlayersCount)
		require.Len(t, dash.TeamResults, 1)
		assert.Equal(t, hawks.ID, dash.TeamResults[0].TeamID)
	})

	t.Run("player sees their own slice", func(t *testing.T) {
		dash, err := svc.DashboardAggregates(Scope{Role: user.RolePlayer, PlayerID: p.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), dash.TeamsCount)
		assert.Equal(t, int64(1), dash.UpcomingEvents)
		require.Len(t, dash.TeamResults, 1)
		assert.Equal(t, hawks.ID, dash.TeamResults[0].TeamID)
	})

	t.Run("player without a team sees no team results", func(t *testing.T) {
		loner := createPlayer(t, db, "loner@club.test")
		dash, err := svc.DashboardAggregates(Scope{Role: user.RolePlayer, PlayerID: loner.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), dash.TeamsCount)
		assert.Empty(t, dash.TeamResults)
	})
}
