package roster

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
		&team.Team{}, &TeamPlayer{}, &activity.Activity{},
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

func createPlayer(t *testing.T, db *gorm.DB, email string, status user.Status) *user.Player {
	t.Helper()
	u := &user.User{Email: email, Password: "x", Role: user.RolePlayer, Status: status}
	require.NoError(t, db.Create(u).Error)
	p := &user.Player{UserID: u.ID}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createTeam(t *testing.T, db *gorm.DB, name string, coachID *uint) *team.Team {
	t.Helper()
	tm := &team.Team{Name: name, CoachID: coachID}
	require.NoError(t, db.Create(tm).Error)
	return tm
}

func coachActor(c *user.Coach) Actor {
	return Actor{UserID: c.UserID, Role: user.RoleCoach, CoachID: c.ID}
}

func adminActor() Actor {
	return Actor{UserID: 999, Role: user.RoleAdmin}
}

func TestAssignPlayerToTeam(t *testing.T) {
	t.Run("coach assigns a free player", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coach := createCoach(t, db, "coach@club.test")
		tm := createTeam(t, db, "Hawks", &coach.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)

		m, err := svc.AssignPlayerToTeam(tm.ID, p.ID, coachActor(coach))
		require.NoError(t, err)
		assert.True(t, m.IsActive)
		assert.Equal(t, tm.ID, m.TeamID)
		assert.False(t, m.JoinedAt.IsZero())
	})

	t.Run("reassigning to the same team is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coach := createCoach(t, db, "coach@club.test")
		tm := createTeam(t, db, "Hawks", &coach.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)

		first, err := svc.AssignPlayerToTeam(tm.ID, p.ID, coachActor(coach))
		require.NoError(t, err)
		second, err := svc.AssignPlayerToTeam(tm.ID, p.ID, coachActor(coach))
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.Model(&TeamPlayer{}).Where("player_id = ?", p.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("coach gets a conflict when the player is active elsewhere", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coachA := createCoach(t, db, "a@club.test")
		coachB := createCoach(t, db, "b@club.test")
		teamX := createTeam(t, db, "Hawks", &coachA.ID)
		teamY := createTeam(t, db, "Owls", &coachB.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)

		_, err := svc.AssignPlayerToTeam(teamX.ID, p.ID, coachActor(coachA))
		require.NoError(t, err)

		_, err = svc.AssignPlayerToTeam(teamY.ID, p.ID, coachActor(coachB))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("admin override moves the player and closes the old membership", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coachA := createCoach(t, db, "a@club.test")
		coachB := createCoach(t, db, "b@club.test")
		teamX := createTeam(t, db, "Hawks", &coachA.ID)
		teamY := createTeam(t, db, "Owls", &coachB.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)

		_, err := svc.AssignPlayerToTeam(teamX.ID, p.ID, coachActor(coachA))
		require.NoError(t, err)

		m, err := svc.AssignPlayerToTeam(teamY.ID, p.ID, adminActor())
		require.NoError(t, err)
		assert.True(t, m.IsActive)
		assert.Equal(t, teamY.ID, m.TeamID)

		var old TeamPlayer
		require.NoError(t, db.Where("team_id = ? AND player_id = ?", teamX.ID, p.ID).First(&old).Error)
		assert.False(t, old.IsActive)
		assert.NotNil(t, old.LeaveDate)
	})

	t.Run("returning to a former team reuses the historical row", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coach := createCoach(t, db, "coach@club.test")
		tm := createTeam(t, db, "Hawks", &coach.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)
		actor := coachActor(coach)

		first, err := svc.AssignPlayerToTeam(tm.ID, p.ID, actor)
		require.NoError(t, err)
		_, err = svc.RemovePlayerFromTeam(tm.ID, p.ID, actor)
		require.NoError(t, err)
		again, err := svc.AssignPlayerToTeam(tm.ID, p.ID, actor)
		require.NoError(t, err)

		assert.Equal(t, first.ID, again.ID)
		assert.True(t, again.IsActive)
		assert.Nil(t, again.LeaveDate)

		var count int64
		db.Model(&TeamPlayer{}).Where("player_id = ?", p.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("assigning an inactive player reactivates the account", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coach := createCoach(t, db, "coach@club.test")
		tm := createTeam(t, db, "Hawks", &coach.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusInactive)

		_, err := svc.AssignPlayerToTeam(tm.ID, p.ID, coachActor(coach))
		require.NoError(t, err)

		var u user.User
		require.NoError(t, db.First(&u, p.UserID).Error)
		assert.Equal(t, user.StatusActive, u.Status)
	})

	t.Run("coach cannot touch a team they do not own", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		owner := createCoach(t, db, "owner@club.test")
		outsider := createCoach(t, db, "outsider@club.test")
		tm := createTeam(t, db, "Hawks", &owner.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)

		_, err := svc.AssignPlayerToTeam(tm.ID, p.ID, coachActor(outsider))
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("players cannot manage rosters", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coach := createCoach(t, db, "coach@club.test")
		tm := createTeam(t, db, "Hawks", &coach.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)

		_, err := svc.AssignPlayerToTeam(tm.ID, p.ID, Actor{UserID: p.UserID, Role: user.RolePlayer})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestSetMembershipActive(t *testing.T) {
	t.Run("coach cannot activate a player who is active elsewhere", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coachA := createCoach(t, db, "a@club.test")
		coachB := createCoach(t, db, "b@club.test")
		teamX := createTeam(t, db, "Hawks", &coachA.ID)
		teamY := createTeam(t, db, "Owls", &coachB.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)

		_, err := svc.AssignPlayerToTeam(teamY.ID, p.ID, coachActor(coachB))
		require.NoError(t, err)
		_, err = svc.AssignPlayerToTeam(teamX.ID, p.ID, adminActor())
		require.NoError(t, err)

		// Player now has an inactive row on teamY and an active one on teamX.
		_, err = svc.SetMembershipActive(teamY.ID, p.ID, true, coachActor(coachB))
		assert.ErrorIs(t, err, apperr.ErrConflict)

		m, err := svc.SetMembershipActive(teamY.ID, p.ID, true, adminActor())
		require.NoError(t, err)
		assert.True(t, m.IsActive)

		var other TeamPlayer
		require.NoError(t, db.Where("team_id = ? AND player_id = ?", teamX.ID, p.ID).First(&other).Error)
		assert.False(t, other.IsActive)
	})

	t.Run("deactivation stamps the leave date", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRosterService(db)
		coach := createCoach(t, db, "coach@club.test")
		tm := createTeam(t, db, "Hawks", &coach.ID)
		p := createPlayer(t, db, "p1@club.test", user.StatusActive)
		actor := coachActor(coach)

		_, err := svc.AssignPlayerToTeam(tm.ID, p.ID, actor)
		require.NoError(t, err)
		m, err := svc.SetMembershipActive(tm.ID, p.ID, false, actor)
		require.NoError(t, err)
		assert.False(t, m.IsActive)
		assert.NotNil(t, m.LeaveDate)
	})
}

func TestDeleteMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRosterService(db)
	coach := createCoach(t, db, "coach@club.test")
	tm := createTeam(t, db, "Hawks", &coach.ID)
	p := createPlayer(t, db, "p1@club.test", user.StatusActive)

	_, err := svc.AssignPlayerToTeam(tm.ID, p.ID, adminActor())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMembership(tm.ID, p.ID, adminActor()))

	var count int64
	db.Unscoped().Model(&TeamPlayer{}).Where("player_id = ?", p.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	err = svc.DeleteMembership(tm.ID, p.ID, adminActor())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListRosterAndEligiblePlayers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRosterService(db)
	coach := createCoach(t, db, "coach@club.test")
	tm := createTeam(t, db, "Hawks", &coach.ID)
	actor := coachActor(coach)

	p1 := createPlayer(t, db, "p1@club.test", user.StatusActive)
	p2 := createPlayer(t, db, "p2@club.test", user.StatusActive)
	p3 := createPlayer(t, db, "p3@club.test", user.StatusActive)

	_, err := svc.AssignPlayerToTeam(tm.ID, p1.ID, actor)
	require.NoError(t, err)
	_, err = svc.AssignPlayerToTeam(tm.ID, p2.ID, actor)
	require.NoError(t, err)
	_, err = svc.RemovePlayerFromTeam(tm.ID, p2.ID, actor)
	require.NoError(t, err)

	active, err := svc.ListRoster(tm.ID, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, p1.ID, active[0].PlayerID)

	all, err := svc.ListRoster(tm.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// p2 has history in the team, so only p3 is eligible.
	eligible, err := svc.ListEligiblePlayers(tm.ID, "")
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, p3.ID, eligible[0].ID)
}

func TestActiveMembershipIndexMapsToConflict(t *testing.T) {
	db := setupTestDB(t)
	coach := createCoach(t, db, "coach@club.test")
	tmA := createTeam(t, db, "Hawks", &coach.ID)
	tmB := createTeam(t, db, "Owls", &coach.ID)
	p := createPlayer(t, db, "p1@club.test", user.StatusActive)

	svc := NewRosterService(db)
	_, err := svc.AssignPlayerToTeam(tmA.ID, p.ID, coachActor(coach))
	require.NoError(t, err)

	// A racing assign that slipped past the in-transaction guard ends up
	// inserting a second active row; the partial index must reject it and
	// the error must surface as a conflict, not an internal failure.
	raw := db.Create(&TeamPlayer{TeamID: tmB.ID, PlayerID: p.ID, IsActive: true, JoinedAt: time.Now()}).Error
	require.Error(t, raw)
	require.ErrorIs(t, raw, gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, translateDuplicate(raw), apperr.ErrConflict)

	// An inactive row for the same player is still allowed.
	require.NoError(t, db.Create(&TeamPlayer{TeamID: tmB.ID, PlayerID: p.ID, IsActive: false, JoinedAt: time.Now()}).Error)
}
