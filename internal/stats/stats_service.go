package stats

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/courtsidehq/courtside/internal/apperr"
	"github.com/courtsidehq/courtside/internal/event"
	"github.com/courtsidehq/courtside/internal/match"
	"github.com/courtsidehq/courtside/internal/roster"
	"github.com/courtsidehq/courtside/internal/team"
	"github.com/courtsidehq/courtside/internal/user"
)

// OverallStats is a player's per-game aggregate over completed matches. Every
// figure guards the zero-denominator case and reports 0, never NaN.
type OverallStats struct {
	TotalGames       int     `json:"total_games"`
	PointsPerGame    float64 `json:"points_per_game"`
	ReboundsPerGame  float64 `json:"rebounds_per_game"`
	AssistsPerGame   float64 `json:"assists_per_game"`
	StealsPerGame    float64 `json:"steals_per_game"`
	BlocksPerGame    float64 `json:"blocks_per_game"`
	TurnoversPerGame float64 `json:"turnovers_per_game"`
	MinutesPerGame   float64 `json:"minutes_per_game"`

	FieldGoalPercentage  float64 `json:"field_goal_percentage"`
	ThreePointPercentage float64 `json:"three_point_percentage"`
	FreeThrowPercentage  float64 `json:"free_throw_percentage"`

	Efficiency float64 `json:"efficiency"`
}

// GameLogEntry is one completed match from the player's point of view.
// Opponent and result come from the team snapshot on the stat row, not the
// player's current membership.
type GameLogEntry struct {
	MatchID       uint      `json:"match_id"`
	Date          time.Time `json:"date"`
	Opponent      string    `json:"opponent"`
	Result        string    `json:"result"`
	Points        int       `json:"points"`
	Rebounds      int       `json:"rebounds"`
	Assists       int       `json:"assists"`
	Steals        int       `json:"steals"`
	Blocks        int       `json:"blocks"`
	Turnovers     int       `json:"turnovers"`
	MinutesPlayed int       `json:"minutes_played"`
	FieldGoals    string    `json:"field_goals"`
	ThreePointers string    `json:"three_pointers"`
	FreeThrows    string    `json:"free_throws"`
	Efficiency    int       `json:"efficiency"`
}

const (
	ResultWin  = "WIN"
	ResultLoss = "LOSS"
	ResultDraw = "DRAW"
)

// TeamStatRow is one team's derived stat line.
type TeamStatRow struct {
	TeamID        uint    `json:"team_id"`
	Name          string  `json:"name"`
	GamesPlayed   int     `json:"games_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	PointsFor     int     `json:"points_for"`
	PointsAgainst int     `json:"points_against"`
	WinPercentage float64 `json:"win_percentage"`
	PlayersCount  int64   `json:"players_count"`
}

// EventBucket is one (month, event type) cell of the dashboard histogram.
type EventBucket struct {
	Month     string `json:"month"`
	EventType string `json:"event_type"`
	Count     int    `json:"count"`
}

// Dashboard is the role-scoped read-only projection for landing pages.
type Dashboard struct {
	TeamsCount     int64         `json:"teams_count"`
	PlayersCount   int64         `json:"players_count"`
	CoachesCount   int64         `json:"coaches_count,omitempty"`
	UpcomingEvents int64         `json:"upcoming_events"`
	EventHistogram []EventBucket `json:"event_histogram"`
	TeamResults    []TeamStatRow `json:"team_results"`
}

// StatsService computes derived statistics. Nothing here is persisted; every
// call recomputes from the stat and match rows.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new stats service.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func ratio(sum int, games int) float64 {
	if games == 0 {
		return 0
	}
	return float64(sum) / float64(games)
}

func percentage(made, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return 100 * float64(made) / float64(attempted)
}

// PlayerOverallStats aggregates the player's stat rows across completed
// matches into per-game averages, shooting percentages and efficiency.
func (s *StatsService) PlayerOverallStats(playerID uint) (*OverallStats, error) {
	p, err := user.NewUserRepository(s.db).GetPlayerByID(playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("player")
	}

	rows, _, err := match.NewMatchRepository(s.db).ListCompletedStatsByPlayer(playerID)
	if err != nil {
		return nil, err
	}

	return computeOverall(rows), nil
}

func computeOverall(rows []match.PlayerStat) *OverallStats {
	games := map[uint]bool{}
	var points, rebounds, assists, steals, blocks, turnovers, minutes int
	var fgMade, fgAtt, tpMade, tpAtt, ftMade, ftAtt int
	var efficiency int

	for _, r := range rows {
		games[r.MatchID] = true
		points += r.Points
		rebounds += r.Rebounds
		assists += r.Assists
		steals += r.Steals
		blocks += r.Blocks
		turnovers += r.Turnovers
		minutes += r.MinutesPlayed
		fgMade += r.FieldGoalsMade
		fgAtt += r.FieldGoalsAttempted
		tpMade += r.ThreePointersMade
		tpAtt += r.ThreePointersAttempted
		ftMade += r.FreeThrowsMade
		ftAtt += r.FreeThrowsAttempted
		efficiency += r.Efficiency()
	}

	totalGames := len(games)
	return &OverallStats{
		TotalGames:           totalGames,
		PointsPerGame:        ratio(points, totalGames),
		ReboundsPerGame:      ratio(rebounds, totalGames),
		AssistsPerGame:       ratio(assists, totalGames),
		StealsPerGame:        ratio(steals, totalGames),
		BlocksPerGame:        ratio(blocks, totalGames),
		TurnoversPerGame:     ratio(turnovers, totalGames),
		MinutesPerGame:       ratio(minutes, totalGames),
		FieldGoalPercentage:  percentage(fgMade, fgAtt),
		ThreePointPercentage: percentage(tpMade, tpAtt),
		FreeThrowPercentage:  percentage(ftMade, ftAtt),
		Efficiency:           ratio(efficiency, totalGames),
	}
}

// PlayerGameLog returns one entry per completed match the player has a stat
// row for, oldest first.
func (s *StatsService) PlayerGameLog(playerID uint) ([]GameLogEntry, error) {
	p, err := user.NewUserRepository(s.db).GetPlayerByID(playerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("player")
	}

	rows, matches, err := match.NewMatchRepository(s.db).ListCompletedStatsByPlayer(playerID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]match.Match, len(matches))
	eventIDs := make([]uint, 0, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
		eventIDs = append(eventIDs, m.EventID)
	}

	// The match row only knows when it was written; the owning event carries
	// the scheduled tip-off, which is the date the game log reports.
	playedAt := make(map[uint]time.Time, len(eventIDs))
	if len(eventIDs) > 0 {
		var events []event.Event
		if err := s.db.Where("id IN ?", eventIDs).Find(&events).Error; err != nil {
			return nil, err
		}
		for _, ev := range events {
			playedAt[ev.ID] = ev.StartTime
		}
	}

	entries := make([]GameLogEntry, 0, len(rows))
	for _, r := range rows {
		m, ok := byID[r.MatchID]
		if !ok {
			continue
		}

		date := m.CreatedAt
		if at, ok := playedAt[m.EventID]; ok {
			date = at
		}

		myScore, oppScore := m.HomeScore, m.AwayScore
		if r.TeamID != m.HomeTeamID {
			myScore, oppScore = m.AwayScore, m.HomeScore
		}
		result := ResultDraw
		if myScore > oppScore {
			result = ResultWin
		} else if myScore < oppScore {
			result = ResultLoss
		}

		entries = append(entries, GameLogEntry{
			MatchID:       m.ID,
			Date:          date,
			Opponent:      m.OpponentOf(r.TeamID),
			Result:        result,
			Points:        r.Points,
			Rebounds:      r.Rebounds,
			Assists:       r.Assists,
			Steals:        r.Steals,
			Blocks:        r.Blocks,
			Turnovers:     r.Turnovers,
			MinutesPlayed: r.MinutesPlayed,
			FieldGoals:    fmt.Sprintf("%d/%d", r.FieldGoalsMade, r.FieldGoalsAttempted),
			ThreePointers: fmt.Sprintf("%d/%d", r.ThreePointersMade, r.ThreePointersAttempted),
			FreeThrows:    fmt.Sprintf("%d/%d", r.FreeThrowsMade, r.FreeThrowsAttempted),
			Efficiency:    r.Efficiency(),
		})
	}
	return entries, nil
}

// TeamStats derives one stat row per team from the stored counters; the raw
// match history is not recomputed.
func (s *StatsService) TeamStats(teamIDs []uint) ([]TeamStatRow, error) {
	var teams []team.Team
	query := s.db.Model(&team.Team{})
	if len(teamIDs) > 0 {
		query = query.Where("id IN ?", teamIDs)
	}
	if err := query.Order("name asc").Find(&teams).Error; err != nil {
		return nil, err
	}

	rosterRepo := roster.NewRosterRepository(s.db)
	rows := make([]TeamStatRow, 0, len(teams))
	for _, t := range teams {
		count, err := rosterRepo.CountActiveByTeam(t.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, TeamStatRow{
			TeamID:        t.ID,
			Name:          t.Name,
			GamesPlayed:   t.GamesPlayed,
			Wins:          t.Wins,
			Losses:        t.Losses,
			Draws:         t.Draws,
			PointsFor:     t.PointsFor,
			PointsAgainst: t.PointsAgainst,
			WinPercentage: percentage(t.Wins, t.GamesPlayed),
			PlayersCount:  count,
		})
	}
	return rows, nil
}

// Scope narrows a dashboard to the caller's slice of the club.
type Scope struct {
	Role     user.Role
	CoachID  uint
	PlayerID uint
}

// DashboardAggregates assembles the role-scoped dashboard.
func (s *StatsService) DashboardAggregates(scope Scope) (*Dashboard, error) {
	now := time.Now()
	horizon := now.AddDate(0, 6, 0)

	var teamIDs []uint
	filter := event.ListFilter{From: &now, To: &horizon}

	dash := &Dashboard{}

	switch scope.Role {
	case user.RoleAdmin:
		if err := s.db.Model(&team.Team{}).Count(&dash.TeamsCount).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&user.Player{}).Count(&dash.PlayersCount).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&user.Coach{}).Count(&dash.CoachesCount).Error; err != nil {
			return nil, err
		}
	case user.RoleCoach:
		teams, err := team.NewTeamRepository(s.db).GetTeamsByCoachID(scope.CoachID)
		if err != nil {
			return nil, err
		}
		for _, t := range teams {
			teamIDs = append(teamIDs, t.ID)
		}
		dash.TeamsCount = int64(len(teams))
		rosterRepo := roster.NewRosterRepository(s.db)
		for _, id := range teamIDs {
			count, err := rosterRepo.CountActiveByTeam(id)
			if err != nil {
				return nil, err
			}
			dash.PlayersCount += count
		}
		filter.TeamIDs = teamIDs
		if len(teamIDs) == 0 {
			// A coach with no teams sees an empty dashboard, not everything.
			dash.EventHistogram = []EventBucket{}
			dash.TeamResults = []TeamStatRow{}
			return dash, nil
		}
	case user.RolePlayer:
		m, err := roster.NewRosterRepository(s.db).GetActiveMembershipByPlayer(scope.PlayerID)
		if err != nil {
			return nil, err
		}
		filter.PlayerID = scope.PlayerID
		if m == nil {
			events, err := event.NewEventRepository(s.db).ListEvents(filter)
			if err != nil {
				return nil, err
			}
			dash.UpcomingEvents = int64(len(events))
			dash.EventHistogram = bucketEvents(events)
			dash.TeamResults = []TeamStatRow{}
			return dash, nil
		}
		dash.TeamsCount = 1
		teamIDs = []uint{m.TeamID}
	default:
		return nil, apperr.Forbidden("unknown dashboard scope")
	}

	events, err := event.NewEventRepository(s.db).ListEvents(filter)
	if err != nil {
		return nil, err
	}
	dash.UpcomingEvents = int64(len(events))
	dash.EventHistogram = bucketEvents(events)

	results, err := s.TeamStats(teamIDs)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []TeamStatRow{}
	}
	dash.TeamResults = results

	return dash, nil
}

func bucketEvents(events []event.Event) []EventBucket {
	type key struct {
		month string
		typ   string
	}
	counts := map[key]int{}
	for _, e := range events {
		k := key{month: e.StartTime.Format("2006-01"), typ: string(e.Type)}
		counts[k]++
	}

	buckets := make([]EventBucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, EventBucket{Month: k.month, EventType: k.typ, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Month != buckets[j].Month {
			return buckets[i].Month < buckets[j].Month
		}
		return buckets[i].EventType < buckets[j].EventType
	})
	return buckets
}
