package memory

import (
	"sync"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/syncstate"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/team"
)

type rosterKey struct {
	teamID   int64
	playerID string
}

type playerPointsKey struct {
	matchID  string
	playerID string
}

type teamPointsKey struct {
	teamID  int64
	matchID string
}

// Store holds every table behind one lock so multi-table writes are atomic.
type Store struct {
	mu sync.RWMutex

	players      map[string]player.Player
	teams        map[int64]team.Team
	nextTeamID   int64
	roster       map[rosterKey]roster.Entry
	matches      map[string]match.Match
	playerPoints map[playerPointsKey]scoring.PlayerMatchPoints
	teamPoints   map[teamPointsKey]leaderboard.TeamMatchPoints
	board        map[int64]leaderboard.Entry
	watermark    syncstate.Watermark

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		players:      make(map[string]player.Player),
		teams:        make(map[int64]team.Team),
		roster:       make(map[rosterKey]roster.Entry),
		matches:      make(map[string]match.Match),
		playerPoints: make(map[playerPointsKey]scoring.PlayerMatchPoints),
		teamPoints:   make(map[teamPointsKey]leaderboard.TeamMatchPoints),
		board:        make(map[int64]leaderboard.Entry),
		now:          time.Now,
	}
}
