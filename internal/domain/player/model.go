package player

import "github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"

// Player is keyed by the normalized name key used during aggregation.
type Player struct {
	ID          string
	DisplayName string
	Role        scorecard.Role
}

// New builds a player from a display name; unknown roles default to BAT.
func New(displayName string, role scorecard.Role) Player {
	if role == "" {
		role = scorecard.RoleBatter
	}
	return Player{
		ID:          scorecard.PlayerKey(displayName),
		DisplayName: displayName,
		Role:        role,
	}
}
