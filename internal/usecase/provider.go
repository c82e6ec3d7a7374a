package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

// ExternalMatch is a provider match row before start time parsing.
type ExternalMatch struct {
	ID        string
	SeriesID  string
	Name      string
	Status    string
	StartTime string
}

// MatchProvider is the match data collaborator. Implementations apply their
// own bounded retry; any error they return is treated as transient.
type MatchProvider interface {
	FetchMatches(ctx context.Context) ([]ExternalMatch, error)
	FetchScorecard(ctx context.Context, matchID string) (scorecard.Scorecard, error)
}

func (m ExternalMatch) toDomain() match.Match {
	item := match.Match{
		ID:           strings.TrimSpace(m.ID),
		SeriesID:     strings.TrimSpace(m.SeriesID),
		Name:         strings.TrimSpace(m.Name),
		Status:       strings.TrimSpace(m.Status),
		StartTimeRaw: strings.TrimSpace(m.StartTime),
	}
	if parsed, ok := match.ParseStartTime(item.StartTimeRaw); ok {
		item.StartTime = parsed
	}
	return item
}
