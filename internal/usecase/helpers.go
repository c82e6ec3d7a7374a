package usecase

import (
	"strings"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// normalizePlayerID maps user input onto the aggregation key; blank stays
// blank so validation can reject it.
func normalizePlayerID(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return scorecard.PlayerKey(raw)
}
