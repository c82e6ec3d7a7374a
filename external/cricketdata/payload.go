package cricketdata

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

// flexString accepts both JSON strings and numbers; provider ids come as either.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := sonic.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = flexString(value)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("unsupported id literal %s", abbreviateBody(data))
	}
	*f = flexString(data)
	return nil
}

type matchItem struct {
	ID            flexString `json:"id"`
	SeriesID      flexString `json:"seriesId"`
	SeriesIDSnake flexString `json:"series_id"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	DateTime      string     `json:"date_time"`
	DateTimeGMT   string     `json:"dateTimeGMT"`
	Date          string     `json:"date"`
}

type matchListEnvelope struct {
	Data []matchItem `json:"data"`
}

type scorecardEnvelope struct {
	Data      *scorecard.Scorecard `json:"data"`
	Scorecard []scorecard.Innings  `json:"scorecard"`
}

func decodeMatchList(raw []byte) ([]matchItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []matchItem
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode match list: %w", err)
		}
		return items, nil
	}

	var envelope matchListEnvelope
	if err := sonic.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode match list: %w", err)
	}
	return envelope.Data, nil
}

// DecodeScorecard reads {"data":{"scorecard":[...]}} or a bare
// {"scorecard":[...]} document. Missing sections decode as empty.
func DecodeScorecard(raw []byte) (scorecard.Scorecard, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return scorecard.Scorecard{}, nil
	}

	var envelope scorecardEnvelope
	if err := sonic.Unmarshal(trimmed, &envelope); err != nil {
		return scorecard.Scorecard{}, fmt.Errorf("decode scorecard: %w", err)
	}
	if envelope.Data != nil && len(envelope.Data.Innings) > 0 {
		card := *envelope.Data
		card.MatchID = strings.TrimSpace(card.MatchID)
		return card, nil
	}
	return scorecard.Scorecard{Innings: envelope.Scorecard}, nil
}
