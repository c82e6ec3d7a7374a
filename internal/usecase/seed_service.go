package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/team"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"gopkg.in/yaml.v3"
)

// SeedFile is the league definition loaded by `cricketsync seed`.
type SeedFile struct {
	Players []SeedPlayer `yaml:"players" validate:"dive"`
	Teams   []SeedTeam   `yaml:"teams" validate:"dive"`
}

type SeedPlayer struct {
	Name string `yaml:"name" validate:"required,max=128"`
	Role string `yaml:"role" validate:"omitempty,max=32"`
}

type SeedTeam struct {
	Name             string           `yaml:"name" validate:"required,max=100"`
	Owner            string           `yaml:"owner" validate:"required,max=100"`
	ManualAdjustment float64          `yaml:"manualAdjustment"`
	Players          []SeedTeamMember `yaml:"players" validate:"dive"`
}

type SeedTeamMember struct {
	Name        string `yaml:"name" validate:"required"`
	Captain     bool   `yaml:"captain"`
	ViceCaptain bool   `yaml:"viceCaptain"`
	Bench       bool   `yaml:"bench"`
}

type SeedResult struct {
	Players       int `json:"players"`
	Teams         int `json:"teams"`
	RosterEntries int `json:"rosterEntries"`
}

type SeedService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	rosterRepo roster.Repository
	validate   *validator.Validate
	logger     *logging.Logger
}

func NewSeedService(teamRepo team.Repository, playerRepo player.Repository, rosterRepo roster.Repository, logger *logging.Logger) *SeedService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeedService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		rosterRepo: rosterRepo,
		validate:   validator.New(),
		logger:     logger,
	}
}

func ParseSeedFile(r io.Reader) (SeedFile, error) {
	var file SeedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return SeedFile{}, nil
		}
		return SeedFile{}, fmt.Errorf("%w: decode seed file: %v", ErrInvalidInput, err)
	}
	return file, nil
}

// Apply upserts players, teams (by owner) and roster entries. Re-applying the
// same file changes nothing.
func (s *SeedService) Apply(ctx context.Context, file SeedFile) (SeedResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeedService.Apply")
	defer span.End()

	if err := s.validate.StructCtx(ctx, file); err != nil {
		return SeedResult{}, fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}

	players := make([]player.Player, 0, len(file.Players))
	known := make(map[string]struct{}, len(file.Players))
	for _, item := range file.Players {
		role := scorecard.RoleBatter
		if strings.TrimSpace(item.Role) != "" {
			parsed, ok := scorecard.ParseRole(item.Role)
			if !ok {
				return SeedResult{}, fmt.Errorf("%w: player %q has unknown role %q", ErrInvalidInput, item.Name, item.Role)
			}
			role = parsed
		}
		p := player.New(strings.TrimSpace(item.Name), role)
		if _, dup := known[p.ID]; dup {
			return SeedResult{}, fmt.Errorf("%w: duplicate player %q", ErrInvalidInput, item.Name)
		}
		known[p.ID] = struct{}{}
		players = append(players, p)
	}

	for _, item := range file.Teams {
		if err := validateSeedTeam(item, known); err != nil {
			return SeedResult{}, err
		}
	}

	if len(players) > 0 {
		if err := s.playerRepo.Upsert(ctx, players...); err != nil {
			return SeedResult{}, fmt.Errorf("upsert players: %w", err)
		}
	}

	result := SeedResult{Players: len(players)}
	for _, item := range file.Teams {
		saved, err := s.teamRepo.UpsertByOwner(ctx, team.Team{
			Name:             strings.TrimSpace(item.Name),
			Owner:            strings.TrimSpace(item.Owner),
			ManualAdjustment: item.ManualAdjustment,
		})
		if err != nil {
			return result, fmt.Errorf("upsert team owner=%s: %w", item.Owner, err)
		}
		result.Teams++

		entries := make([]roster.Entry, 0, len(item.Players))
		for _, member := range item.Players {
			entries = append(entries, roster.Entry{
				TeamID:        saved.ID,
				PlayerID:      scorecard.PlayerKey(member.Name),
				IsCaptain:     member.Captain && !member.Bench,
				IsViceCaptain: member.ViceCaptain && !member.Bench,
				IsBench:       member.Bench,
			})
		}
		if len(entries) == 0 {
			continue
		}
		if err := s.rosterRepo.Save(ctx, entries...); err != nil {
			return result, fmt.Errorf("save roster team_id=%d: %w", saved.ID, err)
		}
		result.RosterEntries += len(entries)
	}

	s.logger.InfoContext(ctx, "seed applied", "players", result.Players, "teams", result.Teams, "roster_entries", result.RosterEntries)
	return result, nil
}

func validateSeedTeam(item SeedTeam, known map[string]struct{}) error {
	captains, vices := 0, 0
	seen := make(map[string]struct{}, len(item.Players))
	for _, member := range item.Players {
		key := scorecard.PlayerKey(member.Name)
		if _, ok := known[key]; !ok {
			return fmt.Errorf("%w: team %q lists unknown player %q", ErrInvalidInput, item.Name, member.Name)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: team %q lists player %q twice", ErrInvalidInput, item.Name, member.Name)
		}
		seen[key] = struct{}{}
		if member.Captain && member.ViceCaptain {
			return fmt.Errorf("%w: player %q cannot be captain and vice-captain", ErrInvalidInput, member.Name)
		}
		if member.Captain && !member.Bench {
			captains++
		}
		if member.ViceCaptain && !member.Bench {
			vices++
		}
	}
	if captains > 1 || vices > 1 {
		return fmt.Errorf("%w: team %q has more than one captain or vice-captain", ErrInvalidInput, item.Name)
	}
	return nil
}
