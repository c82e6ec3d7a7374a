package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/player"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/team"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

type RoleUpdate struct {
	TeamID   int64  `validate:"required,gt=0"`
	PlayerID string `validate:"required"`
	Role     string `validate:"required,oneof=captain vicecaptain bench"`
	Value    bool
}

type RosterMembership struct {
	TeamID   int64  `validate:"required,gt=0"`
	PlayerID string `validate:"required"`
}

type ManualAdjustment struct {
	TeamID int64   `validate:"required,gt=0"`
	Points float64 `validate:"gte=-100000,lte=100000"`
}

type RosterService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	rosterRepo roster.Repository
	validate   *validator.Validate
	logger     *logging.Logger
}

func NewRosterService(teamRepo team.Repository, playerRepo player.Repository, rosterRepo roster.Repository, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		rosterRepo: rosterRepo,
		validate:   validator.New(),
		logger:     logger,
	}
}

// SetRole applies one flag change and writes the entry together with any
// captain or vice-captain it displaces.
func (s *RosterService) SetRole(ctx context.Context, input RoleUpdate) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetRole")
	defer span.End()

	input.PlayerID = normalizePlayerID(input.PlayerID)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if err := s.validateRequest(ctx, input); err != nil {
		return roster.Entry{}, err
	}

	current, ok, err := s.rosterRepo.Get(ctx, input.TeamID, input.PlayerID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get roster entry: %w", err)
	}
	if !ok {
		return roster.Entry{}, fmt.Errorf("%w: player %q is not on team id=%d", ErrNotFound, input.PlayerID, input.TeamID)
	}

	flag := roster.Flag(input.Role)
	updated, err := roster.ApplyRoleUpdate(current, flag, input.Value)
	if err != nil {
		if errors.Is(err, roster.ErrUnknownFlag) {
			return roster.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return roster.Entry{}, err
	}

	teamEntries, err := s.rosterRepo.ListByTeam(ctx, input.TeamID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("list roster entries: %w", err)
	}
	writes := append([]roster.Entry{updated}, roster.Demotions(teamEntries, updated, flag)...)
	if err := s.rosterRepo.Save(ctx, writes...); err != nil {
		return roster.Entry{}, fmt.Errorf("save roster entries: %w", err)
	}

	s.logger.InfoContext(ctx, "roster role updated",
		"team_id", input.TeamID,
		"player_id", input.PlayerID,
		"role", input.Role,
		"value", input.Value,
		"demoted", len(writes)-1,
	)
	return updated, nil
}

// AddPlayer puts a registered player on a team as a regular member.
// Adding an existing member keeps its flags.
func (s *RosterService) AddPlayer(ctx context.Context, input RosterMembership) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer")
	defer span.End()

	input.PlayerID = normalizePlayerID(input.PlayerID)
	if err := s.validateRequest(ctx, input); err != nil {
		return roster.Entry{}, err
	}
	if err := s.ensureTeam(ctx, input.TeamID); err != nil {
		return roster.Entry{}, err
	}

	players, err := s.playerRepo.ListByIDs(ctx, []string{input.PlayerID})
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get player: %w", err)
	}
	if len(players) == 0 {
		return roster.Entry{}, fmt.Errorf("%w: player %q", ErrNotFound, input.PlayerID)
	}

	existing, ok, err := s.rosterRepo.Get(ctx, input.TeamID, input.PlayerID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get roster entry: %w", err)
	}
	if ok {
		return existing, nil
	}

	entry := roster.Entry{TeamID: input.TeamID, PlayerID: input.PlayerID}
	if err := s.rosterRepo.Save(ctx, entry); err != nil {
		return roster.Entry{}, fmt.Errorf("save roster entry: %w", err)
	}
	return entry, nil
}

func (s *RosterService) RemovePlayer(ctx context.Context, input RosterMembership) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemovePlayer")
	defer span.End()

	input.PlayerID = normalizePlayerID(input.PlayerID)
	if err := s.validateRequest(ctx, input); err != nil {
		return err
	}

	_, ok, err := s.rosterRepo.Get(ctx, input.TeamID, input.PlayerID)
	if err != nil {
		return fmt.Errorf("get roster entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: player %q is not on team id=%d", ErrNotFound, input.PlayerID, input.TeamID)
	}
	if err := s.rosterRepo.Delete(ctx, input.TeamID, input.PlayerID); err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}
	return nil
}

// SetManualAdjustment replaces the team's one-off correction. The leaderboard
// picks it up on its next recompute.
func (s *RosterService) SetManualAdjustment(ctx context.Context, input ManualAdjustment) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetManualAdjustment")
	defer span.End()

	if err := s.validateRequest(ctx, input); err != nil {
		return err
	}
	if err := s.ensureTeam(ctx, input.TeamID); err != nil {
		return err
	}
	if err := s.teamRepo.SetManualAdjustment(ctx, input.TeamID, input.Points); err != nil {
		return fmt.Errorf("set manual adjustment: %w", err)
	}
	return nil
}

func (s *RosterService) ListTeams(ctx context.Context) ([]team.Team, error) {
	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *RosterService) ensureTeam(ctx context.Context, teamID int64) error {
	_, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: team id=%d", ErrNotFound, teamID)
	}
	return nil
}

func (s *RosterService) validateRequest(ctx context.Context, payload any) error {
	if err := s.validate.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}
	return nil
}
