package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/cricket-fantasy/external/cricketdata"
	"github.com/riskibarqy/cricket-fantasy/internal/app"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

type syncFlags struct {
	series string
	from   string
	dryRun bool
}

func (f syncFlags) input() (usecase.SyncInput, error) {
	input := usecase.SyncInput{SeriesID: strings.TrimSpace(f.series), DryRun: f.dryRun}
	if strings.TrimSpace(f.from) != "" {
		from, ok := match.ParseStartTime(f.from)
		if !ok {
			return usecase.SyncInput{}, fmt.Errorf("invalid --from %q: use YYYY-MM-DD or RFC3339", f.from)
		}
		input.From = &from
	}
	return input, nil
}

func syncCmd(c *cli) *cobra.Command {
	var flags syncFlags
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Process completed matches newer than the stored watermark",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.input()
			if err != nil {
				return err
			}
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				result, runErr := container.Sync.Run(ctx, input)
				if err := render(c, result, renderSyncResult); err != nil {
					return err
				}
				return runErr
			})
		},
	}
	cmd.Flags().StringVar(&flags.series, "series", "", "Only process matches of this series (defaults to SYNC_SERIES_ID)")
	cmd.Flags().StringVar(&flags.from, "from", "", "Reprocess from this time for one run; the override is not stored")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Fetch and score without writing anything")
	return cmd
}

func watchCmd(c *cli) *cobra.Command {
	var (
		flags    syncFlags
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run sync on an interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.input()
			if err != nil {
				return err
			}
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				every := interval
				if every <= 0 {
					every = container.Config.SyncInterval
				}
				return watch(ctx, container.Logger, every, func(ctx context.Context) error {
					result, runErr := container.Sync.Run(ctx, input)
					if err := render(c, result, renderSyncResult); err != nil {
						return err
					}
					return runErr
				})
			})
		},
	}
	cmd.Flags().StringVar(&flags.series, "series", "", "Only process matches of this series (defaults to SYNC_SERIES_ID)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Fetch and score without writing anything")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between runs (defaults to SYNC_INTERVAL)")
	return cmd
}

// watch runs fn immediately and then on every tick. Runs never overlap; a
// failed run is logged and the loop keeps going.
func watch(ctx context.Context, logger *logging.Logger, interval time.Duration, fn func(context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be > 0")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := fn(ctx); err != nil {
			logger.ErrorContext(ctx, "sync run failed", "error", err)
		}
		if ctx.Err() != nil {
			logger.Info("watch stopped")
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func scoreCmd(c *cli) *cobra.Command {
	var (
		file    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Normalize and score a scorecard document offline",
		Long:  "Reads a provider scorecard document (or - for stdin) and prints every player's breakdown. Players score with the default role.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(file)
			if err != nil {
				return err
			}
			card, err := cricketdata.DecodeScorecard(raw)
			if err != nil {
				return err
			}

			scorer := usecase.NewScoringService(nil, workers, logging.Default())
			scored, err := scorer.ScoreScorecard(cmd.Context(), card)
			if err != nil {
				return err
			}
			return render(c, scored, renderScoredPlayers)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Scorecard JSON file, - for stdin")
	cmd.Flags().IntVar(&workers, "workers", 4, "Scoring workers")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func seedCmd(c *cli) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load players, fantasy teams and rosters from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(file)
			if err != nil {
				return err
			}
			seedFile, err := usecase.ParseSeedFile(bytes.NewReader(raw))
			if err != nil {
				return err
			}
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				result, err := container.Seed.Apply(ctx, seedFile)
				if err != nil {
					return err
				}
				return render(c, result, func(w io.Writer, v usecase.SeedResult) error {
					_, err := fmt.Fprintf(w, "seeded %d players, %d teams, %d roster entries\n", v.Players, v.Teams, v.RosterEntries)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed YAML file, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func leaderboardCmd(c *cli) *cobra.Command {
	var recompute bool
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the league leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				if recompute {
					if _, err := container.Leaderboard.Recompute(ctx); err != nil {
						return err
					}
				}
				rows, err := container.Leaderboard.List(ctx)
				if err != nil {
					return err
				}
				return render(c, rows, renderLeaderboard)
			})
		},
	}
	cmd.Flags().BoolVar(&recompute, "recompute", false, "Recompute every total from stored match points first")
	return cmd
}

func ranksCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ranks",
		Short: "Show cumulative standings per match day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				days, err := container.Leaderboard.RankHistory(ctx)
				if err != nil {
					return err
				}
				return render(c, days, renderRankHistory)
			})
		},
	}
}

func teamCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Inspect fantasy teams",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List fantasy teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				teams, err := container.Roster.ListTeams(ctx)
				if err != nil {
					return err
				}
				return render(c, teams, renderTeams)
			})
		},
	})

	var teamID int64
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show per-player contributions for one team",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				result, err := container.Leaderboard.TeamSummary(ctx, teamID)
				if err != nil {
					return err
				}
				return render(c, result, renderTeamSummary)
			})
		},
	}
	summary.Flags().Int64Var(&teamID, "team", 0, "Fantasy team id")
	_ = summary.MarkFlagRequired("team")
	cmd.AddCommand(summary)

	return cmd
}

func matchesCmd(c *cli) *cobra.Command {
	var matchID string
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List processed matches, or one match's player points with --match",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				if strings.TrimSpace(matchID) != "" {
					detail, err := container.Matches.Detail(ctx, matchID)
					if err != nil {
						return err
					}
					return render(c, detail, renderMatchDetail)
				}
				items, err := container.Matches.List(ctx)
				if err != nil {
					return err
				}
				return render(c, items, renderMatches)
			})
		},
	}
	cmd.Flags().StringVar(&matchID, "match", "", "Match id")
	return cmd
}

func rosterCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Change fantasy team rosters",
	}
	cmd.AddCommand(rosterSetRoleCmd(c))
	cmd.AddCommand(rosterMembershipCmd(c, "add", "Add a player to a team"))
	cmd.AddCommand(rosterMembershipCmd(c, "remove", "Remove a player from a team"))
	cmd.AddCommand(rosterAdjustCmd(c))
	return cmd
}

func rosterSetRoleCmd(c *cli) *cobra.Command {
	var (
		input usecase.RoleUpdate
		unset bool
	)
	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Set captain, vicecaptain or bench on a roster entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Value = !unset
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				entry, err := container.Roster.SetRole(ctx, input)
				if err != nil {
					return err
				}
				return render(c, entry, renderRosterEntry)
			})
		},
	}
	cmd.Flags().Int64Var(&input.TeamID, "team", 0, "Fantasy team id")
	cmd.Flags().StringVar(&input.PlayerID, "player", "", "Player name or id")
	cmd.Flags().StringVar(&input.Role, "role", "", "captain, vicecaptain or bench")
	cmd.Flags().BoolVar(&unset, "unset", false, "Clear the role instead of setting it")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func rosterMembershipCmd(c *cli, use, short string) *cobra.Command {
	var input usecase.RosterMembership
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				if use == "remove" {
					if err := container.Roster.RemovePlayer(ctx, input); err != nil {
						return err
					}
					_, err := fmt.Fprintf(c.out, "removed %s from team %d\n", input.PlayerID, input.TeamID)
					return err
				}
				entry, err := container.Roster.AddPlayer(ctx, input)
				if err != nil {
					return err
				}
				return render(c, entry, renderRosterEntry)
			})
		},
	}
	cmd.Flags().Int64Var(&input.TeamID, "team", 0, "Fantasy team id")
	cmd.Flags().StringVar(&input.PlayerID, "player", "", "Player name or id")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

func rosterAdjustCmd(c *cli) *cobra.Command {
	var input usecase.ManualAdjustment
	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Set a team's manual points adjustment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withContainer(cmd, func(ctx context.Context, container *app.Container) error {
				if err := container.Roster.SetManualAdjustment(ctx, input); err != nil {
					return err
				}
				_, err := fmt.Fprintf(c.out, "team %d manual adjustment set to %s\n", input.TeamID, formatPoints(input.Points))
				return err
			})
		},
	}
	cmd.Flags().Int64Var(&input.TeamID, "team", 0, "Fantasy team id")
	cmd.Flags().Float64Var(&input.Points, "points", 0, "Signed adjustment added once to the team total")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("points")
	return cmd
}

func readInput(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
