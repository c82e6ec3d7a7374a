package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/match"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/team"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

// render writes v as indented JSON or through the table renderer, buffering
// the whole output so a failed render never leaves a partial table.
func render[T any](c *cli, v T, table func(io.Writer, T) error) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if c.output == outputJSON {
		raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, _ = buf.Write(raw)
		_ = buf.WriteByte('\n')
	} else if err := table(buf, v); err != nil {
		return err
	}

	_, err := c.out.Write(buf.B)
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func renderSyncResult(w io.Writer, result usecase.SyncResult) error {
	boundary := "none"
	if result.Boundary != nil {
		boundary = result.Boundary.UTC().Format(time.RFC3339)
	}
	mode := ""
	if result.DryRun {
		mode = " (dry run)"
	}
	if _, err := fmt.Fprintf(w, "processed %d match(es)%s, boundary %s\n", result.Processed, mode, boundary); err != nil {
		return err
	}

	if len(result.Matches) > 0 {
		tw := newTable(w)
		fmt.Fprintln(tw, "MATCH\tNAME\tSTART\tPLAYERS\tTEAMS")
		for _, item := range result.Matches {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", item.MatchID, item.Name, formatDate(item.StartTime), item.Players, item.Teams)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if result.Error != "" {
		_, err := fmt.Fprintf(w, "error: %s\n", result.Error)
		return err
	}
	return nil
}

func renderScoredPlayers(w io.Writer, players []usecase.ScoredPlayer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PLAYER\tROLE\tBAT\tBOWL\tFIELD\tBONUS\tTOTAL")
	for _, item := range players {
		b := item.Breakdown
		batting := b.Runs + b.FourBonus + b.SixBonus + b.DuckPenalty
		bowling := b.Wickets + b.LBWBowledBonus + b.MaidenBonus
		fielding := b.CatchPoints + b.CatchBonus + b.StumpingPoints + b.RunoutPoints
		bonus := b.MilestoneBonus + b.StrikeRateBonus + b.WicketHaulBonus + b.EconomyBonus
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			displayOr(item.DisplayName, item.PlayerID), item.Role, batting, bowling, fielding, bonus, b.Total)
	}
	return tw.Flush()
}

func renderLeaderboard(w io.Writer, rows []usecase.LeaderboardRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no teams")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tTEAM\tOWNER\tPOINTS\tUPDATED")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", row.Rank, row.TeamName, row.Owner, formatPoints(row.TotalPoints), formatDate(row.LastUpdated))
	}
	return tw.Flush()
}

func renderRankHistory(w io.Writer, days []usecase.RankHistoryDay) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "no processed matches")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tRANK\tTEAM\tPOINTS")
	for _, day := range days {
		for _, row := range day.Rows {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", day.Date, row.Rank, row.TeamName, formatPoints(row.TotalPoints))
		}
	}
	return tw.Flush()
}

func renderTeams(w io.Writer, teams []team.Team) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTEAM\tOWNER\tADJUSTMENT")
	for _, item := range teams {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, item.Name, item.Owner, formatPoints(item.ManualAdjustment))
	}
	return tw.Flush()
}

func renderTeamSummary(w io.Writer, summary usecase.TeamSummary) error {
	if _, err := fmt.Fprintf(w, "%s (%s) total %s\n", summary.Team.Name, summary.Team.Owner, formatPoints(summary.Total)); err != nil {
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "PLAYER\tROLE\tFLAGS\tMATCHES\tRAW\tMULT\tPOINTS")
	for _, item := range summary.Players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\tx%s\t%s\n",
			displayOr(item.DisplayName, item.PlayerID), item.Role, contributionFlags(item),
			item.Matches, item.RawPoints, formatPoints(item.Multiplier), formatPoints(item.Points))
	}
	fmt.Fprintf(tw, "manual adjustment\t\t\t\t\t\t%s\n", formatPoints(summary.ManualAdjustment))
	return tw.Flush()
}

func renderMatches(w io.Writer, items []match.Match) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "no processed matches")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "MATCH\tSERIES\tNAME\tSTATUS\tSTART")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.SeriesID, item.Name, item.Status, formatDate(item.StartTime))
	}
	return tw.Flush()
}

func renderMatchDetail(w io.Writer, detail usecase.MatchDetail) error {
	if _, err := fmt.Fprintf(w, "%s %s (%s)\n", detail.Match.ID, detail.Match.Name, formatDate(detail.Match.StartTime)); err != nil {
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "PLAYER\tPOINTS")
	for _, item := range detail.Players {
		fmt.Fprintf(tw, "%s\t%d\n", item.PlayerID, item.Points)
	}
	return tw.Flush()
}

func renderRosterEntry(w io.Writer, entry roster.Entry) error {
	flags := make([]string, 0, 3)
	if entry.IsCaptain {
		flags = append(flags, "captain")
	}
	if entry.IsViceCaptain {
		flags = append(flags, "vicecaptain")
	}
	if entry.IsBench {
		flags = append(flags, "bench")
	}
	if len(flags) == 0 {
		flags = append(flags, "-")
	}
	_, err := fmt.Fprintf(w, "team %d player %s: %s\n", entry.TeamID, entry.PlayerID, strings.Join(flags, ","))
	return err
}

func contributionFlags(item usecase.PlayerContribution) string {
	switch {
	case item.IsCaptain:
		return "C"
	case item.IsViceCaptain:
		return "VC"
	case item.IsBench:
		return "bench"
	default:
		return "-"
	}
}

func displayOr(name, fallback string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fallback
}
