package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/domain"
)

// FormatCatalog lists activities grouped in catalog order.
func FormatCatalog(views []contract.ActivityView) string {
	if len(views) == 0 {
		return Dim("No activities.") + "\n"
	}
	headers := []string{"KIND", "ID", "NAME", "TIME", "ACCESS"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		access := StyleGreen.Render("free")
		switch {
		case v.Locked:
			access = StyleRed.Render("🔒 premium")
		case v.Premium:
			access = StylePurple.Render("premium")
		}
		rows = append(rows, []string{
			KindLabel(v.Kind),
			v.ReferenceID,
			v.Name,
			Clock(v.DurationMs),
			access,
		})
	}
	return RenderTable(headers, rows)
}

// FormatHistory renders history entries newest first as given.
func FormatHistory(views []contract.HistoryView, now time.Time) string {
	if len(views) == 0 {
		return Dim("No sessions yet.") + "\n"
	}
	headers := []string{"#", "KIND", "ACTIVITY", "WHEN", "TIME", "SCORE", "END"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		end := string(v.Reason)
		if v.Reason != domain.ReasonExplicit {
			end = StyleYellow.Render(end)
		}
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", v.Seq)),
			KindLabel(v.Kind),
			v.ReferenceID,
			HumanTimestampFrom(v.CompletedAt, now),
			FormatDuration(v.DurationMs),
			Score(v.Score),
			end,
		})
	}
	return RenderTable(headers, rows)
}

// FormatScore renders the outcome of one submission.
func FormatScore(res domain.ScoreResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", Bold("Score"), Score(res.Composite))
	if len(res.SubScores) > 1 {
		parts := make([]string, 0, len(res.SubScores))
		for _, s := range res.SubScores {
			parts = append(parts, fmt.Sprintf("%s %s", s.Name, Score(s.Value)))
		}
		fmt.Fprintf(&b, "  %s", Dim("(")+strings.Join(parts, Dim(", "))+Dim(")"))
	}
	b.WriteString("\n")
	for _, r := range res.Reasons {
		fmt.Fprintf(&b, "  %s %s\n", StyleGreen.Render(fmt.Sprintf("+%d", r.Delta)), Dim(r.Message))
	}
	if res.Feedback != "" {
		fmt.Fprintf(&b, "%s\n", StyleFg.Render(res.Feedback))
	}
	return b.String()
}

// FormatCompletion summarizes a finished session.
func FormatCompletion(v contract.HistoryView) string {
	lines := []string{
		fmt.Sprintf("%s  %s", KindLabel(v.Kind), Bold(v.ReferenceID)),
		fmt.Sprintf("Score     %s", Score(v.Score)),
		fmt.Sprintf("Time      %s", FormatDuration(v.DurationMs)),
	}
	if v.Reason != domain.ReasonExplicit {
		lines = append(lines, fmt.Sprintf("Ended     %s", StyleYellow.Render(string(v.Reason))))
	}
	if v.ThinkingImpact > 0 {
		lines = append(lines, fmt.Sprintf("Thinking  %s", StyleGreen.Render(fmt.Sprintf("+%d", v.ThinkingImpact))))
	}
	return RenderBox("session complete", strings.Join(lines, "\n"))
}

// FormatInterrupted lists checkpoints awaiting recovery.
func FormatInterrupted(cps []domain.Checkpoint, now time.Time) string {
	if len(cps) == 0 {
		return Dim("No interrupted sessions.") + "\n"
	}
	headers := []string{"ID", "KIND", "ACTIVITY", "LAST SEEN", "ELAPSED", "STATE"}
	rows := make([][]string, 0, len(cps))
	for _, cp := range cps {
		rows = append(rows, []string{
			TruncID(cp.SessionID),
			KindLabel(cp.Kind),
			cp.ReferenceID,
			HumanTimestampFrom(cp.UpdatedAt, now),
			fmt.Sprintf("%s / %s", Clock(cp.ElapsedMs), Clock(cp.TotalDurationMs)),
			StateBadge(cp.State),
		})
	}
	return RenderTable(headers, rows)
}
