package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/progress"
)

const levelBarWidth = 20

var categoryLabels = map[string]string{
	domain.CategoryMentalClarity: "Mental clarity",
	domain.CategoryAITraining:    "AI training",
	domain.CategoryExercises:     "Exercises",
	domain.CategoryOverall:       "Overall",
}

// CategoryLabel is the display name of a readiness category.
func CategoryLabel(category string) string {
	if l, ok := categoryLabels[category]; ok {
		return l
	}
	return category
}

// FormatProgress renders the progress dashboard.
func FormatProgress(resp *contract.ProgressResponse, required int) string {
	var b strings.Builder

	b.WriteString(Header("streak"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Current  %s   Longest  %s\n",
		Bold(Plural(resp.Streak.CurrentDays, "day", "days")),
		Plural(resp.Streak.LongestDays, "day", "days"))
	if resp.Streak.LastActiveDay != nil {
		fmt.Fprintf(&b, "%s\n", Dim("Last active "+*resp.Streak.LastActiveDay))
	}
	b.WriteString("\n")

	b.WriteString(Header("readiness"))
	b.WriteString("\n")
	cats := make([]string, 0, len(resp.Readiness.Levels))
	for c := range resp.Readiness.Levels {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(&b, "%-15s %s\n", CategoryLabel(c), RenderLevel(resp.Readiness.Levels[c], required, levelBarWidth))
	}
	fmt.Fprintf(&b, "%-15s %s\n\n", CategoryLabel(domain.CategoryOverall), RenderLevel(resp.Readiness.Overall, required, levelBarWidth))

	if len(resp.Features) > 0 {
		b.WriteString(Header("features"))
		b.WriteString("\n")
		for _, f := range resp.Features {
			b.WriteString(FormatDecision(f.Feature, f.Decision))
		}
		b.WriteString("\n")
	}

	b.WriteString(Header("clarity"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Today %d   Week %d   Total %d   Avg score %s\n",
		resp.Clarity.TodaySessions, resp.Clarity.WeekSessions, resp.Clarity.TotalSessions, Score(resp.Clarity.AverageScore))
	b.WriteString(FormatRecommendation(resp.Recommendation))
	return b.String()
}

// FormatDecision renders one access check.
func FormatDecision(feature string, d progress.Decision) string {
	if d.Granted {
		return fmt.Sprintf("%s %s %s\n", StyleGreen.Render("✔"), feature, Dim(fmt.Sprintf("(%s %d)", CategoryLabel(d.Category), d.Level)))
	}
	return fmt.Sprintf("%s %s %s\n", StyleRed.Render("✖"), feature,
		Dim(fmt.Sprintf("(%s %d, %d more to unlock)", CategoryLabel(d.Category), d.Level, d.Remaining)))
}

// FormatRecommendation renders the suggested clarity reset.
func FormatRecommendation(r progress.Recommendation) string {
	marker := StyleBlue.Render("→")
	if r.Urgent {
		marker = StyleYellow.Render("!")
	}
	return fmt.Sprintf("%s Try %s  %s\n", marker, Bold(r.ReferenceID), Dim(r.Reason))
}
