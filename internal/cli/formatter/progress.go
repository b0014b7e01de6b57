package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	markerBlock = "│"
)

// RenderLevel renders a readiness bar such as [████░░│░] 62/80. The marker
// sits at the required level; the bar turns green once the level reaches it.
func RenderLevel(level, required, width int) string {
	level = min(100, max(0, level))
	if width < 4 {
		width = 4
	}
	filled := level * width / 100
	mark := -1
	if required > 0 && required <= 100 {
		mark = min(width-1, required*width/100)
	}

	var bar strings.Builder
	for i := range width {
		switch {
		case i == mark && i >= filled:
			bar.WriteString(markerBlock)
		case i < filled:
			bar.WriteString(filledBlock)
		default:
			bar.WriteString(emptyBlock)
		}
	}

	style := StyleRed
	switch {
	case required > 0 && level >= required:
		style = StyleGreen
	case level >= 50:
		style = StyleYellow
	}
	label := fmt.Sprintf("%3d", level)
	if required > 0 {
		label = fmt.Sprintf("%3d/%d", level, required)
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar.String()), label)
}

// RenderCountdown renders the time left as a compact bar without brackets.
func RenderCountdown(remainingMs, totalMs int64, width int) string {
	if totalMs <= 0 || width < 2 {
		return ""
	}
	frac := float64(max(0, remainingMs)) / float64(totalMs)
	filled := min(width, int(frac*float64(width)+0.5))
	style := StyleGreen
	if frac < 0.2 {
		style = StyleRed
	} else if frac < 0.5 {
		style = StyleYellow
	}
	return style.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}
