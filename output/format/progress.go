package format

import (
	"fmt"
	"math"
	"strings"
)

// Widest the progress bar will ever be, regardless of terminal width.
const progressBarWidth = 40

const (
	barFilled   = "█"
	barUnfilled = "░"
)

// RenderTime renders the elapsed-time line and, while a run is still inside
// its estimate, a proportional progress bar on a second line.
//
// The runtime value is highlighted once it exceeds the estimate by at least a
// second. The bar is drawn only when the estimate is over 2 seconds, the run
// is still under it, and there is room for at least 2 cells; it is capped at
// 40 cells. estimated == 0 means no estimate; width <= 0 means no bar.
func RenderTime(runTime float64, estimated, width int, style Styler) string {
	if style == nil {
		style = PlainStyler
	}

	rendered := formatSeconds(runTime)
	if estimated > 0 && runTime >= float64(estimated)+1 {
		rendered = style(StyleWarn, rendered)
	}
	line := style(StyleBold, labelTime) + rendered
	if estimated > 0 && runTime < float64(estimated) {
		line += fmt.Sprintf(", estimated %ds", estimated)
	}

	if estimated > 2 && runTime < float64(estimated) && width > 0 {
		barWidth := progressBarWidth
		if width < barWidth {
			barWidth = width
		}
		filled := int(math.Floor(runTime / float64(estimated) * float64(barWidth)))
		if filled > barWidth {
			filled = barWidth
		}
		if filled < 0 {
			filled = 0
		}
		if barWidth >= 2 {
			line += "\n" +
				style(StyleFill, strings.Repeat(barFilled, filled)) +
				style(StyleTrack, strings.Repeat(barUnfilled, barWidth-filled))
		}
	}

	return line
}
