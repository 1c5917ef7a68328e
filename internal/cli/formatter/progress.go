package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct, width = clampBar(pct, width)
	bar := blocks(pct, width)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderCompactBar renders only the blocks, for table cells.
func RenderCompactBar(pct float64, width int, dim bool) string {
	pct, width = clampBar(pct, width)
	bar := blocks(pct, width)
	if dim {
		return bar
	}
	return StyleGreen.Render(bar)
}

// Completion is the share of live items that are done. Archived items are
// not counted.
func Completion(items []*domain.Item) (done, total int) {
	for _, it := range items {
		switch it.Status {
		case domain.ItemArchived:
			continue
		case domain.ItemDone:
			done++
		}
		total++
	}
	return done, total
}

func clampBar(pct float64, width int) (float64, int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}
	return pct, width
}

func blocks(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}
