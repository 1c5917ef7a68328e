package timeline

import (
	"math"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

// floorEpsilon absorbs float error so that exact day multiples never floor
// to the previous day.
const floorEpsilon = 1e-9

// PixelOffset returns the horizontal offset of date relative to
// viewportStart: whole-day difference times the scale. Dates before the
// viewport start yield negative offsets.
func PixelOffset(date, viewportStart time.Time, pixelsPerDay float64) float64 {
	return float64(domain.DaysBetween(viewportStart, date)) * pixelsPerDay
}

// DateFromPixel is the inverse of PixelOffset. It floors px to the day
// boundary it falls in.
func DateFromPixel(px float64, viewportStart time.Time, pixelsPerDay float64) time.Time {
	if pixelsPerDay <= 0 {
		return domain.Day(viewportStart)
	}
	days := int(math.Floor(px/pixelsPerDay + floorEpsilon))
	return domain.AddDays(viewportStart, days)
}

// SpanWidth returns the rendered width of the inclusive range [start, end].
func SpanWidth(start, end time.Time, pixelsPerDay float64) float64 {
	return float64(domain.DaysBetween(start, end)+1) * pixelsPerDay
}
