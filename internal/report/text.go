package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/suntimes/internal/domain"
)

// WriteText renders r for a terminal: a header line, then one line per day.
func WriteText(w io.Writer, r Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", r.Name, r.Location)
	fmt.Fprintf(&b, "Time zone: %s\n", r.TimeZone)
	for _, d := range r.Days {
		b.WriteString(dayLine(d))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func dayLine(d DayReport) string {
	switch d.Kind {
	case domain.AlwaysDay:
		return fmt.Sprintf("%s  sun above the horizon all day (noon %s)", d.Date, d.SolarNoon.Zoned)
	case domain.AlwaysNight:
		return fmt.Sprintf("%s  sun below the horizon all day (noon %s)", d.Date, d.SolarNoon.Zoned)
	default:
		return fmt.Sprintf("%s  sunrise %s (%s)  sunset %s (%s)  day length %s",
			d.Date, d.Sunrise.Zoned, d.Sunrise.UTC, d.Sunset.Zoned, d.Sunset.UTC, d.DayLength)
	}
}
