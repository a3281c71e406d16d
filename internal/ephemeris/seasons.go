package ephemeris

import (
	"time"

	"github.com/couchcryptid/suntimes/internal/domain"
	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solstice"
)

// Seasons holds the equinox and solstice instants of one year. The instants
// are in dynamical time, which differs from UTC by about a minute; that is
// below the resolution the dates are used at.
type Seasons struct {
	MarchEquinox     time.Time
	JuneSolstice     time.Time
	SeptemberEquinox time.Time
	DecemberSolstice time.Time
}

// SeasonsOf returns the equinoxes and solstices of year.
func SeasonsOf(year int) Seasons {
	return Seasons{
		MarchEquinox:     julian.JDToTime(solstice.March(year)).UTC(),
		JuneSolstice:     julian.JDToTime(solstice.June(year)).UTC(),
		SeptemberEquinox: julian.JDToTime(solstice.September(year)).UTC(),
		DecemberSolstice: julian.JDToTime(solstice.December(year)).UTC(),
	}
}

// Dates returns the four events as UTC calendar dates, in calendar order.
func (s Seasons) Dates() [4]domain.CalendarDate {
	return [4]domain.CalendarDate{
		domain.DateOf(s.MarchEquinox),
		domain.DateOf(s.JuneSolstice),
		domain.DateOf(s.SeptemberEquinox),
		domain.DateOf(s.DecemberSolstice),
	}
}
