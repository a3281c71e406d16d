// Package cities holds the table of named places the service and CLI accept
// in place of raw coordinates.
package cities

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/suntimes/internal/civiltime"
	"github.com/couchcryptid/suntimes/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrUnknownCity is returned by Lookup for names not in the table.
var ErrUnknownCity = errors.New("unknown city")

// City is a named location with its IANA time zone.
type City struct {
	Name      string  `yaml:"name" json:"name"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	TimeZone  string  `yaml:"timezone" json:"timezone"`
}

// Location returns the city's coordinates.
func (c City) Location() domain.Location {
	return domain.Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

func (c City) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("city name is required")
	}
	if err := c.Location().Validate(); err != nil {
		return fmt.Errorf("city %s: %w", c.Name, err)
	}
	if _, err := civiltime.LoadZone(c.TimeZone); err != nil {
		return fmt.Errorf("city %s: %w", c.Name, err)
	}
	return nil
}

// Table is an immutable, case-insensitive city index.
type Table struct {
	byKey map[string]City
	order []City
}

// New validates cities and builds a Table. Duplicate names (ignoring case)
// are rejected.
func New(cities []City) (*Table, error) {
	t := &Table{byKey: make(map[string]City, len(cities))}
	for _, c := range cities {
		if err := c.validate(); err != nil {
			return nil, err
		}
		k := key(c.Name)
		if _, dup := t.byKey[k]; dup {
			return nil, fmt.Errorf("duplicate city %q", c.Name)
		}
		t.byKey[k] = c
		t.order = append(t.order, c)
	}
	sort.Slice(t.order, func(i, j int) bool { return t.order[i].Name < t.order[j].Name })
	return t, nil
}

type file struct {
	Cities []City `yaml:"cities"`
}

// LoadFile reads a YAML document of the form
//
//	cities:
//	  - name: Reykjavik
//	    latitude: 64.1466
//	    longitude: -21.9426
//	    timezone: Atlantic/Reykjavik
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cities file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse cities file %s: %w", path, err)
	}
	if len(f.Cities) == 0 {
		return nil, fmt.Errorf("cities file %s: no cities", path)
	}
	return New(f.Cities)
}

// Lookup finds a city by name, ignoring case and surrounding space.
func (t *Table) Lookup(name string) (City, error) {
	c, ok := t.byKey[key(name)]
	if !ok {
		return City{}, fmt.Errorf("%w: %q", ErrUnknownCity, name)
	}
	return c, nil
}

// All returns the cities sorted by name.
func (t *Table) All() []City {
	out := make([]City, len(t.order))
	copy(out, t.order)
	return out
}

// Names returns the city names sorted.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	for i, c := range t.order {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of cities.
func (t *Table) Len() int { return len(t.order) }

// Format renders the table one city per line, sorted by name.
func (t *Table) Format() string {
	var b strings.Builder
	for _, c := range t.order {
		fmt.Fprintf(&b, "%s: %s (%s)\n", c.Name, c.Location(), c.TimeZone)
	}
	return b.String()
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
