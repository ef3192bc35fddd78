// Package calendar holds the maintained table of Ramadan windows.
//
// Window starts follow the lunar calendar and cannot be derived from the
// Gregorian date, so every supported year needs an explicit entry.
package calendar

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/waktunyapuasa/puasa/internal/dateiso"
	"github.com/waktunyapuasa/puasa/internal/model"
)

var ErrInvalidWindow = errors.New("invalid ramadan window")

// builtin is the table shipped with the binary.
var builtin = []model.RamadanWindow{
	{Year: 2026, StartDate: "2026-02-19", LengthDays: 29},
}

// Calendar is immutable after construction and safe for concurrent use.
type Calendar struct {
	windows map[int]model.RamadanWindow
}

// New builds a calendar from windows. Later entries for the same year win.
func New(windows ...model.RamadanWindow) (*Calendar, error) {
	c := &Calendar{windows: make(map[int]model.RamadanWindow, len(windows))}
	for _, w := range windows {
		err := validate(w)
		if err != nil {
			return nil, err
		}
		c.windows[w.Year] = w
	}
	return c, nil
}

// Default returns the built-in table.
func Default() *Calendar {
	c, err := New(builtin...)
	if err != nil {
		panic(err)
	}
	return c
}

type file struct {
	Windows []model.RamadanWindow `yaml:"windows"`
}

// Load returns the built-in table, extended and overridden by the YAML file
// at path when path is not empty.
//
//	windows:
//	  - year: 2027
//	    start: "2027-02-08"
//	    length_days: 30
func Load(path string) (*Calendar, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}

	var f file
	err = yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar file: %w", err)
	}

	seen := make(map[int]bool, len(f.Windows))
	for _, w := range f.Windows {
		if seen[w.Year] {
			return nil, fmt.Errorf("%w: year %d listed twice in %s", ErrInvalidWindow, w.Year, path)
		}
		seen[w.Year] = true
	}

	return New(append(append([]model.RamadanWindow{}, builtin...), f.Windows...)...)
}

func validate(w model.RamadanWindow) error {
	if w.LengthDays <= 0 {
		return fmt.Errorf("%w: year %d has length %d", ErrInvalidWindow, w.Year, w.LengthDays)
	}
	year, err := dateiso.Year(w.StartDate)
	if err != nil {
		return fmt.Errorf("%w: year %d: %v", ErrInvalidWindow, w.Year, err)
	}
	if year != w.Year {
		return fmt.Errorf("%w: start %s is not in year %d", ErrInvalidWindow, w.StartDate, w.Year)
	}
	return nil
}

// Lookup returns the window for year, if the year is supported.
func (c *Calendar) Lookup(year int) (model.RamadanWindow, bool) {
	w, ok := c.windows[year]
	return w, ok
}

// Windows lists every supported window ordered by year.
func (c *Calendar) Windows() []model.RamadanWindow {
	out := make([]model.RamadanWindow, 0, len(c.windows))
	for _, w := range c.windows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// EndDate is the last day inside the window.
func EndDate(w model.RamadanWindow) string {
	end, err := dateiso.AddDays(w.StartDate, w.LengthDays-1)
	if err != nil {
		return w.StartDate
	}
	return end
}

// Days lists every date of the window with its 1-based day number.
func Days(w model.RamadanWindow) []model.RamadanDay {
	days := make([]model.RamadanDay, 0, w.LengthDays)
	for i := 0; i < w.LengthDays; i++ {
		date, err := dateiso.AddDays(w.StartDate, i)
		if err != nil {
			break
		}
		days = append(days, model.RamadanDay{Year: w.Year, DateISO: date, DayNumber: i + 1})
	}
	return days
}
