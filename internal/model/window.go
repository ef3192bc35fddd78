package model

// RamadanWindow is the configured fasting month for one Gregorian year.
type RamadanWindow struct {
	Year       int    `json:"year" yaml:"year"`
	StartDate  string `json:"startDate" yaml:"start"`
	LengthDays int    `json:"lengthDays" yaml:"length_days"`
}

// RamadanDay is a materialised day of a window, numbered from 1.
type RamadanDay struct {
	ID        string `db:"id" json:"-"`
	Year      int    `db:"year" json:"year"`
	DateISO   string `db:"date_iso" json:"dateISO"`
	DayNumber int    `db:"day_number" json:"dayNumber"`
}

type SeedResult struct {
	OK         bool   `json:"ok"`
	Reason     string `json:"reason,omitempty"`
	Seeded     bool   `json:"seeded"`
	StartDate  string `json:"startDate,omitempty"`
	LengthDays int    `json:"lengthDays,omitempty"`
}
