package spending

import (
	"strconv"
	"strings"
	"time"
)

const (
	minYear = 1970
	maxYear = 9999
)

// Period is one calendar month.
type Period struct {
	Month int
	Year  int
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return invalid("month must be between 1 and 12")
	}
	if p.Year < minYear || p.Year > maxYear {
		return invalid("year is out of range")
	}
	return nil
}

// Bounds returns the half-open interval [from, to) covering the period in loc.
func (p Period) Bounds(loc *time.Location) (time.Time, time.Time) {
	from := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// Contains reports whether t falls in the period when read in loc.
func (p Period) Contains(t time.Time, loc *time.Location) bool {
	lt := t.In(loc)
	return lt.Year() == p.Year && int(lt.Month()) == p.Month
}

// PeriodOf returns the period t falls in when read in loc.
func PeriodOf(t time.Time, loc *time.Location) Period {
	lt := t.In(loc)
	return Period{Month: int(lt.Month()), Year: lt.Year()}
}

// ParsePeriod parses required month and year query values.
func ParsePeriod(month, year string) (Period, error) {
	if strings.TrimSpace(month) == "" || strings.TrimSpace(year) == "" {
		return Period{}, invalid("month and year are required")
	}
	m, err := ParseMonth(month)
	if err != nil {
		return Period{}, err
	}
	y, err := ParseYear(year)
	if err != nil {
		return Period{}, err
	}
	return Period{Month: m, Year: y}, nil
}

// ParseMonth parses an optional month value; "" yields 0.
func ParseMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, invalid("month must be a number between 1 and 12")
	}
	return m, nil
}

// ParseYear parses an optional year value; "" yields 0.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < minYear || y > maxYear {
		return 0, invalid("year must be a valid number")
	}
	return y, nil
}
