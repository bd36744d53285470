package search

import (
	"fmt"
	"strings"
	"time"
)

type CandidateStatus string

const (
	StatusActive               CandidateStatus = "active"
	StatusAutonomousEmployment CandidateStatus = "autonomousEmployment"
	StatusDeleted              CandidateStatus = "deleted"
	StatusDraft                CandidateStatus = "draft"
	StatusEmployed             CandidateStatus = "employed"
	StatusIncomplete           CandidateStatus = "incomplete"
	StatusIneligible           CandidateStatus = "ineligible"
	StatusPending              CandidateStatus = "pending"
	StatusUnreachable          CandidateStatus = "unreachable"
	StatusWithdrawn            CandidateStatus = "withdrawn"
)

var allStatuses = []CandidateStatus{
	StatusActive,
	StatusAutonomousEmployment,
	StatusDeleted,
	StatusDraft,
	StatusEmployed,
	StatusIncomplete,
	StatusIneligible,
	StatusPending,
	StatusUnreachable,
	StatusWithdrawn,
}

func (s CandidateStatus) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultStatuses are searched when a request names no statuses: every
// status except the ones that take a candidate out of circulation.
func DefaultStatuses() []CandidateStatus {
	out := make([]CandidateStatus, 0, len(allStatuses))
	for _, s := range allStatuses {
		switch s {
		case StatusAutonomousEmployment, StatusDeleted, StatusDraft, StatusEmployed, StatusIneligible, StatusWithdrawn:
			continue
		}
		out = append(out, s)
	}
	return out
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type UnhcrStatus string

const (
	UnhcrMandateRefugee          UnhcrStatus = "MandateRefugee"
	UnhcrRegisteredAsylum        UnhcrStatus = "RegisteredAsylum"
	UnhcrRegisteredStateless     UnhcrStatus = "RegisteredStateless"
	UnhcrRegisteredStatusUnknown UnhcrStatus = "RegisteredStatusUnknown"
	UnhcrNotRegistered           UnhcrStatus = "NotRegistered"
	UnhcrUnsure                  UnhcrStatus = "Unsure"
	UnhcrNoResponse              UnhcrStatus = "NoResponse"
)

func (s UnhcrStatus) Valid() bool {
	switch s {
	case UnhcrMandateRefugee, UnhcrRegisteredAsylum, UnhcrRegisteredStateless, UnhcrRegisteredStatusUnknown,
		UnhcrNotRegistered, UnhcrUnsure, UnhcrNoResponse:
		return true
	}
	return false
}

// SearchType qualifies id-set filters. Empty behaves like SearchOr.
type SearchType string

const (
	SearchOr  SearchType = "or"
	SearchAnd SearchType = "and"
	SearchNot SearchType = "not"
)

func (t SearchType) Valid() bool {
	switch t {
	case "", SearchOr, SearchAnd, SearchNot:
		return true
	}
	return false
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

func (d SortDirection) Valid() bool {
	switch d {
	case "", SortAsc, SortDesc:
		return true
	}
	return false
}

// Date is a calendar date without time of day, encoded as YYYY-MM-DD.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddYears(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(n, 0, 0))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
