package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidRequest   = errors.New("invalid search request")
	ErrUnknownSortField = errors.New("unknown sort field")
)

// Upper bounds for the integer filters rendered into date and count
// predicates.
const (
	AgeLimit             = 150
	YearsExperienceLimit = 100
)

// CandidateRequest is the set of filters a saved or ad-hoc candidate search
// carries. Nil pointers, empty strings and empty slices impose no constraint.
type CandidateRequest struct {
	SimpleQueryString string `json:"simpleQueryString,omitempty" yaml:"simpleQueryString,omitempty"`

	Statuses []CandidateStatus `json:"statuses,omitempty" yaml:"statuses,omitempty"`
	Gender   Gender            `json:"gender,omitempty" yaml:"gender,omitempty"`

	OccupationIDs []int64 `json:"occupationIds,omitempty" yaml:"occupationIds,omitempty"`
	MinYrs        *int    `json:"minYrs,omitempty" yaml:"minYrs,omitempty"`
	MaxYrs        *int    `json:"maxYrs,omitempty" yaml:"maxYrs,omitempty"`

	PartnerIDs []int64 `json:"partnerIds,omitempty" yaml:"partnerIds,omitempty"`

	NationalityIDs        []int64    `json:"nationalityIds,omitempty" yaml:"nationalityIds,omitempty"`
	NationalitySearchType SearchType `json:"nationalitySearchType,omitempty" yaml:"nationalitySearchType,omitempty"`
	CountryIDs            []int64    `json:"countryIds,omitempty" yaml:"countryIds,omitempty"`
	CountrySearchType     SearchType `json:"countrySearchType,omitempty" yaml:"countrySearchType,omitempty"`

	SurveyTypeIDs   []int64 `json:"surveyTypeIds,omitempty" yaml:"surveyTypeIds,omitempty"`
	ExclusionListID *int64  `json:"exclusionListId,omitempty" yaml:"exclusionListId,omitempty"`

	EnglishMinSpokenLevel  *int   `json:"englishMinSpokenLevel,omitempty" yaml:"englishMinSpokenLevel,omitempty"`
	EnglishMinWrittenLevel *int   `json:"englishMinWrittenLevel,omitempty" yaml:"englishMinWrittenLevel,omitempty"`
	OtherLanguageID        *int64 `json:"otherLanguageId,omitempty" yaml:"otherLanguageId,omitempty"`
	OtherMinSpokenLevel    *int   `json:"otherMinSpokenLevel,omitempty" yaml:"otherMinSpokenLevel,omitempty"`
	OtherMinWrittenLevel   *int   `json:"otherMinWrittenLevel,omitempty" yaml:"otherMinWrittenLevel,omitempty"`

	UnhcrStatuses []UnhcrStatus `json:"unhcrStatuses,omitempty" yaml:"unhcrStatuses,omitempty"`

	LastModifiedFrom *Date  `json:"lastModifiedFrom,omitempty" yaml:"lastModifiedFrom,omitempty"`
	LastModifiedTo   *Date  `json:"lastModifiedTo,omitempty" yaml:"lastModifiedTo,omitempty"`
	Timezone         string `json:"timezone,omitempty" yaml:"timezone,omitempty"`

	MinAge *int `json:"minAge,omitempty" yaml:"minAge,omitempty"`
	MaxAge *int `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`

	MinEducationLevel *int    `json:"minEducationLevel,omitempty" yaml:"minEducationLevel,omitempty"`
	EducationMajorIDs []int64 `json:"educationMajorIds,omitempty" yaml:"educationMajorIds,omitempty"`

	MiniIntakeCompleted *bool `json:"miniIntakeCompleted,omitempty" yaml:"miniIntakeCompleted,omitempty"`
	FullIntakeCompleted *bool `json:"fullIntakeCompleted,omitempty" yaml:"fullIntakeCompleted,omitempty"`

	RegoReferrerParam string `json:"regoReferrerParam,omitempty" yaml:"regoReferrerParam,omitempty"`

	ListAnyIDs        []int64    `json:"listAnyIds,omitempty" yaml:"listAnyIds,omitempty"`
	ListAnySearchType SearchType `json:"listAnySearchType,omitempty" yaml:"listAnySearchType,omitempty"`
	ListAllIDs        []int64    `json:"listAllIds,omitempty" yaml:"listAllIds,omitempty"`
	ListAllSearchType SearchType `json:"listAllSearchType,omitempty" yaml:"listAllSearchType,omitempty"`

	// Only an explicit false excludes candidates on the pending-terms list.
	IncludePendingTermsCandidates *bool `json:"includePendingTermsCandidates,omitempty" yaml:"includePendingTermsCandidates,omitempty"`

	SortFields    []string      `json:"sortFields,omitempty" yaml:"sortFields,omitempty"`
	SortDirection SortDirection `json:"sortDirection,omitempty" yaml:"sortDirection,omitempty"`

	PageNumber int `json:"pageNumber,omitempty" yaml:"pageNumber,omitempty"`
	PageSize   int `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
}

// Validate checks every field that ends up embedded in SQL text.
func (r CandidateRequest) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for _, s := range r.Statuses {
		if !s.Valid() {
			add("unknown status %q", s)
		}
	}
	if r.Gender != "" && !r.Gender.Valid() {
		add("unknown gender %q", r.Gender)
	}
	for _, s := range r.UnhcrStatuses {
		if !s.Valid() {
			add("unknown unhcr status %q", s)
		}
	}

	searchTypes := map[string]SearchType{
		"nationalitySearchType": r.NationalitySearchType,
		"countrySearchType":     r.CountrySearchType,
		"listAnySearchType":     r.ListAnySearchType,
		"listAllSearchType":     r.ListAllSearchType,
	}
	for _, name := range []string{"nationalitySearchType", "countrySearchType", "listAnySearchType", "listAllSearchType"} {
		if st := searchTypes[name]; !st.Valid() {
			add("unknown %s %q", name, st)
		}
	}

	idSets := []struct {
		name string
		ids  []int64
	}{
		{"occupationIds", r.OccupationIDs},
		{"partnerIds", r.PartnerIDs},
		{"nationalityIds", r.NationalityIDs},
		{"countryIds", r.CountryIDs},
		{"surveyTypeIds", r.SurveyTypeIDs},
		{"educationMajorIds", r.EducationMajorIDs},
		{"listAnyIds", r.ListAnyIDs},
		{"listAllIds", r.ListAllIDs},
	}
	for _, set := range idSets {
		for _, id := range set.ids {
			if id <= 0 {
				add("%s contains non-positive id %d", set.name, id)
				break
			}
		}
	}
	if r.ExclusionListID != nil && *r.ExclusionListID <= 0 {
		add("exclusionListId must be positive")
	}
	if r.OtherLanguageID != nil && *r.OtherLanguageID < 0 {
		add("otherLanguageId must not be negative")
	}

	nonNegative := []struct {
		name string
		v    *int
	}{
		{"minYrs", r.MinYrs},
		{"maxYrs", r.MaxYrs},
		{"englishMinSpokenLevel", r.EnglishMinSpokenLevel},
		{"englishMinWrittenLevel", r.EnglishMinWrittenLevel},
		{"otherMinSpokenLevel", r.OtherMinSpokenLevel},
		{"otherMinWrittenLevel", r.OtherMinWrittenLevel},
		{"minAge", r.MinAge},
		{"maxAge", r.MaxAge},
		{"minEducationLevel", r.MinEducationLevel},
	}
	for _, f := range nonNegative {
		if f.v != nil && *f.v < 0 {
			add("%s must not be negative", f.name)
		}
	}
	bounded := []struct {
		name string
		v    *int
		max  int
	}{
		{"minAge", r.MinAge, AgeLimit},
		{"maxAge", r.MaxAge, AgeLimit},
		{"minYrs", r.MinYrs, YearsExperienceLimit},
		{"maxYrs", r.MaxYrs, YearsExperienceLimit},
	}
	for _, f := range bounded {
		if f.v != nil && *f.v > f.max {
			add("%s must not exceed %d", f.name, f.max)
		}
	}
	if r.MinYrs != nil && r.MaxYrs != nil && *r.MinYrs > *r.MaxYrs {
		add("minYrs is greater than maxYrs")
	}
	if r.MinAge != nil && r.MaxAge != nil && *r.MinAge > *r.MaxAge {
		add("minAge is greater than maxAge")
	}
	if r.LastModifiedFrom != nil && r.LastModifiedTo != nil &&
		r.LastModifiedFrom.In(time.UTC).After(r.LastModifiedTo.In(time.UTC)) {
		add("lastModifiedFrom is after lastModifiedTo")
	}
	if tz := strings.TrimSpace(r.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			add("unknown timezone %q", tz)
		}
	}

	if !r.SortDirection.Valid() {
		add("unknown sort direction %q", r.SortDirection)
	}
	if r.PageNumber < 0 {
		add("pageNumber must not be negative")
	}
	if r.PageSize < 0 {
		add("pageSize must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}

	for _, f := range r.SortFields {
		if _, err := ResolveSort(f); err != nil {
			return err
		}
	}
	return nil
}
