package search

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2024, time.July, 15, 9, 30, 0, 0, time.UTC)

func newTestBuilder(cfg Config) *Builder {
	return NewBuilder(cfg, WithClock(func() time.Time { return fixedNow }))
}

func assertSQL(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sql mismatch (-want +got):\n%s", diff)
	}
}

func fetch(t *testing.T, b *Builder, req CandidateRequest, user *User, excluded []int64, ordered bool) string {
	t.Helper()
	got, err := b.FetchSQL(req, user, excluded, ordered)
	require.NoError(t, err)
	return got
}

func TestFetchSQL_EmptyRequest(t *testing.T) {
	b := newTestBuilder(Config{})

	assertSQL(t, "select distinct candidate.id from candidate", fetch(t, b, CandidateRequest{}, nil, nil, false))
	assertSQL(t, "select distinct candidate.id from candidate order by candidate.id DESC",
		fetch(t, b, CandidateRequest{}, nil, nil, true))
}

func TestFetchSQL_PendingTermsConfiguredButNotRequested(t *testing.T) {
	b := newTestBuilder(Config{PendingTermsListID: 123})

	assertSQL(t, "select distinct candidate.id from candidate", fetch(t, b, CandidateRequest{}, nil, nil, false))
	assertSQL(t, "select distinct candidate.id from candidate",
		fetch(t, b, CandidateRequest{IncludePendingTermsCandidates: ptr(true)}, nil, nil, false))
}

func TestFetchSQL_SortFields(t *testing.T) {
	b := newTestBuilder(Config{})

	tests := []struct {
		name string
		req  CandidateRequest
		want string
	}{
		{
			name: "candidate column",
			req:  CandidateRequest{SortFields: []string{"gender"}, SortDirection: SortAsc},
			want: "select distinct candidate.id,candidate.gender from candidate" +
				" order by candidate.gender ASC,candidate.id DESC",
		},
		{
			name: "default direction",
			req:  CandidateRequest{SortFields: []string{"updatedDate"}},
			want: "select distinct candidate.id,candidate.updated_date from candidate" +
				" order by candidate.updated_date DESC,candidate.id DESC",
		},
		{
			name: "user column",
			req:  CandidateRequest{SortFields: []string{"user.firstName"}, SortDirection: SortAsc},
			want: "select distinct candidate.id,users.first_name from candidate" +
				" left join users on candidate.user_id = users.id" +
				" order by users.first_name ASC,candidate.id DESC",
		},
		{
			name: "country name",
			req:  CandidateRequest{SortFields: []string{"country.name"}, SortDirection: SortAsc},
			want: "select distinct candidate.id,country.name from candidate" +
				" left join country on candidate.country_id = country.id" +
				" order by country.name ASC,candidate.id DESC",
		},
		{
			name: "partner abbreviation pulls in users",
			req:  CandidateRequest{SortFields: []string{"user.partner.abbreviation"}, SortDirection: SortAsc},
			want: "select distinct candidate.id,partner.abbreviation from candidate" +
				" left join users on candidate.user_id = users.id" +
				" left join partner on users.partner_id = partner.id" +
				" order by partner.abbreviation ASC,candidate.id DESC",
		},
		{
			name: "explicit id sort has no tiebreak",
			req:  CandidateRequest{SortFields: []string{"id"}, SortDirection: SortAsc},
			want: "select distinct candidate.id from candidate order by candidate.id ASC",
		},
		{
			name: "duplicate fields collapse",
			req:  CandidateRequest{SortFields: []string{"gender", "gender"}, SortDirection: SortAsc},
			want: "select distinct candidate.id,candidate.gender from candidate" +
				" order by candidate.gender ASC,candidate.id DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSQL(t, tt.want, fetch(t, b, tt.req, nil, nil, true))
		})
	}
}

func TestFetchSQL_SortIgnoredWhenUnordered(t *testing.T) {
	b := newTestBuilder(Config{})
	req := CandidateRequest{SortFields: []string{"user.firstName"}, SortDirection: SortAsc}

	assertSQL(t, "select distinct candidate.id from candidate", fetch(t, b, req, nil, nil, false))
}

func TestFetchSQL_FilterJoinsPrecedeSortJoins(t *testing.T) {
	b := newTestBuilder(Config{})

	req := CandidateRequest{
		PartnerIDs:    []int64{123},
		SortFields:    []string{"nationality.name"},
		SortDirection: SortAsc,
	}
	assertSQL(t, "select distinct candidate.id,nationality.name from candidate"+
		" left join users on candidate.user_id = users.id"+
		" left join country as nationality on candidate.nationality_id = nationality.id"+
		" where users.partner_id in (123)"+
		" order by nationality.name ASC,candidate.id DESC",
		fetch(t, b, req, nil, nil, true))

	req = CandidateRequest{
		PartnerIDs:    []int64{123},
		SortFields:    []string{"user.partner.abbreviation"},
		SortDirection: SortAsc,
	}
	assertSQL(t, "select distinct candidate.id,partner.abbreviation from candidate"+
		" left join users on candidate.user_id = users.id"+
		" left join partner on users.partner_id = partner.id"+
		" where users.partner_id in (123)"+
		" order by partner.abbreviation ASC,candidate.id DESC",
		fetch(t, b, req, nil, nil, true))
}

func TestFetchSQL_SinglePredicates(t *testing.T) {
	b := newTestBuilder(Config{EnglishLanguageID: 0})

	tests := []struct {
		name     string
		req      CandidateRequest
		excluded []int64
		user     *User
		want     string
	}{
		{
			name: "gender",
			req:  CandidateRequest{Gender: GenderMale},
			want: "select distinct candidate.id from candidate where candidate.gender = 'male'",
		},
		{
			name: "statuses",
			req:  CandidateRequest{Statuses: []CandidateStatus{StatusActive, StatusPending}},
			want: "select distinct candidate.id from candidate where candidate.status in ('active','pending')",
		},
		{
			name: "unhcr statuses",
			req:  CandidateRequest{UnhcrStatuses: []UnhcrStatus{UnhcrNoResponse, UnhcrMandateRefugee}},
			want: "select distinct candidate.id from candidate where candidate.unhcr_status in ('NoResponse','MandateRefugee')",
		},
		{
			name:     "excluded candidates",
			excluded: []int64{123, 456},
			want:     "select distinct candidate.id from candidate where candidate.id not in (123,456)",
		},
		{
			name: "education majors",
			req:  CandidateRequest{EducationMajorIDs: []int64{123}},
			want: "select distinct candidate.id from candidate" +
				" left join candidate_education on candidate.id = candidate_education.candidate_id" +
				" where candidate_education.major_id in (123)",
		},
		{
			name: "mini intake completed",
			req:  CandidateRequest{MiniIntakeCompleted: ptr(true)},
			want: "select distinct candidate.id from candidate where candidate.mini_intake_completed_date is not null",
		},
		{
			name: "mini intake not completed",
			req:  CandidateRequest{MiniIntakeCompleted: ptr(false)},
			want: "select distinct candidate.id from candidate where candidate.mini_intake_completed_date is null",
		},
		{
			name: "both intakes",
			req:  CandidateRequest{FullIntakeCompleted: ptr(false), MiniIntakeCompleted: ptr(true)},
			want: "select distinct candidate.id from candidate" +
				" where candidate.mini_intake_completed_date is not null and candidate.full_intake_completed_date is null",
		},
		{
			name: "nationality not in",
			req:  CandidateRequest{NationalityIDs: []int64{4, 5}, NationalitySearchType: SearchNot},
			want: "select distinct candidate.id from candidate where candidate.nationality_id not in (4,5)",
		},
		{
			name: "country in",
			req:  CandidateRequest{CountryIDs: []int64{7}, CountrySearchType: SearchOr},
			want: "select distinct candidate.id from candidate where candidate.country_id in (7)",
		},
		{
			name: "user source countries",
			user: &User{ID: 1, SourceCountryIDs: []int64{456, 123}},
			want: "select distinct candidate.id from candidate where candidate.country_id in (123,456)",
		},
		{
			name: "request countries override source countries",
			req:  CandidateRequest{CountryIDs: []int64{9}},
			user: &User{ID: 1, SourceCountryIDs: []int64{456, 123}},
			want: "select distinct candidate.id from candidate where candidate.country_id in (9)",
		},
		{
			name: "survey types",
			req:  CandidateRequest{SurveyTypeIDs: []int64{2, 3}},
			want: "select distinct candidate.id from candidate where candidate.survey_type_id in (2,3)",
		},
		{
			name: "referrer is lower-cased and escaped",
			req:  CandidateRequest{RegoReferrerParam: "O'Brien-FB"},
			want: "select distinct candidate.id from candidate where lower(candidate.rego_referrer_param) like 'o''brien-fb'",
		},
		{
			name: "simple query",
			req:  CandidateRequest{SimpleQueryString: `"civil engineer" + autocad`},
			want: "select distinct candidate.id from candidate" +
				" where candidate.text_search_vector @@ to_tsquery('english', 'civil <-> engineer & autocad')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSQL(t, tt.want, fetch(t, b, tt.req, tt.user, tt.excluded, false))
		})
	}
}

func TestFetchSQL_PartnerAndEducationLevel(t *testing.T) {
	b := newTestBuilder(Config{})
	req := CandidateRequest{PartnerIDs: []int64{123, 456}, MinEducationLevel: ptr(1)}

	assertSQL(t, "select distinct candidate.id from candidate"+
		" left join users on candidate.user_id = users.id"+
		" left join education_level on candidate.max_education_level_id = education_level.id"+
		" where users.partner_id in (123,456) and education_level.level >= 1",
		fetch(t, b, req, nil, nil, false))
}

func TestFetchSQL_Occupations(t *testing.T) {
	b := newTestBuilder(Config{})
	req := CandidateRequest{OccupationIDs: []int64{9426}, MinYrs: ptr(1), MaxYrs: ptr(5)}

	assertSQL(t, "select distinct candidate.id from candidate"+
		" left join candidate_occupation on candidate.id = candidate_occupation.candidate_id"+
		" where candidate_occupation.occupation_id in (9426)"+
		" and candidate_occupation.years_experience >= 1"+
		" and candidate_occupation.years_experience <= 5",
		fetch(t, b, req, nil, nil, false))

	// years of experience only qualify an occupation filter
	assertSQL(t, "select distinct candidate.id from candidate",
		fetch(t, b, CandidateRequest{MinYrs: ptr(1)}, nil, nil, false))
}

func TestFetchSQL_SavedLists(t *testing.T) {
	b := newTestBuilder(Config{})

	anyList := "candidate.id in (select candidate_id from candidate_saved_list where saved_list_id in (123,456))"
	assertSQL(t, "select distinct candidate.id from candidate where "+anyList,
		fetch(t, b, CandidateRequest{ListAnyIDs: []int64{123, 456}}, nil, nil, false))
	assertSQL(t, "select distinct candidate.id from candidate where not ("+anyList+")",
		fetch(t, b, CandidateRequest{ListAnyIDs: []int64{123, 456}, ListAnySearchType: SearchNot}, nil, nil, false))

	allLists := "candidate.id in (select candidate_id from candidate_saved_list where saved_list_id = 123)" +
		" and candidate.id in (select candidate_id from candidate_saved_list where saved_list_id = 456)"
	assertSQL(t, "select distinct candidate.id from candidate where "+allLists,
		fetch(t, b, CandidateRequest{ListAllIDs: []int64{123, 456}}, nil, nil, false))
	assertSQL(t, "select distinct candidate.id from candidate where not ("+allLists+")",
		fetch(t, b, CandidateRequest{ListAllIDs: []int64{123, 456}, ListAllSearchType: SearchNot}, nil, nil, false))
}

func TestFetchSQL_Languages(t *testing.T) {
	b := newTestBuilder(Config{EnglishLanguageID: 0, PendingTermsListID: 123})

	req := CandidateRequest{
		IncludePendingTermsCandidates: ptr(false),
		EnglishMinSpokenLevel:         ptr(20),
		EnglishMinWrittenLevel:        ptr(10),
		OtherLanguageID:               ptr(int64(344)),
		OtherMinSpokenLevel:           ptr(30),
		OtherMinWrittenLevel:          ptr(40),
	}

	want := "select distinct candidate.id from candidate where" +
		" candidate.id not in (select candidate_id from candidate_saved_list where saved_list_id = 123)" +
		" and exists (select 1 from candidate_language join language_level on language_level.id = spoken_level_id" +
		" where candidate_language.candidate_id = candidate.id and candidate_language.language_id = 0 and language_level.level >= 20)" +
		" and exists (select 1 from candidate_language join language_level on language_level.id = written_level_id" +
		" where candidate_language.candidate_id = candidate.id and candidate_language.language_id = 0 and language_level.level >= 10)" +
		" and exists (select 1 from candidate_language join language_level on language_level.id = spoken_level_id" +
		" where candidate_language.candidate_id = candidate.id and candidate_language.language_id = 344 and language_level.level >= 30)" +
		" and exists (select 1 from candidate_language join language_level on language_level.id = written_level_id" +
		" where candidate_language.candidate_id = candidate.id and candidate_language.language_id = 344 and language_level.level >= 40)"
	assertSQL(t, want, fetch(t, b, req, nil, nil, false))
}

func TestFetchSQL_OtherLanguageWithoutLevel(t *testing.T) {
	b := newTestBuilder(Config{})

	assertSQL(t, "select distinct candidate.id from candidate where exists (select 1 from candidate_language"+
		" where candidate_language.candidate_id = candidate.id and candidate_language.language_id = 344)",
		fetch(t, b, CandidateRequest{OtherLanguageID: ptr(int64(344))}, nil, nil, false))
}

func TestFetchSQL_LastModified(t *testing.T) {
	b := newTestBuilder(Config{})
	day := NewDate(2019, time.January, 1)

	assertSQL(t, "select distinct candidate.id from candidate where candidate.updated_date >= '2019-01-01T00:00Z'",
		fetch(t, b, CandidateRequest{LastModifiedFrom: &day}, nil, nil, false))

	assertSQL(t, "select distinct candidate.id from candidate where candidate.updated_date >= '2019-01-01T00:00+10:00'",
		fetch(t, b, CandidateRequest{LastModifiedFrom: &day, Timezone: "Australia/Brisbane"}, nil, nil, false))

	assertSQL(t, "select distinct candidate.id from candidate where candidate.updated_date <= '2019-01-01T23:59:59.999999999Z'",
		fetch(t, b, CandidateRequest{LastModifiedTo: &day}, nil, nil, false))
}

func TestFetchSQL_AgeRange(t *testing.T) {
	b := newTestBuilder(Config{})

	assertSQL(t, "select distinct candidate.id from candidate where (candidate.dob <= '2003-07-15' or candidate.dob is null)",
		fetch(t, b, CandidateRequest{MinAge: ptr(20)}, nil, nil, false))

	assertSQL(t, "select distinct candidate.id from candidate where (candidate.dob <= '1999-07-15' or candidate.dob is null)"+
		" and (candidate.dob > '1983-07-15' or candidate.dob is null)",
		fetch(t, b, CandidateRequest{MinAge: ptr(24), MaxAge: ptr(40)}, nil, nil, false))

	assertSQL(t, "select distinct candidate.id from candidate where (candidate.dob > '1993-07-15' or candidate.dob is null)",
		fetch(t, b, CandidateRequest{MaxAge: ptr(30)}, nil, nil, false))
}

func TestFetchSQL_AgeRangeRejectsOutOfBounds(t *testing.T) {
	b := newTestBuilder(Config{})
	for _, req := range []CandidateRequest{
		{MinAge: ptr(5000)},
		{MaxAge: ptr(math.MaxInt)},
	} {
		_, err := b.FetchSQL(req, nil, nil, false)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
}

func TestFetchSQL_LastModifiedAcrossDST(t *testing.T) {
	b := newTestBuilder(Config{})
	summer := NewDate(2024, time.July, 1)
	winter := NewDate(2024, time.January, 1)

	assertSQL(t, "select distinct candidate.id from candidate"+
		" where candidate.updated_date >= '2024-07-01T00:00+01:00'"+
		" and candidate.updated_date <= '2024-07-01T23:59:59.999999999+01:00'",
		fetch(t, b, CandidateRequest{LastModifiedFrom: &summer, LastModifiedTo: &summer, Timezone: "Europe/London"}, nil, nil, false))

	assertSQL(t, "select distinct candidate.id from candidate where candidate.updated_date >= '2024-01-01T00:00Z'",
		fetch(t, b, CandidateRequest{LastModifiedFrom: &winter, Timezone: "Europe/London"}, nil, nil, false))
}

func TestFetchSQL_MultiplePredicatesKeepOrder(t *testing.T) {
	b := newTestBuilder(Config{})
	req := CandidateRequest{
		Gender:   GenderMale,
		Statuses: []CandidateStatus{StatusActive, StatusPending},
	}

	assertSQL(t, "select distinct candidate.id from candidate"+
		" where candidate.status in ('active','pending') and candidate.gender = 'male'",
		fetch(t, b, req, nil, nil, false))
}

func TestFetchSQL_Deterministic(t *testing.T) {
	b := newTestBuilder(Config{PendingTermsListID: 9})
	req := CandidateRequest{
		Statuses:                      []CandidateStatus{StatusActive},
		OccupationIDs:                 []int64{1, 2},
		PartnerIDs:                    []int64{3},
		IncludePendingTermsCandidates: ptr(false),
		SortFields:                    []string{"user.partner.name", "country.name"},
	}
	user := &User{SourceCountryIDs: []int64{30, 10, 20}}

	first := fetch(t, b, req, user, []int64{5}, true)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, fetch(t, b, req, user, []int64{5}, true))
	}
}

func TestFetchSQL_UnknownSortField(t *testing.T) {
	b := newTestBuilder(Config{})

	_, err := b.FetchSQL(CandidateRequest{SortFields: []string{"user.password"}}, nil, nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSortField))
}

func TestFetchSQL_InvalidRequest(t *testing.T) {
	b := newTestBuilder(Config{})

	_, err := b.FetchSQL(CandidateRequest{Gender: "male' or 1=1 --"}, nil, nil, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestConstraintPredicate(t *testing.T) {
	b := newTestBuilder(Config{})

	got, err := b.ConstraintPredicate(CandidateRequest{Gender: GenderFemale, SortFields: []string{"gender"}}, nil, nil)
	require.NoError(t, err)
	assertSQL(t, "candidate.id in (select distinct candidate.id from candidate where candidate.gender = 'female')", got)
}

func TestFetchSQL_EveryJoinIsReachable(t *testing.T) {
	b := newTestBuilder(Config{})
	req := CandidateRequest{
		OccupationIDs:     []int64{1},
		PartnerIDs:        []int64{2},
		MinEducationLevel: ptr(1),
		EducationMajorIDs: []int64{3},
		SortFields:        []string{"user.partner.abbreviation", "nationality.name", "country.name"},
	}
	got := fetch(t, b, req, nil, nil, true)

	for tbl, clause := range joinClauses {
		assert.Equal(t, 1, strings.Count(got, " left join "+clause), string(tbl))
	}
}
