package stats

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-catalog/internal/search"

	"github.com/jmoiron/sqlx"
)

type Kind string

const (
	KindGender                 Kind = "gender"
	KindRegistrations          Kind = "registrations"
	KindRegistrationOccupation Kind = "registrationOccupations"
	KindBirthYears             Kind = "birthYears"
	KindLinkedInExists         Kind = "linkedInExists"
	KindLinkedInByDate         Kind = "linkedInByDate"
	KindUnhcrRegistered        Kind = "unhcrRegistered"
	KindUnhcrStatus            Kind = "unhcrStatus"
	KindNationality            Kind = "nationality"
	KindSourceCountry          Kind = "sourceCountry"
	KindStatus                 Kind = "status"
	KindOccupation             Kind = "occupation"
	KindMostCommonOccupation   Kind = "mostCommonOccupation"
	KindMaxEducation           Kind = "maxEducation"
	KindLanguage               Kind = "language"
	KindReferrer               Kind = "referrer"
	KindSurvey                 Kind = "survey"
	KindSpokenLanguageLevel    Kind = "spokenLanguageLevel"
)

var ErrUnknownKind = errors.New("unknown stat kind")

// Filter scopes a stat to a registration window and, optionally, a set of
// candidates. Candidates are chosen either by explicit ids (ScopedToIDs) or
// by a predicate on candidate.id produced by the search builder.
type Filter struct {
	DateFrom            search.Date
	DateTo              search.Date
	SourceCountryIDs    []int64
	CandidateIDs        []int64
	ScopedToIDs         bool
	ConstraintPredicate string
}

// Query names one stat computation. Gender, Country and Language narrow
// the stats that support them and are ignored by the rest.
type Query struct {
	Kind     Kind
	Gender   search.Gender
	Country  string
	Language string
	Filter   Filter
}

type template struct {
	selectSQL string
	where     []string
	groupBy   string
	gender    bool
	country   bool
	language  bool
	// counting applies the active, non-draft, non-test candidate filter
	counting bool
	limit    int
}

const (
	fromCandidate = "from candidate left join users on candidate.user_id = users.id"
	fromUsers     = "from users left join candidate on users.id = candidate.user_id"
	byCountDesc   = "group by label order by people_count desc"
	byLabelAsc    = "group by label order by label asc"
)

var templates = map[Kind]template{
	KindGender: {
		selectSQL: "select candidate.gender as label, count(distinct candidate.id) as people_count " + fromCandidate,
		groupBy:   byCountDesc,
		counting:  true,
	},
	KindRegistrations: {
		selectSQL: "select cast(date(users.created_date) as text) as label, count(distinct users.id) as people_count " + fromUsers,
		groupBy:   byLabelAsc,
	},
	KindRegistrationOccupation: {
		selectSQL: "select occupation.name as label, count(distinct users.id) as people_count " + fromUsers +
			" left join candidate_occupation on candidate.id = candidate_occupation.candidate_id" +
			" left join occupation on candidate_occupation.occupation_id = occupation.id",
		groupBy: byCountDesc,
		limit:   15,
	},
	KindBirthYears: {
		selectSQL: "select cast(cast(extract(year from candidate.dob) as bigint) as text) as label," +
			" count(distinct candidate.id) as people_count " + fromCandidate,
		where:    []string{"candidate.dob is not null", "extract(year from candidate.dob) > 1940"},
		groupBy:  byLabelAsc,
		gender:   true,
		counting: true,
	},
	KindLinkedInExists: {
		selectSQL: "select case when candidate.linked_in_link is not null then 'Has link' else 'No link' end as label," +
			" count(distinct candidate.id) as people_count " + fromCandidate,
		groupBy:  byCountDesc,
		counting: true,
	},
	KindLinkedInByDate: {
		selectSQL: "select cast(date(users.created_date) as text) as label, count(distinct users.id) as people_count " + fromUsers,
		where:     []string{"candidate.linked_in_link is not null"},
		groupBy:   byLabelAsc,
		counting:  true,
	},
	KindUnhcrRegistered: {
		selectSQL: "select case" +
			" when candidate.unhcr_status = 'NotRegistered' then 'No'" +
			" when candidate.unhcr_status in ('RegisteredAsylum','MandateRefugee','RegisteredStateless','RegisteredStatusUnknown') then 'Yes'" +
			" when candidate.unhcr_status = 'Unsure' then 'Unsure'" +
			" else 'NoResponse' end as label," +
			" count(distinct candidate.id) as people_count " + fromCandidate,
		groupBy:  byCountDesc,
		counting: true,
	},
	KindUnhcrStatus: {
		selectSQL: "select candidate.unhcr_status as label, count(distinct candidate.id) as people_count " + fromCandidate,
		where:     []string{"candidate.unhcr_status is not null"},
		groupBy:   byCountDesc,
		counting:  true,
	},
	KindNationality: {
		selectSQL: "select nationality.name as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join country as nationality on candidate.nationality_id = nationality.id" +
			" left join country on candidate.country_id = country.id",
		groupBy:  byCountDesc,
		gender:   true,
		country:  true,
		counting: true,
		limit:    15,
	},
	KindSourceCountry: {
		selectSQL: "select country.name as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join country on candidate.country_id = country.id",
		groupBy:  byCountDesc,
		gender:   true,
		counting: true,
		limit:    15,
	},
	KindStatus: {
		selectSQL: "select candidate.status as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join country on candidate.country_id = country.id",
		groupBy:  byCountDesc,
		gender:   true,
		country:  true,
		counting: true,
	},
	KindOccupation: {
		selectSQL: "select occupation.name as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join candidate_occupation on candidate.id = candidate_occupation.candidate_id" +
			" left join occupation on candidate_occupation.occupation_id = occupation.id",
		groupBy:  byCountDesc,
		gender:   true,
		counting: true,
	},
	KindMostCommonOccupation: {
		selectSQL: "select occupation.name as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join candidate_occupation on candidate.id = candidate_occupation.candidate_id" +
			" left join occupation on candidate_occupation.occupation_id = occupation.id",
		where:    []string{"lower(occupation.name) not in ('undefined', 'unknown')"},
		groupBy:  byCountDesc,
		gender:   true,
		counting: true,
		limit:    15,
	},
	KindMaxEducation: {
		selectSQL: "select case when candidate.max_education_level_id is null then 'Unknown' else education_level.name end as label," +
			" count(distinct candidate.id) as people_count " + fromCandidate +
			" left join education_level on candidate.max_education_level_id = education_level.id",
		groupBy:  byCountDesc,
		gender:   true,
		counting: true,
	},
	KindLanguage: {
		selectSQL: "select language.name as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join candidate_language on candidate.id = candidate_language.candidate_id" +
			" left join language on candidate_language.language_id = language.id",
		groupBy:  byCountDesc,
		gender:   true,
		counting: true,
		limit:    15,
	},
	KindReferrer: {
		selectSQL: "select candidate.rego_referrer_param as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join country on candidate.country_id = country.id",
		where:    []string{"candidate.rego_referrer_param is not null"},
		groupBy:  byCountDesc,
		gender:   true,
		country:  true,
		counting: true,
	},
	KindSurvey: {
		selectSQL: "select survey_type.name as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join survey_type on candidate.survey_type_id = survey_type.id" +
			" left join country on candidate.country_id = country.id",
		groupBy:  byCountDesc,
		gender:   true,
		country:  true,
		counting: true,
	},
	KindSpokenLanguageLevel: {
		selectSQL: "select spoken_level.name as label, count(distinct candidate.id) as people_count " + fromCandidate +
			" left join candidate_language on candidate.id = candidate_language.candidate_id" +
			" left join language on candidate_language.language_id = language.id" +
			" left join language_level as spoken_level on candidate_language.spoken_level_id = spoken_level.id",
		groupBy:  byCountDesc,
		gender:   true,
		language: true,
		counting: true,
	},
}

// constraintToken marks where the literal constraint predicate goes. The
// predicate is spliced in after parameter compilation so that colons and
// question marks inside its literals are never read as bind markers.
const constraintToken = "/*constraint*/"

const testCandidatesCondition = "candidate.id not in (select candidate_id from candidate_saved_list" +
	" where saved_list_id in (select id from saved_list where name = 'TestCandidates' and global = true))"

// standardConstraints returns the conditions every stat shares.
func standardConstraints(f Filter, counting bool) []string {
	out := []string{"users.created_date >= :dateFrom", "users.created_date < :dateTo"}
	if counting {
		out = append(out, "users.status = 'active'", "candidate.status != 'draft'", testCandidatesCondition)
	}
	if len(f.SourceCountryIDs) > 0 {
		out = append(out, "candidate.country_id in (:sourceCountryIds)")
	}
	if f.ConstraintPredicate != "" {
		out = append(out, constraintToken)
	}
	if f.ScopedToIDs {
		if len(f.CandidateIDs) == 0 {
			out = append(out, "false")
		} else {
			out = append(out, "candidate.id in (:candidateIds)")
		}
	}
	// stats over an explicit list or search leave ineligible candidates to
	// that list or search
	if !f.ScopedToIDs && f.ConstraintPredicate == "" {
		out = append(out, "candidate.status != 'ineligible'")
	}
	return out
}

// namedSQL renders q with :name parameters and the values they bind.
func namedSQL(q Query) (string, map[string]any, int, error) {
	t, ok := templates[q.Kind]
	if !ok {
		return "", nil, 0, fmt.Errorf("%w: %q", ErrUnknownKind, q.Kind)
	}

	conds := append([]string(nil), t.where...)
	params := map[string]any{
		"dateFrom": q.Filter.DateFrom.In(time.UTC),
		"dateTo":   q.Filter.DateTo.In(time.UTC).AddDate(0, 0, 1),
	}
	if t.gender {
		conds = append(conds, "candidate.gender like :gender")
		params["gender"] = likeOrAll(string(q.Gender))
	}
	if t.country {
		conds = append(conds, "coalesce(lower(country.name), '') like :country")
		params["country"] = likeOrAll(strings.ToLower(q.Country))
	}
	if t.language {
		conds = append(conds, "lower(language.name) = lower(:language)")
		params["language"] = q.Language
	}
	conds = append(conds, standardConstraints(q.Filter, t.counting)...)

	if len(q.Filter.SourceCountryIDs) > 0 {
		params["sourceCountryIds"] = q.Filter.SourceCountryIDs
	}
	if q.Filter.ScopedToIDs && len(q.Filter.CandidateIDs) > 0 {
		params["candidateIds"] = q.Filter.CandidateIDs
	}

	sql := t.selectSQL + " where " + strings.Join(conds, " and ") + " " + t.groupBy
	return sql, params, t.limit, nil
}

// Compile turns q into positional Postgres SQL and its arguments.
func Compile(q Query) (string, []any, int, error) {
	named, params, limit, err := namedSQL(q)
	if err != nil {
		return "", nil, 0, err
	}

	sql, args, err := sqlx.Named(named, params)
	if err != nil {
		return "", nil, 0, fmt.Errorf("compile %s stat: %w", q.Kind, err)
	}
	sql, args, err = sqlx.In(sql, args...)
	if err != nil {
		return "", nil, 0, fmt.Errorf("expand %s stat: %w", q.Kind, err)
	}
	sql = sqlx.Rebind(sqlx.DOLLAR, sql)

	if q.Filter.ConstraintPredicate != "" {
		sql = strings.Replace(sql, constraintToken, q.Filter.ConstraintPredicate, 1)
	}
	return sql, args, limit, nil
}

func likeOrAll(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "%"
	}
	return v
}
