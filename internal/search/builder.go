package search

import (
	"strings"
	"time"
)

// Config carries the catalogue-wide ids the builder embeds in predicates.
type Config struct {
	// PendingTermsListID is the saved list holding candidates who have not
	// yet accepted the current terms. Zero disables the exclusion.
	PendingTermsListID int64
	EnglishLanguageID  int64
}

// User is the searching user. Its source countries restrict results when a
// request does not name countries itself.
type User struct {
	ID               int64
	PartnerID        int64
	SourceCountryIDs []int64
}

type Option func(*Builder)

// WithClock replaces time.Now as the source of today's date.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// Builder turns candidate search requests into native SQL. It holds no
// per-call state and is safe for concurrent use.
type Builder struct {
	cfg Config
	now func() time.Time
}

func NewBuilder(cfg Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

const baseSelect = "select distinct candidate.id"

// FetchSQL returns the query selecting the ids of every candidate matching
// req. With ordered set, the sort columns are added to the select list and
// an order by clause ending in candidate.id DESC is appended.
func (b *Builder) FetchSQL(req CandidateRequest, user *User, excludedIDs []int64, ordered bool) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	joins := newJoinSet()
	where := b.predicates(req, user, excludedIDs, joins)

	var plan orderPlan
	if ordered {
		p, err := planOrder(req.SortFields, req.SortDirection)
		if err != nil {
			return "", err
		}
		plan = p
		joins.add(plan.tables...)
	}

	sql := strings.Builder{}
	sql.WriteString(baseSelect)
	for _, c := range plan.selectCols {
		sql.WriteString(",")
		sql.WriteString(c)
	}
	sql.WriteString(" from candidate")
	sql.WriteString(joins.sql())
	if len(where) > 0 {
		sql.WriteString(" where ")
		sql.WriteString(strings.Join(where, " and "))
	}
	if ordered {
		sql.WriteString(" order by ")
		sql.WriteString(strings.Join(plan.orderBy, ","))
	}
	return sql.String(), nil
}

// ConstraintPredicate wraps the unordered fetch query into a predicate on
// candidate.id that other queries can embed.
func (b *Builder) ConstraintPredicate(req CandidateRequest, user *User, excludedIDs []int64) (string, error) {
	q, err := b.FetchSQL(req, user, excludedIDs, false)
	if err != nil {
		return "", err
	}
	return "candidate.id in (" + q + ")", nil
}

// predicates returns the where conditions for req in their fixed order,
// registering the joins each one needs.
func (b *Builder) predicates(req CandidateRequest, user *User, excludedIDs []int64, joins *joinSet) []string {
	var out []string
	add := func(cond string, tables ...table) {
		joins.add(tables...)
		out = append(out, cond)
	}

	if b.cfg.PendingTermsListID != 0 && req.IncludePendingTermsCandidates != nil && !*req.IncludePendingTermsCandidates {
		add("candidate.id not in (select candidate_id from candidate_saved_list where saved_list_id = " +
			int64Lit(b.cfg.PendingTermsListID) + ")")
	}

	if q := BuildTsQuery(req.SimpleQueryString); q != "" {
		add("candidate.text_search_vector @@ to_tsquery('english', " + quote(q) + ")")
	}

	if len(req.Statuses) > 0 {
		add("candidate.status in (" + enumList(req.Statuses) + ")")
	}

	if len(req.OccupationIDs) > 0 {
		add("candidate_occupation.occupation_id in ("+idList(req.OccupationIDs)+")", tableCandidateOccupation)
		if req.MinYrs != nil {
			add("candidate_occupation.years_experience >= " + intLit(*req.MinYrs))
		}
		if req.MaxYrs != nil {
			add("candidate_occupation.years_experience <= " + intLit(*req.MaxYrs))
		}
	}

	if len(excludedIDs) > 0 {
		add("candidate.id not in (" + idList(excludedIDs) + ")")
	}

	if len(req.NationalityIDs) > 0 {
		add("candidate.nationality_id " + inOrNotIn(req.NationalitySearchType) + " (" + idList(req.NationalityIDs) + ")")
	}

	if len(req.CountryIDs) > 0 {
		add("candidate.country_id " + inOrNotIn(req.CountrySearchType) + " (" + idList(req.CountryIDs) + ")")
	} else if user != nil && len(user.SourceCountryIDs) > 0 {
		add("candidate.country_id in (" + sortedIDList(user.SourceCountryIDs) + ")")
	}

	if len(req.PartnerIDs) > 0 {
		add("users.partner_id in ("+idList(req.PartnerIDs)+")", tableUsers)
	}

	if len(req.SurveyTypeIDs) > 0 {
		add("candidate.survey_type_id in (" + idList(req.SurveyTypeIDs) + ")")
	}

	if p := strings.TrimSpace(req.RegoReferrerParam); p != "" {
		add("lower(candidate.rego_referrer_param) like " + quote(strings.ToLower(p)))
	}

	if req.Gender != "" {
		add("candidate.gender = " + quote(string(req.Gender)))
	}

	loc := location(req.Timezone)
	if req.LastModifiedFrom != nil {
		from := req.LastModifiedFrom.In(loc)
		add("candidate.updated_date >= " + quote(offsetTimestamp(from)))
	}
	if req.LastModifiedTo != nil {
		d := req.LastModifiedTo
		to := time.Date(d.Year, d.Month, d.Day, 23, 59, 59, 999999999, loc)
		add("candidate.updated_date <= " + quote(offsetTimestamp(to)))
	}

	if req.MinAge != nil || req.MaxAge != nil {
		today := DateOf(b.now().In(loc))
		if req.MinAge != nil {
			// at least minAge+1 years old on today's date
			latest := today.AddYears(-(*req.MinAge + 1))
			add("(candidate.dob <= " + quote(latest.String()) + " or candidate.dob is null)")
		}
		if req.MaxAge != nil {
			earliest := today.AddYears(-(*req.MaxAge + 1))
			add("(candidate.dob > " + quote(earliest.String()) + " or candidate.dob is null)")
		}
	}

	if len(req.UnhcrStatuses) > 0 {
		add("candidate.unhcr_status in (" + enumList(req.UnhcrStatuses) + ")")
	}

	if req.MinEducationLevel != nil {
		add("education_level.level >= "+intLit(*req.MinEducationLevel), tableEducationLevel)
	}

	if req.MiniIntakeCompleted != nil {
		add("candidate.mini_intake_completed_date " + nullCheck(*req.MiniIntakeCompleted))
	}
	if req.FullIntakeCompleted != nil {
		add("candidate.full_intake_completed_date " + nullCheck(*req.FullIntakeCompleted))
	}

	if len(req.EducationMajorIDs) > 0 {
		add("candidate_education.major_id in ("+idList(req.EducationMajorIDs)+")", tableCandidateEducation)
	}

	if req.EnglishMinSpokenLevel != nil {
		add(languageLevel(b.cfg.EnglishLanguageID, "spoken_level_id", req.EnglishMinSpokenLevel))
	}
	if req.EnglishMinWrittenLevel != nil {
		add(languageLevel(b.cfg.EnglishLanguageID, "written_level_id", req.EnglishMinWrittenLevel))
	}
	if req.OtherLanguageID != nil {
		id := *req.OtherLanguageID
		switch {
		case req.OtherMinSpokenLevel == nil && req.OtherMinWrittenLevel == nil:
			add("exists (select 1 from candidate_language where candidate_language.candidate_id = candidate.id" +
				" and candidate_language.language_id = " + int64Lit(id) + ")")
		default:
			if req.OtherMinSpokenLevel != nil {
				add(languageLevel(id, "spoken_level_id", req.OtherMinSpokenLevel))
			}
			if req.OtherMinWrittenLevel != nil {
				add(languageLevel(id, "written_level_id", req.OtherMinWrittenLevel))
			}
		}
	}

	if len(req.ListAnyIDs) > 0 {
		cond := "candidate.id in (select candidate_id from candidate_saved_list where saved_list_id in (" +
			idList(req.ListAnyIDs) + "))"
		add(negateIf(req.ListAnySearchType, cond))
	}

	if len(req.ListAllIDs) > 0 {
		parts := make([]string, 0, len(req.ListAllIDs))
		for _, id := range req.ListAllIDs {
			parts = append(parts, "candidate.id in (select candidate_id from candidate_saved_list where saved_list_id = "+
				int64Lit(id)+")")
		}
		add(negateIf(req.ListAllSearchType, strings.Join(parts, " and ")))
	}

	return out
}

func languageLevel(languageID int64, levelColumn string, minLevel *int) string {
	return "exists (select 1 from candidate_language join language_level on language_level.id = " + levelColumn +
		" where candidate_language.candidate_id = candidate.id and candidate_language.language_id = " +
		int64Lit(languageID) + " and language_level.level >= " + intLit(*minLevel) + ")"
}

func inOrNotIn(t SearchType) string {
	if t == SearchNot {
		return "not in"
	}
	return "in"
}

func negateIf(t SearchType, cond string) string {
	if t == SearchNot {
		return "not (" + cond + ")"
	}
	return cond
}

func nullCheck(completed bool) string {
	if completed {
		return "is not null"
	}
	return "is null"
}

func location(tz string) *time.Location {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
