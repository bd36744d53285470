package search

import "strings"

type table string

const (
	tableCandidateEducation  table = "candidate_education"
	tableCandidateOccupation table = "candidate_occupation"
	tableCountry             table = "country"
	tableEducationLevel      table = "education_level"
	tableNationality         table = "nationality"
	tablePartner             table = "partner"
	tableUsers               table = "users"
)

// joinClauses maps a table (or alias) reachable from candidate to the
// join it needs. Entries that hang off another joined table must be
// preceded by that table.
var joinClauses = map[table]string{
	tableCandidateEducation:  "candidate_education on candidate.id = candidate_education.candidate_id",
	tableCandidateOccupation: "candidate_occupation on candidate.id = candidate_occupation.candidate_id",
	tableCountry:             "country on candidate.country_id = country.id",
	tableEducationLevel:      "education_level on candidate.max_education_level_id = education_level.id",
	tableNationality:         "country as nationality on candidate.nationality_id = nationality.id",
	tablePartner:             "partner on users.partner_id = partner.id",
	tableUsers:               "users on candidate.user_id = users.id",
}

// joinSet keeps joins in first-insertion order without duplicates.
type joinSet struct {
	seen  map[table]struct{}
	order []table
}

func newJoinSet() *joinSet {
	return &joinSet{seen: make(map[table]struct{}, 4)}
}

func (s *joinSet) add(tables ...table) {
	for _, t := range tables {
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.order = append(s.order, t)
	}
}

func (s *joinSet) sql() string {
	if len(s.order) == 0 {
		return ""
	}
	b := strings.Builder{}
	for _, t := range s.order {
		b.WriteString(" left join ")
		b.WriteString(joinClauses[t])
	}
	return b.String()
}
