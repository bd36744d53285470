package search

import (
	"fmt"
	"strings"
)

// SortColumn is the SQL column a sortable property resolves to, together
// with the joins needed to reach it.
type SortColumn struct {
	Column string
	tables []table
}

const idColumn = "candidate.id"

func candidateColumn(name string) SortColumn {
	return SortColumn{Column: "candidate." + name}
}

var sortColumns = map[string]SortColumn{
	"id":                        candidateColumn("id"),
	"candidateNumber":           candidateColumn("candidate_number"),
	"gender":                    candidateColumn("gender"),
	"dob":                       candidateColumn("dob"),
	"status":                    candidateColumn("status"),
	"unhcrStatus":               candidateColumn("unhcr_status"),
	"createdDate":               candidateColumn("created_date"),
	"updatedDate":               candidateColumn("updated_date"),
	"yearOfArrival":             candidateColumn("year_of_arrival"),
	"regoReferrerParam":         candidateColumn("rego_referrer_param"),
	"miniIntakeCompletedDate":   candidateColumn("mini_intake_completed_date"),
	"fullIntakeCompletedDate":   candidateColumn("full_intake_completed_date"),
	"user.firstName":            {Column: "users.first_name", tables: []table{tableUsers}},
	"user.lastName":             {Column: "users.last_name", tables: []table{tableUsers}},
	"user.email":                {Column: "users.email", tables: []table{tableUsers}},
	"user.lastLogin":            {Column: "users.last_login", tables: []table{tableUsers}},
	"user.partner.abbreviation": {Column: "partner.abbreviation", tables: []table{tableUsers, tablePartner}},
	"user.partner.name":         {Column: "partner.name", tables: []table{tableUsers, tablePartner}},
	"nationality.name":          {Column: "nationality.name", tables: []table{tableNationality}},
	"country.name":              {Column: "country.name", tables: []table{tableCountry}},
	"maxEducationLevel.level":   {Column: "education_level.level", tables: []table{tableEducationLevel}},
	"maxEducationLevel.name":    {Column: "education_level.name", tables: []table{tableEducationLevel}},
}

// ResolveSort maps a dotted property path to its column. Paths outside the
// table are rejected rather than guessed.
func ResolveSort(field string) (SortColumn, error) {
	c, ok := sortColumns[strings.TrimSpace(field)]
	if !ok {
		return SortColumn{}, fmt.Errorf("%w: %q", ErrUnknownSortField, field)
	}
	return c, nil
}

type orderPlan struct {
	selectCols []string
	orderBy    []string
	tables     []table
}

func planOrder(fields []string, dir SortDirection) (orderPlan, error) {
	if dir == "" {
		dir = SortDesc
	}

	p := orderPlan{}
	hasID := false
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		c, err := ResolveSort(f)
		if err != nil {
			return orderPlan{}, err
		}
		if _, ok := seen[c.Column]; ok {
			continue
		}
		seen[c.Column] = struct{}{}
		if c.Column == idColumn {
			hasID = true
		} else {
			p.selectCols = append(p.selectCols, c.Column)
		}
		p.orderBy = append(p.orderBy, c.Column+" "+string(dir))
		p.tables = append(p.tables, c.tables...)
	}
	if !hasID {
		p.orderBy = append(p.orderBy, idColumn+" "+string(SortDesc))
	}
	return p, nil
}
