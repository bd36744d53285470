package usecase

import (
	"talent-catalog/internal/search"
	"talent-catalog/internal/stats"
)

const chartBar = "bar"

type reportSpec struct {
	name      string
	chartType string
	query     stats.Query
}

func report(name string, kind stats.Kind) reportSpec {
	return reportSpec{name: name, chartType: chartBar, query: stats.Query{Kind: kind}}
}

func (r reportSpec) gender(g search.Gender) reportSpec {
	r.query.Gender = g
	return r
}

func (r reportSpec) country(c string) reportSpec {
	r.query.Country = c
	return r
}

func (r reportSpec) language(l string) reportSpec {
	r.query.Language = l
	return r
}

// byGender returns the report followed by its male and female variants.
func byGender(title string, kind stats.Kind) []reportSpec {
	return []reportSpec{
		report(title, kind),
		report(title+" (male)", kind).gender(search.GenderMale),
		report(title+" (female)", kind).gender(search.GenderFemale),
	}
}

// byGenderAndCountry adds the Jordan and Lebanon variants to byGender.
func byGenderAndCountry(title string, kind stats.Kind) []reportSpec {
	return append(byGender(title, kind),
		report(title+" (Jordan)", kind).country("jordan"),
		report(title+" (Lebanon)", kind).country("lebanon"),
	)
}

func spokenLanguage(lang string) []reportSpec {
	specs := byGender("Spoken "+lang+" Language Level", stats.KindSpokenLanguageLevel)
	for i := range specs {
		specs[i] = specs[i].language(lang)
	}
	return specs
}

// catalogue lists the reports of one run in display order. Runs scoped to
// a list or search show referrers earlier and drop the source country
// breakdown.
func catalogue(scoped bool) []reportSpec {
	out := []reportSpec{
		report("Gender", stats.KindGender),
		report("Registrations", stats.KindRegistrations),
		report("Registrations (by occupations)", stats.KindRegistrationOccupation),
	}
	out = append(out, byGender("Birth years", stats.KindBirthYears)...)
	out = append(out,
		report("LinkedIn links", stats.KindLinkedInExists),
		report("LinkedIn links by candidate registration date", stats.KindLinkedInByDate),
		report("UNHCR Registered", stats.KindUnhcrRegistered),
		report("UNHCR Status", stats.KindUnhcrStatus),
	)

	referrers := byGender("Referrers", stats.KindReferrer)
	if scoped {
		out = append(out, referrers...)
		out = append(out, byGenderAndCountry("Nationalities", stats.KindNationality)...)
	} else {
		out = append(out, byGenderAndCountry("Nationalities by Country", stats.KindNationality)...)
		out = append(out, byGender("Source Countries", stats.KindSourceCountry)...)
	}

	out = append(out, byGenderAndCountry("Statuses", stats.KindStatus)...)
	out = append(out, byGender("Occupations", stats.KindOccupation)...)
	out = append(out, byGender("Most Common Occupations", stats.KindMostCommonOccupation)...)
	out = append(out, byGender("Max Education Level", stats.KindMaxEducation)...)
	out = append(out, byGender("Languages", stats.KindLanguage)...)
	if !scoped {
		out = append(out, referrers...)
	}

	survey := report("Survey", stats.KindSurvey)
	out = append(out,
		survey,
		survey.country("jordan").named("Survey (Jordan)"),
		survey.country("lebanon").named("Survey (Lebanon)"),
		survey.gender(search.GenderMale).named("Survey (male)"),
		survey.gender(search.GenderFemale).named("Survey (female)"),
	)

	out = append(out, spokenLanguage("English")...)
	out = append(out, spokenLanguage("French")...)
	return out
}

func (r reportSpec) named(name string) reportSpec {
	r.name = name
	return r
}
