package seeder

// Defaults seeds the reference data a fresh catalogue needs. English is
// inserted first so it gets language id 1.
func Defaults() []Seeder {
	return []Seeder{
		LookupSeeder{Table: "language", Names: []string{"English", "Arabic", "French", "Kurdish", "Persian", "Ukrainian"}},
		LevelSeeder{Table: "language_level", Levels: []Level{
			{Name: "No Proficiency", Level: 0},
			{Name: "Elementary", Level: 1},
			{Name: "Intermediate", Level: 2},
			{Name: "Fluent", Level: 3},
			{Name: "Native", Level: 4},
		}},
		LevelSeeder{Table: "education_level", Levels: []Level{
			{Name: "Primary School", Level: 1},
			{Name: "Secondary School", Level: 2},
			{Name: "Associate Degree", Level: 3},
			{Name: "Bachelor's Degree", Level: 4},
			{Name: "Master's Degree", Level: 5},
			{Name: "Doctoral Degree", Level: 6},
		}},
		LookupSeeder{Table: "country", Names: []string{"Afghanistan", "Iraq", "Jordan", "Lebanon", "Syria", "Ukraine"}},
		LookupSeeder{Table: "survey_type", Names: []string{"Facebook", "Friend", "NGO", "Other", "Partner"}},
		LookupSeeder{Table: "occupation", Names: []string{"Accountant", "Electrician", "Nurse", "Software Engineer", "Teacher", "Unknown"}},
		SavedListsSeeder{Names: []string{TestCandidatesList}},
	}
}
