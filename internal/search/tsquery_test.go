package search

import "testing"

func TestBuildTsQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"java", "java"},
		{"java python", "java | python"},
		{"java + python", "java & python"},
		{`"software engineer"`, "software <-> engineer"},
		{`"software engineer" + java python`, "software <-> engineer & java | python"},
		{"Java   Python", "java | python"},
		{"java +", "java"},
		{"+ java", "java"},
		{"a + + b", "a & b"},
		{"c++ & go!", "c & go"},
		{`it's "data  entry`, "its | data <-> entry"},
		{"drop'); --", "drop"},
	}

	for _, tt := range tests {
		if got := BuildTsQuery(tt.in); got != tt.want {
			t.Fatalf("BuildTsQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
