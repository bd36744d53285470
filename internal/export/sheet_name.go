package export

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var invalidSheetChars = strings.NewReplacer(
	":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")",
)

// sheetNamer hands out worksheet names that are legal in Excel and unique
// ignoring case.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: map[string]bool{}}
}

func (n *sheetNamer) reserve(name string) {
	n.used[strings.ToLower(name)] = true
}

func (n *sheetNamer) next(title string) string {
	base := strings.Join(strings.Fields(invalidSheetChars.Replace(title)), " ")
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Report"
	}

	name := strings.TrimRight(truncateRunes(base, maxSheetName), " (")
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := " " + strconv.Itoa(i)
		name = strings.TrimRight(truncateRunes(base, maxSheetName-len(suffix)), " (") + suffix
	}
	n.reserve(name)
	return name
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
