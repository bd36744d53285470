package search

import (
	"strings"
	"unicode"
)

// BuildTsQuery translates a simple query string into Postgres tsquery
// syntax: quoted phrases become followed-by chains, " + " becomes AND and
// any other whitespace becomes OR.
//
//	"software engineer" + java python  =>  software <-> engineer & java | python
func BuildTsQuery(simple string) string {
	simple = sanitizeQuery(simple)

	tokens := make([]string, 0, 8)
	phrase := make([]string, 0, 4)
	inQuote := false
	for _, part := range splitQuotes(simple) {
		if part == `"` {
			inQuote = !inQuote
			if !inQuote && len(phrase) > 0 {
				tokens = append(tokens, strings.Join(phrase, "<->"))
				phrase = phrase[:0]
			}
			continue
		}
		for _, f := range strings.Fields(part) {
			if inQuote {
				if f != "+" {
					phrase = append(phrase, f)
				}
				continue
			}
			tokens = append(tokens, f)
		}
	}
	// an unterminated quote still counts as a phrase
	if len(phrase) > 0 {
		tokens = append(tokens, strings.Join(phrase, "<->"))
	}

	b := strings.Builder{}
	op := ""
	for _, tok := range tokens {
		if tok == "+" {
			op = "&"
			continue
		}
		if b.Len() > 0 {
			if op == "" {
				op = "|"
			}
			b.WriteString(" " + op + " ")
		}
		b.WriteString(tok)
		op = ""
	}
	return strings.ReplaceAll(b.String(), "<->", " <-> ")
}

func splitQuotes(s string) []string {
	out := make([]string, 0, 4)
	start := 0
	for i, r := range s {
		if r != '"' {
			continue
		}
		if i > start {
			out = append(out, s[start:i])
		}
		out = append(out, `"`)
		start = i + 1
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// sanitizeQuery lower-cases the query and drops everything but letters,
// digits, quotes, plus signs and whitespace so that the translated text is
// always a well formed tsquery. Plus signs are padded to stand alone.
func sanitizeQuery(s string) string {
	b := strings.Builder{}
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(unicode.ToLower(r))
		case r == '"':
			b.WriteRune(r)
		case r == '+':
			b.WriteString(" + ")
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
		// drop all other characters
	}
	return b.String()
}
