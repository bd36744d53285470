package search

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// quote renders s as a SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func idList(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func sortedIDList(ids []int64) string {
	cp := append([]int64(nil), ids...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	return idList(cp)
}

func enumList[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, quote(string(v)))
	}
	return strings.Join(parts, ",")
}

// offsetTimestamp formats t the way Postgres accepts timestamptz literals,
// with Z for a zero offset and +hh:mm otherwise. Seconds are omitted when
// the time has none.
func offsetTimestamp(t time.Time) string {
	layout := "2006-01-02T15:04"
	if t.Second() != 0 || t.Nanosecond() != 0 {
		layout = "2006-01-02T15:04:05.999999999"
	}
	_, off := t.Zone()
	if off == 0 {
		return t.Format(layout) + "Z"
	}
	return t.Format(layout + "-07:00")
}

func intLit(n int) string {
	return strconv.Itoa(n)
}

func int64Lit(n int64) string {
	return strconv.FormatInt(n, 10)
}
