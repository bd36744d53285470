package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"talent-catalog/internal/search"
)

type candidateSearchCacheKeyInput struct {
	Request search.CandidateRequest `json:"request"`
	UserID  *int64                  `json:"user_id"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// normalizeRequest returns a copy of req whose id sets are sorted and whose
// free text is trimmed, so equivalent requests share a cache entry. Sort
// fields keep their order because it is significant.
func normalizeRequest(req search.CandidateRequest) search.CandidateRequest {
	req.SimpleQueryString = normalizeSearchValue(req.SimpleQueryString)
	req.RegoReferrerParam = normalizeSearchValue(req.RegoReferrerParam)
	for _, ids := range []*[]int64{
		&req.OccupationIDs, &req.PartnerIDs, &req.NationalityIDs, &req.CountryIDs,
		&req.SurveyTypeIDs, &req.EducationMajorIDs, &req.ListAnyIDs, &req.ListAllIDs,
	} {
		*ids = sortedCopy(*ids)
	}
	return req
}

func sortedCopy(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	cp := append([]int64(nil), ids...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	return cp
}

func hashKey(prefix string, v any) string {
	b, _ := json.Marshal(v)
	sum := sha256.Sum256(b)
	return prefix + hex.EncodeToString(sum[:])
}

func CandidateSearchCacheKey(req search.CandidateRequest, userID *int64) string {
	return hashKey(candidateSearchKeyPrefix, candidateSearchCacheKeyInput{
		Request: normalizeRequest(req),
		UserID:  userID,
	})
}

func StatsReportCacheKey(req StatsRequest, from, to search.Date) string {
	in := struct {
		ListID   *int64 `json:"list_id"`
		SearchID *int64 `json:"search_id"`
		UserID   *int64 `json:"user_id"`
		From     string `json:"from"`
		To       string `json:"to"`
	}{req.ListID, req.SearchID, req.UserID, from.String(), to.String()}
	return hashKey(statsReportKeyPrefix, in)
}

func StatsReportLockKey(reportKey string) string {
	reportKey = strings.TrimSpace(reportKey)
	if strings.HasPrefix(reportKey, statsReportKeyPrefix) {
		return statsLockKeyPrefix + strings.TrimPrefix(reportKey, statsReportKeyPrefix)
	}
	return statsLockKeyPrefix + reportKey
}
