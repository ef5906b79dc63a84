package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	jobsListPrefix   = "jobs:list:"
	categoriesKey    = "jobs:categories"
	candidatesPrefix = "matches:job:"
	lockPrefix       = "lock:"
)

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// JobsListCacheKey hashes the category filter; "" and "all" share one key.
func JobsListCacheKey(category string) string {
	c := normalizeSearchValue(category)
	if c == strings.ToLower(AllCategories) {
		c = ""
	}
	sum := sha256.Sum256([]byte(c))
	return jobsListPrefix + hex.EncodeToString(sum[:])
}

func CategoriesCacheKey() string {
	return categoriesKey
}

func CandidatesCacheKey(jobID string) string {
	return candidatesPrefix + strings.TrimSpace(jobID)
}

func lockKeyFor(cacheKey string) string {
	return lockPrefix + strings.TrimSpace(cacheKey)
}
