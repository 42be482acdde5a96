package state

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MatchPaths returns the path keys matching query, best match first. An empty
// query matches nothing.
func MatchPaths(keys []string, query string) []string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len(keys) == 0 {
		return nil
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, keys)
	if len(ranks) > 0 {
		ordered := make([]string, 0, len(ranks))
		best := BestMatchIndex(keys, trimmed)
		if best >= 0 {
			ordered = append(ordered, keys[best])
		}
		sort.Stable(ranks)
		for _, rank := range ranks {
			if rank.OriginalIndex == best {
				continue
			}
			ordered = append(ordered, rank.Target)
		}
		return ordered
	}
	lower := strings.ToLower(trimmed)
	var matches []string
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), lower) {
			matches = append(matches, key)
		}
	}
	return matches
}

func rankLess(a, b fuzzy.Rank) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.OriginalIndex < b.OriginalIndex
}

// BestMatchIndex returns the index of the key that best matches query: an
// exact match, then a match on the last step, then a prefix, then a
// substring, then the closest fuzzy match. It returns -1 when nothing
// matches.
func BestMatchIndex(keys []string, query string) int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len(keys) == 0 {
		return -1
	}
	lower := strings.ToLower(trimmed)
	for i, key := range keys {
		if strings.EqualFold(key, trimmed) {
			return i
		}
	}
	for i, key := range keys {
		if strings.EqualFold(lastStep(key), trimmed) {
			return i
		}
	}
	for i, key := range keys {
		if strings.HasPrefix(strings.ToLower(key), lower) {
			return i
		}
	}
	for i, key := range keys {
		if strings.Contains(strings.ToLower(key), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, keys)
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rankLess(rank, best) {
			best = rank
		}
	}
	return best.OriginalIndex
}

func lastStep(key string) string {
	if idx := strings.LastIndexByte(key, '/'); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
