package query

import "strings"

// keywordStopwords are tokens that carry no search signal: near-me particles,
// filler verbs, and generic request words the parser tends to echo.
var keywordStopwords = map[string]struct{}{
	"근처": {}, "주변": {}, "내 근처": {}, "집 근처": {},
	"추천": {}, "모임": {}, "사람": {}, "같이": {}, "오늘": {}, "내일": {},
	"하고싶": {}, "싶다": {}, "싶어": {},
}

const maxKeywords = 10

// CleanKeywords trims, lowercases, deduplicates and caps a keyword list,
// dropping stopwords and single-character tokens.
func CleanKeywords(raw []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, k := range raw {
		t := strings.ToLower(strings.TrimSpace(k))
		if len([]rune(t)) < 2 {
			continue
		}
		if _, bad := keywordStopwords[t]; bad {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) >= maxKeywords {
			break
		}
	}
	return out
}

// addKeywords appends words not already present, capped at limit.
func addKeywords(existing []string, words []string, limit int) []string {
	out := append([]string(nil), existing...)
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		dup := false
		for _, have := range out {
			if have == w {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, w)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var foodKeywords = map[string]struct{}{
	"먹": {}, "먹기": {}, "식사": {}, "밥": {}, "맛집": {}, "카페": {},
	"브런치": {}, "디저트": {}, "음식": {},
}

// dropFoodKeywords removes food-related tokens after an exclusion like
// "먹는 거 말고".
func dropFoodKeywords(kws []string) []string {
	var out []string
	for _, k := range kws {
		if _, bad := foodKeywords[strings.TrimSpace(k)]; !bad {
			out = append(out, k)
		}
	}
	return out
}
