// Package query canonicalizes and corrects parsed search queries before they
// reach the search and scoring stages.
package query

import (
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
)

// ValidCategories is the closed category taxonomy.
var ValidCategories = []string{"스포츠", "맛집", "카페", "문화예술", "스터디", "취미활동", "소셜"}

// subcategoryToCategory maps known subcategories back to their parent
// category. A subcategory always wins over a conflicting category.
var subcategoryToCategory = map[string]string{
	"러닝": "스포츠", "축구": "스포츠", "풋살": "스포츠", "농구": "스포츠",
	"배드민턴": "스포츠", "테니스": "스포츠", "클라이밍": "스포츠", "등산": "스포츠",
	"요가": "스포츠", "사이클링": "스포츠",
	"한식": "맛집", "중식": "맛집", "일식": "맛집", "양식": "맛집", "이자카야": "맛집",
	"브런치": "카페", "디저트": "카페", "카페투어": "카페", "베이커리": "카페",
	"전시회": "문화예술", "공연": "문화예술", "갤러리": "문화예술", "사진촬영": "문화예술",
	"공방체험": "문화예술",
	"코딩": "스터디", "영어회화": "스터디", "독서토론": "스터디", "재테크": "스터디",
	"그림": "취미활동", "베이킹": "취미활동", "쿠킹": "취미활동", "플라워": "취미활동",
	"댄스": "취미활동", "캘리그라피": "취미활동",
	"보드게임": "소셜", "방탈출": "소셜", "볼링": "소셜", "당구": "소셜", "노래방": "소셜",
}

// timeSlotSynonyms maps free-text time expressions to the canonical slots.
// Longest keys are matched first so "점심먹" hits before "점".
var timeSlotSynonyms = []struct {
	token string
	slot  string
}{
	{"afternoon", "AFTERNOON"},
	{"morning", "MORNING"},
	{"evening", "EVENING"},
	{"night", "NIGHT"},
	{"아침", "MORNING"},
	{"오전", "MORNING"},
	{"점심", "AFTERNOON"},
	{"오후", "AFTERNOON"},
	{"저녁", "EVENING"},
	{"야간", "NIGHT"},
	{"밤", "NIGHT"},
}

// vibeAliases folds vibes the parser emits but the meeting DB never stores
// into their closest stored vibe.
var vibeAliases = map[string]string{
	"격렬한":  "활기찬",
	"차분한":  "편안한",
	"여유로운": "힐링",
	"집중":   "차분한",
	"나른한":  "편안한",
}

var budgetSynonyms = map[string]string{
	"저렴": "low", "싼": "low", "무료": "low", "low": "low", "free": "low",
	"가성비": "value", "적당": "value", "value": "value",
	"보통": "medium", "중간": "medium", "medium": "medium",
	"넉넉": "high", "high": "high",
	"프리미엄": "premium", "고급": "premium", "premium": "premium",
}

// Normalizer canonicalizes query vocabulary against the fixed taxonomy.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeTimeSlot maps a free-text time expression to one of the four
// canonical slots. Already-canonical values pass through; unknown values
// return empty.
func (n *Normalizer) NormalizeTimeSlot(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	upper := strings.ToUpper(s)
	switch upper {
	case "MORNING", "AFTERNOON", "EVENING", "NIGHT":
		return upper
	}
	lower := strings.ToLower(s)
	for _, syn := range timeSlotSynonyms {
		if strings.Contains(lower, syn.token) {
			return syn.slot
		}
	}
	return ""
}

// NormalizeLocationType maps indoor/outdoor variants to INDOOR/OUTDOOR.
func (n *Normalizer) NormalizeLocationType(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return ""
	}
	switch {
	case strings.Contains(s, "indoor"), strings.Contains(s, "실내"), strings.Contains(s, "인도어"):
		return "INDOOR"
	case strings.Contains(s, "outdoor"), strings.Contains(s, "실외"), strings.Contains(s, "야외"), strings.Contains(s, "아웃도어"):
		return "OUTDOOR"
	}
	return strings.ToUpper(s)
}

// NormalizeVibe folds parser-only vibes into the stored vibe vocabulary.
// Unknown vibes pass through unchanged.
func (n *Normalizer) NormalizeVibe(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	if mapped, ok := vibeAliases[s]; ok {
		return mapped
	}
	return s
}

// NormalizeBudgetType maps budget expressions to the five budget tiers,
// defaulting to "value".
func (n *Normalizer) NormalizeBudgetType(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return "value"
	}
	for token, tier := range budgetSynonyms {
		if strings.Contains(s, token) {
			return tier
		}
	}
	return "value"
}

// IsValidCategory reports membership in the closed category set.
func (n *Normalizer) IsValidCategory(cat string) bool {
	for _, c := range ValidCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// CategoryForSubcategory returns the parent category of a known subcategory.
func (n *Normalizer) CategoryForSubcategory(sub string) string {
	return subcategoryToCategory[strings.TrimSpace(sub)]
}

// Normalize canonicalizes the enumerated fields of a query in place. Unknown
// values degrade to unset rather than failing.
func (n *Normalizer) Normalize(q models.Query) models.Query {
	out := q.Clone()
	out.TimeSlot = n.NormalizeTimeSlot(q.TimeSlot)
	out.LocationType = n.NormalizeLocationType(q.LocationType)
	out.Vibe = n.NormalizeVibe(q.Vibe)
	return n.NormalizeTaxonomy(out)
}

// NormalizeTaxonomy enforces the category taxonomy: a subcategory implies its
// parent category, and a category outside the valid set is dropped.
func (n *Normalizer) NormalizeTaxonomy(q models.Query) models.Query {
	out := q.Clone()
	if parent := n.CategoryForSubcategory(out.Subcategory); parent != "" {
		out.Category = parent
	}
	if out.Category != "" && !n.IsValidCategory(out.Category) {
		out.Category = ""
		out.Subcategory = ""
	}
	return out
}
