package query

import (
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

// Rule is one pure correction step. Rules run in a fixed total order; a rule
// writes a field only when it is unset, unless it is explicitly
// authoritative for that field. Rules may only raise confidence (the
// evidence guard is the single exception and may cap it when demoting).
type Rule struct {
	Name  string
	Apply func(text string, q models.Query) models.Query
}

// PostProcessor corrects a parsed query with heuristic rules before search.
//
// Precedence, first to last: location-type, indoor-fun, emotion-state
// (locks vibe on match), hunger cleanup, exclusion, photo, brain,
// ball-sports, dance, hands-on, culture, go-out, play-vs-meal,
// location-only, study, gender-hint, temperature, and finally the
// emotion-only clearing rule. GuardCategoryByEvidence runs after everything
// else as the study-category safety net.
type PostProcessor struct {
	normalizer *Normalizer
	rules      []Rule
}

func NewPostProcessor(n *Normalizer) *PostProcessor {
	p := &PostProcessor{normalizer: n}
	p.rules = []Rule{
		{"location_type", p.fixLocationType},
		{"indoor_fun", p.fixIndoorFun},
		{"emotion_state", p.fixEmotionState},
		{"hunger", p.fixHunger},
		{"exclusion", p.fixExclusion},
		{"photo", p.fixPhoto},
		{"brain", p.fixBrain},
		{"ball_sports", p.fixBallSports},
		{"dance", p.fixDance},
		{"hands_on", p.fixHandsOn},
		{"culture", p.fixCulture},
		{"go_out", p.fixGoOut},
		{"play_vs_meal", p.fixPlayVsMeal},
		{"location_only", p.fixLocationOnly},
		{"study", p.fixStudy},
		{"gender_hint", p.fixGenderHint},
		{"temperature", p.fixTemperature},
		{"emotion_only", p.fixEmotionOnly},
	}
	return p
}

// Rules exposes the ordered rule chain for table-driven tests.
func (p *PostProcessor) Rules() []Rule {
	return p.rules
}

// PostFix applies every correction rule to the parsed query, in order.
func (p *PostProcessor) PostFix(prompt string, parsed models.Query) models.Query {
	text := strings.ToLower(strings.TrimSpace(prompt))
	q := parsed.Clone()
	for _, r := range p.rules {
		q = r.Apply(text, q)
	}
	return q
}

func hasAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func raiseConf(q models.Query, floor float64) models.Query {
	if q.Confidence < floor {
		q.Confidence = floor
	}
	return q
}

// fixLocationType resolves explicit indoor/outdoor tokens; on conflict the
// first occurrence in the text wins.
func (p *PostProcessor) fixLocationType(text string, q models.Query) models.Query {
	outdoorWords := []string{"실외", "야외", "밖", "아웃도어", "outdoor"}
	indoorWords := []string{"실내", "인도어", "indoor"}

	hasOutdoor := hasAny(text, outdoorWords)
	hasIndoor := hasAny(text, indoorWords)

	switch {
	case hasOutdoor && !hasIndoor:
		q.LocationType = "OUTDOOR"
	case hasIndoor && !hasOutdoor:
		q.LocationType = "INDOOR"
	case hasOutdoor && hasIndoor:
		if firstIndex(text, outdoorWords) < firstIndex(text, indoorWords) {
			q.LocationType = "OUTDOOR"
		} else {
			q.LocationType = "INDOOR"
		}
	}
	return q
}

func firstIndex(text string, words []string) int {
	min := len(text) + 1
	for _, w := range words {
		if i := strings.Index(text, w); i >= 0 && i < min {
			min = i
		}
	}
	return min
}

// fixIndoorFun routes "indoor + fun" prompts with no other activity evidence
// to the social board-game/escape-room corner.
func (p *PostProcessor) fixIndoorFun(text string, q models.Query) models.Query {
	funWords := []string{"즐겁", "재밌", "재미", "신나", "fun"}
	indoorFun := q.LocationType == "INDOOR" && hasAny(text, funWords)

	activityHints := []string{
		"보드게임", "방탈출", "체스", "퍼즐", "퀴즈",
		"러닝", "축구", "배드민턴", "클라이밍", "등산", "운동",
		"전시", "공연", "뮤지컬", "연극", "갤러리",
		"카페", "브런치", "디저트", "맛집",
		"스터디", "공부", "독서", "영어", "코딩",
		"댄스", "춤", "공방", "diy", "만들기", "요리",
		"노래방", "볼링", "당구",
	}
	vibeOnly := !hasAny(text, activityHints) && len(q.Keywords) == 0 && q.Subcategory == ""

	if indoorFun && vibeOnly {
		q.Category = "소셜"
		q.Subcategory = ""
		q.Keywords = addKeywords(q.Keywords, []string{"보드게임", "방탈출"}, maxKeywords)
		if q.Vibe == "" {
			q.Vibe = "즐거운"
		}
		q = raiseConf(q, 0.65)
	}
	return q
}

// fixEmotionState maps emotion/body-state words to default fields. The first
// matching mapping wins and locks the vibe against later rules.
func (p *PostProcessor) fixEmotionState(text string, q models.Query) models.Query {
	if q.EmotionOnly {
		return q
	}

	for _, m := range emotionMappings {
		if !hasAny(text, m.keywords) {
			continue
		}
		if m.category != "" {
			q.Category = m.category
			utils.GetLogger().Debug("post-fix emotion state",
				zap.String("emotion", m.name), zap.String("category", m.category))
		}
		if m.vibe != "" {
			q.Vibe = m.vibe
			q.VibeLocked = true
		}
		q = raiseConf(q, m.confidence)
		if m.dropSub {
			q.Subcategory = ""
		}
		return q
	}
	return q
}

// fixHunger strips hunger words the parser misread as a location query.
func (p *PostProcessor) fixHunger(text string, q models.Query) models.Query {
	hungerWords := []string{"배고", "배고파", "배고프", "배가고", "허기", "출출"}
	if hasAny(text, hungerWords) && hasAny(strings.ToLower(q.LocationQuery), hungerWords) {
		q.LocationQuery = ""
	}
	return q
}

// fixExclusion handles "먹는 거 말고" patterns: food categories are blocked
// and quiet indoor culture becomes the default.
func (p *PostProcessor) fixExclusion(text string, q models.Query) models.Query {
	if !p.excludesFood(text) {
		return q
	}
	if q.Category == "맛집" || q.Category == "카페" {
		q.Category = ""
		q.Subcategory = ""
	}
	if q.LocationType == "" {
		q.LocationType = "INDOOR"
	}
	if q.Category == "" {
		q.Category = "문화예술"
	}
	if q.Vibe == "" {
		q.Vibe = "여유로운"
	}
	q = raiseConf(q, 0.65)
	q.Keywords = dropFoodKeywords(q.Keywords)

	utils.GetLogger().Debug("post-fix exclusion: food categories blocked")
	return q
}

// fixPhoto forces the photography subcategory on photo/camera words. This
// rule is authoritative for category and subcategory.
func (p *PostProcessor) fixPhoto(text string, q models.Query) models.Query {
	photoWords := []string{"사진", "촬영", "포토", "카메라", "필카", "스냅", "인생샷"}
	if hasAny(text, photoWords) {
		q.Category = "문화예술"
		q.Subcategory = "사진촬영"
		if q.Vibe == "" {
			q.Vibe = "즐거운"
		}
		q = raiseConf(q, 0.75)
	}
	return q
}

// fixBrain expands puzzle/strategy prompts toward board games and escape
// rooms without overriding an existing category.
func (p *PostProcessor) fixBrain(text string, q models.Query) models.Query {
	brainWords := []string{"머리", "머리쓰", "두뇌", "추리", "전략", "퍼즐", "퀴즈", "방탈출", "보드게임", "체스"}
	if hasAny(text, brainWords) {
		if q.Category == "" {
			q.Category = "소셜"
		}
		if q.LocationType == "" {
			q.LocationType = "INDOOR"
		}
		q.Keywords = addKeywords(q.Keywords, []string{"보드게임", "방탈출", "퍼즐", "추리"}, maxKeywords)
		if !q.VibeLocked && q.Vibe == "" {
			q.Vibe = "즐거운"
		}
		q = raiseConf(q, 0.75)
	}
	return q
}

// fixBallSports must NOT commit to one sport: "공놀이" fans out into the
// candidate ball sports as keywords instead.
func (p *PostProcessor) fixBallSports(text string, q models.Query) models.Query {
	if strings.Contains(text, "공놀이") {
		q.Category = "스포츠"
		q.Subcategory = ""
		q.Keywords = []string{"축구", "풋살", "농구", "배드민턴", "테니스"}
		q = raiseConf(q, 0.65)
	}
	return q
}

// fixDance is authoritative for the dance subcategory.
func (p *PostProcessor) fixDance(text string, q models.Query) models.Query {
	danceWords := []string{"춤", "댄스", "dance", "kpop", "k-pop", "케이팝", "스트릿", "힙합댄스", "방송댄스"}
	if hasAny(text, danceWords) {
		q.Category = "취미활동"
		q.Subcategory = "댄스"
		if q.Vibe == "" {
			q.Vibe = "즐거운"
		}
		if q.LocationType == "" {
			q.LocationType = "INDOOR"
		}
		q = raiseConf(q, 0.75)
	}
	return q
}

// fixHandsOn routes craft/DIY words to hobby activities.
func (p *PostProcessor) fixHandsOn(text string, q models.Query) models.Query {
	handsOnWords := []string{"손으로", "만들", "만들기", "공방", "체험", "diy", "수공예", "핸드메이드"}
	if hasAny(text, handsOnWords) {
		q.Category = "취미활동"
		if q.Vibe == "" {
			q.Vibe = "여유로운"
		}
		q = raiseConf(q, 0.70)

		if hasAny(text, []string{"붓글씨", "캘리", "캘리그라피"}) {
			q.Subcategory = "캘리그라피"
		}
	}
	return q
}

// fixCulture forces the culture category unless sports evidence co-occurs.
func (p *PostProcessor) fixCulture(text string, q models.Query) models.Query {
	cultureWords := []string{"문화생활", "전시", "공연", "뮤지컬", "연극", "갤러리", "박물관", "사진전", "페스티벌"}
	sportsWords := []string{"러닝", "운동", "뛰", "달리", "축구", "배드민턴", "클라이밍", "등산"}

	if hasAny(text, cultureWords) && !hasAny(text, sportsWords) {
		q.Category = "문화예술"
		q.Subcategory = ""
		if !q.VibeLocked && q.Vibe == "" {
			q.Vibe = "여유로운"
		}
		q = raiseConf(q, 0.70)
	}
	return q
}

// fixGoOut nudges "want to go out" prompts outdoors.
func (p *PostProcessor) fixGoOut(text string, q models.Query) models.Query {
	if hasAny(text, []string{"나가", "외출", "나갈"}) {
		if q.LocationType == "" {
			q.LocationType = "OUTDOOR"
		}
		q = raiseConf(q, 0.55)
	}
	return q
}

// fixPlayVsMeal breaks the tie between playing and eating when no category
// survived parsing.
func (p *PostProcessor) fixPlayVsMeal(text string, q models.Query) models.Query {
	playWords := []string{"놀", "재밌게", "즐겁게", "신나게", "fun"}
	mealWords := []string{"먹", "식사", "밥", "점심먹", "저녁먹", "아침먹"}

	if q.Category != "" {
		return q
	}
	switch {
	case hasAny(text, playWords):
		q.Category = "소셜"
		if q.Vibe == "" {
			q.Vibe = "즐거운"
		}
		q = raiseConf(q, 0.65)
	case hasAny(text, mealWords):
		q.Category = "맛집"
		if q.Vibe == "" {
			q.Vibe = "캐주얼"
		}
		q = raiseConf(q, 0.60)
	}
	return q
}

// fixLocationOnly clears the category when the prompt is only a "near me"
// phrase with no activity.
func (p *PostProcessor) fixLocationOnly(text string, q models.Query) models.Query {
	locationWords := []string{"근처", "주변"}
	activityWords := []string{
		"카페", "러닝", "운동", "맛집", "전시", "스터디", "놀", "먹",
		"보드게임", "당구", "영화", "클라이밍", "배드민턴", "축구",
	}

	if hasAny(text, locationWords) && !hasAny(text, activityWords) {
		q.Category = ""
		q.Subcategory = ""
		if q.LocationQuery == "" && strings.Contains(text, "집") {
			q.LocationQuery = "집 근처"
		}
		q = raiseConf(q, 0.55)
		utils.GetLogger().Debug("post-fix location-only prompt detected")
	}
	return q
}

// fixStudy reroutes social-category prompts with study words to the study
// category.
func (p *PostProcessor) fixStudy(text string, q models.Query) models.Query {
	studyWords := []string{"공부", "스터디", "집중", "독서", "혼자"}
	if hasAny(text, studyWords) {
		if q.Category == "소셜" {
			q.Category = "스터디"
		}
		if !q.VibeLocked && q.Vibe == "" {
			q.Vibe = "집중"
		}
		q = raiseConf(q, 0.65)
	}
	return q
}

// fixGenderHint adds soft keyword hints for gendered prompts; it never forces
// a category.
func (p *PostProcessor) fixGenderHint(text string, q models.Query) models.Query {
	maleWords := []string{"남자", "남성", "남자가", "남성이"}
	femaleWords := []string{"여자", "여성", "여자가", "여성이"}

	hasMale := hasAny(text, maleWords)
	hasFemale := hasAny(text, femaleWords)

	if hasMale && !hasFemale {
		switch q.Category {
		case "", "소셜", "스포츠":
			q.Keywords = addKeywords(q.Keywords, []string{"축구", "볼링", "당구"}, maxKeywords)
			q = raiseConf(q, 0.55)
		}
	}
	if hasFemale && !hasMale {
		switch q.Category {
		case "", "카페", "문화예술", "취미활동":
			q.Keywords = addKeywords(q.Keywords, []string{"카페", "전시", "공방"}, maxKeywords)
			q = raiseConf(q, 0.55)
		}
	}
	return q
}

// fixTemperature maps weather complaints to a location type unless the
// prompt explicitly asks for the opposite.
func (p *PostProcessor) fixTemperature(text string, q models.Query) models.Query {
	coldWords := []string{"추워", "춥", "추운", "겨울"}
	if hasAny(text, coldWords) && !hasAny(text, []string{"밖에", "야외", "실외"}) {
		q.LocationType = "INDOOR"
		q = raiseConf(q, 0.65)
	}

	hotWords := []string{"더워", "덥", "더운", "여름"}
	if hasAny(text, hotWords) && !hasAny(text, []string{"실내", "안에", "에어컨"}) && q.Category == "" {
		q.LocationType = "OUTDOOR"
		q = raiseConf(q, 0.6)
	}
	return q
}

// fixEmotionOnly runs last in the chain: when the prompt carries only
// emotion words and no activity evidence, the category is cleared and only
// the vibe survives. Confidence is capped rather than raised here; a
// vibe-only search should not look certain.
func (p *PostProcessor) fixEmotionOnly(text string, q models.Query) models.Query {
	detectedVibe := ""
	hasEmotion := false
	for _, group := range []string{"positive", "negative", "tired", "stress"} {
		if hasAny(text, emotionOnlyLexicon[group]) {
			hasEmotion = true
			detectedVibe = emotionOnlyVibe[group]
			break
		}
	}

	if !hasEmotion || hasAny(text, activityLexicon) {
		return q
	}

	utils.GetLogger().Debug("post-fix emotion-only prompt",
		zap.String("cleared_category", q.Category), zap.String("vibe", detectedVibe))

	q.Category = ""
	q.Subcategory = ""
	if detectedVibe != "" {
		q.Vibe = detectedVibe
	}
	if q.Confidence > 0.55 {
		q.Confidence = 0.55
	}
	q.EmotionOnly = true
	return q
}

// GuardCategoryByEvidence is the final safety net for the study category: a
// study category with no study evidence in the text is demoted, and either
// rebuilt (quiet outdoor → walk keywords; focused indoor → study restored
// with study-place keywords) or left cleared with capped confidence. It is
// the only rule allowed to lower confidence.
func (p *PostProcessor) GuardCategoryByEvidence(prompt string, q models.Query) models.Query {
	text := strings.ToLower(prompt)
	out := q.Clone()
	lt := strings.ToUpper(out.LocationType)

	hasStudy := hasAny(text, studyEvidenceLexicon)
	hasQuiet := hasAny(text, quietEvidenceLexicon)

	if out.Category == "스터디" && !hasStudy {
		out.Category = ""
		out.Subcategory = ""

		if lt == "OUTDOOR" && hasQuiet {
			out.Keywords = addKeywords(out.Keywords, []string{"산책", "사진", "피크닉", "공원"}, 8)
		}

		if lt == "INDOOR" && (strings.Contains(text, "집중") || strings.Contains(text, "조용")) {
			out.Category = "스터디"
			out.Keywords = addKeywords(out.Keywords, []string{"스터디카페", "도서관", "열람실", "코워킹", "독서"}, 8)
			if out.Vibe == "" {
				out.Vibe = "집중"
			}
			out = raiseConf(out, 0.65)
		} else if out.Confidence > 0.65 {
			out.Confidence = 0.65
		}
	}

	if out.Category == "" && lt == "OUTDOOR" && hasQuiet {
		out.Category = "문화예술"
		out = raiseConf(out, 0.6)
	}
	return out
}

func (p *PostProcessor) hasExclusion(text string) bool {
	return hasAny(strings.ToLower(strings.TrimSpace(text)), negationPatterns)
}

func (p *PostProcessor) excludesFood(text string) bool {
	t := strings.ToLower(text)
	return p.hasExclusion(t) && hasAny(t, foodWords)
}
