package query

// Lexicons behind the post-fix correction rules. All matching is
// case-insensitive substring matching on the raw prompt.

// emotionOnlyLexicon groups bare emotion words that carry no activity intent.
var emotionOnlyLexicon = map[string][]string{
	"positive": {"신날", "신나", "즐거", "기분좋", "기분 좋", "행복", "설레"},
	"negative": {"우울", "슬플", "지칠", "힘들"},
	"tired":    {"피곤", "졸려", "나른"},
	"stress":   {"스트레스", "화나", "짜증"},
}

// emotionOnlyVibe is the vibe each emotion group resolves to.
var emotionOnlyVibe = map[string]string{
	"positive": "즐거운",
	"negative": "힐링",
	"tired":    "여유로운",
	"stress":   "격렬한",
}

// activityLexicon lists concrete activity words; any hit defeats the
// emotion-only rule.
var activityLexicon = []string{
	// sports
	"축구", "풋살", "농구", "배드민턴", "러닝", "등산",
	"클라이밍", "테니스", "헬스", "운동",
	// culture
	"전시", "전시회", "공연", "뮤지컬", "영화", "박물관",
	"미술관", "갤러리", "콘서트",
	// social
	"카페", "맛집", "술", "보드게임", "방탈출", "볼링",
	"당구", "노래방", "파티",
	// study
	"스터디", "공부", "독서", "영어", "코딩",
	// hobby
	"요리", "베이킹", "공방", "diy", "춤", "댄스",
}

// studyEvidenceLexicon is the proof required before the study category is
// allowed to stand.
var studyEvidenceLexicon = []string{
	"스터디", "공부", "독서", "토익", "오픽", "영어", "자격증",
	"코딩", "개발", "프로그래밍", "세미나", "강의",
	"집중", "집중할", "몰입", "열공", "공부할", "공부하기", "조용히 공부",
}

var quietEvidenceLexicon = []string{"조용", "차분", "힐링", "잔잔", "고요", "여유"}

// negationPatterns detect exclusions like "X 말고" / "X 빼고".
var negationPatterns = []string{
	"말고", "빼고", "제외", "말곤", "아니고", "말고는", "말고요", "말고서",
}

var foodWords = []string{"먹", "식사", "밥", "맛집", "음식", "카페", "브런치", "디저트"}

// emotionMapping routes a detected emotion/body state to default query
// fields. Order matters: the first matching mapping wins and ends the rule.
type emotionMapping struct {
	name       string
	keywords   []string
	category   string
	vibe       string
	confidence float64
	dropSub    bool
}

var emotionMappings = []emotionMapping{
	{name: "tired", keywords: []string{"피곤", "졸려", "지쳐", "힘들", "녹초", "나른"},
		category: "카페", vibe: "여유로운", confidence: 0.7},
	{name: "angry", keywords: []string{"열받", "화나", "짜증", "스트레스", "빡쳐", "답답"},
		category: "스포츠", vibe: "격렬한", confidence: 0.75},
	// sadness is checked before loneliness so "우울" never lands on the
	// social mapping
	{name: "sad", keywords: []string{"우울", "우울해", "슬퍼", "울적", "심기불편", "기분안좋", "슬프"},
		category: "카페", vibe: "여유로운", confidence: 0.7},
	{name: "lonely", keywords: []string{"외로", "심심", "쓸쓸", "외롭", "심심해"},
		vibe: "즐거운", confidence: 0.65},
	{name: "hungry", keywords: []string{"배고", "배고파", "배고프", "배가고", "허기", "출출"},
		category: "맛집", confidence: 0.75, dropSub: true},
	{name: "thirsty", keywords: []string{"목마", "목말", "갈증"},
		category: "카페", vibe: "여유로운", confidence: 0.7},
	{name: "bored", keywords: []string{"지루", "무료", "재미없"},
		vibe: "즐거운", confidence: 0.65},
	{name: "anxious", keywords: []string{"불안", "긴장", "초조"},
		vibe: "여유로운", confidence: 0.65},
	{name: "healing", keywords: []string{"힐링", "번아웃", "휴식", "쉬고싶", "쉬고", "쉬어"},
		vibe: "힐링", confidence: 0.5},
}
