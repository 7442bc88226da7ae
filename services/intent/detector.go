// Package intent classifies a prompt into a coarse activity intent used to
// bias scoring.
package intent

import (
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
)

// Intent is a coarse activity-mood class.
type Intent string

const (
	Active  Intent = "ACTIVE"
	Quiet   Intent = "QUIET"
	Brain   Intent = "BRAIN"
	HandsOn Intent = "HANDS_ON"
	Neutral Intent = "NEUTRAL"
)

var (
	intensityWords = []string{"격렬", "빡세", "빡시", "힘든 운동", "고강도", "체력", "땀"}
	brainWords     = []string{"머리", "두뇌", "추리", "전략", "퍼즐", "퀴즈", "보드게임", "방탈출", "체스"}
	handsOnWords   = []string{"손으로", "만들", "만들기", "공방", "체험", "diy", "수공예", "핸드메이드", "베이킹", "요리"}
	quietWords     = []string{"조용", "차분", "힐링", "잔잔", "고요", "여유", "쉬고", "휴식"}
	movementWords  = []string{"러닝", "달리", "뛰", "운동", "축구", "풋살", "농구", "배드민턴", "등산", "클라이밍", "자전거", "사이클"}

	activeVibes = map[string]struct{}{
		"활기찬": {}, "격렬한": {}, "신나는": {}, "에너지 넘치는": {}, "즐거운": {},
	}
	calmVibes = map[string]struct{}{
		"여유로운": {}, "차분한": {}, "힐링": {}, "편안한": {}, "잔잔한": {}, "평온한": {},
	}
)

// Detector maps free text plus a normalized query to an intent. Deterministic
// and total: every input lands on exactly one class.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// Detect resolves the intent by fixed priority: explicit intensity, brain
// words, active vibe, hands-on words, quiet evidence, movement words,
// neutral.
func (d *Detector) Detect(text string, q models.Query) Intent {
	t := strings.ToLower(strings.TrimSpace(text))

	if hasAny(t, intensityWords) {
		return Active
	}
	if hasAny(t, brainWords) {
		return Brain
	}
	if _, ok := activeVibes[q.Vibe]; ok {
		return Active
	}
	if hasAny(t, handsOnWords) {
		return HandsOn
	}
	if hasAny(t, quietWords) {
		return Quiet
	}
	if _, ok := calmVibes[q.Vibe]; ok {
		return Quiet
	}
	if hasAny(t, movementWords) {
		return Active
	}
	return Neutral
}

func hasAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
