package scoring

import (
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/intent"
	"github.com/ujblackjack-cmd/it-da/services/query"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

var healingVibeSet = map[string]struct{}{
	"힐링": {}, "여유로운": {}, "차분한": {}, "조용한": {}, "편안한": {}, "잔잔한": {},
}

var funVibeSet = map[string]struct{}{
	"즐거운": {}, "신나는": {}, "재밌는": {}, "활기찬": {}, "흥미로운": {}, "재미있는": {},
}

// IntentAdjuster scores how well a candidate fits the detected intent and
// the requested vibe/location type. Returns a signed adjustment.
type IntentAdjuster struct {
	normalizer *query.Normalizer
}

func NewIntentAdjuster(n *query.Normalizer) *IntentAdjuster {
	return &IntentAdjuster{normalizer: n}
}

func (a *IntentAdjuster) Adjust(it intent.Intent, m models.Meeting, q models.Query) float64 {
	cat := strings.TrimSpace(m.Category)
	sub := strings.TrimSpace(m.Subcategory)

	adj := a.vibeAdjustment(m, q)

	// NEUTRAL gets only a weak location-type nudge on top of the vibe term.
	if it == "" || it == intent.Neutral {
		if q.LocationType != "" && m.LocationType != "" {
			if strings.EqualFold(q.LocationType, m.LocationType) {
				adj += 3
			} else {
				adj -= 3
			}
		}
		return adj
	}

	switch it {
	case intent.Quiet:
		noisySubs := map[string]struct{}{
			"볼링": {}, "당구": {}, "방탈출": {}, "노래방": {}, "클럽": {},
			"술집": {}, "와인바": {}, "탁구": {},
		}
		if _, ok := noisySubs[sub]; ok {
			adj -= 45
		}
		if cat == "스포츠" {
			adj -= 45
		}
		switch {
		case cat == "카페":
			adj += 22
		case cat == "문화예술":
			adj += 18
		case cat == "소셜" && (sub == "보드게임" || sub == "책" || sub == "독서"):
			adj += 12
		}

	case intent.Active:
		if cat == "스포츠" {
			switch sub {
			case "축구":
				adj += 18
			case "러닝", "클라이밍", "배드민턴":
				adj += 10
			default:
				adj += 8
			}
		} else {
			adj -= 6
		}
		if cat == "카페" || cat == "문화예술" {
			adj -= 6
		}
		if cat == "소셜" {
			if sub == "볼링" || sub == "당구" || sub == "탁구" {
				adj += 3
			} else {
				adj -= 6
			}
		}

	case intent.HandsOn:
		if cat == "취미활동" {
			adj += 12
		}
		if cat == "문화예술" {
			adj += 6
		}
		if cat == "소셜" {
			switch sub {
			case "당구", "볼링", "기타", "노래방", "보드게임":
				adj -= 18
			}
		}

	case intent.Brain:
		if cat == "소셜" {
			switch sub {
			case "보드게임", "방탈출":
				adj += 22
			case "당구", "볼링", "와인바", "노래방":
				adj -= 18
			}
		}
	}

	// "공놀이" stays ambiguous between ball sports; running is not one.
	for _, k := range q.Keywords {
		if k == "공놀이" {
			if cat == "스포츠" && sub == "러닝" {
				adj -= 20
			}
			if cat == "스포츠" && (sub == "축구" || sub == "배드민턴") {
				adj += 10
			}
			break
		}
	}

	if q.LocationType != "" && m.LocationType != "" {
		if strings.EqualFold(q.LocationType, m.LocationType) {
			adj += 6
		} else {
			adj -= 10
		}
	}

	return adj
}

// vibeAdjustment applies the vibe match term shared by every intent: +18
// exact, +10 same mood group, -30 on a cross-group mismatch.
func (a *IntentAdjuster) vibeAdjustment(m models.Meeting, q models.Query) float64 {
	requested := a.normalizer.NormalizeVibe(q.Vibe)
	meeting := a.normalizer.NormalizeVibe(m.Vibe)
	if requested == "" || meeting == "" {
		return 0
	}

	if requested == meeting {
		return 18
	}

	_, reqHealing := healingVibeSet[requested]
	_, meetHealing := healingVibeSet[meeting]
	if reqHealing && meetHealing {
		return 10
	}
	_, reqFun := funVibeSet[requested]
	_, meetFun := funVibeSet[meeting]
	if reqFun && meetFun {
		return 10
	}

	utils.GetLogger().Debug("vibe mismatch penalty",
		zap.String("requested", requested), zap.String("meeting", meeting))
	return -30
}
