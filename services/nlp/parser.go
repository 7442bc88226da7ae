// Package nlp parses free-text search prompts into structured queries with
// a generative model.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// QueryParser turns a user prompt into a structured query. Implementations
// must degrade to a usable low-confidence query on any failure.
type QueryParser interface {
	ParseSearchQuery(ctx context.Context, prompt string) models.Query
}

type geminiParser struct {
	model *genai.GenerativeModel
}

// NewGeminiParser builds the default parser on the Gemini API.
func NewGeminiParser(ctx context.Context, apiKey string) (QueryParser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-flash")
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(500)
	return &geminiParser{model: model}, nil
}

const parserSystemPrompt = `당신은 모임 검색 쿼리 파서입니다. 사용자의 자연어 입력을 JSON 형태로 변환하세요.

**카테고리 매핑 규칙:**
- 스포츠: 러닝, 등산, 축구, 농구, 배드민턴, 테니스, 요가, 필라테스, 헬스, 사이클링
- 맛집: 한식, 중식, 일식, 양식, 카페, 디저트, 술집, 맛집투어
- 카페: 카페투어, 스터디카페, 북카페, 브런치카페
- 문화예술: 영화, 연극, 전시회, 공연, 박물관, 갤러리
- 스터디: 어학, 자격증, IT, 독서, 토론
- 취미활동: 사진, 그림, 악기, 보드게임, 독서, 요리
- 소셜: 번개, 네트워킹, 친목, 파티

**시간대 매핑:**
- morning: 아침, 오전, 새벽
- afternoon: 오후, 점심, 낮
- evening: 저녁, 밤, 야간

**분위기 매핑:**
- 활기찬: 신나는, 활발한, 에너제틱한
- 여유로운: 편안한, 느긋한, 천천히
- 진지한: 집중하는, 전문적인
- 즐거운: 재미있는, 유쾌한
- 감성적인: 감성, 로맨틱한
- 에너지 넘치는: 강렬한, 역동적인
- 힐링: 치유, 평화로운
- 창의적인: 독특한, 예술적인

**응답 형식 (반드시 JSON만):**
{"category": "스포츠", "subcategory": "러닝", "time_slot": "evening", "location_query": "강남", "vibe": "활기찬", "max_cost": 10000, "keywords": ["러닝", "강남", "저녁"], "confidence": 0.9}

**중요:**
1. 반드시 JSON만 출력하세요 (설명 금지)
2. 필드가 없으면 null 사용
3. confidence는 0~1 사이 값 (확신도)
4. keywords는 핵심 단어 3~5개 추출`

func (p *geminiParser) ParseSearchQuery(ctx context.Context, prompt string) models.Query {
	log := utils.GetLogger()

	resp, err := p.model.GenerateContent(ctx,
		genai.Text(parserSystemPrompt+"\n\n사용자 입력: "+prompt))
	if err != nil {
		log.Error("query parse call failed", zap.Error(err))
		return FallbackParse(prompt)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}

	q, err := decodeQuery(sb.String())
	if err != nil {
		log.Error("query parse response invalid", zap.Error(err))
		return FallbackParse(prompt)
	}

	log.Info("query parsed",
		zap.String("category", q.Category),
		zap.String("vibe", q.Vibe),
		zap.Float64("confidence", q.Confidence))
	return q
}

// decodeQuery strips markdown fences and unmarshals the model's JSON.
func decodeQuery(content string) (models.Query, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var q models.Query
	if err := json.Unmarshal([]byte(content), &q); err != nil {
		return models.Query{}, fmt.Errorf("decoding parsed query: %w", err)
	}
	return q, nil
}

// FallbackParse is the degraded path when the model call or its output
// fails: keywords from whitespace tokens, low confidence.
func FallbackParse(prompt string) models.Query {
	utils.GetLogger().Warn("fallback prompt parse", zap.String("prompt", prompt))

	var keywords []string
	for _, word := range strings.Fields(prompt) {
		if len([]rune(word)) > 1 {
			keywords = append(keywords, word)
		}
		if len(keywords) == 5 {
			break
		}
	}
	return models.Query{Keywords: keywords, Confidence: 0.3}
}
