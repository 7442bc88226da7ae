package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQuery(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		q, err := decodeQuery(`{"category":"카페","vibe":"힐링","confidence":0.85}`)
		require.NoError(t, err)
		assert.Equal(t, "카페", q.Category)
		assert.Equal(t, "힐링", q.Vibe)
		assert.Equal(t, 0.85, q.Confidence)
	})

	t.Run("fenced json", func(t *testing.T) {
		q, err := decodeQuery("```json\n{\"category\":\"스포츠\",\"confidence\":0.9}\n```")
		require.NoError(t, err)
		assert.Equal(t, "스포츠", q.Category)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := decodeQuery("죄송합니다, 파싱할 수 없습니다")
		assert.Error(t, err)
	})
}

func TestFallbackParse(t *testing.T) {
	q := FallbackParse("조용한 카페 에서 책 읽기 모임 어딘가")
	assert.Equal(t, 0.3, q.Confidence)
	assert.Len(t, q.Keywords, 5) // capped
	assert.Contains(t, q.Keywords, "조용한")
	assert.NotContains(t, q.Keywords, "책") // single-rune tokens dropped

	empty := FallbackParse("")
	assert.Empty(t, empty.Keywords)
	assert.Equal(t, 0.3, empty.Confidence)
}
