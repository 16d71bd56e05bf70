package sms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Empty(t *testing.T) {
	assert.Nil(t, Split(""))
}

func TestSplit_SingleGSMPart(t *testing.T) {
	msg := strings.Repeat("a", 160)

	parts := Split(msg)

	require.Len(t, parts, 1)
	assert.Equal(t, msg, parts[0])
}

func TestSplit_MultipartGSM(t *testing.T) {
	msg := strings.Repeat("a", 161)

	parts := Split(msg)

	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 153)
	assert.Len(t, parts[1], 8)
	assert.Equal(t, msg, strings.Join(parts, ""))
}

func TestSplit_ExtendedCharsCountDouble(t *testing.T) {
	// 80 символов расширенной таблицы = 160 септетов
	assert.Len(t, Split(strings.Repeat("{", 80)), 1)
	assert.Len(t, Split(strings.Repeat("{", 81)), 2)
}

func TestSplit_UCS2(t *testing.T) {
	msg := strings.Repeat("ж", 70)
	assert.Len(t, Split(msg), 1)

	msg = strings.Repeat("ж", 71)
	parts := Split(msg)

	require.Len(t, parts, 2)
	assert.Equal(t, 67, len([]rune(parts[0])))
	assert.Equal(t, 4, len([]rune(parts[1])))
}

func TestSplit_DoesNotBreakSurrogatePairs(t *testing.T) {
	// каждый эмодзи - два кодовых слова UTF-16
	msg := strings.Repeat("😀", 40)

	parts := Split(msg)

	require.Len(t, parts, 2)
	assert.Equal(t, 33, len([]rune(parts[0])))
	assert.Equal(t, msg, strings.Join(parts, ""))
}

func TestSplit_SOSMessageFitsGSM(t *testing.T) {
	msg := "SOS ALERT: alice needs immediate help! They are at this location: " +
		"https://www.google.com/maps/search/?api=1&query=52.52,13.405"

	parts := Split(msg)

	require.Len(t, parts, 1)
	assert.Equal(t, msg, parts[0])
}
