package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomChineseName(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		name := GenerateRandomChineseName()
		length := utf8.RuneCountInString(name)
		require.GreaterOrEqual(t, length, 2)
		require.LessOrEqual(t, length, 3)
	}
}

func TestGenerateUsernameFromChineseName(t *testing.T) {
	t.Parallel()

	username := GenerateUsernameFromChineseName("张伟")
	require.NotEmpty(t, username)
	// 拼音加数字后缀, 全部是 ASCII
	for _, r := range username {
		require.Less(t, r, rune(128))
	}
	require.True(t, strings.HasPrefix(username, "z"))
}

func TestGenerateRandomID(t *testing.T) {
	t.Parallel()

	id := GenerateRandomID(8, 8)
	require.Len(t, id, 16)
	for _, r := range id[8:] {
		require.GreaterOrEqual(t, r, '0')
		require.LessOrEqual(t, r, '9')
	}
}

func TestGradeFromScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  string
	}{
		{95, "A"},
		{90, "A"},
		{89.9, "B"},
		{75, "B"},
		{60, "C"},
		{59.9, "D"},
		{0, "D"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, GradeFromScore(tt.score))
	}
}

func TestGenerateRandomScore(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		score := GenerateRandomScore(40, 95)
		require.GreaterOrEqual(t, score, 40.0)
		require.Less(t, score, 95.0)
	}
}
