package panel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeededPickDeterministic(t *testing.T) {
	t.Parallel()

	pool := []int64{101, 102, 103, 104, 105}

	first := SeededPick(1, 10, 100, pool, 3)
	second := SeededPick(1, 10, 100, pool, 3)
	require.Equal(t, first, second)
	require.Len(t, first, 3)

	seen := map[int64]bool{}
	for _, id := range pool {
		seen[id] = true
	}
	for _, id := range first {
		require.True(t, seen[id], "选出的 %d 不在候选池中", id)
	}
}

func TestSeededPickDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	pool := []int64{101, 102, 103, 104}
	SeededPick(1, 10, 100, pool, 4)
	require.Equal(t, []int64{101, 102, 103, 104}, pool)
}

func TestSeededPickScarcityRepeats(t *testing.T) {
	t.Parallel()

	pool := []int64{7, 8}
	picked := SeededPick(2, 20, 200, pool, 5)
	require.Len(t, picked, 5)

	// 候选池耗尽后从头循环, 重复出现的 ID 即是缺员信号
	require.Equal(t, picked[0], picked[2])
	require.Equal(t, picked[0], picked[4])
	require.Equal(t, picked[1], picked[3])
	require.NotEqual(t, picked[0], picked[1])
	require.ElementsMatch(t, pool, []int64{picked[0], picked[1]})
}

func TestSeededPickEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, SeededPick(1, 1, 1, nil, 3))
	require.Empty(t, SeededPick(1, 1, 1, []int64{5}, 0))
	require.Empty(t, SeededPick(1, 1, 1, []int64{5}, -1))
}
