package panel

import (
	"encoding/binary"
	"math/rand"

	"github.com/zeebo/xxh3"
)

// SeededPick 是画像推荐不可用时的兜底选人策略：
// 用公司、部门、公告三个 ID 生成稳定种子做确定性洗牌，
// 相同输入总是产生相同的结果，便于问题复现。
// 候选人不足时从头循环取人，返回值中的重复 ID 即是缺员信号。
func SeededPick(companyID int64, departmentID int64, jobPostID int64, candidateIDs []int64, count int) []int64 {
	if len(candidateIDs) == 0 || count <= 0 {
		return []int64{}
	}

	var seed [24]byte
	binary.LittleEndian.PutUint64(seed[0:], uint64(companyID))
	binary.LittleEndian.PutUint64(seed[8:], uint64(departmentID))
	binary.LittleEndian.PutUint64(seed[16:], uint64(jobPostID))

	shuffled := make([]int64, len(candidateIDs))
	copy(shuffled, candidateIDs)

	rng := rand.New(rand.NewSource(int64(xxh3.Hash(seed[:]))))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	picked := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		picked = append(picked, shuffled[i%len(shuffled)])
	}

	return picked
}
