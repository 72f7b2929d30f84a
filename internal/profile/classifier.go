package profile

import "strings"

type Category int

const (
	CategoryNone Category = iota
	CategoryTech
	CategoryPersonality
)

// Classifier 按关键字把评价项标签归入技术或素质两个桶，
// 标签两个桶都不命中时不参与侧重度计算
type Classifier struct {
	techKeywords        []string
	personalityKeywords []string
}

func NewClassifier(techKeywords []string, personalityKeywords []string) *Classifier {
	return &Classifier{
		techKeywords:        techKeywords,
		personalityKeywords: personalityKeywords,
	}
}

// Classify 先匹配技术关键字再匹配素质关键字，两者都命中时按技术处理
func (c *Classifier) Classify(label string) Category {
	for _, keyword := range c.techKeywords {
		if strings.Contains(label, keyword) {
			return CategoryTech
		}
	}
	for _, keyword := range c.personalityKeywords {
		if strings.Contains(label, keyword) {
			return CategoryPersonality
		}
	}
	return CategoryNone
}
