package services

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"github.com/aiwuxian/life-path/internal/models"
)

// randomSource 均匀随机源，测试时替换为固定序列
type randomSource interface {
	Float64() float64
	IntN(n int) int
}

type RuleEngine struct {
	rng randomSource
}

// newRuleEngineWithSource 使用指定随机源
func newRuleEngineWithSource(src randomSource) *RuleEngine {
	return &RuleEngine{rng: src}
}

// NewSessionRuleEngine 由会话种子和操作序号派生随机源，同一会话重放时结果一致
func NewSessionRuleEngine(seed int64, op int) *RuleEngine {
	// #nosec G404
	rng := rand.New(rand.NewPCG(seedWord(seed, fmt.Sprintf("a%d", op)), seedWord(seed, fmt.Sprintf("b%d", op))))
	return &RuleEngine{rng: rng}
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// Chance 伯努利检定：样本小于概率即成功
func (re *RuleEngine) Chance(probability float64) bool {
	return re.rng.Float64() < probability
}

// Pick 在 [0,n) 中均匀选一个
func (re *RuleEngine) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return re.rng.IntN(n)
}

// PickOutcome 按累计概率选择随机分支。
// 只抽一次样本；概率总和不足1且样本落在末尾之外时返回 false。
func (re *RuleEngine) PickOutcome(outcomes []models.Outcome) (int, bool) {
	if len(outcomes) == 0 {
		return 0, false
	}
	sample := re.rng.Float64()
	cumulative := 0.0
	for i, o := range outcomes {
		cumulative += o.Probability
		if sample < cumulative {
			return i, true
		}
	}
	return 0, false
}
