package services

import (
	"testing"

	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/models"
)

func mustCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	catalog, err := content.Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	return catalog
}

// newTestCharacter 按内置内容初始化技能和关系，阶段与学业按年龄推算
func newTestCharacter(t *testing.T, catalog *content.Catalog, age int) *models.Character {
	t.Helper()
	c := models.NewCharacter("测试", age)
	SeedSkills(c, catalog)
	for _, npc := range catalog.NPCs {
		c.SeedRelationship(npc.ID, npc.Relationship)
	}
	c.LifeStage = ResolveLifeStage(c, models.SpecialFlags{})
	UpdateEducation(c)
	return c
}

func fixedRules(floats []float64, ints ...int) *RuleEngine {
	return newRuleEngineWithSource(&sequenceSource{Floats: floats, Ints: ints})
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

// sequenceSource 按顺序返回预设样本的随机源，用完后循环
type sequenceSource struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

func (s *sequenceSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

func (s *sequenceSource) IntN(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	if v < 0 {
		v = -v
	}
	return v % n
}
