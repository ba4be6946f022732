package services

import (
	"fmt"
	"sort"

	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/models"
)

// RequirementEvaluator 资格判定。只读，不修改角色和特殊状态。
type RequirementEvaluator struct {
	catalog *content.Catalog
}

func NewRequirementEvaluator(catalog *content.Catalog) *RequirementEvaluator {
	return &RequirementEvaluator{catalog: catalog}
}

// IsEligible 所有出现的子条件同时满足才返回 true
func (re *RequirementEvaluator) IsEligible(r models.Requirement, c *models.Character, flags models.SpecialFlags) bool {
	return len(re.check(r, c, flags, false)) == 0
}

// Explain 返回未满足的条件说明，全部满足时为空
func (re *RequirementEvaluator) Explain(r models.Requirement, c *models.Character, flags models.SpecialFlags) []string {
	return re.check(r, c, flags, true)
}

// check 逐项检查条件；all 为 false 时遇到第一个不满足的条件即返回
func (re *RequirementEvaluator) check(r models.Requirement, c *models.Character, flags models.SpecialFlags, all bool) []string {
	var reasons []string
	fail := func(format string, args ...any) bool {
		reasons = append(reasons, fmt.Sprintf(format, args...))
		return !all
	}

	if r.MinAge > 0 && c.Age < r.MinAge {
		if fail("需要年龄 ≥ %d", r.MinAge) {
			return reasons
		}
	}
	if r.MaxAge > 0 && c.Age > r.MaxAge {
		if fail("需要年龄 ≤ %d", r.MaxAge) {
			return reasons
		}
	}
	if !r.AllowsStage(c.LifeStage) {
		if fail("需要处于%s阶段", stageList(r.Stages)) {
			return reasons
		}
	}

	attrConds := attributeConditions(r)
	for _, attr := range sortedKeys(attrConds) {
		minValue := attrConds[attr]
		v, ok := c.Attribute(attr)
		if !ok {
			if fail("未知属性 %s", attr) {
				return reasons
			}
			continue
		}
		if v < minValue {
			if fail("需要%s ≥ %s", models.AttributeLabel(attr), models.FormatNumber(minValue)) {
				return reasons
			}
		}
	}

	skillConds := skillConditions(r)
	for _, id := range sortedKeys(skillConds) {
		minLevel := skillConds[id]
		name := re.skillName(id)
		s, ok := c.Skills[id]
		switch {
		case !ok:
			if fail("未知技能 %s", id) {
				return reasons
			}
		case s.Locked:
			if fail("需要先解锁%s", name) {
				return reasons
			}
		case s.Level < minLevel:
			if fail("需要%s等级 ≥ %d", name, minLevel) {
				return reasons
			}
		}
	}

	specials := specialConditions(r)
	for _, key := range sortedKeys(specials) {
		if !flags.Matches(key, specials[key]) {
			if fail("需要特殊条件 %s = %v", key, specials[key]) {
				return reasons
			}
		}
	}

	if r.MinRelationship > 0 {
		value, _ := c.RelationshipValue(r.NPC)
		if r.NPC == "" || value < r.MinRelationship {
			if fail("需要与%s的关系 ≥ %d", re.npcName(r.NPC), r.MinRelationship) {
				return reasons
			}
		}
	}

	if r.Time > 0 && c.TimeAllocation.Remaining < r.Time {
		if fail("需要剩余时间 ≥ %d%%", r.Time) {
			return reasons
		}
	}
	if r.Money > 0 && c.Money < r.Money {
		if fail("需要金钱 ≥ %s", models.FormatNumber(r.Money)) {
			return reasons
		}
	}
	return reasons
}

func (re *RequirementEvaluator) skillName(id string) string {
	if re.catalog != nil {
		if def, ok := re.catalog.Skill(id); ok && def.Name != "" {
			return def.Name
		}
	}
	return id
}

func (re *RequirementEvaluator) npcName(id string) string {
	if id == "" {
		return "对方"
	}
	if re.catalog != nil {
		if npc, ok := re.catalog.NPC(id); ok && npc.Name != "" {
			return npc.Name
		}
	}
	return id
}

func attributeConditions(r models.Requirement) map[string]float64 {
	out := make(map[string]float64, len(r.Attributes)+1)
	for k, v := range r.Attributes {
		out[k] = v
	}
	if r.Attribute != "" {
		out[r.Attribute] = max(out[r.Attribute], r.MinValue)
	}
	return out
}

func skillConditions(r models.Requirement) map[string]int {
	out := make(map[string]int, len(r.Skills)+1)
	for k, v := range r.Skills {
		out[k] = v
	}
	if r.Skill != "" {
		out[r.Skill] = max(out[r.Skill], r.MinLevel)
	}
	return out
}

// specialConditions 合并单个和多个特殊条件，期望值为空时按 true 处理
func specialConditions(r models.Requirement) map[string]any {
	out := make(map[string]any, len(r.Specials)+1)
	for k, v := range r.Specials {
		if v == nil {
			v = true
		}
		out[k] = v
	}
	if r.Special != "" {
		v := r.Value
		if v == nil {
			v = true
		}
		out[r.Special] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stageList(stages []models.LifeStage) string {
	out := ""
	for i, s := range stages {
		if i > 0 {
			out += "或"
		}
		out += s.Label()
	}
	return out
}
