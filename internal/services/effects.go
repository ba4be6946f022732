package services

import (
	"fmt"
	"log"
	"math"

	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/models"
)

// EffectScope 一次效果结算的上下文
type EffectScope struct {
	Character *models.Character
	Flags     models.SpecialFlags
	Rules     *RuleEngine
	NPCID     string // 未指定目标的关系效果作用于该NPC
}

// EffectResolver 按顺序结算效果列表。
// 已生效的效果不会回滚；引用未知属性、技能或NPC时跳过并给出警告。
type EffectResolver struct {
	catalog *content.Catalog
	rates   models.Rates
	strict  bool
}

func NewEffectResolver(catalog *content.Catalog, cfg models.GameConfig) *EffectResolver {
	return &EffectResolver{
		catalog: catalog,
		rates:   cfg.Rates,
		strict:  cfg.StrictBalances,
	}
}

// Apply 依次应用效果，返回可读的结果描述
func (er *EffectResolver) Apply(scope EffectScope, effects []models.EffectSpec) []string {
	var results []string
	for _, e := range effects {
		results = append(results, er.applyOne(scope, e)...)
	}
	return results
}

func (er *EffectResolver) applyOne(scope EffectScope, e models.EffectSpec) []string {
	c := scope.Character

	switch e.Kind {
	case models.EffectAttribute:
		if _, err := c.AdjustAttribute(e.Target, e.Amount()); err != nil {
			return er.warn("未知属性 %s，效果已忽略", e.Target)
		}
		return []string{fmt.Sprintf("%s %s", e.Target, models.FormatSigned(e.Amount()))}

	case models.EffectSkill:
		if _, ok := c.Skills[e.Target]; !ok {
			return er.warn("未知技能 %s，效果已忽略", e.Target)
		}
		if !c.GrantExperience(e.Target, e.Amount()) {
			return nil
		}
		return []string{fmt.Sprintf("%s 经验 %s", e.Target, models.FormatSigned(e.Amount()))}

	case models.EffectMoney:
		amount := e.Amount()
		if er.strict && c.Money+amount < 0 {
			return []string{fmt.Sprintf("金钱不足，%s 未生效", models.FormatSigned(amount))}
		}
		c.Money += amount
		return []string{fmt.Sprintf("金钱 %s", models.FormatSigned(amount))}

	case models.EffectTime:
		// 正值表示消耗时间
		amount := int(math.Round(e.Amount()))
		if er.strict && c.TimeAllocation.Remaining-amount < 0 {
			return []string{fmt.Sprintf("时间不足，-%d%% 未生效", amount)}
		}
		c.TimeAllocation.Remaining -= amount
		return []string{fmt.Sprintf("时间 %s%%", models.FormatSigned(-float64(amount)))}

	case models.EffectRelationship:
		npcID := e.Target
		if npcID == "" {
			npcID = scope.NPCID
		}
		if npcID == "" {
			return er.warn("关系效果没有指定对象，效果已忽略")
		}
		name := npcID
		if npc, ok := er.catalog.NPC(npcID); ok {
			name = npc.Name
			c.SeedRelationship(npcID, npc.Relationship)
		}
		delta := int(math.Round(e.Amount()))
		if _, ok := c.ChangeRelationship(npcID, delta); !ok {
			return er.warn("未知NPC %s，效果已忽略", npcID)
		}
		return []string{fmt.Sprintf("与%s的关系 %s", name, models.FormatSigned(float64(delta)))}

	case models.EffectSpecial:
		scope.Flags.Set(e.Target, e.Value)
		results := []string{fmt.Sprintf("特殊效果: %s = %v", e.Target, scope.Flags.Get(e.Target))}
		results = append(results, er.applySpecialCompanion(c, e.Target, e.Value)...)
		c.LifeStage = ResolveLifeStage(c, scope.Flags)
		return results

	case models.EffectUnlockSkill:
		s, ok := c.Skills[e.Target]
		if !ok {
			return er.warn("未知技能 %s，无法解锁", e.Target)
		}
		if !s.Locked {
			return nil
		}
		_ = c.UnlockSkill(e.Target)
		return []string{fmt.Sprintf("解锁技能: %s", er.skillName(e.Target))}

	case models.EffectRandom:
		idx, ok := scope.Rules.PickOutcome(e.Outcomes)
		if !ok {
			return nil
		}
		return er.Apply(scope, e.Outcomes[idx].All())
	}

	panic(fmt.Sprintf("未知的效果类型 %q", e.Kind))
}

func (er *EffectResolver) warn(format string, args ...any) []string {
	msg := fmt.Sprintf(format, args...)
	log.Printf("⚠️ %s\n", msg)
	return []string{"⚠️ " + msg}
}

func (er *EffectResolver) skillName(id string) string {
	if def, ok := er.catalog.Skill(id); ok && def.Name != "" {
		return def.Name
	}
	return id
}
