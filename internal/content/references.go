package content

import (
	"fmt"
	"sort"

	"github.com/aiwuxian/life-path/internal/models"
)

// Warnings 列出引用了未定义属性、技能或NPC的内容。
// 这些引用在运行时是空操作，加载时只提示不报错。
func (c *Catalog) Warnings() []string {
	attrs := map[string]bool{}
	for _, a := range models.AttributeNames {
		attrs[a] = true
	}
	skills := map[string]bool{}
	for _, s := range c.Skills {
		skills[s.ID] = true
	}
	npcs := map[string]bool{}
	for _, n := range c.NPCs {
		npcs[n.ID] = true
	}

	seen := map[string]bool{}
	var out []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		if !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}

	var checkEffects func(where string, effects []models.EffectSpec)
	checkEffects = func(where string, effects []models.EffectSpec) {
		for _, e := range effects {
			switch e.Kind {
			case models.EffectAttribute:
				if !attrs[e.Target] {
					warn("%s: 未知属性 %s", where, e.Target)
				}
			case models.EffectSkill, models.EffectUnlockSkill:
				if !skills[e.Target] {
					warn("%s: 未知技能 %s", where, e.Target)
				}
			case models.EffectRelationship:
				if e.Target != "" && !npcs[e.Target] {
					warn("%s: 未知NPC %s", where, e.Target)
				}
			case models.EffectRandom:
				for _, o := range e.Outcomes {
					checkEffects(where, o.All())
				}
			}
		}
	}
	checkReq := func(where string, r models.Requirement) {
		if r.Attribute != "" && !attrs[r.Attribute] {
			warn("%s: 条件引用未知属性 %s", where, r.Attribute)
		}
		for a := range r.Attributes {
			if !attrs[a] {
				warn("%s: 条件引用未知属性 %s", where, a)
			}
		}
		if r.Skill != "" && !skills[r.Skill] {
			warn("%s: 条件引用未知技能 %s", where, r.Skill)
		}
		for s := range r.Skills {
			if !skills[s] {
				warn("%s: 条件引用未知技能 %s", where, s)
			}
		}
		if r.NPC != "" && !npcs[r.NPC] {
			warn("%s: 条件引用未知NPC %s", where, r.NPC)
		}
	}

	for _, e := range c.Events {
		checkReq("事件 "+e.ID, e.Requirement)
		for _, o := range e.Options {
			checkReq("事件 "+e.ID, o.Requirement)
			checkEffects("事件 "+e.ID, o.Effects)
		}
	}
	for _, it := range c.Items {
		checkReq("物品 "+it.ID, it.Requirement)
		checkEffects("物品 "+it.ID, it.Effects)
	}
	for _, n := range c.NPCs {
		checkReq("NPC "+n.ID, n.Requirement)
		for _, a := range n.Interactions {
			checkReq("NPC "+n.ID+"/"+a.ID, a.Requirement)
			checkEffects("NPC "+n.ID+"/"+a.ID, a.Effects)
		}
	}
	for _, s := range c.Scenes {
		checkReq("场景 "+s.ID, s.Requirement)
		for _, a := range s.Actions {
			checkReq("场景 "+s.ID+"/"+a.ID, a.Requirement)
			checkEffects("场景 "+s.ID+"/"+a.ID, a.Effects)
		}
	}

	sort.Strings(out)
	return out
}
