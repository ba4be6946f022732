package services

import (
	"log"

	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/models"
)

// SeedSkills 按技能定义初始化角色技能，有解锁条件的技能初始为锁定
func SeedSkills(c *models.Character, catalog *content.Catalog) {
	if c.Skills == nil {
		c.Skills = map[string]*models.Skill{}
	}
	for _, def := range catalog.Skills {
		if _, ok := c.Skills[def.ID]; ok {
			continue
		}
		c.Skills[def.ID] = &models.Skill{Locked: def.Unlock != nil}
	}
}

// TryUnlockSkills 解锁满足条件的技能，返回新解锁的技能名称
func TryUnlockSkills(re *RequirementEvaluator, catalog *content.Catalog, c *models.Character, flags models.SpecialFlags) []string {
	var unlocked []string
	for _, def := range catalog.Skills {
		s, ok := c.Skills[def.ID]
		if !ok || !s.Locked {
			continue
		}
		if !re.IsEligible(def.Gate(), c, flags) {
			continue
		}
		if err := c.UnlockSkill(def.ID); err != nil {
			log.Printf("⚠️ 解锁技能失败: %v\n", err)
			continue
		}
		log.Printf("🔓 [技能] 解锁了技能: %s\n", def.Name)
		unlocked = append(unlocked, def.Name)
	}
	return unlocked
}

// SkillViews 技能面板
func SkillViews(catalog *content.Catalog, c *models.Character) []models.SkillView {
	views := make([]models.SkillView, 0, len(catalog.Skills))
	for _, def := range catalog.Skills {
		s, ok := c.Skills[def.ID]
		if !ok {
			continue
		}
		views = append(views, models.SkillView{
			ID:          def.ID,
			Name:        def.Name,
			Level:       s.Level,
			Experience:  s.Experience,
			Locked:      s.Locked,
			Description: def.LevelDescription(s.Level),
		})
	}
	return views
}
