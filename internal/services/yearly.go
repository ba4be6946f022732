package services

import (
	"fmt"

	"github.com/aiwuxian/life-path/internal/models"
)

const (
	skillAcademic     = "academicBasics"
	skillPhysical     = "physicalTraining"
	skillSocial       = "socialSkills"
	skillProfessional = "professionalSkills"
)

// Salary 按学历、专业技能等级和工作年限计算年薪
func Salary(c *models.Character, rates models.Rates) float64 {
	edu := c.Education
	base := rates.SalaryNoDegree
	switch {
	case edu.HasPhDDegree:
		base = rates.SalaryPhD
	case edu.HasMasterDegree:
		base = rates.SalaryMaster
	case edu.HasCompletedCollege:
		base = rates.SalaryCollege
	case edu.HasCompletedHighSchool:
		base = rates.SalaryHighSchool
	}

	level := 0
	if s, ok := c.Skills[skillProfessional]; ok && !s.Locked {
		level = s.Level
	}
	years := min(c.Career.WorkExperience, rates.SalaryExperienceCap)

	return base * (1 + rates.SalarySkillBonus*float64(level)) * (1 + rates.SalaryExperienceBonus*float64(years))
}

// ApplyTimeEffects 按时间分配结算一年的被动变化，返回结果描述。
// 同一属性的多项变化先累加，最后一次性限制到区间内。
func ApplyTimeEffects(c *models.Character, rates models.Rates) []string {
	t := c.TimeAllocation
	deltas := map[string]float64{}
	var lines []string

	deltas[models.AttrIntelligence] += float64(t.Study) * rates.StudyIntelligence
	grant := func(skill string, percent int) {
		if percent <= 0 {
			return
		}
		amount := float64(percent) * rates.SkillXPPerPercent
		if c.GrantExperience(skill, amount) {
			lines = append(lines, fmt.Sprintf("%s 经验 %s", skill, models.FormatSigned(amount)))
		}
	}
	grant(skillAcademic, t.Study)

	deltas[models.AttrHappiness] += float64(t.Entertainment) * rates.EntertainmentHappiness
	if t.Entertainment < rates.EntertainmentFloor {
		deltas[models.AttrHappiness] -= rates.LowEntertainmentCost
	}

	deltas[models.AttrFitness] += float64(t.Fitness) * rates.FitnessGain
	grant(skillPhysical, t.Fitness)

	deltas[models.AttrCharm] += float64(t.Social) * rates.SocialCharm
	// 社交能力未解锁时 GrantExperience 不生效
	grant(skillSocial, t.Social)

	if c.Career.HasJob {
		c.Career.Salary = Salary(c, rates)
		income := c.Career.Salary * float64(t.Work) / 100
		if income != 0 {
			c.Money += income
			lines = append(lines, fmt.Sprintf("工资收入 %s", models.FormatSigned(income)))
		}
		grant(skillProfessional, t.Work)
		if t.Work > 0 {
			c.Career.WorkExperience++
		}
	}

	// 体力恢复按本年锻炼后的体质计算
	fitness, _ := c.Attribute(models.AttrFitness)
	fitness = c.Bound(models.AttrFitness).Clamp(fitness + deltas[models.AttrFitness])
	deltas[models.AttrHealth] += fitness*rates.FitnessRecovery - rates.HealthDecay
	if c.Age > rates.AgingThreshold {
		deltas[models.AttrHealth] -= float64(c.Age-rates.AgingThreshold) * rates.AgingDecay
	}

	for _, attr := range models.AttributeNames {
		d, ok := deltas[attr]
		if !ok || d == 0 {
			continue
		}
		if _, err := c.AdjustAttribute(attr, d); err == nil {
			lines = append(lines, fmt.Sprintf("%s %s", attr, models.FormatSigned(d)))
		}
	}
	return lines
}

// ApplyNaturalGrowth 未成年时每年自然成长
func ApplyNaturalGrowth(c *models.Character, rates models.Rates) []string {
	if c.Age >= adulthoodAge {
		return nil
	}
	growth := []struct {
		attr  string
		delta float64
	}{
		{models.AttrIntelligence, rates.GrowthIntelligence},
		{models.AttrFitness, rates.GrowthFitness},
	}

	var lines []string
	for _, g := range growth {
		attr, d := g.attr, g.delta
		if d == 0 {
			continue
		}
		if _, err := c.AdjustAttribute(attr, d); err == nil {
			lines = append(lines, fmt.Sprintf("%s %s", attr, models.FormatSigned(d)))
		}
	}
	return lines
}
