package services

import (
	"github.com/aiwuxian/life-path/internal/models"
)

// 特殊状态中有副作用的键
const (
	SpecialCollegeTier = "collegeTier"
	SpecialApplyMaster = "applyMaster"
	SpecialApplyPhD    = "applyPhD"
	SpecialSkipCollege = "skipCollege"
	SpecialFindJob     = "findJob"
	SpecialHasJob      = "hasJob"
)

const (
	adulthoodAge        = 18
	universityEndAge    = 22
	masterEndAge        = 25
	phdEndAge           = 28
	compulsoryFinishAge = 17
)

// ResolveLifeStage 由年龄、教育状态和特殊状态推出人生阶段。
// 纯函数，按以下顺序判断：
//  1. 放弃高考（或中途辍学）的人直接进入社会，不看年龄
//  2. 未满18岁为义务教育
//  3. 18岁且尚未完成高中仍为义务教育，等待高考
//  4. 完成高中且未满22岁为大学
//  5. 未找工作时，本科毕业未满25岁或硕士毕业未满28岁为硕博
//  6. 其余为社会
func ResolveLifeStage(c *models.Character, flags models.SpecialFlags) models.LifeStage {
	edu := c.Education
	switch {
	case edu.SkippedCollege:
		return models.StageSociety
	case c.Age < adulthoodAge:
		return models.StageCompulsory
	case c.Age == adulthoodAge && !edu.HasCompletedHighSchool:
		return models.StageCompulsory
	case edu.HasCompletedHighSchool && c.Age < universityEndAge:
		return models.StageUniversity
	case !models.Truthy(flags.Get(SpecialFindJob)) &&
		((edu.HasCompletedCollege && c.Age < masterEndAge) || (edu.HasMasterDegree && c.Age < phdEndAge)):
		return models.StageGraduate
	}
	return models.StageSociety
}

// UpdateEducation 义务教育阶段按年龄更新学校和年级
func UpdateEducation(c *models.Character) {
	if c.LifeStage != models.StageCompulsory {
		return
	}

	edu := &c.Education
	switch {
	case c.Age < 12:
		edu.CurrentSchool = "小学"
		edu.Grade = c.Age - 5
	case c.Age < 15:
		edu.CurrentSchool = "初中"
		edu.Grade = c.Age - 11
	case c.Age < 18:
		edu.CurrentSchool = "高中"
		edu.Grade = c.Age - 14
	}

	if c.Age == compulsoryFinishAge {
		edu.HasCompletedCompulsoryEducation = true
	}
}

// applySpecialCompanion 写入特殊状态后同步教育和职业状态，返回附加的结果描述
func (er *EffectResolver) applySpecialCompanion(c *models.Character, key string, value any) []string {
	if key == SpecialHasJob {
		employed := models.Truthy(value)
		c.Career.HasJob = employed
		if employed {
			if c.Career.JobTitle == "" {
				c.Career.JobTitle = "职员"
			}
			c.Career.Salary = Salary(c, er.rates)
		} else {
			c.Career.Salary = 0
		}
		return []string{"就业状态更新"}
	}

	if !models.Truthy(value) {
		return nil
	}

	edu := &c.Education
	switch key {
	case SpecialCollegeTier:
		edu.HasCompletedHighSchool = true
		return []string{"完成高中教育"}
	case SpecialApplyMaster:
		edu.HasCompletedCollege = true
		return []string{"完成大学教育"}
	case SpecialApplyPhD:
		edu.HasMasterDegree = true
		return []string{"完成硕士教育"}
	case SpecialSkipCollege:
		// 未满18岁离开学校不算高中毕业
		if c.Age >= adulthoodAge {
			edu.HasCompletedHighSchool = true
		}
		edu.SkippedCollege = true
		c.LifeStage = models.StageSociety
		return []string{"跳过大学教育，直接进入社会"}
	case SpecialFindJob:
		switch c.LifeStage {
		case models.StageUniversity:
			edu.HasCompletedCollege = true
		case models.StageGraduate:
			edu.HasMasterDegree = true
		}
		return []string{"找到工作"}
	}
	return nil
}
