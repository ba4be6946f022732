package services

import (
	"github.com/aiwuxian/life-path/internal/models"
)

// Eligible 过滤出角色当前有资格看到的内容记录，保持原有顺序
func Eligible[T models.Gated](re *RequirementEvaluator, records []T, c *models.Character, flags models.SpecialFlags) []T {
	var out []T
	for _, r := range records {
		if re.IsEligible(r.Gate(), c, flags) {
			out = append(out, r)
		}
	}
	return out
}

// optionViews 事件选项视图，不满足条件的选项附带原因
func optionViews(re *RequirementEvaluator, e models.Event, c *models.Character, flags models.SpecialFlags) []models.OptionView {
	views := make([]models.OptionView, 0, len(e.Options))
	for i, o := range e.Options {
		reasons := re.Explain(o.Requirement, c, flags)
		views = append(views, models.OptionView{
			Index:   i,
			Text:    o.Text,
			Enabled: len(reasons) == 0,
			Reasons: reasons,
		})
	}
	return views
}

// offer 把事件包装成待选择的事件
func offer(re *RequirementEvaluator, e models.Event, c *models.Character, flags models.SpecialFlags) models.EventOffer {
	return models.EventOffer{
		EventID:     e.ID,
		Title:       e.Title,
		Description: e.Description,
		Mandatory:   e.Mandatory,
		Options:     optionViews(re, e, c, flags),
	}
}

// actionViews NPC互动或场景操作的视图；npcID 非空时关系条件默认指向该NPC
func actionViews(re *RequirementEvaluator, actions []models.Action, npcID string, c *models.Character, flags models.SpecialFlags) []models.ActionView {
	views := make([]models.ActionView, 0, len(actions))
	for _, a := range actions {
		reasons := re.Explain(a.Requirement.ForNPC(npcID), c, flags)
		views = append(views, models.ActionView{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Enabled:     len(reasons) == 0,
			Reasons:     reasons,
		})
	}
	return views
}
