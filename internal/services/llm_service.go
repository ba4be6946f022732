package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aiwuxian/life-path/internal/models"
)

// LLMService 人生传记生成。未配置 API Key 时为 nil，调用方使用模板文本。
type LLMService struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewLLMService(cfg models.LLMConfig) *LLMService {
	if cfg.APIKey == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = cfg.APIBase
	}

	return &LLMService{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Enabled 是否可以调用模型
func (s *LLMService) Enabled() bool {
	return s != nil && s.client != nil
}

const biographySystemPrompt = `你是一位传记作家。根据提供的人生经历，用第三人称写一段300字以内的中文人生小传。
语气温和真实，按时间顺序叙述，突出关键选择和转折，不要编造资料中没有的重大事件，不要提及游戏或模拟。`

// NarrateBiography 调用模型生成人生小传
func (s *LLMService) NarrateBiography(ctx context.Context, session *models.Session) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("LLM 未配置")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: biographySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: biographyFacts(session)},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("生成人生小传失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("生成人生小传失败: 模型没有返回内容")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// biographyFacts 整理给模型的人生资料
func biographyFacts(session *models.Session) string {
	c := session.Character
	var b strings.Builder

	fmt.Fprintf(&b, "姓名: %s\n", c.Name)
	fmt.Fprintf(&b, "年龄: %d 岁，当前阶段: %s\n", c.Age, c.LifeStage.Label())
	fmt.Fprintf(&b, "学历: %s\n", educationSummary(c.Education))
	if c.Career.HasJob {
		fmt.Fprintf(&b, "职业: %s，年薪 %s，工作 %d 年\n", c.Career.JobTitle, models.FormatNumber(c.Career.Salary), c.Career.WorkExperience)
	} else {
		b.WriteString("职业: 无\n")
	}
	fmt.Fprintf(&b, "金钱: %s\n", models.FormatNumber(c.Money))

	var attrs []string
	for _, attr := range models.AttributeNames {
		v, _ := c.Attribute(attr)
		attrs = append(attrs, fmt.Sprintf("%s %s", models.AttributeLabel(attr), models.FormatNumber(v)))
	}
	fmt.Fprintf(&b, "属性: %s\n", strings.Join(attrs, "，"))

	var closest []string
	ids := make([]string, 0, len(c.Relationships))
	for id := range c.Relationships {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sort.SliceStable(ids, func(i, j int) bool {
		return c.Relationships[ids[i]].Value > c.Relationships[ids[j]].Value
	})
	for _, id := range ids[:min(3, len(ids))] {
		v := c.Relationships[id].Value
		closest = append(closest, fmt.Sprintf("%s(%s)", id, models.RelationshipLabel(v)))
	}
	if len(closest) > 0 {
		fmt.Fprintf(&b, "重要关系: %s\n", strings.Join(closest, "，"))
	}

	b.WriteString("人生经历:\n")
	for _, entry := range session.Log {
		if entry.Type == "event" || entry.Type == "choice" {
			fmt.Fprintf(&b, "- %d岁 %s\n", entry.Age, entry.Content)
		}
	}
	return b.String()
}

func educationSummary(edu models.Education) string {
	switch {
	case edu.HasPhDDegree:
		return "博士"
	case edu.HasMasterDegree:
		return "硕士"
	case edu.HasCompletedCollege:
		return "本科"
	case edu.HasCompletedHighSchool:
		return "高中"
	case edu.HasCompletedCompulsoryEducation:
		return "义务教育"
	}
	return edu.CurrentSchool + "在读"
}

// TemplateBiography 不调用模型时的模板小传
func TemplateBiography(session *models.Session) string {
	c := session.Character
	var b strings.Builder

	fmt.Fprintf(&b, "%s，%d 岁，%s阶段。", c.Name, c.Age, c.LifeStage.Label())
	fmt.Fprintf(&b, "学历: %s。", educationSummary(c.Education))
	if c.Career.HasJob {
		fmt.Fprintf(&b, "以%s为业，工作了 %d 年。", c.Career.JobTitle, c.Career.WorkExperience)
	}
	fmt.Fprintf(&b, "积蓄 %s。", models.FormatNumber(c.Money))

	var choices []string
	for _, entry := range session.Log {
		if entry.Type == "choice" {
			choices = append(choices, fmt.Sprintf("%d岁时%s", entry.Age, strings.TrimPrefix(entry.Content, "选择: ")))
		}
	}
	if len(choices) > 0 {
		fmt.Fprintf(&b, "人生中的选择: %s。", strings.Join(choices, "；"))
	}
	return b.String()
}
