package parser

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	order    []string
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	if _, exists := r.commands[c.Canonical]; !exists {
		r.order = append(r.order, c.Canonical)
	}
	r.commands[c.Canonical] = c

	r.phrases = append(r.phrases, commandPhrase{
		canonical: c.Canonical,
		alias:     c.Canonical,
		tokens:    tokenise(c.Canonical),
	})
	for _, a := range c.Aliases {
		n := normaliseInput(a)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, commandPhrase{
			canonical: c.Canonical,
			alias:     n,
			tokens:    tokenise(n),
		})
	}
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	canonical = normaliseInput(canonical)
	cmd, ok := r.commands[canonical]
	return cmd, ok
}

// Commands 按注册顺序返回全部命令
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

type candidate struct {
	Canonical string
	Alias     string
	Consumed  int
	Score     float64
	Source    string
}

const maxAlternates = 4

// splitGlued 拆开紧贴参数的中文命令，例如 "购买电脑" → "购买 电脑"、"选择2" → "选择 2"。
// 首个词本身就是别名时不拆（"存档列表" 不是 "存档" 加参数）。
func (r *Registry) splitGlued(tokens []string) []string {
	if len(tokens) == 0 || !hasHan(tokens[0]) {
		return tokens
	}
	head := tokens[0]
	longest := ""
	for _, p := range r.phrases {
		if len(p.tokens) != 1 || !hasHan(p.alias) {
			continue
		}
		if p.alias == head {
			return tokens
		}
		if strings.HasPrefix(head, p.alias) && len(p.alias) > len(longest) {
			longest = p.alias
		}
	}
	if longest == "" {
		return tokens
	}
	out := []string{longest, strings.TrimPrefix(head, longest)}
	return append(out, tokens[1:]...)
}

func (r *Registry) matchCommand(tokens []string) (candidate, []candidate) {
	if len(tokens) == 0 {
		return candidate{}, nil
	}
	var cands []candidate
	for _, phrase := range r.phrases {
		if c, ok := phrase.score(tokens); ok {
			cands = append(cands, c)
		}
	}
	return rank(cands)
}

// score 依次尝试完整匹配、英文前缀和编辑距离。中文别名只做完整匹配。
func (p commandPhrase) score(tokens []string) (candidate, bool) {
	n := len(p.tokens)
	if n == 0 {
		return candidate{}, false
	}
	c := candidate{Canonical: p.canonical, Alias: p.alias}
	isAlias := p.alias != p.canonical

	if len(tokens) >= n && strings.Join(tokens[:n], " ") == p.alias {
		c.Consumed, c.Score, c.Source = n, 1.0, "exact"
		if isAlias {
			c.Score, c.Source = 0.97, "alias"
		}
		return c, true
	}

	limit, fuzzy := fuzzyLimit(p.alias)
	if !fuzzy {
		return candidate{}, false
	}

	if n == 1 && utf8.RuneCountInString(tokens[0]) >= 2 && strings.HasPrefix(p.alias, tokens[0]) {
		c.Consumed, c.Score, c.Source = 1, 0.9, "prefix"
		return c, true
	}

	cut := min(n, len(tokens))
	typed := strings.Join(tokens[:cut], " ")
	if utf8.RuneCountInString(typed) < 3 {
		return candidate{}, false
	}
	dist := levenshtein.ComputeDistance(typed, p.alias)
	if dist > limit {
		return candidate{}, false
	}
	c.Consumed, c.Score, c.Source = cut, 0.72-0.08*float64(dist), "lev"
	if isAlias {
		c.Score += 0.03
	}
	return c, true
}

// rank 按分数、消耗的词数、命令名排序，返回最佳候选和去重后的备选
func rank(cands []candidate) (candidate, []candidate) {
	if len(cands) == 0 {
		return candidate{}, nil
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Consumed, a.Consumed); c != 0 {
			return c
		}
		return strings.Compare(a.Canonical, b.Canonical)
	})

	best := cands[0]
	var alts []candidate
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if len(alts) == maxAlternates {
			break
		}
		if !seen[c.Canonical] {
			seen[c.Canonical] = true
			alts = append(alts, c)
		}
	}
	return best, alts
}

// fuzzyLimit 允许的编辑距离（按字符数）。含汉字的词不做模糊匹配：
// 两三个字里错一个通常就是另一个词（"下一年" 和 "下一天"）。
func fuzzyLimit(word string) (int, bool) {
	if hasHan(word) {
		return 0, false
	}
	switch n := utf8.RuneCountInString(word); {
	case n <= 4:
		return 1, true
	case n <= 8:
		return 2, true
	default:
		return 3, true
	}
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "help", Aliases: []string{"h", "?", "帮助"}, Usage: "help"},
		{Canonical: "status", Aliases: []string{"st", "stats", "状态"}, Usage: "status"},
		{Canonical: "next", Aliases: []string{"advance", "year", "下一年"}, Usage: "next"},
		{Canonical: "events", Aliases: []string{"ev", "事件"}, Usage: "events"},
		{Canonical: "choose", Aliases: []string{"pick", "option", "选择"}, MinArgs: 1, MaxArgs: 2, Usage: "choose [事件] <选项序号>"},
		{Canonical: "decline", Aliases: []string{"skip", "ignore", "放弃"}, MinArgs: 0, MaxArgs: 1, Usage: "decline [事件]"},
		{Canonical: "npcs", Aliases: []string{"people", "人物"}, Usage: "npcs"},
		{Canonical: "talk", Aliases: []string{"interact", "互动"}, MinArgs: 2, MaxArgs: 2, Usage: "talk <NPC> <互动>"},
		{Canonical: "scenes", Aliases: []string{"places", "场景"}, Usage: "scenes"},
		{Canonical: "do", Aliases: []string{"act", "go to", "行动"}, MinArgs: 2, MaxArgs: 2, Usage: "do <场景> <操作>"},
		{Canonical: "shop", Aliases: []string{"store", "商店"}, Usage: "shop"},
		{Canonical: "buy", Aliases: []string{"purchase", "购买"}, MinArgs: 1, MaxArgs: 1, Usage: "buy <物品>"},
		{Canonical: "inventory", Aliases: []string{"inv", "bag", "物品"}, Usage: "inventory"},
		{Canonical: "use", Aliases: []string{"apply", "使用"}, MinArgs: 1, MaxArgs: 1, Usage: "use <物品>"},
		{Canonical: "skills", Aliases: []string{"sk", "技能"}, Usage: "skills"},
		{Canonical: "time", Aliases: []string{"alloc", "allocate", "时间"}, MinArgs: 0, MaxArgs: 5, Usage: "time <学习> <娱乐> <健身> <社交> <工作>"},
		{Canonical: "undo", Aliases: []string{"back", "回退"}, Usage: "undo"},
		{Canonical: "save", Aliases: []string{"存档"}, MaxArgs: 1, Usage: "save [名称]"},
		{Canonical: "saves", Aliases: []string{"存档列表"}, Usage: "saves"},
		{Canonical: "load", Aliases: []string{"读档"}, MinArgs: 1, MaxArgs: 1, Usage: "load <存档>"},
		{Canonical: "bio", Aliases: []string{"biography", "传记"}, Usage: "bio"},
		{Canonical: "quit", Aliases: []string{"exit", "q", "退出"}, Usage: "quit"},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
