package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

// Commands 全部已注册命令
func (p *Parser) Commands() []CommandDef {
	return p.registry.Commands()
}

// Parse 把一行输入解析为命令。拼写接近的命令会被纠正，两个候选分数接近时要求澄清。
func (p *Parser) Parse(raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "请输入命令，输入 help 查看帮助。"}
		return intent
	}

	tokens := p.registry.splitGlued(tokenise(intent.Normalised))
	best, alternates := p.registry.matchCommand(tokens)
	if best.Canonical == "" || best.Score < 0.5 {
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("无法识别的命令: %s，输入 help 查看帮助。", tokens[0])}
		return intent
	}

	if len(alternates) > 0 && (best.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		intent.Clarify = &ClarifyQuestion{
			Prompt:  "你是想输入:",
			Options: []string{best.Canonical, alternates[0].Canonical},
		}
		return intent
	}

	intent.Verb = best.Canonical
	intent.Kind = Command
	if intent.Verb == "help" {
		intent.Kind = Help
	}
	intent.Confidence = best.Score

	if best.Consumed < len(tokens) {
		intent.Args = append([]string(nil), tokens[best.Consumed:]...)
	}

	def, _ := p.registry.command(intent.Verb)
	if len(intent.Args) < def.MinArgs {
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("用法: %s", def.Usage)}
		intent.Confidence = 0.42
		return intent
	}
	if def.MaxArgs > 0 && len(intent.Args) > def.MaxArgs {
		// 多出的参数合并到最后一个（存档名可以带空格）
		head := intent.Args[:def.MaxArgs-1]
		tail := strings.Join(intent.Args[def.MaxArgs-1:], " ")
		intent.Args = append(append([]string(nil), head...), tail)
	}
	if def.MaxArgs == 0 && len(intent.Args) > 0 {
		intent.Args = nil
		intent.Confidence -= 0.05
	}
	return intent
}

// Resolve 在候选ID或名称中找出与参数最接近的一个。
// names 与 ids 一一对应，可为 nil；找不到或有歧义时返回澄清问题。
func Resolve(arg string, ids, names []string) (string, *ClarifyQuestion) {
	arg = normaliseInput(arg)
	if arg == "" || len(ids) == 0 {
		return "", &ClarifyQuestion{Prompt: "没有可选的目标。"}
	}

	var cands []candidate
	for i, id := range ids {
		keys := []string{normaliseInput(id)}
		if i < len(names) && names[i] != "" {
			keys = append(keys, normaliseInput(names[i]))
		}
		for _, key := range keys {
			if key == "" {
				continue
			}
			switch {
			case key == arg:
				cands = append(cands, candidate{Canonical: id, Alias: key, Score: 1, Source: "exact"})
			case strings.HasPrefix(key, arg) && utf8.RuneCountInString(arg) >= 2:
				cands = append(cands, candidate{Canonical: id, Alias: key, Score: 0.85, Source: "prefix"})
			case strings.Contains(key, arg) && utf8.RuneCountInString(arg) >= 2:
				cands = append(cands, candidate{Canonical: id, Alias: key, Score: 0.75, Source: "contains"})
			default:
				limit, fuzzy := fuzzyLimit(key)
				if !fuzzy {
					continue
				}
				if dist := levenshtein.ComputeDistance(arg, key); dist <= limit {
					cands = append(cands, candidate{Canonical: id, Alias: key, Score: 0.72 - 0.08*float64(dist), Source: "lev"})
				}
			}
		}
	}

	best, alts := rank(cands)
	if best.Canonical == "" {
		return "", &ClarifyQuestion{Prompt: fmt.Sprintf("找不到 %q，可选: %s", arg, strings.Join(ids, ", ")), Options: ids}
	}
	if len(alts) > 0 && best.Score-alts[0].Score < 0.05 {
		options := []string{best.Canonical}
		for _, a := range alts {
			if best.Score-a.Score < 0.05 {
				options = append(options, a.Canonical)
			}
		}
		return "", &ClarifyQuestion{Prompt: fmt.Sprintf("%q 有多个匹配: %s", arg, strings.Join(options, ", ")), Options: options}
	}
	return best.Canonical, nil
}
