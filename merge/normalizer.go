package merge

import (
	"regexp"
	"strings"
)

// 行首的注解与修饰符前缀
const modifierPrefix = `(?:@[\w.$]+(?:\([^()\n]*\))?\s+|(?:public|protected|private|static|final|abstract|synchronized|native|strictfp)\s+)*`

var (
	// @Override 只在注解位置识别，字符串与注释中的同名文本不受影响
	overrideRe = regexp.MustCompile(`^(\s*` + modifierPrefix + `)@(?:java\.lang\.)?Override\b[ \t]*`)
	// default 修饰符只在声明前缀中识别，switch 中的 default: / default -> 不受影响
	defaultRe  = regexp.MustCompile(`^(\s*` + modifierPrefix + `)default\s+([\w$<>\[\],.?@\s]+?\()`)
	publicRe   = regexp.MustCompile(`\bpublic\s`)
	// 类声明头必须顶格，嵌套类型不受影响
	headerRe   = regexp.MustCompile(`^(` + modifierPrefix + `(?:(?:sealed|non-sealed)\s+)?)class\s+([\w$]+)(\s+extends\s+[^{]+?)?\s+implements\s+[^{]+?\s*\{?\s*$`)
)

// Normalizer 是作用在合并结果文本上的逐行改写
type Normalizer struct {
	Suffix     string // 实现类名后缀，类头改写时去掉
	Class      string // 仅改写该类的声明头，为空时改写第一个顶层类
	KeepHeader bool   // 类头已在语法树上改写时跳过第 3 条规则
}

// Normalize 使用默认后缀 "Impl" 改写文本
func Normalize(text string) string {
	out, _ := (&Normalizer{Suffix: "Impl"}).Normalize(text)
	return out
}

// Normalize 按顺序应用三条规则，第二个返回值表示类声明头是否被改写:
//  1. 删除注解位置上的 @Override (独占一行时删除整行)
//  2. 声明前缀中的 default 修饰符改写为 public
//  3. 顶层类声明头去掉 implements 子句与类名后缀
func (n *Normalizer) Normalize(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	headerDone := n.KeepHeader

	for _, line := range lines {
		body, cr := strings.TrimSuffix(line, "\r"), ""
		if len(body) != len(line) {
			cr = "\r"
		}

		// 1. @Override
		if overrideRe.MatchString(body) {
			body = overrideRe.ReplaceAllString(body, "${1}")
			if strings.TrimSpace(body) == "" {
				continue
			}
		}

		// 2. default -> public
		if sub := defaultRe.FindStringSubmatch(body); sub != nil {
			prefix := sub[1]
			if !publicRe.MatchString(prefix) {
				prefix += "public "
			}
			body = prefix + sub[2] + body[len(sub[0]):]
		}

		// 3. 类声明头
		if !headerDone {
			if rewritten, ok := n.rewriteHeader(body); ok {
				body = rewritten
				headerDone = true
			}
		}

		out = append(out, body+cr)
	}
	return strings.Join(out, "\n"), headerDone && !n.KeepHeader
}

func (n *Normalizer) rewriteHeader(line string) (string, bool) {
	sub := headerRe.FindStringSubmatch(line)
	if sub == nil {
		return line, false
	}
	name := sub[2]
	if n.Class != "" && name != n.Class {
		return line, false
	}
	if n.Suffix != "" && name != n.Suffix {
		name = strings.TrimSuffix(name, n.Suffix)
	}
	return sub[1] + "class " + name + sub[3] + " {", true
}
