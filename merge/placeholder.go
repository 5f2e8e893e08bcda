package merge

import (
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

// InheritDocTag 是继承文档的占位符
const InheritDocTag = "{@inheritDoc}"

// RemovePlaceholders 在序列化之前删除注释中独占一行的 {@inheritDoc}。
// 删除后不再有内容的注释整体移除。返回被修改的注释数量。
func RemovePlaceholders(unit *model.CompilationUnit) int {
	n := 0
	var removed []*model.Member
	for _, m := range unit.Members {
		n += cleanDocs(m)
		if m.Type != nil {
			n += cleanBody(m.Type)
		}
		if m.Kind == model.Comment && isPlaceholderComment(m) {
			removed = append(removed, m)
		}
	}
	for _, m := range removed {
		unit.Remove(m)
		n++
	}
	return n
}

func cleanBody(td *model.TypeDecl) int {
	n := 0
	var removed []*model.Member
	for _, m := range td.Body {
		n += cleanDocs(m)
		if m.Kind == model.Comment && isPlaceholderComment(m) {
			removed = append(removed, m)
		}
	}
	for _, m := range removed {
		td.Remove(m)
		n++
	}
	return n
}

// isPlaceholderComment 判断独立注释成员是否需要改写，必要时原地修改其文本
func isPlaceholderComment(m *model.Member) bool {
	cleaned, changed := stripPlaceholder(m.Text)
	if !changed {
		return false
	}
	if cleaned == "" {
		return true
	}
	m.Text = cleaned
	return false
}

func cleanDocs(m *model.Member) int {
	n := 0
	docs := m.Docs[:0]
	for _, d := range m.Docs {
		cleaned, changed := stripPlaceholder(d.Text)
		if !changed {
			docs = append(docs, d)
			continue
		}
		n++
		if cleaned != "" {
			d.Text = cleaned
			docs = append(docs, d)
		}
	}
	m.Docs = docs
	return n
}

// stripPlaceholder 删除注释中的占位符行。
// 返回空串表示注释已没有任何内容。
func stripPlaceholder(text string) (string, bool) {
	if strings.HasPrefix(text, "//") {
		if cleanLine(text) == InheritDocTag {
			return "", true
		}
		return text, false
	}
	if !strings.HasPrefix(text, "/*") {
		return text, false
	}

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		if cleanLine(text) == InheritDocTag {
			return "", true
		}
		return text, false
	}

	changed := false
	out := make([]string, 0, len(lines))
	last := len(lines) - 1
	for i, line := range lines {
		if cleanLine(line) != InheritDocTag {
			out = append(out, line)
			continue
		}
		changed = true
		switch i {
		case 0:
			out = append(out, line[:strings.Index(line, "/*")]+openerOf(line))
		case last:
			out = append(out, leadingSpace(line)+" */")
		}
	}
	if !changed {
		return text, false
	}

	for _, line := range out {
		if cleanLine(line) != "" {
			return strings.Join(out, "\n"), true
		}
	}
	return "", true
}

// cleanLine 去掉注释符号与空白，得到该行的实际内容
func cleanLine(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "//")
	if strings.HasPrefix(s, "/**") {
		s = s[3:]
	} else {
		s = strings.TrimPrefix(s, "/*")
	}
	s = strings.TrimSuffix(s, "*/")
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "*")
	return strings.TrimSpace(s)
}

func openerOf(line string) string {
	if strings.Contains(line, "/**") {
		return "/**"
	}
	return "/*"
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
