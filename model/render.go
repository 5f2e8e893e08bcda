package model

import "strings"

// Render 将语法树序列化为源码文本
func (u *CompilationUnit) Render() string {
	var sb strings.Builder
	for _, m := range u.Members {
		m.render(&sb)
	}
	sb.WriteString(u.Trailer)
	return sb.String()
}

// Render 将单个成员序列化 (包含其前导空白与文档注释)
func (m *Member) Render() string {
	var sb strings.Builder
	m.render(&sb)
	return sb.String()
}

// DeclText 返回不含前导空白与文档注释的声明文本
func (m *Member) DeclText() string {
	if m.Type != nil {
		var sb strings.Builder
		m.Type.render(&sb)
		return sb.String()
	}
	return m.Text
}

func (m *Member) render(sb *strings.Builder) {
	sb.WriteString(m.Gap)
	for _, d := range m.Docs {
		sb.WriteString(d.Text)
		sb.WriteString(d.Sep)
	}
	if m.Type != nil {
		m.Type.render(sb)
		return
	}
	sb.WriteString(m.Text)
}

func (t *TypeDecl) render(sb *strings.Builder) {
	sb.WriteString(t.Head)
	sb.WriteString("{")
	for _, m := range t.Body {
		m.render(sb)
	}
	sb.WriteString(t.Tail)
	sb.WriteString("}")
}
