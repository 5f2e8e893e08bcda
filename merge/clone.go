package merge

import (
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

// cloneMember 深拷贝一个类型体内的成员，并把缩进从源位置调整为 indent
func cloneMember(src *model.Member, indent string) *model.Member {
	from := model.IndentOf(src.Gap)
	dst := &model.Member{
		Kind:     src.Kind,
		Gap:      "\n\n" + indent,
		Text:     reindent(src.Text, from, indent),
		Location: src.Location,
	}
	for _, d := range src.Docs {
		dst.Docs = append(dst.Docs, &model.DocComment{
			Text: reindent(d.Text, from, indent),
			Sep:  reindentSep(d.Sep, indent),
		})
	}
	if src.Method != nil {
		md := *src.Method
		dst.Method = &md
	}
	if src.Field != nil {
		fd := *src.Field
		dst.Field = &fd
	}
	return dst
}

// reindent 把首行之后每行的前缀缩进 from 替换为 to
func reindent(text, from, to string) string {
	if from == to || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], from) {
			lines[i] = to + lines[i][len(from):]
		}
	}
	return strings.Join(lines, "\n")
}

func reindentSep(sep, indent string) string {
	if !strings.Contains(sep, "\n") {
		return sep
	}
	return sep[:strings.LastIndex(sep, "\n")+1] + indent
}
