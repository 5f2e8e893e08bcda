package merge

import (
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

var constantModifiers = []string{"public", "static", "final"}

// CopyConstants 把接口常量复制到类型体中，插在已有字段之后 (没有字段时插在开头)。
// 接口常量隐含 public static final，复制时显式补齐。
// 与类中已有字段同名的常量不复制，作为问题返回。
func CopyConstants(class, iface *model.TypeDecl) ([]string, []model.MethodIssue) {
	existing := make(map[string]bool)
	for _, f := range class.Fields() {
		for _, n := range f.Field.Names {
			existing[n] = true
		}
	}

	var copied []string
	var issues []model.MethodIssue
	indent := class.MemberIndent()
	idx := 0
	if fields := class.Fields(); len(fields) > 0 {
		idx = class.IndexOf(fields[len(fields)-1]) + 1
	}

	for _, f := range iface.Fields() {
		name := strings.Join(f.Field.Names, ", ")
		if clash := firstClash(f.Field.Names, existing); clash != "" {
			issues = append(issues, model.MethodIssue{
				Method: name,
				Reason: "constant " + clash + " already declared in class",
			})
			continue
		}

		clone := cloneMember(f, indent)
		var missing []string
		for _, mod := range constantModifiers {
			if !f.Field.HasModifier(mod) {
				missing = append(missing, mod)
			}
		}
		if len(missing) > 0 {
			clone.Text = insertModifiers(clone.Text, missing)
			clone.Field.Modifiers = append(append([]string(nil), missing...), clone.Field.Modifiers...)
		}

		if idx == 0 && len(class.Body) > 0 {
			next := class.Body[0]
			clone.Gap, next.Gap = next.Gap, "\n\n"+indent
		} else {
			clone.Gap = "\n" + indent
		}
		class.InsertAt(idx, clone)
		idx++

		for _, n := range f.Field.Names {
			existing[n] = true
		}
		copied = append(copied, name)
	}
	return copied, issues
}

func firstClash(names []string, existing map[string]bool) string {
	for _, n := range names {
		if existing[n] {
			return n
		}
	}
	return ""
}

// insertModifiers 在前导注解之后插入修饰符
func insertModifiers(text string, mods []string) string {
	pos := skipAnnotations(text)
	return text[:pos] + strings.Join(mods, " ") + " " + text[pos:]
}

func skipAnnotations(text string) int {
	i := 0
	for {
		for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
			i++
		}
		if i >= len(text) || text[i] != '@' {
			return i
		}
		i++
		for i < len(text) && (isWordByte(text[i]) || text[i] == '.') {
			i++
		}
		if i < len(text) && text[i] == '(' {
			depth := 0
			for ; i < len(text); i++ {
				if text[i] == '(' {
					depth++
				} else if text[i] == ')' {
					depth--
					if depth == 0 {
						i++
						break
					}
				}
			}
		}
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
