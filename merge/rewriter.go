package merge

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

// RewritePackage 把类文件的 package 声明替换为接口的包，
// 并删除恰好指向 "<接口包>.<接口名>" 的 import。返回被删除的 import 路径。
func RewritePackage(class, iface *model.CompilationUnit, ifaceName string) []string {
	pkg := iface.PackageName()
	setPackage(class, pkg)

	qn := ifaceName
	if pkg != "" {
		qn = pkg + "." + ifaceName
	}

	var removed []string
	for _, m := range append([]*model.Member(nil), class.Members...) {
		imp := m.Import
		if m.Kind != model.Import || imp == nil || imp.Static || imp.Wildcard {
			continue
		}
		if imp.Path == qn {
			class.Remove(m)
			removed = append(removed, imp.Path)
		}
	}
	return removed
}

func setPackage(unit *model.CompilationUnit, pkg string) {
	pm := unit.PackageMember()
	switch {
	case pm == nil && pkg == "":
		return
	case pm == nil:
		idx := firstDeclIndex(unit)
		m := &model.Member{
			Kind:    model.Package,
			Text:    "package " + pkg + ";",
			Package: &model.PackageDecl{Name: pkg},
		}
		if idx < len(unit.Members) {
			next := unit.Members[idx]
			m.Gap, next.Gap = next.Gap, "\n\n"
		}
		unit.InsertAt(idx, m)
	case pkg == "":
		unit.Remove(pm)
	default:
		// 只替换 package 关键字之后的名称，保留原有的注解与空白
		old := pm.Package.Name
		kw := strings.Index(pm.Text, "package") + len("package")
		if old != "" && kw >= len("package") && strings.Contains(pm.Text[kw:], old) {
			pm.Text = pm.Text[:kw] + strings.Replace(pm.Text[kw:], old, pkg, 1)
		} else {
			pm.Text = "package " + pkg + ";"
		}
		pm.Package.Name = pkg
	}
}

// firstDeclIndex 返回第一个非注释顶层成员的下标
func firstDeclIndex(unit *model.CompilationUnit) int {
	for i, m := range unit.Members {
		if m.Kind != model.Comment {
			return i
		}
	}
	return len(unit.Members)
}

// MergeImports 把接口文件中类文件缺少的 import 追加到类文件最后一个 import 之后。
// 指向同包类型的 import 与 skip 中列出的路径不会被复制。
func MergeImports(class, iface *model.CompilationUnit, skip ...string) []string {
	pkg := class.PackageName()
	have := make(map[string]bool)
	for _, imp := range class.Imports() {
		have[importKey(imp)] = true
	}
	skipSet := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}

	var added []*model.Member
	var paths []string
	for _, imp := range iface.Imports() {
		if have[importKey(imp)] || skipSet[imp.Path] {
			continue
		}
		if !imp.Static && !imp.Wildcard && pkg != "" && parentOf(imp.Path) == pkg {
			continue
		}
		have[importKey(imp)] = true
		decl := *imp
		added = append(added, &model.Member{
			Kind:   model.Import,
			Gap:    "\n",
			Text:   importText(imp),
			Import: &decl,
		})
		paths = append(paths, imp.Path)
	}
	if len(added) == 0 {
		return nil
	}

	idx := lastIndexOfKind(class, model.Import)
	if idx < 0 {
		idx = lastIndexOfKind(class, model.Package)
		if idx >= 0 {
			added[0].Gap = "\n\n"
		} else {
			added[0].Gap = ""
		}
		if idx+1 < len(class.Members) {
			class.Members[idx+1].Gap = "\n\n"
		}
	}
	class.InsertAt(idx+1, added...)
	return paths
}

func importKey(imp *model.ImportDecl) string {
	if imp.Static {
		return "static " + imp.Path
	}
	return imp.Path
}

func importText(imp *model.ImportDecl) string {
	if imp.Static {
		return "import static " + imp.Path + ";"
	}
	return "import " + imp.Path + ";"
}

func parentOf(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[:idx]
	}
	return ""
}

func lastIndexOfKind(unit *model.CompilationUnit, kind model.ElementKind) int {
	idx := -1
	for i, m := range unit.Members {
		if m.Kind == kind {
			idx = i
		}
	}
	return idx
}

var classKeywordRe = regexp.MustCompile(`(^|\s)class\s`)

// FlattenHeader 把跨行的类声明头 (从 class 关键字所在行到 '{' 之前) 合并为一行。
// 之前各行上的注解保持不变。
func FlattenHeader(td *model.TypeDecl) bool {
	loc := classKeywordRe.FindStringIndex(td.Head)
	if loc == nil {
		return false
	}
	lineStart := strings.LastIndex(td.Head[:loc[0]+1], "\n") + 1
	decl := td.Head[lineStart:]
	if !strings.Contains(strings.TrimRight(decl, " \t\r\n"), "\n") {
		return false
	}
	td.Head = td.Head[:lineStart] + strings.Join(strings.Fields(decl), " ") + " "
	return true
}

var (
	implementsRe = regexp.MustCompile(`\s+implements\b`)
	permitsRe    = regexp.MustCompile(`\s+permits\b`)
	stringLitRe  = regexp.MustCompile(`"(?:[^"\\\n]|\\.)*"`)
)

// RewriteHeader 在语法树上改写类声明头：去掉 implements 子句与类名后缀，
// 同名构造器一并改名。头部之前的注解和修饰符保持原样。
// 返回类体中仍引用旧类名的成员，调用方据此报告问题。
func RewriteHeader(td *model.TypeDecl, suffix string) ([]model.MethodIssue, error) {
	FlattenHeader(td)

	old := td.Name
	nameRe := regexp.MustCompile(`\bclass(\s+)` + regexp.QuoteMeta(old) + `\b`)
	loc := nameRe.FindStringSubmatchIndex(td.Head)
	if loc == nil {
		return nil, fmt.Errorf("class header of %s not found", old)
	}

	name := old
	if suffix != "" && old != suffix {
		name = strings.TrimSuffix(old, suffix)
	}

	rest := td.Head[loc[1]:]
	if m := implementsRe.FindStringIndex(rest); m != nil {
		end := len(rest)
		if p := permitsRe.FindStringIndex(rest[m[1]:]); p != nil {
			end = m[1] + p[0]
		}
		rest = rest[:m[0]] + rest[end:]
	}
	td.Head = strings.TrimRight(td.Head[:loc[0]]+"class"+td.Head[loc[2]:loc[3]]+name+rest, " \t\r\n") + " "
	td.Name = name
	td.Interfaces = nil

	if name == old {
		return nil, nil
	}
	ctorRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(old) + `(\s*\()`)
	for _, m := range td.Methods() {
		if !m.Method.IsConstructor || m.Method.Name != old {
			continue
		}
		if l := ctorRe.FindStringIndex(m.Text); l != nil {
			m.Text = m.Text[:l[0]] + name + m.Text[l[0]+len(old):]
			m.Method.Name = name
		}
	}

	var issues []model.MethodIssue
	refRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(old) + `\b`)
	for _, m := range td.Body {
		if refRe.MatchString(stringLitRe.ReplaceAllString(m.Text, `""`)) {
			issues = append(issues, model.MethodIssue{Method: memberName(m), Reason: "still references " + old})
		}
	}
	return issues, nil
}

func memberName(m *model.Member) string {
	switch {
	case m.Method != nil:
		return m.Method.Display()
	case m.Type != nil:
		return m.Type.Name
	case m.Field != nil && len(m.Field.Names) > 0:
		return strings.Join(m.Field.Names, ", ")
	}
	return strings.TrimSpace(m.Text)
}
