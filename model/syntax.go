package model

import (
	"strings"
)

// CompilationUnit 是单个源文件的自有语法树。
// 与 Tree-sitter 的 CST 不同，它完全由本程序持有，可以安全地插入、删除、替换成员，
// 最后通过 Render 一次性序列化回源码文本。
type CompilationUnit struct {
	Path      string
	Members   []*Member // 顶层成员: package / import / 类型声明 / 注释
	Trailer   string    // 最后一个成员之后的原文 (通常是换行)
	HasErrors bool      // Tree-sitter 解析时是否出现 ERROR 节点
}

// Member 是语法树中的一个成员节点 (顶层或类型体内)。
//
// 源码按 Gap + Docs + Text 的顺序还原，未被修改的成员可以逐字节还原原文。
type Member struct {
	Kind     ElementKind
	Gap      string        // 与上一个成员之间的空白
	Docs     []*DocComment // 挂靠在该声明上的文档注释，按出现顺序
	Text     string        // 声明本身的原文 (类型声明除外，见 Type)
	Location *Location

	Package *PackageDecl
	Import  *ImportDecl
	Type    *TypeDecl
	Method  *MethodDecl
	Field   *FieldDecl
}

// DocComment 是挂靠在声明之前的文档注释 (/** ... */)
type DocComment struct {
	Text string
	Sep  string // 注释与其后内容之间的空白
}

// Clone 复制注释文本，Sep 由插入方重新决定
func (d *DocComment) Clone() *DocComment {
	return &DocComment{Text: d.Text}
}

// PackageDecl 对应 package 语句
type PackageDecl struct {
	Name string
}

// ImportDecl 对应 import 语句
type ImportDecl struct {
	Path     string // e.g. "java.util.List", 通配符导入为 "java.util.*"
	Static   bool
	Wildcard bool
}

// Alias 返回导入在源码中可直接使用的短名称
func (i *ImportDecl) Alias() string {
	if i.Wildcard {
		return "*"
	}
	if idx := strings.LastIndex(i.Path, "."); idx >= 0 {
		return i.Path[idx+1:]
	}
	return i.Path
}

// TypeDecl 对应类 / 接口声明
type TypeDecl struct {
	Kind       ElementKind
	Name       string
	Modifiers  []string
	TypeParams string   // e.g. "<T>", 无泛型参数时为空
	SuperClass string   // extends 的父类 (仅类)
	Interfaces []string // 类的 implements 列表 / 接口的 extends 列表
	Head       string   // 从声明起始到 '{' 之前的原文
	Body       []*Member
	Tail       string // 最后一个成员与 '}' 之间的空白
}

// Methods 返回类型体内按声明顺序排列的方法成员
func (t *TypeDecl) Methods() []*Member {
	var methods []*Member
	for _, m := range t.Body {
		if m.Kind == Method && m.Method != nil {
			methods = append(methods, m)
		}
	}
	return methods
}

// Fields 返回类型体内的字段 / 常量成员
func (t *TypeDecl) Fields() []*Member {
	var fields []*Member
	for _, m := range t.Body {
		if m.Kind == Field && m.Field != nil {
			fields = append(fields, m)
		}
	}
	return fields
}

// IndexOf 返回成员在类型体内的下标，不存在时返回 -1
func (t *TypeDecl) IndexOf(target *Member) int {
	for i, m := range t.Body {
		if m == target {
			return i
		}
	}
	return -1
}

// InsertAt 在下标 idx 处插入成员
func (t *TypeDecl) InsertAt(idx int, members ...*Member) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(t.Body) {
		idx = len(t.Body)
	}
	body := make([]*Member, 0, len(t.Body)+len(members))
	body = append(body, t.Body[:idx]...)
	body = append(body, members...)
	body = append(body, t.Body[idx:]...)
	t.Body = body
}

// Remove 删除成员，被删除成员的 Gap 转交给其后继，保持排版
func (t *TypeDecl) Remove(target *Member) bool {
	var ok bool
	t.Body, ok = removeMember(t.Body, target)
	return ok
}

// MemberIndent 推断类型体内成员的缩进
func (t *TypeDecl) MemberIndent() string {
	for _, m := range t.Body {
		if strings.Contains(m.Gap, "\n") {
			return IndentOf(m.Gap)
		}
	}
	return "    "
}

// MethodDecl 对应方法 / 构造函数声明
type MethodDecl struct {
	Name          string
	Params        []Param
	ErasedParams  []string // 参数类型擦除后的简单名称，用于判定覆写关系
	ReturnType    string
	TypeParams    []string
	Modifiers     []string
	Annotations   []string
	HasBody       bool
	IsConstructor bool
}

// Param 是方法的一个形参
type Param struct {
	Type    string
	Name    string
	VarArgs bool
}

// Signature 返回 "name(T1,T2)" 形式的擦除签名
func (m *MethodDecl) Signature() string {
	return m.Name + "(" + strings.Join(m.ErasedParams, ",") + ")"
}

// Display 返回便于阅读的签名
func (m *MethodDecl) Display() string {
	parts := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		if p.VarArgs {
			parts = append(parts, p.Type+"...")
		} else {
			parts = append(parts, p.Type)
		}
	}
	return m.Name + "(" + strings.Join(parts, ", ") + ")"
}

// HasModifier 判断方法是否带有给定修饰符
func (m *MethodDecl) HasModifier(mod string) bool {
	return containsString(m.Modifiers, mod)
}

// FieldDecl 对应字段 / 接口常量声明
type FieldDecl struct {
	Type      string
	Names     []string
	Modifiers []string
}

// HasModifier 判断字段是否带有给定修饰符
func (f *FieldDecl) HasModifier(mod string) bool {
	return containsString(f.Modifiers, mod)
}

// --- CompilationUnit 查询 ---

// PackageName 返回文件的包名，默认包返回空串
func (u *CompilationUnit) PackageName() string {
	if m := u.PackageMember(); m != nil {
		return m.Package.Name
	}
	return ""
}

// PackageMember 返回 package 语句成员
func (u *CompilationUnit) PackageMember() *Member {
	for _, m := range u.Members {
		if m.Kind == Package && m.Package != nil {
			return m
		}
	}
	return nil
}

// Imports 返回全部 import 声明
func (u *CompilationUnit) Imports() []*ImportDecl {
	var imports []*ImportDecl
	for _, m := range u.Members {
		if m.Kind == Import && m.Import != nil {
			imports = append(imports, m.Import)
		}
	}
	return imports
}

// TypeMembers 返回全部顶层类型声明成员
func (u *CompilationUnit) TypeMembers() []*Member {
	var types []*Member
	for _, m := range u.Members {
		if m.Kind.IsType() && m.Type != nil {
			types = append(types, m)
		}
	}
	return types
}

// FindType 按名称查找顶层类型声明成员
func (u *CompilationUnit) FindType(name string) *Member {
	for _, m := range u.TypeMembers() {
		if m.Type.Name == name {
			return m
		}
	}
	return nil
}

// IndexOf 返回顶层成员的下标，不存在时返回 -1
func (u *CompilationUnit) IndexOf(target *Member) int {
	for i, m := range u.Members {
		if m == target {
			return i
		}
	}
	return -1
}

// InsertAt 在下标 idx 处插入顶层成员
func (u *CompilationUnit) InsertAt(idx int, members ...*Member) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(u.Members) {
		idx = len(u.Members)
	}
	out := make([]*Member, 0, len(u.Members)+len(members))
	out = append(out, u.Members[:idx]...)
	out = append(out, members...)
	out = append(out, u.Members[idx:]...)
	u.Members = out
}

// Remove 删除顶层成员
func (u *CompilationUnit) Remove(target *Member) bool {
	var ok bool
	u.Members, ok = removeMember(u.Members, target)
	return ok
}

func removeMember(members []*Member, target *Member) ([]*Member, bool) {
	for i, m := range members {
		if m != target {
			continue
		}
		if i+1 < len(members) {
			members[i+1].Gap = m.Gap
		}
		return append(members[:i:i], members[i+1:]...), true
	}
	return members, false
}

// IndentOf 返回空白串中最后一个换行之后的部分，即下一行的缩进
func IndentOf(gap string) string {
	if idx := strings.LastIndex(gap, "\n"); idx >= 0 {
		return gap[idx+1:]
	}
	return gap
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
