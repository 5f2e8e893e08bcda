package java

import (
	"path/filepath"
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/core"
	"github.com/CodMac/go-treesitter-impl-merger/model"
)

type SymbolResolver struct{}

func NewJavaSymbolResolver() *SymbolResolver {
	return &SymbolResolver{}
}

func (j *SymbolResolver) BuildQualifiedName(parentQN, name string) string {
	if parentQN == "" || parentQN == "." {
		return name
	}
	return parentQN + "." + name
}

// Resolve 在文件上下文中把类型名解析为顶层类型定义。
// 候选文件按 "源码根目录 + 包路径 + 类型名.java" 推断，首次引用时才会加载。
func (j *SymbolResolver) Resolve(gc *core.GlobalContext, fc *core.FileContext, symbol string) []*core.DefinitionEntry {
	symbol = EraseGenerics(symbol)
	root := SourceRoot(fc.FilePath, fc.PackageName)

	// 1. 局部定义
	if m := fc.Unit.FindType(symbol); m != nil {
		return []*core.DefinitionEntry{{
			QualifiedName: j.BuildQualifiedName(fc.PackageName, symbol),
			Member:        m,
			File:          fc,
		}}
	}

	// 2. 精确导入
	for _, imp := range fc.Imports[symbol] {
		if imp.Static {
			continue
		}
		if defs := gc.Lookup(imp.Path, candidatePath(root, imp.Path)); len(defs) > 0 {
			return defs
		}
	}

	// 3. 同包前缀 (同目录下的同名文件)
	pkgQN := j.BuildQualifiedName(fc.PackageName, symbol)
	sameDir := filepath.Join(filepath.Dir(fc.FilePath), symbol+model.LangJava.Extension())
	if defs := gc.Lookup(pkgQN, sameDir); len(defs) > 0 {
		return defs
	}

	// 4. Java 特有的通配符导入
	for _, imp := range fc.Imports["*"] {
		if imp.Static {
			continue
		}
		qn := strings.TrimSuffix(imp.Path, "*") + symbol
		if defs := gc.Lookup(qn, candidatePath(root, qn)); len(defs) > 0 {
			return defs
		}
	}

	// 5. 兜底：直接按 QN 查找 (处理代码中使用全限定名的情况)
	if strings.Contains(symbol, ".") {
		return gc.Lookup(symbol, candidatePath(root, symbol))
	}
	return nil
}

// Overrides 判断 impl 是否覆写了接口方法 decl：同名且擦除后的参数类型逐一相同
func (j *SymbolResolver) Overrides(impl, decl *model.MethodDecl) bool {
	if impl == nil || decl == nil || impl.IsConstructor || decl.IsConstructor {
		return false
	}
	if impl.Name != decl.Name || len(impl.ErasedParams) != len(decl.ErasedParams) {
		return false
	}
	for i := range impl.ErasedParams {
		if impl.ErasedParams[i] != decl.ErasedParams[i] {
			return false
		}
	}
	return true
}

// SourceRoot 由文件路径去掉包路径对应的目录层级，得到源码根目录。
// 目录结构与包名不一致时，退化为文件所在目录。
func SourceRoot(filePath, pkg string) string {
	dir := filepath.Dir(filePath)
	if pkg == "" {
		return dir
	}
	parts := strings.Split(pkg, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		if filepath.Base(dir) != parts[i] {
			return filepath.Dir(filePath)
		}
		dir = filepath.Dir(dir)
	}
	return dir
}

func candidatePath(root, qn string) string {
	return filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(qn, ".", "/"))) + model.LangJava.Extension()
}

// EraseType 将参数类型文本擦除为用于签名比较的简单名称:
// 去掉注解与泛型实参、保留限定名最后一段，方法级类型变量替换为其上界。
func EraseType(typeText string, typeVars map[string]string) string {
	t := stripAnnotations(typeText)
	t = EraseGenerics(t)
	t = strings.Join(strings.Fields(t), "")

	dims := ""
	for strings.HasSuffix(t, "[]") {
		dims += "[]"
		t = strings.TrimSuffix(t, "[]")
	}
	if idx := strings.LastIndex(t, "."); idx >= 0 {
		t = t[idx+1:]
	}
	if bound, ok := typeVars[t]; ok {
		t = bound
	}
	return t + dims
}

// EraseGenerics 删除所有尖括号内的内容 (支持嵌套)
func EraseGenerics(t string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range t {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// stripAnnotations 删除类型注解，@A(x = 1) 形式连同括号一起丢弃
func stripAnnotations(t string) string {
	var sb strings.Builder
	rs := []rune(t)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '@' {
			sb.WriteRune(rs[i])
			continue
		}
		i++
		for i < len(rs) && (isIdentRune(rs[i]) || rs[i] == '.') {
			i++
		}
		j := i
		for j < len(rs) && rs[j] == ' ' {
			j++
		}
		if j < len(rs) && rs[j] == '(' {
			depth := 0
			for ; j < len(rs); j++ {
				if rs[j] == '(' {
					depth++
				} else if rs[j] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			i = j
			continue
		}
		i--
	}
	return strings.TrimSpace(sb.String())
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 127
}
