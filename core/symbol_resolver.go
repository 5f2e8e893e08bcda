package core

import (
	"fmt"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

// --- 语言特有的符号解析接口 ---

type SymbolResolver interface {
	// BuildQualifiedName 根据父节点和当前名构建 QN
	BuildQualifiedName(parentQN, name string) string

	// Resolve 具体的解析逻辑：处理本文件、导入、同包、通配符等逻辑
	Resolve(gc *GlobalContext, fc *FileContext, symbol string) []*DefinitionEntry

	// Overrides 判断 impl 是否覆写了接口方法 decl
	Overrides(impl, decl *model.MethodDecl) bool
}

var symbolResolverMap = make(map[model.Language]SymbolResolver)

// RegisterSymbolResolver 注册一个语言与其对应的 SymbolResolver。
func RegisterSymbolResolver(lang model.Language, resolver SymbolResolver) {
	symbolResolverMap[lang] = resolver
}

// GetSymbolResolver 根据语言类型获取对应的 SymbolResolver 实例。
func GetSymbolResolver(lang model.Language) (SymbolResolver, error) {
	resolver, ok := symbolResolverMap[lang]
	if !ok {
		return nil, fmt.Errorf("no SymbolResolver for language: %s", lang)
	}

	return resolver, nil
}
