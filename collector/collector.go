package collector

import (
	"fmt"

	"github.com/CodMac/go-treesitter-impl-merger/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Collector 将 Tree-sitter 语法树转换为自有的 CompilationUnit。
type Collector interface {
	// CollectUnit 负责遍历 AST，建立并返回该文件的 CompilationUnit。
	// 返回值不再引用 rootNode，调用方可以在返回后立即关闭 Tree。
	CollectUnit(rootNode *sitter.Node, filePath string, sourceBytes []byte) (*model.CompilationUnit, error)
}

var collectorMap = make(map[model.Language]Collector)

// RegisterCollector 注册一个语言与其对应的 Collector
func RegisterCollector(lang model.Language, collector Collector) {
	collectorMap[lang] = collector
}

// GetCollector 根据语言类型获取对应的 Collector 实例。
func GetCollector(lang model.Language) (Collector, error) {
	collector, ok := collectorMap[lang]
	if !ok {
		return nil, fmt.Errorf("no collector registered for language: %s", lang)
	}

	return collector, nil
}
