package java

import (
	"github.com/CodMac/go-treesitter-impl-merger/collector"
	"github.com/CodMac/go-treesitter-impl-merger/core"
	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/CodMac/go-treesitter-impl-merger/noisefilter"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

func init() {
	// 注册 Tree-sitter Java 语言对象
	model.RegisterLanguage(model.LangJava, sitter.NewLanguage(tree_sitter_java.Language()))
	// 注册 Collector
	collector.RegisterCollector(model.LangJava, NewJavaCollector())
	// 注册 NoiseFilter(跳过 Object 继承来的方法)
	noisefilter.RegisterNoiseFilter(model.LangJava, NewJavaNoiseFilter())
	// 注册 SymbolResolver(类型解析与覆写判定)
	core.RegisterSymbolResolver(model.LangJava, NewJavaSymbolResolver())
}
