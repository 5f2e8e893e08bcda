package merge

import (
	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/CodMac/go-treesitter-impl-merger/noisefilter"
)

// OverrideFunc 判断 impl 是否覆写了 decl，由具体语言的 SymbolResolver 提供
type OverrideFunc func(impl, decl *model.MethodDecl) bool

// Matcher 计算接口方法与实现类方法之间的覆写关系
type Matcher struct {
	overrides OverrideFunc
	filter    noisefilter.NoiseFilter
}

func NewMatcher(overrides OverrideFunc, filter noisefilter.NoiseFilter) *Matcher {
	if filter == nil {
		filter = &noisefilter.DefaultNoiseFilter{}
	}
	return &Matcher{overrides: overrides, filter: filter}
}

// Match 为每个接口方法收集覆写它的类方法。
// 结果保持接口方法的声明顺序；被 NoiseFilter 判定为噪音的方法完全不参与。
func (m *Matcher) Match(ifaceMethods, classMethods []*model.Member) *model.MatchSet {
	set := model.NewMatchSet()
	for _, decl := range ifaceMethods {
		if decl.Method == nil || m.filter.IsNoise(decl.Method.Name) {
			continue
		}

		var impls []*model.Member
		for _, cm := range classMethods {
			if cm.Method == nil || cm.Method.IsConstructor {
				continue
			}
			if m.overrides(cm.Method, decl.Method) {
				impls = append(impls, cm)
			}
		}
		set.Add(decl, impls)
	}
	return set
}
