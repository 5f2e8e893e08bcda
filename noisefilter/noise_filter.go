package noisefilter

import "github.com/CodMac/go-treesitter-impl-merger/model"

// NoiseFilter 定义了如何识别特定语言中不参与合并的方法名 (根类型继承来的通用方法等)
type NoiseFilter interface {
	IsNoise(methodName string) bool
}

var noiseFilterMap = make(map[model.Language]NoiseFilter)

// RegisterNoiseFilter 注册一个语言与其对应的 NoiseFilter
func RegisterNoiseFilter(lang model.Language, noiseFilter NoiseFilter) {
	noiseFilterMap[lang] = noiseFilter
}

// GetNoiseFilter 根据语言类型获取对应的 NoiseFilter 实例。
func GetNoiseFilter(lang model.Language) (NoiseFilter, error) {
	noiseFilter, ok := noiseFilterMap[lang]
	if !ok {
		// 如果没注册，返回一个默认不进行过滤的过滤器，防止程序奔溃
		return &DefaultNoiseFilter{}, nil
	}

	return noiseFilter, nil
}

// DefaultNoiseFilter 默认过滤器：不对任何方法名进行噪音判定
type DefaultNoiseFilter struct{}

func (d *DefaultNoiseFilter) IsNoise(string) bool { return false }

// WithExtra 在已有过滤器之上追加额外的方法名 (来自配置文件)
func WithExtra(base NoiseFilter, names ...string) NoiseFilter {
	if len(names) == 0 {
		return base
	}
	extra := make(map[string]struct{}, len(names))
	for _, n := range names {
		extra[n] = struct{}{}
	}
	return &extendedFilter{base: base, extra: extra}
}

type extendedFilter struct {
	base  NoiseFilter
	extra map[string]struct{}
}

func (f *extendedFilter) IsNoise(name string) bool {
	if _, ok := f.extra[name]; ok {
		return true
	}
	return f.base != nil && f.base.IsNoise(name)
}
