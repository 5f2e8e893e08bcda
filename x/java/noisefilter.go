package java

// SkipMethods 是从隐式根类型 java.lang.Object 继承而来的方法名，
// 它们永远不会被复制、匹配或报告。
var SkipMethods = []string{
	"registerNatives", "Object", "getClass", "hashCode", "equals", "clone",
	"toString", "notify", "notifyAll", "wait", "finalize",
}

var skipMethodSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(SkipMethods))
	for _, name := range SkipMethods {
		set[name] = struct{}{}
	}
	return set
}()

type NoiseFilter struct{}

func NewJavaNoiseFilter() *NoiseFilter {
	return &NoiseFilter{}
}

func (f *NoiseFilter) IsNoise(methodName string) bool {
	_, ok := skipMethodSet[methodName]
	return ok
}
