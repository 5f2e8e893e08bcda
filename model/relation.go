package model

// MatchResult 描述一个接口方法与实现类中覆写它的方法之间的关系
//
// Implementations 为空表示需要复制接口方法；恰好一个为可合并的情况；
// 多于一个则是歧义，仅跳过该方法。
type MatchResult struct {
	Interface       *Member   // 接口方法
	Implementations []*Member // 覆写该接口方法的类方法
}

// MatchSet 保持接口方法声明顺序的匹配结果集合
type MatchSet struct {
	Results []*MatchResult
	byDecl  map[*Member]*MatchResult
}

// NewMatchSet 创建空的匹配集合
func NewMatchSet() *MatchSet {
	return &MatchSet{byDecl: make(map[*Member]*MatchResult)}
}

// Add 追加一个接口方法的匹配结果
func (s *MatchSet) Add(decl *Member, impls []*Member) {
	r := &MatchResult{Interface: decl, Implementations: impls}
	s.Results = append(s.Results, r)
	s.byDecl[decl] = r
}

// Lookup 返回接口方法对应的实现列表
func (s *MatchSet) Lookup(decl *Member) ([]*Member, bool) {
	r, ok := s.byDecl[decl]
	if !ok {
		return nil, false
	}
	return r.Implementations, true
}

// Len 返回参与匹配的接口方法数量
func (s *MatchSet) Len() int {
	return len(s.Results)
}
