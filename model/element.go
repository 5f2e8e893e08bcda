package model

// --- 语法成员类型 (Member Kinds) ---

// ElementKind 是表示语法成员类型的字符串常量
type ElementKind string

const (
	Package   ElementKind = "PACKAGE"   // package 声明
	Import    ElementKind = "IMPORT"    // import 声明
	Class     ElementKind = "CLASS"     // 类 / record / enum
	Interface ElementKind = "INTERFACE" // 接口
	Method    ElementKind = "METHOD"    // 方法与构造函数
	Field     ElementKind = "FIELD"     // 字段与接口常量
	Comment   ElementKind = "COMMENT"   // 独立注释 (未挂靠到声明上的)
	Unknown   ElementKind = "UNKNOWN"   // 其它原样保留的片段 (初始化块、分号等)
)

// IsType 判断是否为类型声明
func (k ElementKind) IsType() bool {
	return k == Class || k == Interface
}

// Location 描述了代码元素在源码中的位置
type Location struct {
	FilePath    string `json:"FilePath"`
	StartLine   int    `json:"StartLine"`
	EndLine     int    `json:"EndLine"`
	StartColumn int    `json:"StartColumn"`
	EndColumn   int    `json:"EndColumn"`
}

// Contains 判断行号 (1-based) 是否落在该位置范围内
func (l *Location) Contains(line int) bool {
	if l == nil {
		return false
	}
	return line >= l.StartLine && line <= l.EndLine
}
