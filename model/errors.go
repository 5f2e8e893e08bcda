package model

import (
	"errors"
	"fmt"
)

// ErrorKind 对合并过程中的非预期失败进行分类
type ErrorKind int

const (
	ParseError ErrorKind = iota
	PreconditionViolation
	UnsupportedConstruct
	StructuralError
	FileSystemError
)

func (k ErrorKind) String() string {
	switch k {
	case ParseError:
		return "parse error"
	case PreconditionViolation:
		return "precondition violation"
	case UnsupportedConstruct:
		return "unsupported construct"
	case StructuralError:
		return "structural error"
	case FileSystemError:
		return "file system error"
	default:
		return "unknown error"
	}
}

var (
	// ErrNoFirstChild 表示文档注释的目标声明没有可插入位置
	ErrNoFirstChild = errors.New("target declaration has no first child")
	// ErrMissingAnchor 表示复制方法时尚无可用的插入锚点
	ErrMissingAnchor = errors.New("no insertion anchor established")
)

// MergeError 表示单个文件合并失败的原因
type MergeError struct {
	Kind    ErrorKind
	File    string
	Message string
	Cause   error
}

func (e *MergeError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *MergeError) Unwrap() error {
	return e.Cause
}

// NewMergeError 构造 MergeError
func NewMergeError(kind ErrorKind, file, message string, cause error) *MergeError {
	return &MergeError{Kind: kind, File: file, Message: message, Cause: cause}
}

// IsSkippable 判断错误是否属于 "跳过该文件" 一类 (而非失败)
func IsSkippable(err error) bool {
	var me *MergeError
	if !errors.As(err, &me) {
		return false
	}
	return me.Kind == PreconditionViolation || me.Kind == UnsupportedConstruct
}
