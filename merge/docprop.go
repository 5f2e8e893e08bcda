package merge

import (
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

// DocPropagator 把文档注释从一个声明复制到另一个声明上
type DocPropagator interface {
	// PropagateDoc 克隆 from 的文档注释，插入到 to 的第一个结构子节点之前。
	// 重复调用会产生重复的注释，调用方负责保证每个目标只调用一次。
	PropagateDoc(from, to *model.Member) error
}

// CommentPropagator 是基于自有语法树的 DocPropagator
type CommentPropagator struct{}

func NewCommentPropagator() *CommentPropagator {
	return &CommentPropagator{}
}

func (p *CommentPropagator) PropagateDoc(from, to *model.Member) error {
	if len(from.Docs) == 0 {
		return nil
	}
	if to.Type == nil && strings.TrimSpace(to.Text) == "" {
		return model.ErrNoFirstChild
	}

	fromIndent := model.IndentOf(from.Gap)
	toIndent := model.IndentOf(to.Gap)
	docs := make([]*model.DocComment, 0, len(from.Docs)+len(to.Docs))
	for _, d := range from.Docs {
		clone := d.Clone()
		clone.Text = reindent(clone.Text, fromIndent, toIndent)
		clone.Sep = "\n" + toIndent
		docs = append(docs, clone)
	}
	to.Docs = append(docs, to.Docs...)
	return nil
}
