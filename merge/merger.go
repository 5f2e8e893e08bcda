package merge

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

// AnchorPolicy 决定在尚无锚点时如何放置复制的方法
type AnchorPolicy string

const (
	// AnchorPrepend 插入到方法区域开头 (第一个非构造函数方法之前)
	AnchorPrepend AnchorPolicy = "prepend"
	// AnchorError 记录问题并跳过该方法
	AnchorError AnchorPolicy = "error"
)

// Merger 把接口方法合并进实现类的类型体
type Merger struct {
	logger *slog.Logger
	docs   DocPropagator
	policy AnchorPolicy
}

func NewMerger(logger *slog.Logger, docs DocPropagator, policy AnchorPolicy) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	if docs == nil {
		docs = NewCommentPropagator()
	}
	if policy == "" {
		policy = AnchorPrepend
	}
	return &Merger{logger: logger, docs: docs, policy: policy}
}

// Merge 按接口方法的声明顺序处理匹配结果:
//   - 0 个实现: 复制接口方法，插入到当前锚点之后
//   - 1 个实现: 传播文档注释，并把该实现作为新的锚点
//   - 多个实现: 记录歧义，锚点不变
func (m *Merger) Merge(class *model.TypeDecl, matches *model.MatchSet) *model.MergeReport {
	report := &model.MergeReport{}
	indent := class.MemberIndent()

	var anchor *model.Member // 最近一次唯一匹配的类方法
	var cursor *model.Member // 锚点之后最近插入的副本，保证连续复制保持声明顺序

	for _, r := range matches.Results {
		decl := r.Interface
		name := decl.Method.Display()

		switch len(r.Implementations) {
		case 0:
			idx, err := m.insertionIndex(class, anchor, cursor)
			if err != nil {
				report.Issues = append(report.Issues, model.MethodIssue{Method: name, Reason: err.Error()})
				m.logger.Warn("cannot place copied method", "method", name, "error", err)
				continue
			}

			clone := cloneMember(decl, indent)
			switch {
			case len(class.Body) == 0:
				clone.Gap = "\n" + indent
				if !strings.Contains(class.Tail, "\n") {
					class.Tail = "\n"
				}
			case anchor == nil && cursor == nil && idx < len(class.Body):
				// 插到方法区域开头时沿用原成员的前导空白
				next := class.Body[idx]
				clone.Gap, next.Gap = next.Gap, "\n\n"+indent
			}
			class.InsertAt(idx, clone)
			cursor = clone
			report.Copied = append(report.Copied, name)

			if !decl.Method.HasBody {
				report.Issues = append(report.Issues, model.MethodIssue{
					Method: name,
					Reason: "copied method has no body and needs an implementation",
				})
				m.logger.Warn("copied abstract method", "method", name)
			}
		case 1:
			impl := r.Implementations[0]
			if len(decl.Docs) > 0 {
				if err := m.docs.PropagateDoc(decl, impl); err != nil {
					report.Issues = append(report.Issues, model.MethodIssue{
						Method: name,
						Reason: fmt.Sprintf("doc comment not propagated: %v", err),
					})
					m.logger.Warn("doc propagation skipped", "method", name, "error", err)
				} else {
					report.DocsPropagated++
				}
			}
			anchor = impl
			cursor = nil
			report.Matched = append(report.Matched, name)
		default:
			candidates := make([]string, 0, len(r.Implementations))
			for _, impl := range r.Implementations {
				candidates = append(candidates, describe(impl))
			}
			report.Ambiguities = append(report.Ambiguities, model.Ambiguity{Method: name, Candidates: candidates})
			m.logger.Warn("ambiguous method match", "method", name, "candidates", candidates)
		}
	}
	return report
}

func (m *Merger) insertionIndex(class *model.TypeDecl, anchor, cursor *model.Member) (int, error) {
	ref := cursor
	if ref == nil {
		ref = anchor
	}
	if ref != nil {
		idx := class.IndexOf(ref)
		if idx < 0 {
			return 0, fmt.Errorf("anchor %s is not part of the class body", describe(ref))
		}
		return idx + 1, nil
	}

	if m.policy == AnchorError {
		return 0, model.ErrMissingAnchor
	}
	return MethodRegionStart(class), nil
}

// MethodRegionStart 返回第一个非构造函数方法的下标，没有方法时返回类型体末尾
func MethodRegionStart(class *model.TypeDecl) int {
	for i, m := range class.Body {
		if m.Kind == model.Method && m.Method != nil && !m.Method.IsConstructor {
			return i
		}
	}
	return len(class.Body)
}

func describe(m *model.Member) string {
	if m.Method == nil {
		return "<unknown>"
	}
	if m.Location != nil {
		return fmt.Sprintf("%s@%d", m.Method.Display(), m.Location.StartLine)
	}
	return m.Method.Display()
}
