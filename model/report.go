package model

// Ambiguity 记录一个存在多个实现的接口方法
type Ambiguity struct {
	Method     string   `json:"Method"`
	Candidates []string `json:"Candidates"`
}

// MethodIssue 记录单个方法上无法完成的操作 (不影响其它方法)
type MethodIssue struct {
	Method string `json:"Method"`
	Reason string `json:"Reason"`
}

// MergeReport 是一次方法合并的结果
type MergeReport struct {
	Copied          []string      `json:"Copied,omitempty"`
	Matched         []string      `json:"Matched,omitempty"`
	Ambiguities     []Ambiguity   `json:"Ambiguities,omitempty"`
	Issues          []MethodIssue `json:"Issues,omitempty"`
	DocsPropagated  int           `json:"DocsPropagated"`
	ConstantsCopied []string      `json:"ConstantsCopied,omitempty"`
	ImportsAdded    []string      `json:"ImportsAdded,omitempty"`
}

// FileStatus 是单个文件的处理结果
type FileStatus string

const (
	StatusMerged  FileStatus = "MERGED"
	StatusDryRun  FileStatus = "DRY_RUN"
	StatusSkipped FileStatus = "SKIPPED"
	StatusFailed  FileStatus = "FAILED"
)

// FileReport 描述单个实现类文件的处理结果
type FileReport struct {
	File          string     `json:"File"`
	Class         string     `json:"Class,omitempty"`
	Interface     string     `json:"Interface,omitempty"`
	InterfaceFile string     `json:"InterfaceFile,omitempty"`
	Output        string     `json:"Output,omitempty"`
	Status        FileStatus `json:"Status"`
	Reason        string     `json:"Reason,omitempty"`
	TxID          string     `json:"TxID,omitempty"`
	Diff          string     `json:"Diff,omitempty"` // 仅 dry-run
	*MergeReport
}

// BatchReport 汇总一次批处理的全部文件结果
type BatchReport struct {
	Files []*FileReport
}

// Count 统计处于给定状态的文件数
func (b *BatchReport) Count(status FileStatus) int {
	n := 0
	for _, f := range b.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Ambiguities 统计全部文件的歧义方法数
func (b *BatchReport) Ambiguities() int {
	n := 0
	for _, f := range b.Files {
		if f.MergeReport != nil {
			n += len(f.MergeReport.Ambiguities)
		}
	}
	return n
}
