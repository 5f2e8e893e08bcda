package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// Selection 描述用户选中的内容: 一个文件 (可带 caret 行号) 或一个目录
type Selection struct {
	Path string
	Line int // 1-based，0 表示未指定
}

// ResolveTargets 返回需要处理的实现类文件。
// 目录模式下递归查找文件名以 "<后缀>.java" 结尾的文件；未选中任何内容或路径不存在时返回空。
func (fp *FileProcessor) ResolveTargets(sel Selection) ([]string, error) {
	if sel.Path == "" {
		return nil, nil
	}

	info, err := os.Stat(sel.Path)
	if errors.Is(err, fs.ErrNotExist) {
		fp.logger.Debug("selection does not exist, nothing to merge", "path", sel.Path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot resolve selection %s: %w", sel.Path, err)
	}
	if !info.IsDir() {
		return []string{sel.Path}, nil
	}

	files, err := fp.store.List(sel.Path, fp.cfg.Suffix+fp.Language.Extension())
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
