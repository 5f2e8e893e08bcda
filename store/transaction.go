package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type opKind int

const (
	opWrite opKind = iota
	opRemove
)

type op struct {
	kind opKind
	path string
	data []byte
}

type snapshot struct {
	existed bool
	data    []byte
}

// Transaction 收集单个文件合并产生的全部写入与删除，在 Commit 时一次性应用。
// 任一步骤失败时，已应用的修改按相反顺序回滚。
type Transaction struct {
	ID     string
	store  Store
	logger *slog.Logger
	ops    []op
	done   bool
}

// Begin 开启一个新的事务
func Begin(s Store, logger *slog.Logger) *Transaction {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Transaction{
		ID:     id,
		store:  s,
		logger: logger.With("tx", id),
	}
}

// Write 登记一次文件写入
func (t *Transaction) Write(path string, data []byte) {
	t.ops = append(t.ops, op{kind: opWrite, path: path, data: data})
}

// Remove 登记一次文件删除
func (t *Transaction) Remove(path string) {
	t.ops = append(t.ops, op{kind: opRemove, path: path})
}

// Paths 返回事务涉及的全部路径 (去重，保持登记顺序)
func (t *Transaction) Paths() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, o := range t.ops {
		if !seen[o.path] {
			seen[o.path] = true
			paths = append(paths, o.path)
		}
	}
	return paths
}

// Commit 先为所有涉及的文件做快照，再依次应用修改
func (t *Transaction) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true

	// 1. 快照
	snaps := make(map[string]snapshot)
	for _, p := range t.Paths() {
		if !t.store.Exists(p) {
			snaps[p] = snapshot{}
			continue
		}
		data, err := t.store.Read(p)
		if err != nil {
			return fmt.Errorf("failed to snapshot %s: %w", p, err)
		}
		snaps[p] = snapshot{existed: true, data: data}
	}

	// 2. 应用
	var applied []op
	for _, o := range t.ops {
		var err error
		switch o.kind {
		case opWrite:
			err = t.store.Write(o.path, o.data)
		case opRemove:
			err = t.store.Remove(o.path)
		}
		if err != nil {
			t.logger.Error("commit failed, rolling back", "path", o.path, "error", err)
			if rbErr := t.rollback(applied, snaps); rbErr != nil {
				return errors.Join(err, rbErr)
			}
			return err
		}
		applied = append(applied, o)
	}

	t.logger.Debug("transaction committed", "ops", len(t.ops))
	return nil
}

// Discard 放弃全部登记的修改
func (t *Transaction) Discard() {
	t.done = true
	t.ops = nil
}

func (t *Transaction) rollback(applied []op, snaps map[string]snapshot) error {
	var errs []error
	restored := make(map[string]bool)
	for i := len(applied) - 1; i >= 0; i-- {
		p := applied[i].path
		if restored[p] {
			continue
		}
		restored[p] = true

		snap := snaps[p]
		var err error
		if snap.existed {
			err = t.store.Write(p, snap.data)
		} else {
			err = t.store.Remove(p)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("rollback %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}
