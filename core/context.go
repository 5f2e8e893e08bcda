package core

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/CodMac/go-treesitter-impl-merger/model"
)

// DefinitionEntry 是一个已知的顶层类型定义
type DefinitionEntry struct {
	QualifiedName string
	Member        *model.Member // 类型声明成员 (Type 非空)
	File          *FileContext
}

// FileContext 存储了单个文件的解析结果与导入信息
type FileContext struct {
	FilePath    string
	PackageName string
	Unit        *model.CompilationUnit
	Imports     map[string][]*model.ImportDecl // Alias -> 导入 ("*" 对应全部通配符导入)
}

// NewFileContext 基于已解析的 CompilationUnit 建立文件上下文
func NewFileContext(unit *model.CompilationUnit) *FileContext {
	fc := &FileContext{
		FilePath:    unit.Path,
		PackageName: unit.PackageName(),
		Unit:        unit,
		Imports:     make(map[string][]*model.ImportDecl),
	}
	for _, imp := range unit.Imports() {
		fc.Imports[imp.Alias()] = append(fc.Imports[imp.Alias()], imp)
	}
	return fc
}

// Loader 按路径加载并解析源文件
type Loader func(path string) (*model.CompilationUnit, error)

// GlobalContext 缓存一次运行中解析过的文件，并按 QN 索引其中的顶层类型。
// 文件在首次被引用时才解析；写回磁盘后需调用 Invalidate 刷新。
type GlobalContext struct {
	FileContexts    map[string]*FileContext
	DefinitionsByQN map[string][]*DefinitionEntry
	missing         map[string]bool // 已确认不存在 / 无法解析的路径
	loader          Loader
	resolver        SymbolResolver // 持有具体语言的解析器
	mutex           sync.RWMutex
}

func NewGlobalContext(resolver SymbolResolver, loader Loader) *GlobalContext {
	return &GlobalContext{
		FileContexts:    make(map[string]*FileContext),
		DefinitionsByQN: make(map[string][]*DefinitionEntry),
		missing:         make(map[string]bool),
		loader:          loader,
		resolver:        resolver,
	}
}

// RegisterFileContext 注册文件上下文，并把其中的顶层类型登记到全局索引
func (gc *GlobalContext) RegisterFileContext(fc *FileContext) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()
	gc.registerLocked(fc)
}

func (gc *GlobalContext) registerLocked(fc *FileContext) {
	gc.FileContexts[fc.FilePath] = fc
	delete(gc.missing, fc.FilePath)

	for _, m := range fc.Unit.TypeMembers() {
		qn := gc.resolver.BuildQualifiedName(fc.PackageName, m.Type.Name)
		gc.DefinitionsByQN[qn] = append(gc.DefinitionsByQN[qn], &DefinitionEntry{
			QualifiedName: qn,
			Member:        m,
			File:          fc,
		})
	}
}

// Load 返回路径对应的文件上下文，必要时调用 Loader 解析并缓存
func (gc *GlobalContext) Load(path string) (*FileContext, error) {
	path = filepath.Clean(path)

	gc.mutex.RLock()
	fc, ok := gc.FileContexts[path]
	missing := gc.missing[path]
	gc.mutex.RUnlock()
	if ok {
		return fc, nil
	}
	if missing {
		return nil, fmt.Errorf("file %s is not loadable", path)
	}
	if gc.loader == nil {
		return nil, fmt.Errorf("no loader configured for %s", path)
	}

	unit, err := gc.loader(path)
	if err != nil {
		gc.mutex.Lock()
		gc.missing[path] = true
		gc.mutex.Unlock()
		return nil, err
	}
	unit.Path = path

	fc = NewFileContext(unit)
	gc.mutex.Lock()
	defer gc.mutex.Unlock()
	if existing, ok := gc.FileContexts[path]; ok {
		return existing, nil
	}
	gc.registerLocked(fc)
	return fc, nil
}

// Lookup 按 QN 查找类型定义；candidatePath 非空时先尝试加载该文件
func (gc *GlobalContext) Lookup(qn, candidatePath string) []*DefinitionEntry {
	if candidatePath != "" {
		_, _ = gc.Load(candidatePath) // 不存在的候选路径是常态
	}

	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	return gc.DefinitionsByQN[qn]
}

// ResolveType 由具体语言的 Resolver 驱动，在文件上下文中解析类型名
func (gc *GlobalContext) ResolveType(fc *FileContext, symbol string) []*DefinitionEntry {
	return gc.resolver.Resolve(gc, fc, symbol)
}

func (gc *GlobalContext) BuildQualifiedName(parentQN, name string) string {
	return gc.resolver.BuildQualifiedName(parentQN, name)
}

// Invalidate 丢弃给定路径的缓存 (文件被改写或删除之后)
func (gc *GlobalContext) Invalidate(paths ...string) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	for _, p := range paths {
		p = filepath.Clean(p)
		delete(gc.missing, p)
		if _, ok := gc.FileContexts[p]; !ok {
			continue
		}
		delete(gc.FileContexts, p)
		for qn, entries := range gc.DefinitionsByQN {
			kept := entries[:0]
			for _, e := range entries {
				if e.File.FilePath != p {
					kept = append(kept, e)
				}
			}
			if len(kept) == 0 {
				delete(gc.DefinitionsByQN, qn)
			} else {
				gc.DefinitionsByQN[qn] = kept
			}
		}
	}
}
