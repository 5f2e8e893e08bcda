package processor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/CodMac/go-treesitter-impl-merger/collector"
	"github.com/CodMac/go-treesitter-impl-merger/config"
	"github.com/CodMac/go-treesitter-impl-merger/core"
	"github.com/CodMac/go-treesitter-impl-merger/merge"
	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/CodMac/go-treesitter-impl-merger/noisefilter"
	"github.com/CodMac/go-treesitter-impl-merger/output"
	"github.com/CodMac/go-treesitter-impl-merger/parser"
	"github.com/CodMac/go-treesitter-impl-merger/store"
)

// FileProcessor 按顺序对实现类文件执行合并流程。
// 同一批次内解析过的接口文件缓存在 GlobalContext 中，提交后失效。
type FileProcessor struct {
	Language model.Language
	DryRun   bool

	cfg       *config.Config
	store     store.Store
	settler   *store.Settler
	logger    *slog.Logger
	parser    parser.Parser
	collector collector.Collector
	gc        *core.GlobalContext
	matcher   *merge.Matcher
	merger    *merge.Merger
	docs      merge.DocPropagator
}

// NewFileProcessor 创建 FileProcessor 实例
func NewFileProcessor(lang model.Language, cfg *config.Config, st store.Store, logger *slog.Logger) (*FileProcessor, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if st == nil {
		st = store.NewOSStore()
	}
	if logger == nil {
		logger = slog.Default()
	}

	col, err := collector.GetCollector(lang)
	if err != nil {
		return nil, err
	}
	resolver, err := core.GetSymbolResolver(lang)
	if err != nil {
		return nil, err
	}
	filter, err := noisefilter.GetNoiseFilter(lang)
	if err != nil {
		return nil, err
	}
	p, err := parser.NewParser(lang)
	if err != nil {
		return nil, err
	}

	fp := &FileProcessor{
		Language:  lang,
		cfg:       cfg,
		store:     st,
		settler:   store.NewSettler(cfg.SettleDelay, logger),
		logger:    logger,
		parser:    p,
		collector: col,
		matcher:   merge.NewMatcher(resolver.Overrides, noisefilter.WithExtra(filter, cfg.SkipMethods...)),
		docs:      merge.NewCommentPropagator(),
	}
	fp.merger = merge.NewMerger(logger, fp.docs, merge.AnchorPolicy(cfg.AnchorPolicy))
	fp.gc = core.NewGlobalContext(resolver, fp.loadUnit)
	return fp, nil
}

// SetDocPropagator 替换文档注释传播器
func (fp *FileProcessor) SetDocPropagator(docs merge.DocPropagator) {
	fp.docs = docs
	fp.merger = merge.NewMerger(fp.logger, docs, merge.AnchorPolicy(fp.cfg.AnchorPolicy))
}

// Close 释放解析器资源
func (fp *FileProcessor) Close() {
	fp.parser.Close()
}

// Process 解析选择并处理全部目标文件
func (fp *FileProcessor) Process(ctx context.Context, sel Selection) (*model.BatchReport, error) {
	files, err := fp.ResolveTargets(sel)
	if err != nil {
		return nil, err
	}
	return fp.ProcessFiles(ctx, files, sel.Line), nil
}

// ProcessFiles 严格按顺序处理文件；单个文件失败不会中断批处理。
// caret 行号只在单文件时生效。
func (fp *FileProcessor) ProcessFiles(ctx context.Context, filePaths []string, line int) *model.BatchReport {
	batch := &model.BatchReport{}
	if len(filePaths) != 1 {
		line = 0
	}

	fp.logger.Info("processing files", "count", len(filePaths), "dry_run", fp.DryRun)
	for _, path := range filePaths {
		if err := ctx.Err(); err != nil {
			fp.logger.Warn("batch cancelled", "remaining", len(filePaths)-len(batch.Files))
			break
		}
		batch.Files = append(batch.Files, fp.ProcessFile(ctx, path, line))
	}
	return batch
}

// ProcessFile 对单个实现类文件执行完整的合并流程，并把结果归类为 MERGED / DRY_RUN / SKIPPED / FAILED
func (fp *FileProcessor) ProcessFile(ctx context.Context, path string, line int) *model.FileReport {
	report := &model.FileReport{File: path}
	logger := fp.logger.With("file", path)

	err := fp.mergeFile(ctx, path, line, report, logger)
	switch {
	case err == nil:
	case model.IsSkippable(err):
		report.Status = model.StatusSkipped
		report.Reason = err.Error()
		logger.Warn("file skipped", "reason", err)
	default:
		report.Status = model.StatusFailed
		report.Reason = err.Error()
		logger.Error("file failed", "error", err)
	}
	return report
}

func (fp *FileProcessor) mergeFile(ctx context.Context, path string, line int, report *model.FileReport, logger *slog.Logger) error {
	// 1. 解析实现类文件 (不经过缓存，语法树会被原地修改)
	original, err := fp.store.Read(path)
	if err != nil {
		return model.NewMergeError(model.FileSystemError, path, "cannot read class file", err)
	}
	classUnit, err := fp.parseUnit(path, original)
	if err != nil {
		return err
	}
	if classUnit.HasErrors {
		return model.NewMergeError(model.ParseError, path, "class file has syntax errors", nil)
	}

	// 2. 定位实现类与其唯一的接口
	classMember, err := selectClass(classUnit, line)
	if err != nil {
		return err
	}
	class := classMember.Type
	report.Class = class.Name

	iface, err := fp.resolveInterface(classUnit, class)
	if err != nil {
		return err
	}
	ifaceMember, ifaceUnit := iface.Member, iface.File.Unit
	report.Interface = iface.QualifiedName
	report.InterfaceFile = iface.File.FilePath
	logger = logger.With("interface", iface.QualifiedName)

	// 3. 合并方法
	ifaceMethods := fp.collectInterfaceMethods(iface, logger)
	matches := fp.matcher.Match(ifaceMethods, class.Methods())
	mr := fp.merger.Merge(class, matches)
	report.MergeReport = mr

	// 4. 接口自身的文档注释复制到类上
	if len(ifaceMember.Docs) > 0 {
		if err := fp.docs.PropagateDoc(ifaceMember, classMember); err != nil {
			mr.Issues = append(mr.Issues, model.MethodIssue{Method: class.Name, Reason: fmt.Sprintf("class doc not propagated: %v", err)})
		} else {
			mr.DocsPropagated++
		}
	}

	// 5. 常量、package 与 import
	if fp.cfg.CopyConstants {
		copied, issues := merge.CopyConstants(class, ifaceMember.Type)
		mr.ConstantsCopied = copied
		mr.Issues = append(mr.Issues, issues...)
	}
	merge.RewritePackage(classUnit, ifaceUnit, ifaceMember.Type.Name)
	if fp.cfg.MergeImports && len(mr.Copied)+len(mr.ConstantsCopied) > 0 {
		classQN := fp.gc.BuildQualifiedName(classUnit.PackageName(), class.Name)
		mr.ImportsAdded = merge.MergeImports(classUnit, ifaceUnit, classQN)
	}

	// 6. 树上的最后一步：改写类声明头，删除 {@inheritDoc}，然后一次性序列化
	issues, err := merge.RewriteHeader(class, fp.cfg.Suffix)
	if err != nil {
		return model.NewMergeError(model.StructuralError, path, "cannot rewrite class header", err)
	}
	mr.Issues = append(mr.Issues, issues...)
	merge.RemovePlaceholders(classUnit)
	normalizer := &merge.Normalizer{Suffix: fp.cfg.Suffix, KeepHeader: true}
	merged, _ := normalizer.Normalize(classUnit.Render())

	if fp.cfg.VerifyOutput {
		if err := fp.validate(path, merged); err != nil {
			return err
		}
	}

	// 7. 写入位置
	out, obsolete := path, iface.File.FilePath
	if fp.cfg.Target == config.TargetInterface {
		out, obsolete = iface.File.FilePath, path
	}
	report.Output = out

	if fp.DryRun {
		report.Status = model.StatusDryRun
		report.Diff = output.RenderDiff(path, out, string(original), merged)
		logger.Info("dry run", "copied", len(mr.Copied), "matched", len(mr.Matched), "ambiguities", len(mr.Ambiguities))
		return nil
	}

	// 8. 事务提交：写入合并结果，删除多余的文件
	tx := store.Begin(fp.store, logger)
	tx.Write(out, []byte(merged))
	tx.Remove(obsolete)
	report.TxID = tx.ID

	if err := fp.settler.Await(ctx, tx.Paths(), tx.Commit); err != nil {
		return model.NewMergeError(model.FileSystemError, path, "commit failed", err)
	}
	fp.gc.Invalidate(tx.Paths()...)

	report.Status = model.StatusMerged
	logger.Info("merged",
		"tx", tx.ID,
		"output", out,
		"copied", len(mr.Copied),
		"matched", len(mr.Matched),
		"ambiguities", len(mr.Ambiguities))
	return nil
}

func (fp *FileProcessor) parseUnit(path string, source []byte) (*model.CompilationUnit, error) {
	tree, err := fp.parser.ParseSource(source)
	if err != nil {
		return nil, model.NewMergeError(model.ParseError, path, "cannot parse source", err)
	}
	defer tree.Close()

	unit, err := fp.collector.CollectUnit(tree.RootNode(), path, source)
	if err != nil {
		return nil, model.NewMergeError(model.ParseError, path, "cannot build syntax model", err)
	}
	return unit, nil
}

// loadUnit 是 GlobalContext 的 Loader
func (fp *FileProcessor) loadUnit(path string) (*model.CompilationUnit, error) {
	if !fp.store.Exists(path) {
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	source, err := fp.store.Read(path)
	if err != nil {
		return nil, err
	}
	return fp.parseUnit(path, source)
}

func (fp *FileProcessor) validate(path, merged string) error {
	tree, err := fp.parser.ParseSource([]byte(merged))
	if err != nil {
		return model.NewMergeError(model.StructuralError, path, "cannot re-parse merged source", err)
	}
	defer tree.Close()

	if tree.RootNode().HasError() {
		return model.NewMergeError(model.StructuralError, path, "merged source does not parse cleanly", nil)
	}
	return nil
}

// selectClass 返回 caret 所在的顶层类；没有 caret 时返回第一个顶层类
func selectClass(unit *model.CompilationUnit, line int) (*model.Member, error) {
	for _, m := range unit.TypeMembers() {
		if m.Kind != model.Class {
			continue
		}
		if line <= 0 || m.Location.Contains(line) {
			return m, nil
		}
	}
	if line > 0 {
		return nil, model.NewMergeError(model.PreconditionViolation, unit.Path,
			fmt.Sprintf("no top-level class at line %d", line), nil)
	}
	return nil, model.NewMergeError(model.PreconditionViolation, unit.Path, "no top-level class declaration", nil)
}

func (fp *FileProcessor) resolveInterface(classUnit *model.CompilationUnit, class *model.TypeDecl) (*core.DefinitionEntry, error) {
	path := classUnit.Path
	if n := len(class.Interfaces); n != 1 {
		return nil, model.NewMergeError(model.PreconditionViolation, path,
			fmt.Sprintf("class %s implements %d interfaces, want exactly 1", class.Name, n), nil)
	}
	name := class.Interfaces[0]
	if hasTypeArguments(name) {
		return nil, model.NewMergeError(model.UnsupportedConstruct, path,
			fmt.Sprintf("generic interface instantiation %s", name), nil)
	}

	fc := core.NewFileContext(classUnit)
	var iface *core.DefinitionEntry
	for _, def := range fp.gc.ResolveType(fc, name) {
		if def.Member.Kind == model.Interface {
			iface = def
			break
		}
	}
	if iface == nil {
		return nil, model.NewMergeError(model.PreconditionViolation, path,
			fmt.Sprintf("interface %s not found", name), nil)
	}

	switch {
	case filepath.Clean(iface.File.FilePath) == filepath.Clean(path):
		return nil, model.NewMergeError(model.PreconditionViolation, path,
			fmt.Sprintf("interface %s is declared in the same file", name), nil)
	case len(iface.File.Unit.TypeMembers()) != 1:
		return nil, model.NewMergeError(model.PreconditionViolation, path,
			fmt.Sprintf("interface file %s declares more than one type", iface.File.FilePath), nil)
	case iface.Member.Type.TypeParams != "":
		return nil, model.NewMergeError(model.UnsupportedConstruct, path,
			fmt.Sprintf("interface %s declares type parameters %s", name, iface.Member.Type.TypeParams), nil)
	case iface.File.Unit.HasErrors:
		return nil, model.NewMergeError(model.ParseError, iface.File.FilePath, "interface file has syntax errors", nil)
	}
	return iface, nil
}

// collectInterfaceMethods 返回接口自身及可解析的父接口上的方法。
// 同一签名只保留最先出现的 (子接口优先)；父接口的 static / private 方法不被继承。
func (fp *FileProcessor) collectInterfaceMethods(iface *core.DefinitionEntry, logger *slog.Logger) []*model.Member {
	var methods []*model.Member
	seen := make(map[string]bool)
	visited := make(map[*model.Member]bool)

	var walk func(def *core.DefinitionEntry, inherited bool)
	walk = func(def *core.DefinitionEntry, inherited bool) {
		if visited[def.Member] {
			return
		}
		visited[def.Member] = true

		for _, m := range def.Member.Type.Methods() {
			if inherited && (m.Method.HasModifier("static") || m.Method.HasModifier("private")) {
				continue
			}
			sig := m.Method.Signature()
			if seen[sig] {
				continue
			}
			seen[sig] = true
			methods = append(methods, m)
		}

		for _, super := range def.Member.Type.Interfaces {
			resolved := false
			for _, sd := range fp.gc.ResolveType(def.File, super) {
				if sd.Member.Kind == model.Interface {
					walk(sd, true)
					resolved = true
					break
				}
			}
			if !resolved {
				logger.Debug("super interface not resolvable", "interface", def.QualifiedName, "super", super)
			}
		}
	}
	walk(iface, false)
	return methods
}

func hasTypeArguments(typeName string) bool {
	for _, r := range typeName {
		if r == '<' {
			return true
		}
	}
	return false
}
