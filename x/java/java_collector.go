package java

import (
	"fmt"
	"strings"

	"github.com/CodMac/go-treesitter-impl-merger/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Collector struct{}

func NewJavaCollector() *Collector {
	return &Collector{}
}

// CollectUnit 将 Tree-sitter 语法树转换为自有的 CompilationUnit。
// 所有文本都按字节区间拷贝出来，未修改的 CompilationUnit 可以逐字节 Render 回原文。
func (c *Collector) CollectUnit(rootNode *sitter.Node, filePath string, sourceBytes []byte) (*model.CompilationUnit, error) {
	if rootNode == nil || rootNode.Kind() != kindProgram {
		return nil, fmt.Errorf("unexpected root node for %s", filePath)
	}

	unit := &model.CompilationUnit{
		Path:      filePath,
		HasErrors: rootNode.HasError(),
	}

	// 1. 顶层成员 (Package / Imports / 类型声明 / 注释)
	members, end := c.collectMembers(childrenOf(rootNode), 0, sourceBytes, filePath, true)
	unit.Members = members

	// 2. 尾部原文
	unit.Trailer = string(sourceBytes[end:])
	return unit, nil
}

// collectMembers 依次处理兄弟节点，计算每个成员的前导空白，并把紧邻声明的文档注释挂靠到声明上
func (c *Collector) collectMembers(children []*sitter.Node, prevEnd uint, src []byte, filePath string, topLevel bool) ([]*model.Member, uint) {
	var members []*model.Member
	var pendingDoc *model.DocComment
	pendingGap := ""

	for i, child := range children {
		start, end := child.StartByte(), child.EndByte()
		gap := string(src[prevEnd:start])

		if c.isDocComment(child, src) && i+1 < len(children) && isDocTarget(children[i+1]) &&
			isBlank(src[end:children[i+1].StartByte()]) {
			pendingDoc = &model.DocComment{Text: string(src[start:end])}
			pendingGap = gap
			prevEnd = end
			continue
		}

		m := c.buildMember(child, src, filePath, topLevel)
		if pendingDoc != nil {
			pendingDoc.Sep = gap
			m.Gap = pendingGap
			m.Docs = []*model.DocComment{pendingDoc}
			pendingDoc = nil
		} else {
			m.Gap = gap
		}
		members = append(members, m)
		prevEnd = end
	}
	return members, prevEnd
}

func (c *Collector) buildMember(node *sitter.Node, src []byte, filePath string, topLevel bool) *model.Member {
	m := &model.Member{
		Kind:     model.Unknown,
		Text:     string(src[node.StartByte():node.EndByte()]),
		Location: c.extractLocation(node, filePath),
	}

	switch node.Kind() {
	case kindPackageDecl:
		m.Kind = model.Package
		m.Package = &model.PackageDecl{Name: c.extractPackageName(node, src)}
	case kindImportDecl:
		if imp := c.handleImport(node, src); imp != nil {
			m.Kind = model.Import
			m.Import = imp
		}
	case kindClassDecl, kindInterfaceDecl:
		m.Kind = model.Class
		if node.Kind() == kindInterfaceDecl {
			m.Kind = model.Interface
		}
		// 只有顶层类型需要结构化的类型体，嵌套类型原样保留
		if topLevel {
			m.Type = c.buildType(node, m.Kind, src, filePath)
		}
	case kindRecordDecl, kindEnumDecl:
		m.Kind = model.Class
	case kindAnnotationTypeDecl:
		m.Kind = model.Interface
	case kindMethodDecl, kindConstructorDecl, kindCompactCtorDecl:
		m.Kind = model.Method
		m.Method = c.buildMethod(node, src)
	case kindFieldDecl, kindConstantDecl:
		m.Kind = model.Field
		m.Field = c.buildField(node, src)
	case kindBlockComment, kindLineComment:
		m.Kind = model.Comment
	}
	return m
}

func (c *Collector) buildType(node *sitter.Node, kind model.ElementKind, src []byte, filePath string) *model.TypeDecl {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	td := &model.TypeDecl{
		Kind: kind,
		Name: c.getNodeContent(node.ChildByFieldName("name"), src),
		Head: string(src[node.StartByte():body.StartByte()]),
	}
	td.Modifiers, _ = c.extractModifiersAndAnnotations(node, src)
	if tpNode := node.ChildByFieldName("type_parameters"); tpNode != nil {
		td.TypeParams = c.getNodeContent(tpNode, src)
	}

	// 1. 继承与实现
	if scNode := node.ChildByFieldName("superclass"); scNode != nil {
		for i := uint(0); i < scNode.NamedChildCount(); i++ {
			td.SuperClass = c.getNodeContent(scNode.NamedChild(i), src)
			break
		}
	}
	listNode := node.ChildByFieldName("interfaces")
	if listNode == nil {
		listNode = c.findChildOfType(node, kindExtendsInterfaces)
	}
	if listNode == nil {
		listNode = c.findChildOfType(node, kindSuperInterfaces)
	}
	if listNode != nil {
		td.Interfaces = c.collectTypeList(listNode, src)
	}

	// 2. 类型体: 去掉首尾的 '{' '}'
	children := childrenOf(body)
	if len(children) == 0 || children[0].Kind() != "{" {
		return nil
	}
	open := children[0]
	closeStart := body.EndByte()
	inner := children[1:]
	if n := len(inner); n > 0 && inner[n-1].Kind() == "}" {
		closeStart = inner[n-1].StartByte()
		inner = inner[:n-1]
	}

	members, end := c.collectMembers(inner, open.EndByte(), src, filePath, false)
	td.Body = members
	td.Tail = string(src[end:closeStart])
	return td
}

func (c *Collector) buildMethod(node *sitter.Node, src []byte) *model.MethodDecl {
	md := &model.MethodDecl{
		Name:          c.getNodeContent(node.ChildByFieldName("name"), src),
		IsConstructor: node.Kind() != kindMethodDecl,
		HasBody:       node.ChildByFieldName("body") != nil,
	}
	md.Modifiers, md.Annotations = c.extractModifiersAndAnnotations(node, src)

	// 1. 方法级泛型参数，擦除为其上界
	typeVars := make(map[string]string)
	if tpNode := node.ChildByFieldName("type_parameters"); tpNode != nil {
		for i := uint(0); i < tpNode.NamedChildCount(); i++ {
			tp := tpNode.NamedChild(i)
			if tp.Kind() != kindTypeParameter {
				continue
			}
			name, bound := c.extractTypeParameter(tp, src)
			if name == "" {
				continue
			}
			md.TypeParams = append(md.TypeParams, name)
			typeVars[name] = bound
		}
	}

	if tNode := node.ChildByFieldName("type"); tNode != nil {
		md.ReturnType = c.getNodeContent(tNode, src)
	}

	// 2. 形参
	if pNode := node.ChildByFieldName("parameters"); pNode != nil {
		for i := uint(0); i < pNode.NamedChildCount(); i++ {
			param, ok := c.extractParam(pNode.NamedChild(i), src)
			if !ok {
				continue
			}
			md.Params = append(md.Params, param)
			erased := EraseType(param.Type, typeVars)
			if param.VarArgs {
				erased += "[]"
			}
			md.ErasedParams = append(md.ErasedParams, erased)
		}
	}
	return md
}

func (c *Collector) extractParam(node *sitter.Node, src []byte) (model.Param, bool) {
	switch node.Kind() {
	case kindFormalParameter:
		p := model.Param{
			Type: c.getNodeContent(node.ChildByFieldName("type"), src),
			Name: c.getNodeContent(node.ChildByFieldName("name"), src),
		}
		// C 风格数组声明: int values[]
		if dims := node.ChildByFieldName("dimensions"); dims != nil {
			p.Type += strings.Repeat("[]", strings.Count(c.getNodeContent(dims, src), "["))
		}
		return p, true
	case kindSpreadParameter:
		p := model.Param{VarArgs: true}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch {
			case typeNodeKinds[child.Kind()] && p.Type == "":
				p.Type = c.getNodeContent(child, src)
			case child.Kind() == kindVariableDeclarator:
				p.Name = c.getNodeContent(child.ChildByFieldName("name"), src)
			}
		}
		return p, p.Type != ""
	default:
		// receiver_parameter 与注释不属于签名
		return model.Param{}, false
	}
}

func (c *Collector) extractTypeParameter(node *sitter.Node, src []byte) (string, string) {
	name, bound := "", "Object"
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "type_identifier", "identifier":
			if name == "" {
				name = c.getNodeContent(child, src)
			}
		case kindTypeBound:
			if child.NamedChildCount() > 0 {
				bound = EraseType(c.getNodeContent(child.NamedChild(0), src), nil)
			}
		}
	}
	return name, bound
}

func (c *Collector) buildField(node *sitter.Node, src []byte) *model.FieldDecl {
	fd := &model.FieldDecl{
		Type: c.getNodeContent(node.ChildByFieldName("type"), src),
	}
	fd.Modifiers, _ = c.extractModifiersAndAnnotations(node, src)
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == kindVariableDeclarator {
			fd.Names = append(fd.Names, c.getNodeContent(child.ChildByFieldName("name"), src))
		}
	}
	return fd
}

func (c *Collector) extractPackageName(node *sitter.Node, src []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		sub := node.Child(i)
		if sub.Kind() == "scoped_identifier" || sub.Kind() == "identifier" {
			return c.getNodeContent(sub, src)
		}
	}
	return ""
}

func (c *Collector) handleImport(node *sitter.Node, src []byte) *model.ImportDecl {
	isStatic := false
	var pathParts []string

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.Kind()

		if kind == "static" {
			isStatic = true
			continue
		}

		if kind == "scoped_identifier" || kind == "identifier" || kind == "asterisk" {
			pathParts = append(pathParts, c.getNodeContent(child, src))
		}
	}

	if len(pathParts) == 0 {
		return nil
	}

	fullPath := strings.Join(pathParts, ".")
	return &model.ImportDecl{
		Path:     fullPath,
		Static:   isStatic,
		Wildcard: pathParts[len(pathParts)-1] == "*",
	}
}

func (c *Collector) collectTypeList(n *sitter.Node, src []byte) []string {
	var types []string
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "type_list" {
			types = append(types, c.collectTypeList(child, src)...)
			continue
		}
		if typeNodeKinds[child.Kind()] {
			types = append(types, c.getNodeContent(child, src))
		}
	}
	return types
}

func (c *Collector) extractModifiersAndAnnotations(n *sitter.Node, src []byte) ([]string, []string) {
	var mods, annos []string
	mNode := c.findChildOfType(n, kindModifiers)
	if mNode == nil {
		return nil, nil
	}
	for i := uint(0); i < mNode.ChildCount(); i++ {
		child := mNode.Child(i)
		txt := c.getNodeContent(child, src)
		switch {
		case child.Kind() == kindMarkerAnnotation || child.Kind() == kindAnnotation:
			annos = append(annos, txt)
		case child.Kind() == kindBlockComment || child.Kind() == kindLineComment:
		case txt != "":
			mods = append(mods, txt)
		}
	}
	return mods, annos
}

func (c *Collector) isDocComment(n *sitter.Node, src []byte) bool {
	if n.Kind() != kindBlockComment {
		return false
	}
	txt := c.getNodeContent(n, src)
	return strings.HasPrefix(txt, "/**") && txt != "/**/"
}

func (c *Collector) extractLocation(n *sitter.Node, filePath string) *model.Location {
	if n == nil {
		return nil
	}
	return &model.Location{
		FilePath:    filePath,
		StartLine:   int(n.StartPosition().Row) + 1,
		EndLine:     int(n.EndPosition().Row) + 1,
		StartColumn: int(n.StartPosition().Column),
		EndColumn:   int(n.EndPosition().Column),
	}
}

func (c *Collector) getNodeContent(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(src)
}

func (c *Collector) findChildOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

func childrenOf(n *sitter.Node) []*sitter.Node {
	children := make([]*sitter.Node, 0, n.ChildCount())
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}

func isDocTarget(n *sitter.Node) bool {
	switch n.Kind() {
	case kindClassDecl, kindInterfaceDecl, kindRecordDecl, kindEnumDecl, kindAnnotationTypeDecl,
		kindMethodDecl, kindConstructorDecl, kindCompactCtorDecl, kindFieldDecl, kindConstantDecl:
		return true
	}
	return false
}

func isBlank(b []byte) bool {
	return strings.TrimSpace(string(b)) == ""
}
