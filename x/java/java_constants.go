package java

// Tree-sitter Java 语法节点类型
const (
	kindProgram            = "program"
	kindPackageDecl        = "package_declaration"
	kindImportDecl         = "import_declaration"
	kindClassDecl          = "class_declaration"
	kindRecordDecl         = "record_declaration"
	kindEnumDecl           = "enum_declaration"
	kindInterfaceDecl      = "interface_declaration"
	kindAnnotationTypeDecl = "annotation_type_declaration"
	kindMethodDecl         = "method_declaration"
	kindConstructorDecl    = "constructor_declaration"
	kindCompactCtorDecl    = "compact_constructor_declaration"
	kindFieldDecl          = "field_declaration"
	kindConstantDecl       = "constant_declaration"
	kindBlockComment       = "block_comment"
	kindLineComment        = "line_comment"
	kindModifiers          = "modifiers"
	kindMarkerAnnotation   = "marker_annotation"
	kindAnnotation         = "annotation"
	kindFormalParameter    = "formal_parameter"
	kindSpreadParameter    = "spread_parameter"
	kindVariableDeclarator = "variable_declarator"
	kindSuperInterfaces    = "super_interfaces"
	kindExtendsInterfaces  = "extends_interfaces"
	kindTypeParameter      = "type_parameter"
	kindTypeBound          = "type_bound"
)

// 覆写判定时需要识别为类型节点的 Kind
var typeNodeKinds = map[string]bool{
	"type_identifier":        true,
	"scoped_type_identifier": true,
	"generic_type":           true,
	"array_type":             true,
	"integral_type":          true,
	"floating_point_type":    true,
	"boolean_type":           true,
	"void_type":              true,
}
