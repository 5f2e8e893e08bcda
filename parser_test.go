package main_test

import (
	"path/filepath"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/CodMac/go-treesitter-impl-merger/parser"
	_ "github.com/CodMac/go-treesitter-impl-merger/x/java" // 确保注册 Java 语言
)

// getTestFilePath 辅助函数，用于获取测试文件路径
func getTestFilePath(name string) string {
	currentDir, _ := filepath.Abs(filepath.Dir("."))
	return filepath.Join(currentDir, "x", "java", "testdata", name)
}

func TestTreeSitterParser_ParseFile(t *testing.T) {
	// 1. 尝试获取并初始化 Java 解析器
	javaParser, err := parser.NewParser(model.LangJava)
	if err != nil {
		t.Fatalf("Failed to create Java parser: %v", err)
	}
	defer javaParser.Close()

	// 2. 尝试解析一个 Java 文件
	filePath := getTestFilePath(filepath.Join("com", "example", "shapes", "Square.java"))
	tree, sourceBytes, err := javaParser.ParseFile(filePath)
	if err != nil {
		t.Fatalf("ParseFile failed for %s: %v", filePath, err)
	}
	defer tree.Close()
	if len(sourceBytes) == 0 {
		t.Fatal("SourceBytes is empty after parsing")
	}

	// 3. 验证根节点类型
	rootNode := tree.RootNode()
	if rootNode.Kind() != "program" {
		t.Errorf("Expected root node kind 'program', got '%s'", rootNode.Kind())
	}
	if rootNode.HasError() {
		t.Error("Fixture should parse without errors")
	}

	// 4. 查找 class_declaration
	var classNode *sitter.Node
	cursor := rootNode.Walk()
	if cursor.GotoFirstChild() {
		for {
			node := cursor.Node()
			if node.Kind() == "class_declaration" {
				classNode = node
				break
			}
			if !cursor.GotoNextSibling() {
				break
			}
		}
	}
	cursor.Close()

	if classNode == nil {
		t.Fatal("Could not find 'class_declaration' node.")
	}

	classNameNode := classNode.ChildByFieldName("name")
	if classNameNode == nil || classNameNode.Kind() != "identifier" || classNameNode.Utf8Text(sourceBytes) != "Square" {
		t.Errorf("Expected class name 'Square', got '%s'", classNameNode.Utf8Text(sourceBytes))
	}
}

func TestTreeSitterParser_Errors(t *testing.T) {
	javaParser, err := parser.NewParser(model.LangJava)
	if err != nil {
		t.Fatalf("Failed to create Java parser: %v", err)
	}
	defer javaParser.Close()

	if _, _, err := javaParser.ParseFile(getTestFilePath("Missing.java")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	tree, err := javaParser.ParseSource([]byte("class Broken { void x( }"))
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	defer tree.Close()
	if !tree.RootNode().HasError() {
		t.Error("Expected syntax errors to be reported in the tree")
	}

	if _, err := parser.NewParser(model.Language("cobol")); err == nil {
		t.Error("Expected an error for an unregistered language")
	}
}
