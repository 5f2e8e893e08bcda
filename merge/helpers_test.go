package merge_test

import (
	"testing"

	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/CodMac/go-treesitter-impl-merger/parser"
	"github.com/CodMac/go-treesitter-impl-merger/x/java"
	"github.com/stretchr/testify/require"
)

func parseUnit(t *testing.T, path, source string) *model.CompilationUnit {
	t.Helper()
	p, err := parser.NewParser(model.LangJava)
	require.NoError(t, err)
	defer p.Close()

	tree, err := p.ParseSource([]byte(source))
	require.NoError(t, err)
	defer tree.Close()

	unit, err := java.NewJavaCollector().CollectUnit(tree.RootNode(), path, []byte(source))
	require.NoError(t, err)
	require.False(t, unit.HasErrors, "fixture must parse cleanly:\n%s", source)
	return unit
}

func parseType(t *testing.T, source, name string) (*model.CompilationUnit, *model.Member) {
	t.Helper()
	unit := parseUnit(t, name+".java", source)
	m := unit.FindType(name)
	require.NotNil(t, m, "type %s not found", name)
	return unit, m
}

func methodNames(td *model.TypeDecl) []string {
	var names []string
	for _, m := range td.Methods() {
		names = append(names, m.Method.Name)
	}
	return names
}

// countingPropagator 记录 PropagateDoc 的调用次数
type countingPropagator struct {
	inner interface {
		PropagateDoc(from, to *model.Member) error
	}
	calls map[*model.Member]int
}

func (c *countingPropagator) PropagateDoc(from, to *model.Member) error {
	if c.calls == nil {
		c.calls = make(map[*model.Member]int)
	}
	c.calls[to]++
	return c.inner.PropagateDoc(from, to)
}
