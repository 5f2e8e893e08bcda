package merge_test

import (
	"testing"

	"github.com/CodMac/go-treesitter-impl-merger/merge"
	"github.com/CodMac/go-treesitter-impl-merger/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentPropagator_PropagateDoc(t *testing.T) {
	_, iface := parseType(t, "interface Api {\n  /**\n   * Fetches.\n   */\n  void fetch();\n}\n", "Api")
	unit, class := parseType(t, "class ApiImpl implements Api {\n    /** Own doc. */\n    public void fetch() {}\n}\n", "ApiImpl")

	from := iface.Type.Methods()[0]
	to := class.Type.Methods()[0]
	p := merge.NewCommentPropagator()

	t.Run("Clone is inserted before existing docs and reindented", func(t *testing.T) {
		require.NoError(t, p.PropagateDoc(from, to))
		require.Len(t, to.Docs, 2)
		assert.Equal(t, "/**\n     * Fetches.\n     */", to.Docs[0].Text)
		assert.Equal(t, "/** Own doc. */", to.Docs[1].Text)
		assert.Equal(t, "class ApiImpl implements Api {\n    /**\n     * Fetches.\n     */\n    /** Own doc. */\n    public void fetch() {}\n}\n", unit.Render())

		// 源注释不受影响
		assert.Equal(t, "/**\n   * Fetches.\n   */", from.Docs[0].Text)
	})

	t.Run("Calling twice duplicates", func(t *testing.T) {
		require.NoError(t, p.PropagateDoc(from, to))
		assert.Len(t, to.Docs, 3)
	})

	t.Run("Source without doc is a no-op", func(t *testing.T) {
		before := len(to.Docs)
		require.NoError(t, p.PropagateDoc(&model.Member{Text: "void x();"}, to))
		assert.Equal(t, before, len(to.Docs))
	})

	t.Run("Empty target", func(t *testing.T) {
		err := p.PropagateDoc(from, &model.Member{Kind: model.Method})
		assert.ErrorIs(t, err, model.ErrNoFirstChild)
	})

	t.Run("Type declaration target", func(t *testing.T) {
		_, api := parseType(t, "/** The API. */\npublic interface Api {}\n", "Api")
		classUnit, impl := parseType(t, "package p;\n\npublic class ApiImpl implements Api {}\n", "ApiImpl")
		require.NoError(t, p.PropagateDoc(api, impl))
		assert.Equal(t, "package p;\n\n/** The API. */\npublic class ApiImpl implements Api {}\n", classUnit.Render())
	})
}
