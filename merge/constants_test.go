package merge_test

import (
	"testing"

	"github.com/CodMac/go-treesitter-impl-merger/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyConstants(t *testing.T) {
	_, iface := parseType(t, "interface Api {\n    String PREFIX = \"p\";\n    @Deprecated int LIMIT = 3;\n    public static final int MAX = 9;\n    int COUNT = 1;\n    void run();\n}\n", "Api")

	t.Run("Inserted after existing fields", func(t *testing.T) {
		unit, class := parseType(t, "class ApiImpl implements Api {\n    private int COUNT;\n\n    public void run() {}\n}\n", "ApiImpl")

		copied, issues := merge.CopyConstants(class.Type, iface.Type)
		assert.Equal(t, []string{"PREFIX", "LIMIT", "MAX"}, copied)
		require.Len(t, issues, 1)
		assert.Equal(t, "COUNT", issues[0].Method)
		assert.Contains(t, issues[0].Reason, "already declared")

		assert.Equal(t, "class ApiImpl implements Api {\n"+
			"    private int COUNT;\n"+
			"    public static final String PREFIX = \"p\";\n"+
			"    @Deprecated public static final int LIMIT = 3;\n"+
			"    public static final int MAX = 9;\n"+
			"\n"+
			"    public void run() {}\n"+
			"}\n", unit.Render())
	})

	t.Run("Class without fields", func(t *testing.T) {
		_, single := parseType(t, "interface Api {\n  int A = 1, B = 2;\n  int C = 3;\n}\n", "Api")
		unit, class := parseType(t, "class ApiImpl implements Api {\n    public void run() {}\n}\n", "ApiImpl")

		copied, issues := merge.CopyConstants(class.Type, single.Type)
		assert.Empty(t, issues)
		assert.Equal(t, []string{"A, B", "C"}, copied)
		assert.Equal(t, "class ApiImpl implements Api {\n"+
			"    public static final int A = 1, B = 2;\n"+
			"    public static final int C = 3;\n"+
			"\n"+
			"    public void run() {}\n"+
			"}\n", unit.Render())
	})
}
