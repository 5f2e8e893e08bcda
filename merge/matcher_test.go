package merge_test

import (
	"testing"

	"github.com/CodMac/go-treesitter-impl-merger/merge"
	"github.com/CodMac/go-treesitter-impl-merger/noisefilter"
	"github.com/CodMac/go-treesitter-impl-merger/x/java"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matcherIface = `interface Worker {
    void run(java.util.List<String> jobs);
    void stop();
    void add(int n);
    boolean equals(Object other);
    String toString();
}
`

const matcherClass = `class WorkerImpl implements Worker {
    public WorkerImpl() {}
    public void run(List<String> jobs) {}
    public void run(java.util.List<Integer> jobs) {}
    public void add(int n) {}
    public void add(String n) {}
    public boolean equals(Object other) { return false; }
}
`

func TestMatcher_Match(t *testing.T) {
	_, iface := parseType(t, matcherIface, "Worker")
	_, class := parseType(t, matcherClass, "WorkerImpl")

	m := merge.NewMatcher(java.NewJavaSymbolResolver().Overrides, java.NewJavaNoiseFilter())
	set := m.Match(iface.Type.Methods(), class.Type.Methods())

	require.Equal(t, 3, set.Len(), "denylisted methods are never matched")
	assert.Equal(t, "run", set.Results[0].Interface.Method.Name)
	assert.Equal(t, "stop", set.Results[1].Interface.Method.Name)
	assert.Equal(t, "add", set.Results[2].Interface.Method.Name)

	t.Run("Erasure duplicates are ambiguous", func(t *testing.T) {
		impls, ok := set.Lookup(set.Results[0].Interface)
		require.True(t, ok)
		assert.Len(t, impls, 2)
	})

	t.Run("Missing implementation", func(t *testing.T) {
		assert.Empty(t, set.Results[1].Implementations)
	})

	t.Run("Overloads are distinct", func(t *testing.T) {
		impls := set.Results[2].Implementations
		require.Len(t, impls, 1)
		assert.Equal(t, "add(int)", impls[0].Method.Signature())
	})

	t.Run("Order independent", func(t *testing.T) {
		methods := class.Type.Methods()
		rev := append(methods[:0:0], methods...)
		for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
			rev[i], rev[j] = rev[j], rev[i]
		}
		other := m.Match(iface.Type.Methods(), rev)
		for i, r := range other.Results {
			assert.Len(t, r.Implementations, len(set.Results[i].Implementations))
		}
	})

	t.Run("Extra skip methods", func(t *testing.T) {
		filter := noisefilter.WithExtra(java.NewJavaNoiseFilter(), "stop")
		set := merge.NewMatcher(java.NewJavaSymbolResolver().Overrides, filter).Match(iface.Type.Methods(), class.Type.Methods())
		assert.Equal(t, 2, set.Len())
	})
}
