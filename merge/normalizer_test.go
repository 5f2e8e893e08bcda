package merge_test

import (
	"testing"

	"github.com/CodMac/go-treesitter-impl-merger/merge"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"default becomes public", "    default void run() {", "    public void run() {"},
		{"default with generics", "  default <T> List<T> all(Class<T> type) {", "  public <T> List<T> all(Class<T> type) {"},
		{"header without brace", "public class FooImpl implements Foo", "public class Foo {"},
		{"header with brace", "public class FooImpl implements Foo {", "public class Foo {"},
		{"header keeps extends", "public final class FooImpl extends Base implements Foo, Serializable {", "public final class Foo extends Base {"},
		{"header without suffix", "class Foo implements Bar {", "class Foo {"},
		{"override line dropped", "    @Override\n    public void run() {", "    public void run() {"},
		{"qualified override dropped", "    @java.lang.Override\n    void x() {}", "    void x() {}"},
		{"inline override token removed", "    @Override public void run() {}", "    public void run() {}"},
		{"switch default untouched", "        default:\n            break;", "        default:\n            break;"},
		{"arrow default untouched", "        default -> run();", "        default -> run();"},
		{"nested header untouched", "    static class Task implements Runnable {", "    static class Task implements Runnable {"},
		{"CRLF preserved", "    @Override\r\n    default void run() {\r\n", "    public void run() {\r\n"},
		{"string literal mentioning default", `    String s = "default x(";`, `    String s = "default x(";`},
		{"public default", "    public default int one() {", "    public int one() {"},
		{"annotated default", "    @Deprecated default int one() {", "    @Deprecated public int one() {"},
		{"annotated public default", "    @SafeVarargs public default void all(int... xs) {", "    @SafeVarargs public void all(int... xs) {"},
		{"annotated header", "@Deprecated public class FooImpl implements Foo {", "@Deprecated public class Foo {"},
		{"annotation with arguments on header", `@Service("foo") public final class FooImpl implements Foo {`, `@Service("foo") public final class Foo {`},
		{"override after other annotation", "    @Deprecated @Override public void run() {}", "    @Deprecated public void run() {}"},
		{"override in string literal", `        return "@Override";`, `        return "@Override";`},
		{"override in line comment", "        // @Override is implied", "        // @Override is implied"},
		{"override in javadoc", "     * @Override semantics apply", "     * @Override semantics apply"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, merge.Normalize(tt.in))
		})
	}
}

func TestNormalizer_ClassFilter(t *testing.T) {
	src := "class Helper implements Runnable {\n}\n\npublic class GreeterImpl implements Greeter {\n}\n"

	n := &merge.Normalizer{Suffix: "Impl", Class: "GreeterImpl"}
	out, rewritten := n.Normalize(src)
	assert.True(t, rewritten)
	assert.Equal(t, "class Helper implements Runnable {\n}\n\npublic class Greeter {\n}\n", out)

	custom := &merge.Normalizer{Suffix: "Service"}
	out, rewritten = custom.Normalize("public class GreeterService implements Greeter {")
	assert.True(t, rewritten)
	assert.Equal(t, "public class Greeter {", out)
}

func TestNormalizer_HeaderReported(t *testing.T) {
	t.Run("Header not found", func(t *testing.T) {
		n := &merge.Normalizer{Suffix: "Impl", Class: "FooImpl"}
		out, rewritten := n.Normalize("@Component(\n    value = \"foo\")\nclass Other implements Foo {\n}")
		assert.False(t, rewritten)
		assert.Contains(t, out, "class Other implements Foo {")
	})

	t.Run("Header rule skipped", func(t *testing.T) {
		n := &merge.Normalizer{Suffix: "Impl", KeepHeader: true}
		out, rewritten := n.Normalize("public class FooImpl implements Foo {\n    @Override\n    public void run() {}\n}")
		assert.False(t, rewritten)
		assert.Equal(t, "public class FooImpl implements Foo {\n    public void run() {}\n}", out)
	})
}

func TestNormalize_OnlyFirstHeader(t *testing.T) {
	src := "class AImpl implements A {\n}\nclass BImpl implements B {\n}"
	assert.Equal(t, "class A {\n}\nclass BImpl implements B {\n}", merge.Normalize(src))
}
