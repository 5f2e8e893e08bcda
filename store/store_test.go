package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOSStore(t *testing.T) {
	dir := t.TempDir()
	s := NewOSStore()

	t.Run("Write keeps mode and leaves no temp files", func(t *testing.T) {
		path := filepath.Join(dir, "Run.java")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

		require.NoError(t, s.Write(path, []byte("new")))
		data, err := s.Read(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Remove missing file", func(t *testing.T) {
		assert.NoError(t, s.Remove(filepath.Join(dir, "missing.java")))
		assert.False(t, s.Exists(filepath.Join(dir, "missing.java")))
		assert.False(t, s.Exists(dir), "directories are not files")
	})

	t.Run("Read missing file", func(t *testing.T) {
		_, err := s.Read(filepath.Join(dir, "missing.java"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("List skips hidden directories", func(t *testing.T) {
		root := filepath.Join(dir, "src")
		writeFile(t, filepath.Join(root, "a", "FooImpl.java"), "")
		writeFile(t, filepath.Join(root, "a", "Foo.java"), "")
		writeFile(t, filepath.Join(root, "b", "c", "BarImpl.java"), "")
		writeFile(t, filepath.Join(root, ".git", "HiddenImpl.java"), "")

		files, err := s.List(root, "Impl.java")
		require.NoError(t, err)
		sort.Strings(files)
		assert.Equal(t, []string{
			filepath.Join(root, "a", "FooImpl.java"),
			filepath.Join(root, "b", "c", "BarImpl.java"),
		}, files)
	})
}

// flakyStore 在删除指定路径时失败
type flakyStore struct {
	*OSStore
	failOn string
}

func (s *flakyStore) Remove(path string) error {
	if path == s.failOn {
		return errors.New("disk on fire")
	}
	return s.OSStore.Remove(path)
}

func TestTransaction(t *testing.T) {
	t.Run("Commit applies in order", func(t *testing.T) {
		dir := t.TempDir()
		class := filepath.Join(dir, "FooImpl.java")
		iface := filepath.Join(dir, "Foo.java")
		writeFile(t, class, "class FooImpl implements Foo {}")
		writeFile(t, iface, "interface Foo {}")

		tx := Begin(NewOSStore(), nil)
		assert.NotEmpty(t, tx.ID)
		tx.Write(class, []byte("class Foo {}"))
		tx.Remove(iface)
		assert.Equal(t, []string{class, iface}, tx.Paths())

		require.NoError(t, tx.Commit())
		data, err := os.ReadFile(class)
		require.NoError(t, err)
		assert.Equal(t, "class Foo {}", string(data))
		assert.NoFileExists(t, iface)

		assert.Error(t, tx.Commit(), "a transaction commits once")
	})

	t.Run("Failure rolls back", func(t *testing.T) {
		dir := t.TempDir()
		class := filepath.Join(dir, "FooImpl.java")
		iface := filepath.Join(dir, "Foo.java")
		created := filepath.Join(dir, "Extra.java")
		writeFile(t, class, "original")
		writeFile(t, iface, "interface Foo {}")

		tx := Begin(&flakyStore{OSStore: NewOSStore(), failOn: iface}, nil)
		tx.Write(class, []byte("merged"))
		tx.Write(created, []byte("new"))
		tx.Remove(iface)

		err := tx.Commit()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk on fire")

		data, err := os.ReadFile(class)
		require.NoError(t, err)
		assert.Equal(t, "original", string(data))
		assert.NoFileExists(t, created)
		assert.FileExists(t, iface)
	})

	t.Run("Discard", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "A.java")
		tx := Begin(NewOSStore(), nil)
		tx.Write(path, []byte("x"))
		tx.Discard()

		assert.Empty(t, tx.Paths())
		assert.Error(t, tx.Commit())
		assert.NoFileExists(t, path)
	})
}

func TestGitStore(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	nested := filepath.Join(dir, "src", "com", "example")
	writeFile(t, filepath.Join(nested, "Foo.java"), "interface Foo {}")
	writeFile(t, filepath.Join(nested, "Scratch.java"), "class Scratch {}")

	s, err := OpenGitStore(nested, nil)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, s.Root())

	inIndex := func(rel string) bool {
		idx, err := repo.Storer.Index()
		require.NoError(t, err)
		_, err = idx.Entry(rel)
		return err == nil
	}

	t.Run("Write stages the file", func(t *testing.T) {
		require.NoError(t, s.Write(filepath.Join(nested, "FooImpl.java"), []byte("class Foo {}")))
		assert.True(t, inIndex("src/com/example/FooImpl.java"))
	})

	t.Run("Remove tracked file", func(t *testing.T) {
		wt, err := repo.Worktree()
		require.NoError(t, err)
		_, err = wt.Add("src/com/example/Foo.java")
		require.NoError(t, err)

		require.NoError(t, s.Remove(filepath.Join(nested, "Foo.java")))
		assert.False(t, inIndex("src/com/example/Foo.java"))
		assert.NoFileExists(t, filepath.Join(nested, "Foo.java"))
	})

	t.Run("Remove untracked file", func(t *testing.T) {
		require.NoError(t, s.Remove(filepath.Join(nested, "Scratch.java")))
		assert.NoFileExists(t, filepath.Join(nested, "Scratch.java"))
	})

	t.Run("Outside repository", func(t *testing.T) {
		err := s.Write(filepath.Join(t.TempDir(), "Other.java"), []byte("x"))
		assert.ErrorContains(t, err, "outside repository")
	})

	t.Run("Not a repository", func(t *testing.T) {
		_, err := OpenGitStore(t.TempDir(), nil)
		assert.Error(t, err)
	})
}

func TestSettler(t *testing.T) {
	t.Run("Returns once events arrive", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "A.java")
		s := NewSettler(5*time.Second, nil)

		start := time.Now()
		err := s.Await(context.Background(), []string{path}, func() error {
			return os.WriteFile(path, []byte("x"), 0o644)
		})
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.FileExists(t, path)
	})

	t.Run("Zero delay applies directly", func(t *testing.T) {
		called := false
		err := NewSettler(0, nil).Await(context.Background(), []string{"unused"}, func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("Apply error", func(t *testing.T) {
		boom := errors.New("boom")
		err := NewSettler(time.Second, nil).Await(context.Background(), []string{filepath.Join(t.TempDir(), "A.java")}, func() error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Canceled context after apply", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := filepath.Join(t.TempDir(), "A.java")

		start := time.Now()
		err := NewSettler(time.Minute, nil).Await(ctx, []string{path, filepath.Join(t.TempDir(), "Other.java")}, func() error {
			return os.WriteFile(path, []byte("x"), 0o644)
		})
		require.NoError(t, err)
		assert.Less(t, time.Since(start), time.Minute)
		assert.FileExists(t, path)
	})

	t.Run("Canceled context with apply error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		boom := errors.New("boom")
		err := NewSettler(time.Minute, nil).Await(ctx, []string{filepath.Join(t.TempDir(), "A.java")}, func() error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
