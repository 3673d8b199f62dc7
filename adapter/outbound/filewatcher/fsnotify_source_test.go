package filewatcher

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajkula/cppwatch/domain/model"
)

func TestFsnotifySource_BasicLifecycle(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.cpp", "int main() {}\n")

	source, err := NewFsnotifySource()
	require.NoError(t, err)

	require.NoError(t, source.Start(context.Background(), []string{path}))

	require.NoError(t, source.Stop())
	// multiple stops should be safe
	require.NoError(t, source.Stop())
}

func TestFsnotifySource_StartFailsOnMissingFile(t *testing.T) {
	source, err := NewFsnotifySource()
	require.NoError(t, err)
	defer source.Stop()

	err = source.Start(context.Background(), []string{"/nonexistent/never.cpp"})
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrFileVanished))
}

func TestFsnotifySource_DetectsWrite(t *testing.T) {
	// This test may be flaky depending on the filesystem and timing
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.cpp", "int main() {}\n")

	source, err := NewFsnotifySource()
	require.NoError(t, err)
	defer source.Stop()

	require.NoError(t, source.Start(context.Background(), []string{path}))

	// give the watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = file.WriteString("// edited\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	select {
	case change := <-source.Events():
		if change.Path != path {
			t.Errorf("expected change for %s, got %s", path, change.Path)
		}
		if change.New.Size <= change.Old.Size {
			t.Errorf("expected grown file, got %d -> %d", change.Old.Size, change.New.Size)
		}

	case err := <-source.Errors():
		t.Fatalf("unexpected error from source: %v", err)

	case <-time.After(2 * time.Second):
		t.Log("Warning: no file event received within timeout - this may be normal on some filesystems")
	}
}

func TestFsnotifySource_IgnoresNeighbourFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "main.cpp", "int main() {}\n")

	source, err := NewFsnotifySource()
	require.NoError(t, err)
	defer source.Stop()

	require.NoError(t, source.Start(context.Background(), []string{path}))
	time.Sleep(100 * time.Millisecond)

	// a change to an unmonitored file in the same directory is filtered
	writeTestFile(t, dir, "other.cpp", "int main() { return 2; }\n")

	select {
	case change := <-source.Events():
		t.Fatalf("unexpected change for %s", change.Path)
	case <-time.After(500 * time.Millisecond):
	}
}
