package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchSiblings_LinksNewFile(t *testing.T) {
	doc := sourceDoc(t)
	ws := buildWorkspace(t, doc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ws.WatchSiblings(ctx, doc.Dir, testLogger())

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(doc.Dir, "late-asset.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(ws.Dir, "late-asset.png")
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		info, err := os.Lstat(link)
		return err == nil && info.Mode()&os.ModeSymlink != 0
	}, "new sibling not linked into workspace")
}

func TestWatchSiblings_DropsRemovedFile(t *testing.T) {
	doc := sourceDoc(t, "asset.csv")
	ws := buildWorkspace(t, doc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ws.WatchSiblings(ctx, doc.Dir, testLogger())

	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(filepath.Join(doc.Dir, "asset.csv")); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(ws.Dir, "asset.csv")
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := os.Lstat(link)
		return os.IsNotExist(err)
	}, "stale link not removed from workspace")
}

func TestWatchSiblings_IgnoresDescriptorAndHidden(t *testing.T) {
	doc := sourceDoc(t)
	ws := buildWorkspace(t, doc)

	before, err := os.ReadFile(filepath.Join(ws.Dir, DescriptorName))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ws.WatchSiblings(ctx, doc.Dir, testLogger())

	time.Sleep(100 * time.Millisecond)

	// A myst.yml appearing in the source dir must not clobber the
	// synthesized descriptor, and hidden files stay excluded.
	if err := os.WriteFile(filepath.Join(doc.Dir, DescriptorName), []byte("site: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(doc.Dir, ".secret"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)

	after, err := os.ReadFile(filepath.Join(ws.Dir, DescriptorName))
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("synthesized descriptor was clobbered by the watcher")
	}
	if _, err := os.Lstat(filepath.Join(ws.Dir, ".secret")); !os.IsNotExist(err) {
		t.Error("hidden file was linked by the watcher")
	}
}
