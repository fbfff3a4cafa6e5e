package imagestore

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

func testDir(t *testing.T) *Dir {
	t.Helper()
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("new dir: %v", err)
	}
	return d
}

func readStored(t *testing.T, d *Dir, name string) string {
	t.Helper()
	f, err := d.Open(name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestSaveAndOpen(t *testing.T) {
	d := testDir(t)
	ctx := context.Background()

	name, err := d.Save(ctx, "cat.png", strings.NewReader("meow"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if name != "cat.png" {
		t.Fatalf("expected 'cat.png', got %q", name)
	}
	if got := readStored(t, d, name); got != "meow" {
		t.Fatalf("expected 'meow', got %q", got)
	}
}

func TestSaveResolvesCollisions(t *testing.T) {
	d := testDir(t)
	ctx := context.Background()

	first, err := d.Save(ctx, "cat.png", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := d.Save(ctx, "cat.png", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	third, err := d.Save(ctx, "cat.png", strings.NewReader("third"))
	if err != nil {
		t.Fatalf("save third: %v", err)
	}

	if first != "cat.png" || second != "1_cat.png" || third != "2_cat.png" {
		t.Fatalf("unexpected names: %q %q %q", first, second, third)
	}
	if readStored(t, d, first) != "first" || readStored(t, d, second) != "second" || readStored(t, d, third) != "third" {
		t.Fatal("stored contents do not match their names")
	}
}

func TestConcurrentSavesGetDistinctNames(t *testing.T) {
	d := testDir(t)
	ctx := context.Background()

	const n = 10
	names := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, err := d.Save(ctx, "cat.png", strings.NewReader("x"))
			if err != nil {
				t.Errorf("save: %v", err)
				return
			}
			names <- name
		}()
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool)
	for name := range names {
		if seen[name] {
			t.Fatalf("name %q used twice", name)
		}
		seen[name] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct names, got %d", n, len(seen))
	}
}

func TestSaveFailureLeavesNoPartialFile(t *testing.T) {
	d := testDir(t)
	ctx := context.Background()

	r := io.MultiReader(strings.NewReader("partial"), failingReader{})
	if _, err := d.Save(ctx, "cat.png", r); err == nil {
		t.Fatal("expected save to fail")
	}

	if ok, err := d.Exists("cat.png"); err != nil || ok {
		t.Fatalf("expected no stored file, exists=%v err=%v", ok, err)
	}
	entries, err := os.ReadDir(d.Root())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "tmp" {
			t.Fatalf("leftover file %q after failed save", entry.Name())
		}
	}
}

func TestRemoveMissingFile(t *testing.T) {
	d := testDir(t)
	if err := d.Remove("ghost.png"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestSaveRejectsBadFilenames(t *testing.T) {
	d := testDir(t)
	ctx := context.Background()

	if _, err := d.Save(ctx, "", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty filename")
	}
	// Path components are stripped down to the basename.
	name, err := d.Save(ctx, "../../etc/passwd.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if name != "passwd.png" {
		t.Fatalf("expected basename 'passwd.png', got %q", name)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}
