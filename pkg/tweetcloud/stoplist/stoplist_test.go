package stoplist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManagerBasic(t *testing.T) {
	stops := []string{"the", "a", "and"}
	mgr := NewManager(stops)

	if !mgr.IsStop("the") {
		t.Error("'the' should be a stopword")
	}

	if !mgr.IsStop("The") {
		t.Error("lookup should be case-insensitive")
	}

	if mgr.IsStop("hello") {
		t.Error("'hello' should not be a stopword")
	}
}

func TestManagerAddRemove(t *testing.T) {
	mgr := NewManager([]string{"the"})

	mgr.Add("Test", SourceExtra)

	if !mgr.IsStop("test") {
		t.Error("'test' should be stopword after adding")
	}
	if src, _ := mgr.SourceOf("test"); src != SourceExtra {
		t.Errorf("source = %q, want %q", src, SourceExtra)
	}

	mgr.Remove("test")

	if mgr.IsStop("test") {
		t.Error("'test' should not be stopword after removing")
	}
}

func TestManagerAll(t *testing.T) {
	mgr := NewManager([]string{"the", "a", "and", "a"})

	all := mgr.All()
	want := []string{"a", "and", "the"}
	if len(all) != len(want) {
		t.Fatalf("Expected %d stopwords, got %d", len(want), len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, all[i], want[i])
		}
	}
}

func TestBuiltinLists(t *testing.T) {
	en := English()
	for _, w := range []string{"the", "is", "being", "don't"} {
		if !en.IsStop(w) {
			t.Errorf("English list should contain %q", w)
		}
	}
	if en.IsStop("cat") {
		t.Error("English list should not contain 'cat'")
	}

	ko := Korean()
	for _, w := range []string{"것", "하다", "의"} {
		if !ko.IsStop(w) {
			t.Errorf("Korean list should contain %q", w)
		}
	}
	if ko.IsStop("사과") {
		t.Error("Korean list should not contain '사과'")
	}
}

func TestNilManager(t *testing.T) {
	var mgr *Manager
	if mgr.IsStop("the") {
		t.Error("nil manager should not report stopwords")
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.yaml")
	if err := os.WriteFile(path, []byte("terms:\n  - Foo\n  - 바\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mgr, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if !mgr.IsStop("foo") || !mgr.IsStop("바") {
		t.Errorf("file terms missing: %v", mgr.All())
	}
	if mgr.IsStop("the") {
		t.Error("file list should replace the built-in list")
	}
	if src, _ := mgr.SourceOf("foo"); src != SourceFile {
		t.Errorf("source = %q, want %q", src, SourceFile)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile("/nonexistent/stop.yaml"); err == nil {
		t.Error("Should error on nonexistent file")
	}
}
