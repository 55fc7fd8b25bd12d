package embedded

import (
	"reflect"
	"testing"
	"testing/fstest"
)

func initTestFS(t *testing.T) {
	t.Helper()
	Init(fstest.MapFS{
		"data/levels/1-2.yaml":  {Data: []byte("id: \"1-2\"\n")},
		"data/levels/1-1.yaml":  {Data: []byte("id: \"1-1\"\n")},
		"data/levels/README.md": {Data: []byte("notes")},
	})
	t.Cleanup(func() {
		dataFS = nil
		initialized = false
	})
}

// TestNotInitialized 测试未初始化时调用
func TestNotInitialized(t *testing.T) {
	dataFS = nil
	initialized = false

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}
	if _, err := ReadFile("data/levels/1-1.yaml"); err != errNotInitialized {
		t.Errorf("ReadFile() error = %v, want not initialized", err)
	}
	if Exists("data/levels/1-1.yaml") {
		t.Error("Exists() should be false before Init()")
	}
}

func TestReadFile(t *testing.T) {
	initTestFS(t)

	data, err := ReadFile("./data/levels/1-1.yaml")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "id: \"1-1\"\n" {
		t.Errorf("ReadFile() = %q", data)
	}

	if _, err := ReadFile("assets/images/cat.png"); err == nil {
		t.Error("Expected error for path outside data/")
	}
	if !Exists(LevelPath("1-2")) || Exists(LevelPath("9-9")) {
		t.Error("Exists() reports wrong results for level files")
	}
}

func TestLevelIDs(t *testing.T) {
	initTestFS(t)

	ids, err := LevelIDs()
	if err != nil {
		t.Fatalf("LevelIDs() error: %v", err)
	}
	if want := []string{"1-1", "1-2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("LevelIDs() = %v, want %v", ids, want)
	}
}
