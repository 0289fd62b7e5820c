package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"goregular", "embed:goregular", "embed:GoMono.ttf", ""} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) returned no data", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:Inter-Regular.ttf"); err == nil {
		t.Fatal("expected error for unknown font")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 5 {
		t.Fatalf("expected 5 built-in fonts, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
