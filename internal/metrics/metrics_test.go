package metrics

import (
	"testing"

	"github.com/ivlev/textoverlay/internal/fonts"
	"github.com/ivlev/textoverlay/internal/model"
)

func TestWidthMonotonicInTextLength(t *testing.T) {
	svc := NewService(fonts.NewRegistry(nil))
	fd := model.FontDescription{Family: fonts.DefaultFamily, Size: 24}

	texts := []string{"Hello, overlay world", "بسم الله الرحمن الرحيم"}
	for _, text := range texts {
		prev := -1.0
		runes := []rune(text)
		for i := 0; i <= len(runes); i++ {
			size, err := svc.Measure(string(runes[:i]), fd)
			if err != nil {
				t.Fatalf("Measure failed: %v", err)
			}
			if size.Width < prev {
				t.Fatalf("width shrank at prefix %d of %q: %f < %f", i, text, size.Width, prev)
			}
			prev = size.Width
		}
	}
}

func TestWidthGrowsWithFontSize(t *testing.T) {
	svc := NewService(fonts.NewRegistry(nil))

	small, err := svc.Measure("caption", model.FontDescription{Family: fonts.DefaultFamily, Size: 20})
	if err != nil {
		t.Fatal(err)
	}
	large, err := svc.Measure("caption", model.FontDescription{Family: fonts.DefaultFamily, Size: 40})
	if err != nil {
		t.Fatal(err)
	}
	if large.Width < small.Width || large.Height < small.Height {
		t.Errorf("expected 40px box >= 20px box, got %+v vs %+v", large, small)
	}
}

func TestMeasureIsDeterministic(t *testing.T) {
	svc := NewService(fonts.NewRegistry(nil))
	fd := model.FontDescription{Family: fonts.DefaultFamily, Size: 18, Weight: model.WeightBold}

	a, _ := svc.Measure("same text", fd)
	b, _ := svc.Measure("same text", fd)
	if a.Width != b.Width || a.Height != b.Height {
		t.Errorf("measurements differ: %+v vs %+v", a, b)
	}
}

func TestMultiLine(t *testing.T) {
	svc := NewService(fonts.NewRegistry(nil))
	fd := model.FontDescription{Family: fonts.DefaultFamily, Size: 20}

	one, _ := svc.Measure("short", fd)
	two, _ := svc.Measure("short\na much longer line", fd)

	if len(two.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(two.Lines))
	}
	if two.Height <= one.Height {
		t.Errorf("two lines should be taller: %f <= %f", two.Height, one.Height)
	}
	if two.Width != two.Lines[1].Width {
		t.Errorf("width should be the widest line")
	}
}

func TestFallbackFlag(t *testing.T) {
	svc := NewService(fonts.NewRegistry(nil))

	size, err := svc.Measure("نص", model.FontDescription{Family: "Amiri", Size: 30})
	if err != nil {
		t.Fatalf("Measure should degrade, not fail: %v", err)
	}
	if !size.Fallback {
		t.Error("expected Fallback for an unregistered family")
	}
	if !size.RTL {
		t.Error("expected Arabic text to be RTL")
	}
}

func TestIsRTL(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hello", false},
		{"مرحبا", true},
		{"123 مرحبا", true},
		{"abc مرحبا", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRTL(tt.text); got != tt.want {
			t.Errorf("IsRTL(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFixedAdvance(t *testing.T) {
	m := FixedAdvance(0.5)
	size, err := m.Measure("abcd", model.FontDescription{Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if size.Width != 20 || size.Height != 12 {
		t.Errorf("unexpected size %+v", size)
	}
}

func TestAdvancesMatchPrefixWidths(t *testing.T) {
	svc := NewService(fonts.NewRegistry(nil))
	fd := model.FontDescription{Family: fonts.DefaultFamily, Size: 22}

	size, err := svc.Measure("Wavy text", fd)
	if err != nil {
		t.Fatal(err)
	}
	line := size.Lines[0]
	runes := []rune(line.Text)
	if len(line.Advances) != len(runes) {
		t.Fatalf("got %d advances for %d runes", len(line.Advances), len(runes))
	}
	for i := range runes {
		prefix, err := svc.Measure(string(runes[:i+1]), fd)
		if err != nil {
			t.Fatal(err)
		}
		if line.Advances[i] != prefix.Width {
			t.Errorf("advance %d = %f, prefix width %f", i, line.Advances[i], prefix.Width)
		}
	}
	if line.PrefixWidth(len(runes)) != line.Width {
		t.Errorf("full prefix %f != width %f", line.PrefixWidth(len(runes)), line.Width)
	}
}

func TestVisualOrder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"latin untouched", "hello world", "hello world"},
		{"arabic reversed", "بسم", "مسب"},
		{"latin run inside arabic", "بسم abc", "abc مسب"},
		{"arabic run inside latin", "abc بسم", "abc مسب"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisualOrder(tt.in); got != tt.want {
				t.Errorf("VisualOrder(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
