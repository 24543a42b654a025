package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/textoverlay/internal/model"
)

func TestBuiltinCatalog(t *testing.T) {
	reg := MustRegistry()

	for _, id := range []string{"title", "subtitle", "caption", "quote", "lower-third", "arabic-title", "neon"} {
		if _, ok := reg.Get(id); !ok {
			t.Errorf("template %q missing", id)
		}
	}
	if got := reg.List()[0].ID; got != "title" {
		t.Errorf("catalog order not preserved, first is %q", got)
	}
}

func TestApplyOverwritesStyleOnly(t *testing.T) {
	reg := MustRegistry()
	caption, _ := reg.Get("caption")

	el := model.Element{
		ID: "e1", Text: "hello", X: 10, Y: 20, StartTime: 1, EndTime: 4,
		Style:     model.DefaultStyle("Go"),
		Animation: &model.Binding{AnimationID: "fade-in"},
	}
	el.Style.FontSize = 99
	el.Layout.Key = el.Key()
	el.Layout.MarkValid()

	caption.Apply(&el)

	if el.Style.FontSize != 28 || el.Style.BackgroundColor != "rgba(0,0,0,0.6)" || el.Style.Padding != 10 {
		t.Errorf("template fields not applied: %+v", el.Style)
	}
	if el.ID != "e1" || el.Text != "hello" || el.X != 10 || el.StartTime != 1 || el.Animation == nil {
		t.Errorf("non-style fields changed: %+v", el)
	}
	if !el.GeometryStale() {
		t.Error("geometry should be invalidated")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	reg := MustRegistry()
	caption, _ := reg.Get("caption")

	el := model.Element{Style: model.DefaultStyle("Go")}
	caption.Apply(&el)
	first := el.Style
	caption.Apply(&el)
	if el.Style != first {
		t.Errorf("second apply changed style: %+v vs %+v", el.Style, first)
	}
}

func TestParseRejectsNonStyleFields(t *testing.T) {
	_, err := Parse([]byte("- id: bad\n  style:\n    text: hijack\n"))
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	_, err = Parse([]byte("- id: bad\n  style:\n    glow: 3\n"))
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown key, got %v", err)
	}
	_, err = Parse([]byte("- id: bad\n  style:\n    color: \"#ff00zz\"\n"))
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a bad color, got %v", err)
	}
}

func TestLoadFileExtendsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	data := "- id: karaoke\n  name: Karaoke\n  style:\n    fontSize: 40\n    color: \"#ff00ff\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	extra, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	reg, err := NewRegistry(extra...)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if _, ok := reg.Get("karaoke"); !ok {
		t.Error("karaoke template missing")
	}

	if _, err := NewRegistry(Template{ID: "title"}); err == nil {
		t.Error("expected duplicate id error")
	}
}
