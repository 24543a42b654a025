package model

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}, false},
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"#00ff0080", color.NRGBA{0, 255, 0, 128}, false},
		{"rgba(0, 0, 0, 0.6)", color.NRGBA{0, 0, 0, 153}, false},
		{"rgb(10,20,30)", color.NRGBA{10, 20, 30, 255}, false},
		{"Gold", color.NRGBA{255, 215, 0, 255}, false},
		{"", color.NRGBA{}, false},
		{"#12", color.NRGBA{}, true},
		{"rgb(1,2)", color.NRGBA{}, true},
		{"chartreuse-ish", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr || (err != nil && !errors.Is(err, ErrInvalidInput)) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
