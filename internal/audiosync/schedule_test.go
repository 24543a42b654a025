package audiosync

import (
	"errors"
	"testing"

	"github.com/ivlev/textoverlay/internal/model"
)

func TestNewScheduleValidation(t *testing.T) {
	tests := []struct {
		name    string
		timings []model.WordTiming
		wantErr bool
	}{
		{"empty", nil, true},
		{"single", []model.WordTiming{{Position: 0, StartTime: 0}}, false},
		{"ordered", []model.WordTiming{{0, 0.5}, {1, 0.9}, {2, 0.9}}, false},
		{"unordered", []model.WordTiming{{0, 1.0}, {1, 0.5}}, true},
		{"negative", []model.WordTiming{{0, -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(tt.timings)
			if tt.wantErr && !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestIndexAt(t *testing.T) {
	s, err := NewSchedule([]model.WordTiming{{0, 1.0}, {1, 1.5}, {2, 2.25}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		t    float64
		want int
	}{
		{0.0, -1},
		{0.99, -1},
		{1.0, 0},
		{1.49, 0},
		{1.5, 1},
		{2.25, 2},
		{100, 2},
	}
	for _, tt := range tests {
		if got := s.IndexAt(tt.t); got != tt.want {
			t.Errorf("IndexAt(%g) = %d, want %d", tt.t, got, tt.want)
		}
	}

	// Seeking backwards gives the same answer as playing forwards.
	if s.IndexAt(1.6) != 1 || s.IndexAt(0.2) != -1 || s.IndexAt(1.6) != 1 {
		t.Error("IndexAt must not depend on call history")
	}
}

func TestDecode(t *testing.T) {
	s, err := Decode([]byte(`[{"position": 0, "startTime": 0.2}, {"position": 1, "startTime": 0.8}]`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s) != 2 || s[1].StartTime != 0.8 {
		t.Errorf("unexpected schedule: %+v", s)
	}

	for _, bad := range []string{
		`{"position": 0, "startTime": 0.2}`,
		`[]`,
		`[{"position": 0, "start": 0.2}]`,
		`"words"`,
	} {
		if _, err := Decode([]byte(bad)); !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("Decode(%s): expected ErrInvalidInput, got %v", bad, err)
		}
	}
}
