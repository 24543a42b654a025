// Package audiosync turns word timings into a discrete highlight schedule.
package audiosync

import (
	"bytes"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/textoverlay/internal/model"
)

// Schedule is a validated, ordered list of word timings.
type Schedule []model.WordTiming

// NewSchedule validates timings: at least one entry, finite non-negative
// start times in non-decreasing order.
func NewSchedule(timings []model.WordTiming) (Schedule, error) {
	if len(timings) == 0 {
		return nil, model.Invalid("word timings must not be empty")
	}
	prev := math.Inf(-1)
	for i, wt := range timings {
		if math.IsNaN(wt.StartTime) || math.IsInf(wt.StartTime, 0) {
			return nil, model.Invalid("timing %d: startTime must be finite", i)
		}
		if wt.StartTime < 0 {
			return nil, model.Invalid("timing %d: startTime %g is negative", i, wt.StartTime)
		}
		if wt.Position < 0 {
			return nil, model.Invalid("timing %d: position %d is negative", i, wt.Position)
		}
		if wt.StartTime < prev {
			return nil, model.Invalid("timing %d: startTime %g is before previous %g", i, wt.StartTime, prev)
		}
		prev = wt.StartTime
	}
	return append(Schedule(nil), timings...), nil
}

// Decode parses a YAML or JSON sequence of {position, startTime} objects.
// Anything other than a sequence is rejected.
func Decode(data []byte) (Schedule, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, model.Invalid("decode timings: %v", err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.SequenceNode {
		return nil, model.Invalid("word timings must be a sequence")
	}

	var timings []model.WordTiming
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&timings); err != nil {
		return nil, model.Invalid("decode timings: %v", err)
	}
	return NewSchedule(timings)
}

// IndexAt returns the index of the last timing whose start is <= t, or -1
// when t is before the first word.
func (s Schedule) IndexAt(t float64) int {
	i := sort.Search(len(s), func(i int) bool { return s[i].StartTime > t })
	return i - 1
}

// WordAt returns the timing active at t.
func (s Schedule) WordAt(t float64) (model.WordTiming, bool) {
	i := s.IndexAt(t)
	if i < 0 {
		return model.WordTiming{}, false
	}
	return s[i], true
}
