package effects

import (
	"math"

	"github.com/ivlev/textoverlay/internal/audiosync"
	"github.com/ivlev/textoverlay/internal/model"
)

// AudioSyncID is the animation bound by SyncWithAudio.
const AudioSyncID = "audio-sync"

// Builtin returns the stock catalog in display order.
func Builtin() []Animation {
	return []Animation{
		{ID: "fade-in", Name: "Fade in", Category: Entrance, Defaults: Params{"duration": 1, "ease": 0}, Apply: fadeIn},
		slideIn("slide-in-left", "Slide in from left", -1, 0),
		slideIn("slide-in-right", "Slide in from right", 1, 0),
		slideIn("slide-in-top", "Slide in from top", 0, -1),
		slideIn("slide-in-bottom", "Slide in from bottom", 0, 1),
		{ID: "zoom-in", Name: "Zoom in", Category: Entrance, Defaults: Params{"duration": 1, "ease": 0, "from": 0}, Apply: zoomIn},
		{ID: "rotate-in", Name: "Rotate in", Category: Entrance, Defaults: Params{"duration": 1, "ease": 0, "angle": 180}, Apply: rotateIn},

		{ID: "fade-out", Name: "Fade out", Category: Exit, Defaults: Params{"duration": 1, "ease": 0}, Apply: fadeOut},
		{ID: "zoom-out", Name: "Zoom out", Category: Exit, Defaults: Params{"duration": 1, "ease": 0, "to": 0}, Apply: zoomOut},
		slideOut("slide-out-left", "Slide out to left", -1),
		slideOut("slide-out-right", "Slide out to right", 1),

		{ID: "bounce", Name: "Bounce", Category: Emphasis, Defaults: Params{"amplitude": 10, "frequency": 2}, Apply: bounce},
		{ID: "wave", Name: "Wave", Category: Emphasis, Defaults: Params{"amplitude": 5, "frequency": 1}, Apply: wave},
		{ID: "pulse", Name: "Pulse", Category: Emphasis, Defaults: Params{"amplitude": 0.1, "frequency": 1}, Apply: pulse},

		{ID: "typing", Name: "Typing", Category: Text, Defaults: Params{"duration": 2}, Apply: typing},
		{ID: AudioSyncID, Name: "Audio sync", Category: Text, Defaults: Params{}, Apply: audioSync},
	}
}

// Easing curves selectable with the "ease" param of entrance and exit
// animations.
const (
	EaseOut   = 0
	EaseInOut = 1
)

func curve(p Params) func(float64) float64 {
	if p["ease"] == EaseInOut {
		return EaseInOutCubic
	}
	return EaseOutQuad
}

// entrance returns the eased progress since the element appeared.
func entrance(el *model.Element, t float64, p Params) float64 {
	return curve(p)(Progress(t, el.StartTime, p["duration"]))
}

// exit returns 1 until the last duration seconds, then eases to 0 at EndTime.
func exit(el *model.Element, t float64, p Params) float64 {
	d := p["duration"]
	if d <= 0 {
		return 1
	}
	return curve(p)(Clamp01((el.EndTime - t) / d))
}

func fadeIn(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.Opacity = entrance(el, t, p)
	return tr
}

func slideIn(id, name string, dx, dy float64) Animation {
	return Animation{
		ID: id, Name: name, Category: Entrance,
		Defaults: Params{"duration": 1, "ease": 0, "distance": 200},
		Apply: func(el *model.Element, t float64, p Params) Transform {
			rest := 1 - entrance(el, t, p)
			tr := Identity()
			tr.TranslateX = dx * p["distance"] * rest
			tr.TranslateY = dy * p["distance"] * rest
			return tr
		},
	}
}

func zoomIn(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.Scale = Lerp(p["from"], 1, entrance(el, t, p))
	return tr
}

func rotateIn(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.Rotation = -p["angle"] * (1 - entrance(el, t, p))
	return tr
}

func fadeOut(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.Opacity = exit(el, t, p)
	return tr
}

func zoomOut(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.Scale = Lerp(p["to"], 1, exit(el, t, p))
	return tr
}

func slideOut(id, name string, dx float64) Animation {
	return Animation{
		ID: id, Name: name, Category: Exit,
		Defaults: Params{"duration": 1, "ease": 0, "distance": 200},
		Apply: func(el *model.Element, t float64, p Params) Transform {
			tr := Identity()
			tr.TranslateX = dx * p["distance"] * (1 - exit(el, t, p))
			return tr
		},
	}
}

func bounce(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.TranslateY = -p["amplitude"] * math.Abs(math.Sin(math.Pi*p["frequency"]*(t-el.StartTime)))
	return tr
}

func wave(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.Rotation = p["amplitude"] * math.Sin(2*math.Pi*p["frequency"]*(t-el.StartTime))
	return tr
}

func pulse(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.Scale = 1 + p["amplitude"]*math.Sin(2*math.Pi*p["frequency"]*(t-el.StartTime))
	return tr
}

// typing projects the visible prefix from the stored text; the text itself
// is never touched.
func typing(el *model.Element, t float64, p Params) Transform {
	tr := Identity()
	tr.VisibleRunes = VisiblePrefix(el.RuneCount(), Progress(t, el.StartTime, p["duration"]))
	return tr
}

// VisiblePrefix is floor(n·progress).
func VisiblePrefix(n int, progress float64) int {
	return int(math.Floor(float64(n) * Clamp01(progress)))
}

func audioSync(el *model.Element, t float64, _ Params) Transform {
	tr := Identity()
	if el.Animation != nil {
		tr.WordIndex = audiosync.Schedule(el.Animation.Timings).IndexAt(t)
	}
	return tr
}
