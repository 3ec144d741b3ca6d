package svgexport

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Schedule is the display timeline shared by every frame of one lineset:
// frame j is shown during [j/n, (j+1)/n) of a cycle lasting n/fps seconds.
type Schedule struct {
	Lineset  string
	Frames   []*Node
	FPS      float64
	KeyTimes string
	Values   string
	Dur      string
}

// NewSchedule computes the timeline of a lineset with the given frames.
func NewSchedule(lineset string, frames []*Node, fps float64) Schedule {
	n := len(frames)
	keyTimes := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		keyTimes = append(keyTimes, formatNumber(round3(float64(i)/float64(n))))
	}
	keyTimes = append(keyTimes, "1")

	return Schedule{
		Lineset:  lineset,
		Frames:   frames,
		FPS:      fps,
		KeyTimes: strings.Join(keyTimes, ";"),
		Values:   strings.Repeat("none;", n-1) + "inline;none",
		Dur:      fmt.Sprintf("%.3fs", float64(n)/fps),
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// AnimationID is the id of the directive of the lineset's frame.
func AnimationID(lineset string, frame int) string {
	return fmt.Sprintf("anim_%s_%06d", lineset, frame)
}

// Begin returns the begin attribute of the frame with ordinal j. It is
// negative, so the cycle is already running when the document loads.
func (s Schedule) Begin(j int) string {
	return strconv.FormatFloat(float64(j-len(s.Frames))/s.FPS, 'f', 3, 64) + "s"
}

// Directive builds the <animate> node of the frame with ordinal j, whose
// frame number is frameBegin+j.
func (s Schedule) Directive(j, frameBegin int) *Node {
	return &Node{Name: "animate", Attrs: []Attr{
		{"id", AnimationID(s.Lineset, j+frameBegin)},
		{"begin", s.Begin(j)},
		{"attributeName", "display"},
		{"values", s.Values},
		{"repeatCount", "indefinite"},
		{"keyTimes", s.KeyTimes},
		{"dur", s.Dur},
	}}
}

// BuildTimeline injects a display animation into every frame group of
// every lineset. The schedule covers the frames actually present, so an
// aborted render still yields a well-formed, shorter animation. Frames that
// already carry their directive are left alone.
func BuildTimeline(doc *Document, frameBegin int, fps float64) ([]Schedule, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("timeline: frame rate must be positive, got %v", fps)
	}
	var schedules []Schedule
	for _, lineset := range doc.Linesets() {
		frames := doc.Frames(lineset)
		if len(frames) == 0 {
			continue
		}
		s := NewSchedule(lineset.ID(), frames, fps)
		for j, frame := range frames {
			if hasAnimation(frame, AnimationID(s.Lineset, j+frameBegin)) {
				continue
			}
			frame.Append(s.Directive(j, frameBegin))
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

func hasAnimation(frame *Node, id string) bool {
	for _, c := range frame.Children {
		if c.Name == "animate" && c.ID() == id {
			return true
		}
	}
	return false
}

// ErrNoFrames is returned by WriteAnimation for a document without frames.
var ErrNoFrames = errors.New("timeline: document has no frame groups")

// WriteAnimation adds the timeline to the animation document at path.
func WriteAnimation(path string, frameBegin int, fps float64) error {
	return UpdateDocument(path, ModeAnimation, func(doc *Document) error {
		schedules, err := BuildTimeline(doc, frameBegin, fps)
		if err != nil {
			return err
		}
		if len(schedules) == 0 {
			return ErrNoFrames
		}
		return nil
	})
}
