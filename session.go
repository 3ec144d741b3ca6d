package svgexport

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cerrors "cogentcore.org/core/base/errors"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
)

// Mode is the export mode of a render.
type Mode string

// Export modes.
const (
	ModeFrame     Mode = "frame"
	ModeAnimation Mode = "animation"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch v := Mode(strings.ToLower(string(text))); v {
	case ModeFrame, ModeAnimation:
		*m = v
		return nil
	}
	return fmt.Errorf("unknown export mode %q", text)
}

// RenderSettings is the scene and render metadata an export depends on.
type RenderSettings struct {
	ResolutionX          int     `toml:"resolution_x"`
	ResolutionY          int     `toml:"resolution_y"`
	ResolutionPercentage int     `toml:"resolution_percentage"`
	FrameStart           int     `toml:"frame_start"`
	FrameEnd             int     `toml:"frame_end"`
	FPS                  float64 `toml:"fps"`
	Mode                 Mode    `toml:"mode"`
	// Output is the path template: a directory followed by an optional
	// file name prefix. A leading ~ is the user's home directory.
	Output           string    `toml:"output"`
	SplitAtInvisible bool      `toml:"split_at_invisible"`
	ObjectFill       bool      `toml:"object_fill"`
	LineJoin         JoinStyle `toml:"line_join"`
	// HoleColorMatch only merges fill holes into bases of the same color.
	HoleColorMatch bool `toml:"hole_color_match"`
}

// Width is the output width in pixels after percentage scaling.
func (rs RenderSettings) Width() int {
	return rs.ResolutionX * rs.ResolutionPercentage / 100
}

// Height is the output height in pixels after percentage scaling.
func (rs RenderSettings) Height() int {
	return rs.ResolutionY * rs.ResolutionPercentage / 100
}

// Validate reports settings no export can run with.
func (rs RenderSettings) Validate() error {
	var errs []error
	if rs.ResolutionX <= 0 || rs.ResolutionY <= 0 {
		errs = append(errs, fmt.Errorf("resolution %dx%d must be positive", rs.ResolutionX, rs.ResolutionY))
	}
	if rs.ResolutionPercentage <= 0 {
		errs = append(errs, fmt.Errorf("resolution percentage %d must be positive", rs.ResolutionPercentage))
	}
	if rs.FrameEnd < rs.FrameStart {
		errs = append(errs, fmt.Errorf("frame range %d-%d is empty", rs.FrameStart, rs.FrameEnd))
	}
	if rs.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %v must be positive", rs.FPS))
	}
	if rs.Mode != ModeFrame && rs.Mode != ModeAnimation {
		errs = append(errs, fmt.Errorf("unknown export mode %q", rs.Mode))
	}
	if rs.Output == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	return errors.Join(errs...)
}

// OutputPath is the file a render writes to: the output directory, the
// output prefix, then the 4-digit frame (frame mode) or frame range
// (animation mode) and the .svg extension.
func (rs RenderSettings) OutputPath(frame int) (string, error) {
	out, err := homedir.Expand(rs.Output)
	if err != nil {
		return "", &PathError{Op: "expand", Path: rs.Output, Err: err}
	}
	dir, base := filepath.Split(out)
	if dir == "" {
		dir = "."
	}
	var suffix string
	if rs.Mode == ModeAnimation {
		suffix = fmt.Sprintf("%04d-%04d", rs.FrameStart, rs.FrameEnd)
	} else {
		suffix = fmt.Sprintf("%04d", frame)
	}
	return filepath.Join(dir, base+suffix+".svg"), nil
}

// Session is the state of one render, handed to every pass. It replaces a
// process-wide "first frame" flag.
type Session struct {
	ID       string
	Settings RenderSettings
	// Frame is the frame being rendered.
	Frame int
	// HeaderWritten is set once the output file was (re)created this render.
	HeaderWritten bool
	// Committed is set once a frame was written, which turns an animation
	// render from a preview into a real multi-frame export.
	Committed bool
	// TimelineWritten guards the one-time timeline pass.
	TimelineWritten bool
	Logger          *slog.Logger
}

// NewSession starts the state of a render. A nil logger uses slog.Default.
func NewSession(settings RenderSettings, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		ID:       id,
		Settings: settings,
		Frame:    settings.FrameStart,
		Logger:   logger.With("session", id),
	}
}

// IsPreview reports whether passes should treat the render as a single
// frame: always in frame mode, and in animation mode until the first frame
// was committed.
func (s *Session) IsPreview() bool {
	return !s.Committed || s.Settings.Mode == ModeFrame
}

// OutputPath is the file of the frame being rendered.
func (s *Session) OutputPath() (string, error) {
	return s.Settings.OutputPath(s.Frame)
}

// RenderInit resets the session at the start of a render.
func (s *Session) RenderInit() {
	s.Frame = s.Settings.FrameStart
	s.HeaderWritten = false
	s.Committed = false
	s.TimelineWritten = false
}

// RenderPre runs before a frame renders. It writes a fresh document header
// for every single frame, and for the first frame of an animation.
func (s *Session) RenderPre(frame int) error {
	s.Frame = frame
	if !s.IsPreview() && frame != s.Settings.FrameStart {
		return nil
	}
	path, err := s.OutputPath()
	if err != nil {
		return cerrors.Log(err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cerrors.Log(&PathError{Op: "mkdir", Path: dir, Err: err})
		}
	}
	doc := NewDocument(s.Settings.Width(), s.Settings.Height())
	if err := doc.Save(path); err != nil {
		return cerrors.Log(err)
	}
	s.HeaderWritten = true
	s.Logger.Info("svg export: header written", "path", path, "frame", frame,
		"width", s.Settings.Width(), "height", s.Settings.Height())
	return nil
}

// RenderWrite runs after a frame was committed.
func (s *Session) RenderWrite() {
	s.Committed = true
}

// RenderComplete runs once after the last frame. For an animation that
// committed frames it adds the timeline, exactly once per render.
func (s *Session) RenderComplete() error {
	if s.IsPreview() || s.TimelineWritten {
		return nil
	}
	path, err := s.OutputPath()
	if err != nil {
		return cerrors.Log(err)
	}
	err = WriteAnimation(path, s.Settings.FrameStart, s.Settings.FPS)
	if errors.Is(err, ErrNoFrames) {
		s.Logger.Warn("svg export: no frames to animate", "path", path)
		return nil
	}
	if err != nil {
		return cerrors.Log(err)
	}
	s.TimelineWritten = true
	s.Logger.Info("svg export: timeline written", "path", path,
		"frame_start", s.Settings.FrameStart, "fps", s.Settings.FPS)
	return nil
}
