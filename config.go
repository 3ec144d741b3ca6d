package svgexport

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (j *JoinStyle) UnmarshalText(text []byte) error {
	v, err := ParseJoinStyle(string(text))
	if err != nil {
		return err
	}
	*j = v
	return nil
}

// DefaultSettings are the settings a config file is applied on top of.
func DefaultSettings() RenderSettings {
	return RenderSettings{
		ResolutionX:          1920,
		ResolutionY:          1080,
		ResolutionPercentage: 100,
		FrameStart:           1,
		FrameEnd:             250,
		FPS:                  24,
		Mode:                 ModeFrame,
		Output:               "render/",
		LineJoin:             RoundJoin,
		HoleColorMatch:       true,
	}
}

// LoadSettings reads TOML render settings from path over the defaults.
// Unknown keys are an error.
func LoadSettings(path string) (RenderSettings, error) {
	settings := DefaultSettings()
	f, err := os.Open(path)
	if err != nil {
		return settings, err
	}
	defer f.Close()
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&settings); err != nil {
		return settings, fmt.Errorf("settings %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("settings %s: %w", path, err)
	}
	return settings, nil
}
