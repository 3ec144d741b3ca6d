package svgexport

import (
	cerrors "cogentcore.org/core/base/errors"
)

// ExporterName is the Source of the contributions the SVG exporter makes.
const ExporterName = "svg"

// LinesetPass is the input of one lineset's render: its style, the strokes
// it drew and, for object fills, the contour strokes chained for filling
// (sorted back to front).
type LinesetPass struct {
	Layer       string
	Lineset     string
	Style       LineStyle
	Strokes     []*Stroke
	FillStrokes []*Stroke
}

// ID is the lineset group id: render layer and lineset names joined.
func (p *LinesetPass) ID() string {
	return p.Layer + "_" + p.Lineset
}

// Exporter writes the strokes and fills of every lineset pass into the
// session's output document.
type Exporter struct {
	Session *Session
}

// NewExporter returns an exporter writing for the session.
func NewExporter(s *Session) *Exporter {
	return &Exporter{Session: s}
}

// Register adds the exporter's entries to the registry: path building after
// the modifiers, then the stroke write and the fill write after the lineset.
func (e *Exporter) Register(r *StageRegistry) error {
	if err := r.Register(StagePostModifier, ExporterName+".paths", e.buildPaths); err != nil {
		return err
	}
	if err := r.Register(StagePostLineset, ExporterName+".strokes", e.writeStrokes); err != nil {
		return err
	}
	return r.Register(StagePostLineset, ExporterName+".fills", e.writeFills)
}

func (e *Exporter) buildPaths(pass *LinesetPass, in []Contribution) ([]Contribution, error) {
	settings := e.Session.Settings
	pb := &PathBuilder{
		Height:           float64(settings.Height()),
		SplitAtInvisible: settings.SplitAtInvisible,
		Style:            NewStrokeStyle(pass.Style, settings.LineJoin),
	}
	return append(in, Contribution{
		Source:   ExporterName,
		Lineset:  pass.ID(),
		Kind:     StrokesLayer,
		Elements: pb.BuildAll(pass.Strokes),
	}), nil
}

func (e *Exporter) writeStrokes(pass *LinesetPass, in []Contribution) ([]Contribution, error) {
	var elems []PathElement
	for _, c := range in {
		if c.Source == ExporterName && c.Lineset == pass.ID() && c.Kind == StrokesLayer {
			elems = append(elems, c.Elements...)
		}
	}
	// in animation mode every frame needs its group, drawn or not, so the
	// timeline stays in step with the frame numbers
	if len(elems) == 0 && e.Session.Settings.Mode != ModeAnimation {
		return in, nil
	}
	err := e.update(func(doc *Document) error {
		parent, err := doc.LayerParent(pass.ID(), e.Session.Frame, true)
		if err != nil {
			return err
		}
		if len(elems) > 0 {
			doc.AppendLayer(parent, StrokesLayer, elems, false)
		}
		return nil
	})
	e.Session.Logger.Debug("svg export: strokes", "lineset", pass.ID(), "frame", e.Session.Frame, "paths", len(elems))
	return in, err
}

func (e *Exporter) writeFills(pass *LinesetPass, in []Contribution) ([]Contribution, error) {
	settings := e.Session.Settings
	if !settings.ObjectFill {
		return in, nil
	}
	fm := &FillMerger{Height: float64(settings.Height()), MatchColor: settings.HoleColorMatch}
	elems := fm.Elements(pass.FillStrokes)
	ClearVisibility(pass.FillStrokes)
	if len(elems) == 0 {
		return in, nil
	}
	out := append(in, Contribution{
		Source:   ExporterName,
		Lineset:  pass.ID(),
		Kind:     FillsLayer,
		Elements: elems,
	})
	err := e.update(func(doc *Document) error {
		parent, err := doc.LayerParent(pass.ID(), e.Session.Frame, false)
		if err != nil {
			return err
		}
		doc.AppendLayer(parent, FillsLayer, elems, true)
		return nil
	})
	e.Session.Logger.Debug("svg export: fills", "lineset", pass.ID(), "frame", e.Session.Frame, "regions", len(elems))
	return out, err
}

// update runs one read-modify-write of the output file, reporting failures
// through the diagnostic log. Only the current pass is aborted.
func (e *Exporter) update(fn func(doc *Document) error) error {
	path, err := e.Session.OutputPath()
	if err != nil {
		return cerrors.Log(err)
	}
	e.Session.Logger.Info("svg export: writing", "path", path)
	return cerrors.Log(UpdateDocument(path, e.Session.Settings.Mode, fn))
}
