// Package main provides the command line implementation of the svgexport
// library: it replays captured line renders into SVG files, and inspects
// and previews the files it wrote.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"github.com/vasalvit/svgexport"
	"github.com/vasalvit/svgexport/preview"
)

func main() {
	flag.Usage = Usage
	flag.Parse()
	if flag.NArg() < 1 {
		Usage()
		os.Exit(2)
	}
	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "export":
		err = export(args)
	case "inspect":
		err = inspect(os.Stdout, args)
	case "preview":
		err = previewFrame(args)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "freestyle-svg:", err)
		os.Exit(1)
	}
}

// Usage is a replacement usage function for the flags package.
func Usage() {
	_, _ = fmt.Fprintf(os.Stderr, "freestyle-svg writes line renders as layered, optionally animated SVG.\n")
	_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "\tfreestyle-svg export [-config render.toml] [-v] capture.yaml...\n")
	_, _ = fmt.Fprintf(os.Stderr, "\tfreestyle-svg inspect file.svg\n")
	_, _ = fmt.Fprintf(os.Stderr, "\tfreestyle-svg preview [-frame N] [-scale S] [-o out.png] file.svg\n")
}

func export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	config := fs.String("config", "", "TOML render settings; defaults are used when empty")
	verbose := fs.Bool("v", false, "log every pass")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return errors.New("export: no capture files")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	settings := svgexport.DefaultSettings()
	if *config != "" {
		var err error
		if settings, err = svgexport.LoadSettings(*config); err != nil {
			return err
		}
	}

	captures := make([]*svgexport.Capture, 0, fs.NArg())
	for _, path := range fs.Args() {
		c, err := svgexport.LoadCapture(path)
		if err != nil {
			return err
		}
		captures = append(captures, c)
	}
	sort.SliceStable(captures, func(i, j int) bool { return captures[i].Frame < captures[j].Frame })

	session := svgexport.NewSession(settings, logger)
	registry := svgexport.NewStageRegistry()
	if err := svgexport.NewExporter(session).Register(registry); err != nil {
		return err
	}

	session.RenderInit()
	for _, c := range captures {
		if c.Frame < settings.FrameStart || c.Frame > settings.FrameEnd {
			session.Logger.Warn("capture outside the frame range", "frame", c.Frame)
			continue
		}
		if err := session.RenderPre(c.Frame); err != nil {
			return err
		}
		passes, err := c.LinesetPasses()
		if err != nil {
			return fmt.Errorf("frame %d: %w", c.Frame, err)
		}
		for _, pass := range passes {
			// a failed pass is logged and the render goes on
			if _, err := registry.RunLineset(pass); err != nil {
				session.Logger.Error("lineset pass failed", "lineset", pass.ID(), "frame", c.Frame, "err", err)
			}
		}
		session.RenderWrite()
	}
	return session.RenderComplete()
}

func inspect(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("inspect: want one svg file")
	}
	doc, err := svgexport.OpenDocument(fs.Arg(0))
	if err != nil {
		return err
	}
	out := termenv.NewOutput(w)
	width, height, err := doc.Size()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %gx%g\n", out.String(filepath.Base(fs.Arg(0))).Bold(), width, height)
	for _, lineset := range doc.Linesets() {
		fmt.Fprintf(w, "%s\n", out.String(lineset.ID()).Foreground(out.Color("4")))
		frames := doc.Frames(lineset)
		if len(frames) == 0 {
			writeLayers(w, out, lineset, 1)
			continue
		}
		for _, f := range frames {
			line := "  " + f.ID()
			if !hasAnimate(f) {
				line += " " + out.String("(no timeline)").Faint().String()
			}
			fmt.Fprintln(w, line)
			writeLayers(w, out, f, 2)
		}
	}
	return nil
}

func hasAnimate(n *svgexport.Node) bool {
	for _, c := range n.Children {
		if c.Name == "animate" {
			return true
		}
	}
	return false
}

func writeLayers(w io.Writer, out *termenv.Output, parent *svgexport.Node, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, layer := range parent.ChildGroups(svgexport.GroupLayer) {
		paths := layer.FindAll(func(n *svgexport.Node) bool { return n.Name == "path" })
		fmt.Fprintf(w, "%s%s %s\n", pad, layer.ID(), out.String(fmt.Sprintf("%d paths", len(paths))).Foreground(out.Color("2")))
	}
}

func previewFrame(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	frame := fs.Int("frame", preview.AllFrames, "frame to draw; all paths when negative")
	scale := fs.Float64("scale", 1, "output scale")
	output := fs.String("o", "preview.png", "PNG output path")
	white := fs.Bool("white", false, "paint a white background")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("preview: want one svg file")
	}
	doc, err := svgexport.OpenDocument(fs.Arg(0))
	if err != nil {
		return err
	}
	opts := preview.Options{Frame: *frame, Scale: *scale}
	if *frame < 0 {
		opts.Frame = preview.AllFrames
	}
	if *white {
		opts.Background = color.White
	}
	img, err := preview.Rasterize(doc, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := preview.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
