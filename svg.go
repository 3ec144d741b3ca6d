package svgexport

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/base/indent"
	"golang.org/x/net/html/charset"
)

// XML namespaces used by exported documents.
const (
	SVGNamespace      = "http://www.w3.org/2000/svg"
	InkscapeNamespace = "http://www.inkscape.org/namespaces/inkscape"
	SodipodiNamespace = "http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"
	XLinkNamespace    = "http://www.w3.org/1999/xlink"
	xmlNamespace      = "http://www.w3.org/XML/1998/namespace"
)

// IndentWidth is the number of spaces per nesting level in written files.
const IndentWidth = 4

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`

const (
	groupModeAttr = "inkscape:groupmode"
	labelAttr     = "inkscape:label"
)

// GroupMode is the inkscape:groupmode of a group node.
type GroupMode string

// Group modes of the exported tree: lineset > frame > layer.
const (
	GroupLineset GroupMode = "lineset"
	GroupFrame   GroupMode = "frame"
	GroupLayer   GroupMode = "layer"
)

// LayerKind names a layer group.
type LayerKind string

// Layer kinds. Fill layers are painted beneath stroke layers.
const (
	StrokesLayer LayerKind = "strokes"
	FillsLayer   LayerKind = "fills"
)

// Node is an element of an SVG document. Text is the character data before
// the first child and Tail the character data after the end tag, so
// whitespace survives a parse/write cycle.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
	Tail     string
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the named attribute or appends it.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{name, value})
}

// ID returns the id attribute.
func (n *Node) ID() string {
	id, _ := n.Attr("id")
	return id
}

// GroupMode returns the inkscape:groupmode of a group, or "".
func (n *Node) GroupMode() GroupMode {
	m, _ := n.Attr(groupModeAttr)
	return GroupMode(m)
}

// Append adds c as the last child.
func (n *Node) Append(c *Node) {
	n.Children = append(n.Children, c)
}

// Insert adds c as the child at index i.
func (n *Node) Insert(i int, c *Node) {
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
}

// ChildGroups returns the direct <g> children with the given group mode.
func (n *Node) ChildGroups(mode GroupMode) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == "g" && c.GroupMode() == mode {
			out = append(out, c)
		}
	}
	return out
}

// FindAll returns the descendants of n matching pred in document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if pred(c) {
			out = append(out, c)
		}
		out = append(out, c.FindAll(pred)...)
	}
	return out
}

// Indent pretty-prints the subtree rooted at n, which sits at the given
// depth: a container gets a line break and indentation before its first
// child and after its last, a leaf a trailing line break at its depth.
// Whitespace-only text is replaced, other text is left alone.
func (n *Node) Indent(level int) {
	i := "\n" + indent.Spaces(level, IndentWidth)
	if len(n.Children) > 0 {
		if isBlank(n.Text) {
			n.Text = i + indent.Spaces(1, IndentWidth)
		}
		if isBlank(n.Tail) {
			n.Tail = i
		}
		for _, c := range n.Children {
			c.Indent(level + 1)
		}
		if last := n.Children[len(n.Children)-1]; isBlank(last.Tail) {
			last.Tail = i
		}
	} else if level > 0 && isBlank(n.Tail) {
		n.Tail = i
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func newGroup(id string, mode GroupMode) *Node {
	return &Node{Name: "g", Attrs: []Attr{
		{"id", id},
		{groupModeAttr, string(mode)},
		{labelAttr, id},
	}}
}

// FrameID is the id of the frame group of the given frame.
func FrameID(frame int) string {
	return fmt.Sprintf("frame_%04d", frame)
}

// Document is one exported SVG file. Every pass reads it whole, mutates
// the tree and writes it back whole.
type Document struct {
	Root *Node
	// Mode decides whether layers nest in frame groups. It is not stored in
	// the file; the pass that opens a document sets it.
	Mode Mode
}

// NewDocument returns the header document: an empty root sized to the render.
func NewDocument(width, height int) *Document {
	return &Document{Root: &Node{Name: "svg", Attrs: []Attr{
		{"xmlns", SVGNamespace},
		{"xmlns:inkscape", InkscapeNamespace},
		{"version", "1.1"},
		{"width", strconv.Itoa(width)},
		{"height", strconv.Itoa(height)},
	}}}
}

// Size returns the root's width and height attributes in pixels.
func (doc *Document) Size() (width, height float64, err error) {
	w, _ := doc.Root.Attr("width")
	h, _ := doc.Root.Attr("height")
	if width, err = parseLength(w); err != nil {
		return 0, 0, fmt.Errorf("svg width: %w", err)
	}
	if height, err = parseLength(h); err != nil {
		return 0, 0, fmt.Errorf("svg height: %w", err)
	}
	return width, height, nil
}

func parseLength(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
}

// Linesets returns the lineset groups in document order.
func (doc *Document) Linesets() []*Node {
	return doc.Root.ChildGroups(GroupLineset)
}

// Frames returns the frame groups of a lineset in document order.
func (doc *Document) Frames(lineset *Node) []*Node {
	return lineset.ChildGroups(GroupFrame)
}

// EnsureLinesetGroup returns the top-level group with the given id,
// creating a lineset group at the end of the document when there is none.
func (doc *Document) EnsureLinesetGroup(id string) *Node {
	for _, c := range doc.Root.Children {
		if c.Name == "g" && c.ID() == id {
			return c
		}
	}
	if _, ok := doc.Root.Attr("xmlns:inkscape"); !ok {
		doc.Root.SetAttr("xmlns:inkscape", InkscapeNamespace)
	}
	g := newGroup(id, GroupLineset)
	doc.Root.Append(g)
	return g
}

// FrameGroup returns the existing frame group of the lineset.
func (doc *Document) FrameGroup(lineset *Node, frame int) (*Node, error) {
	id := FrameID(frame)
	for _, f := range doc.Frames(lineset) {
		if f.ID() == id {
			return f, nil
		}
	}
	return nil, &StructuralError{
		Op:  "find frame group",
		Msg: fmt.Sprintf("lineset %q has no group for frame %d", lineset.ID(), frame),
	}
}

// EnsureFrameGroup returns the lineset's group for the frame, creating it
// in animation mode. Outside animation mode a missing frame group is a
// StructuralError wrapping ErrNotAnimation.
func (doc *Document) EnsureFrameGroup(lineset *Node, frame int) (*Node, error) {
	if g, err := doc.FrameGroup(lineset, frame); err == nil {
		return g, nil
	}
	if doc.Mode != ModeAnimation {
		return nil, &StructuralError{
			Op:  "ensure frame group",
			Msg: fmt.Sprintf("lineset %q frame %d", lineset.ID(), frame),
			Err: ErrNotAnimation,
		}
	}
	g := newGroup(FrameID(frame), GroupFrame)
	lineset.Append(g)
	return g, nil
}

// LayerParent returns the node layers of the lineset attach to: the frame
// group in animation mode, the lineset group otherwise. With create unset
// a missing frame group is a StructuralError.
func (doc *Document) LayerParent(linesetID string, frame int, create bool) (*Node, error) {
	lineset := doc.EnsureLinesetGroup(linesetID)
	if doc.Mode != ModeAnimation {
		return lineset, nil
	}
	if create {
		return doc.EnsureFrameGroup(lineset, frame)
	}
	return doc.FrameGroup(lineset, frame)
}

// AppendLayer adds a layer group holding the elements to parent. With
// prepend the layer goes before the existing children, which is how fills
// stay beneath strokes.
func (doc *Document) AppendLayer(parent *Node, kind LayerKind, elements []PathElement, prepend bool) *Node {
	layer := newGroup(string(kind), GroupLayer)
	for _, el := range elements {
		layer.Append(el.Node())
	}
	if prepend {
		parent.Insert(0, layer)
	} else {
		parent.Append(layer)
	}
	return layer
}

// UnmarshalXML implements the encoding.xml.Unmarshaler interface
func (doc *Document) UnmarshalXML(decoder *xml.Decoder, start xml.StartElement) error {
	nd := newNodeDecoder()
	root, err := nd.decode(decoder, start)
	if err != nil {
		return err
	}
	if root.Name != "svg" {
		return fmt.Errorf("root element is <%s>, not <svg>", root.Name)
	}
	doc.Root = root
	return nil
}

// nodeDecoder maps the namespaces encoding/xml resolves back to the
// prefixes they were written with.
type nodeDecoder struct {
	prefixes map[string]string
}

func newNodeDecoder() *nodeDecoder {
	return &nodeDecoder{prefixes: map[string]string{
		SVGNamespace:      "",
		InkscapeNamespace: "inkscape",
		SodipodiNamespace: "sodipodi",
		XLinkNamespace:    "xlink",
		xmlNamespace:      "xml",
	}}
}

func (nd *nodeDecoder) name(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	}
	if p, ok := nd.prefixes[n.Space]; ok {
		if p == "" {
			return n.Local
		}
		return p + ":" + n.Local
	}
	// an undeclared prefix is left in Space as written
	if !strings.ContainsAny(n.Space, ":/") {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

func (nd *nodeDecoder) decode(decoder *xml.Decoder, start xml.StartElement) (*Node, error) {
	for _, a := range start.Attr {
		switch {
		case a.Name.Space == "xmlns":
			nd.prefixes[a.Value] = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			nd.prefixes[a.Value] = ""
		}
	}
	n := &Node{Name: nd.name(start.Name)}
	for _, a := range start.Attr {
		n.Attrs = append(n.Attrs, Attr{nd.name(a.Name), a.Value})
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("element <%s> is not closed: %w", n.Name, io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			c, err := nd.decode(decoder, tok)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		case xml.CharData:
			if len(n.Children) == 0 {
				n.Text += string(tok)
			} else {
				n.Children[len(n.Children)-1].Tail += string(tok)
			}
		case xml.EndElement:
			return n, nil
		}
	}
}

// ReadDocument parses an SVG document from an io.Reader. Documents declared
// in a non UTF-8 encoding are decoded through their charset.
func ReadDocument(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			err = errors.New("no root element")
		}
		return nil, &MalformedDocumentError{Err: err}
	}
	return &doc, nil
}

// OpenDocument parses the SVG document at path.
func OpenDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PathError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	doc, err := ReadDocument(bufio.NewReader(f))
	if err != nil {
		var mde *MalformedDocumentError
		if errors.As(err, &mde) {
			mde.Path = path
		}
		return nil, err
	}
	return doc, nil
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Write pretty-prints the tree and writes the document with its XML
// declaration. Attributes keep their order; empty elements are self-closed.
func (doc *Document) Write(w io.Writer) error {
	doc.Root.Indent(0)
	bw := bufio.NewWriter(w)
	bw.WriteString(xmlDeclaration)
	bw.WriteByte('\n')
	writeNode(bw, doc.Root)
	if doc.Root.Tail == "" {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n *Node) {
	w.WriteByte('<')
	w.WriteString(n.Name)
	for _, a := range n.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		w.WriteString(`="`)
		xml.EscapeText(w, []byte(a.Value))
		w.WriteByte('"')
	}
	if len(n.Children) == 0 && n.Text == "" {
		w.WriteString(" />")
	} else {
		w.WriteByte('>')
		textEscaper.WriteString(w, n.Text)
		for _, c := range n.Children {
			writeNode(w, c)
		}
		w.WriteString("</")
		w.WriteString(n.Name)
		w.WriteByte('>')
	}
	textEscaper.WriteString(w, n.Tail)
}

// Save writes the document to path, replacing the file.
func (doc *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &PathError{Op: "create", Path: path, Err: err}
	}
	if err := doc.Write(f); err != nil {
		f.Close()
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &PathError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// UpdateDocument runs one full read-modify-write cycle on the file at path.
// The file is left untouched when fn fails.
func UpdateDocument(path string, mode Mode, fn func(doc *Document) error) error {
	doc, err := OpenDocument(path)
	if err != nil {
		return err
	}
	doc.Mode = mode
	if err := fn(doc); err != nil {
		return err
	}
	return doc.Save(path)
}
