// Package pdftable reconstructs logical table rows from the flat stream
// of positioned text fragments that pdftohtml-style conversion emits.
// The XML carries no table structure, only x/y coordinates: fragments
// sharing a left coordinate belong to the same column cell (word wrap),
// and cells sharing a top coordinate belong to the same row.
package pdftable

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrUnexpectedMarkup indicates an element nested inside <text>
	// other than <b>. The converter only ever emits bold markup, so
	// anything else means the input is not what we think it is.
	ErrUnexpectedMarkup = errors.New("unexpected markup inside text element")

	// ErrBadPosition indicates a <text> element without usable
	// top/left coordinates.
	ErrBadPosition = errors.New("text element has invalid position attributes")
)

// Fragment is one positioned piece of text in document order
type Fragment struct {
	Text string
	Top  int
	Left int
}

// Cell is a reconstructed table cell: one or more word-wrapped
// fragments from the same column, space-joined. Top is the position of
// the cell's first fragment.
type Cell struct {
	Text string
	Top  int
	Left int
}

// Rows is a pull-based row sequence, consumed exactly once. The
// explicit Next lets the consumer take one extra row after a section
// header or two at end-of-table without restructuring its loop.
type Rows struct {
	cells []Cell
	pos   int
}

// Next returns the next logical row, or false when the table is
// exhausted. A row is a contiguous run of cells with identical top.
func (r *Rows) Next() ([]Cell, bool) {
	if r.pos >= len(r.cells) {
		return nil, false
	}

	top := r.cells[r.pos].Top
	start := r.pos
	for r.pos < len(r.cells) && r.cells[r.pos].Top == top {
		r.pos++
	}
	return r.cells[start:r.pos], true
}

// Parse decodes the PDF-derived XML and reconstructs its rows
func Parse(r io.Reader) (*Rows, error) {
	fragments, err := ParseFragments(r)
	if err != nil {
		return nil, err
	}
	return Reconstruct(fragments), nil
}

// ParseFragments extracts the ordered <text top=".." left=".."> stream.
// Nested <b> markup is flattened into the text content; any other
// nested element is a fatal format error. Elements other than <text>
// (page wrappers and the like) are skipped.
func ParseFragments(r io.Reader) ([]Fragment, error) {
	dec := xml.NewDecoder(r)

	var fragments []Fragment
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "text" {
			continue
		}

		frag, err := parseTextElement(dec, start)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
	}

	return fragments, nil
}

func parseTextElement(dec *xml.Decoder, start xml.StartElement) (Fragment, error) {
	top, topErr := intAttr(start, "top")
	left, leftErr := intAttr(start, "left")
	if topErr != nil || leftErr != nil {
		return Fragment{}, fmt.Errorf("%w: top=%v left=%v", ErrBadPosition, topErr, leftErr)
	}

	var text strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return Fragment{}, fmt.Errorf("failed to decode text element: %w", err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if t.Name.Local != "b" {
				return Fragment{}, fmt.Errorf("%w: <%s>", ErrUnexpectedMarkup, t.Name.Local)
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}

	return Fragment{
		Text: strings.TrimSpace(text.String()),
		Top:  top,
		Left: left,
	}, nil
}

func intAttr(el xml.StartElement, name string) (int, error) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return strconv.Atoi(a.Value)
		}
	}
	return 0, fmt.Errorf("missing attribute %q", name)
}

// Reconstruct merges word-wrapped fragments into cells. Consecutive
// fragments with identical left are one cell; a change in left starts
// the next cell.
func Reconstruct(fragments []Fragment) *Rows {
	var cells []Cell
	for _, f := range fragments {
		if len(cells) > 0 && cells[len(cells)-1].Left == f.Left {
			last := &cells[len(cells)-1]
			if f.Text != "" {
				if last.Text != "" {
					last.Text += " "
				}
				last.Text += f.Text
			}
			continue
		}
		cells = append(cells, Cell{Text: f.Text, Top: f.Top, Left: f.Left})
	}
	return &Rows{cells: cells}
}
