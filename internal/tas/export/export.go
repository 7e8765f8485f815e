// Package export renders a tas.Document as structured JSON or YAML for
// tooling that should not have to parse the script format itself.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dshills/tasedit/internal/tas"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Action is the structured form of a tas.Action.
type Action struct {
	Key    string    `json:"key" yaml:"key"`
	Values []float64 `json:"values,omitempty" yaml:"values,omitempty,flow"`
}

// Line is the structured form of one line record. Only the fields of its
// kind are set.
type Line struct {
	Kind       string   `json:"kind" yaml:"kind"`
	LineNumber int      `json:"line" yaml:"line"`
	Frames     *int     `json:"frames,omitempty" yaml:"frames,omitempty"`
	Actions    []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
	Text       *string  `json:"text,omitempty" yaml:"text,omitempty"`
	Key        string   `json:"key,omitempty" yaml:"key,omitempty"`
	Value      *string  `json:"value,omitempty" yaml:"value,omitempty"`
	Method     *string  `json:"method,omitempty" yaml:"method,omitempty"`
	Arguments  []string `json:"arguments,omitempty" yaml:"arguments,omitempty,flow"`
	Factor     *float64 `json:"factor,omitempty" yaml:"factor,omitempty"`
}

// Document is the structured form of a tas.Document.
type Document struct {
	TotalFrames int    `json:"totalFrames" yaml:"totalFrames"`
	Lines       []Line `json:"lines" yaml:"lines"`
}

// FromDocument converts doc to its structured form.
func FromDocument(doc *tas.Document) Document {
	out := Document{
		TotalFrames: doc.TotalFrames(),
		Lines:       make([]Line, 0, doc.Len()),
	}
	for _, rec := range doc.Lines {
		out.Lines = append(out.Lines, fromLine(rec))
	}
	return out
}

func fromLine(rec tas.LineRecord) Line {
	l := Line{Kind: rec.Line.Kind().String(), LineNumber: rec.LineNumber}
	switch v := rec.Line.(type) {
	case *tas.FrameInput:
		count := v.Count
		l.Frames = &count
		for _, a := range v.Actions {
			l.Actions = append(l.Actions, Action{Key: a.Key, Values: a.Values})
		}
	case *tas.Comment:
		text := v.Text
		l.Text = &text
	case *tas.Property:
		value := v.Value
		l.Key = v.Key
		l.Value = &value
	case *tas.Call:
		method := v.Method
		l.Method = &method
		l.Arguments = v.Arguments
	case *tas.Breakpoint:
		if v.HasFactor {
			factor := v.Factor
			l.Factor = &factor
		}
	}
	return l
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, doc *tas.Document, format Format) error {
	structured := FromDocument(doc)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(structured); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(structured); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
