package core

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Note is the central entity of the domain.
// It is the persisted state of one sticky note window.
// Content is opaque rich-text markup; the store never interprets it.
type Note struct {
	ID       string    `json:"id" yaml:"id"`
	Content  string    `json:"content" yaml:"content"`
	Color    string    `json:"color" yaml:"color"`
	Pinned   bool      `json:"pinned" yaml:"pinned"`
	Geometry *Geometry `json:"geometry" yaml:"geometry"`
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	if n.Geometry != nil {
		g := *n.Geometry
		n.Geometry = &g
	}
	return n
}

// Geometry is the last known position and size of a note window.
// It is serialized as a 4-element array: [x, y, width, height].
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the geometry as an [x, y, width, height] tuple.
func (g Geometry) Rect() [4]int {
	return [4]int{g.X, g.Y, g.Width, g.Height}
}

// GeometryFromRect builds a Geometry from an [x, y, width, height] tuple.
func GeometryFromRect(r [4]int) Geometry {
	return Geometry{X: r[0], Y: r[1], Width: r[2], Height: r[3]}
}

func (g Geometry) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", g.X, g.Y, g.Width, g.Height)
}

// ParseGeometry parses the "x,y,w,h" form produced by String.
func ParseGeometry(s string) (Geometry, error) {
	var r [4]int
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r[0], &r[1], &r[2], &r[3])
	if err != nil || n != 4 {
		return Geometry{}, fmt.Errorf("invalid geometry %q: want x,y,width,height", s)
	}
	return GeometryFromRect(r), nil
}

// MarshalJSON implements json.Marshaler.
func (g Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Rect())
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var r []int
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if len(r) != 4 {
		return fmt.Errorf("geometry must have 4 elements, got %d", len(r))
	}
	*g = GeometryFromRect([4]int(r))
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (g Geometry) MarshalYAML() (interface{}, error) {
	r := g.Rect()
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range r {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)})
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *Geometry) UnmarshalYAML(value *yaml.Node) error {
	var r []int
	if err := value.Decode(&r); err != nil {
		return err
	}
	if len(r) != 4 {
		return fmt.Errorf("geometry must have 4 elements, got %d", len(r))
	}
	*g = GeometryFromRect([4]int(r))
	return nil
}
