package main

import (
	"fmt"

	"github.com/phanxgames/xrpanel"
	"gopkg.in/yaml.v3"
)

// layoutFile describes a document and its element tree.
type layoutFile struct {
	Width         float64         `yaml:"width"`
	Height        float64         `yaml:"height"`
	Pivot         string          `yaml:"pivot"`
	PixelsPerUnit float64         `yaml:"pixels_per_unit"`
	Interactive   *bool           `yaml:"interactive"`
	Elements      []layoutElement `yaml:"elements"`
}

type layoutElement struct {
	Name      string          `yaml:"name"`
	Kind      string          `yaml:"kind"`
	X         float64         `yaml:"x"`
	Y         float64         `yaml:"y"`
	Width     float64         `yaml:"width"`
	Height    float64         `yaml:"height"`
	Focusable bool            `yaml:"focusable"`
	Hidden    bool            `yaml:"hidden"`
	Classes   []string        `yaml:"classes"`
	Clickable bool            `yaml:"clickable"`
	Children  []layoutElement `yaml:"children"`
}

// parseLayout builds a document from a YAML layout.
func parseLayout(data []byte) (*xrpanel.Document, error) {
	var lf layoutFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if lf.Width <= 0 || lf.Height <= 0 {
		return nil, fmt.Errorf("parse layout: panel size must be positive, got %vx%v", lf.Width, lf.Height)
	}
	pivot := xrpanel.PivotCenter
	if lf.Pivot != "" {
		p, err := xrpanel.ParsePivot(lf.Pivot)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		pivot = p
	}

	doc := xrpanel.NewDocument(lf.Width, lf.Height, pivot)
	if lf.PixelsPerUnit != 0 {
		doc.PixelsPerUnit = lf.PixelsPerUnit
	}
	if lf.Interactive != nil {
		doc.Interactive = *lf.Interactive
	}
	for _, le := range lf.Elements {
		el, err := buildElement(le)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		doc.Root().AddChild(el)
	}
	return doc, nil
}

func buildElement(le layoutElement) (*xrpanel.Element, error) {
	var el *xrpanel.Element
	switch le.Kind {
	case "", "element":
		el = xrpanel.NewElement(le.Name, le.X, le.Y, le.Width, le.Height)
	case "button":
		el = xrpanel.NewButton(le.Name, le.X, le.Y, le.Width, le.Height)
	default:
		return nil, fmt.Errorf("element %q: unknown kind %q", le.Name, le.Kind)
	}
	el.Focusable = le.Focusable
	el.Visible = !le.Hidden
	for _, c := range le.Classes {
		el.AddClass(c)
	}
	if le.Clickable {
		el.OnClick = func(xrpanel.PointerEvent) {}
	}
	for _, child := range le.Children {
		c, err := buildElement(child)
		if err != nil {
			return nil, err
		}
		el.AddChild(c)
	}
	return el, nil
}
