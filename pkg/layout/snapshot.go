package layout

// Snapshot is a plain-data copy of a laid out tree, in pixels, for dumps
// and comparisons. Coordinates are relative to the parent's content box.
type Snapshot struct {
	Type     string     `json:"type"`
	Tag      string     `json:"tag,omitempty"`
	Text     string     `json:"text,omitempty"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Margin   [4]float64 `json:"margin"`
	Border   [4]float64 `json:"border"`
	Padding  [4]float64 `json:"padding"`
	ZIndex   int        `json:"zIndex,omitempty"`
	Lines    int        `json:"lines,omitempty"`
	Children []Snapshot `json:"children,omitempty"`
}

func edgesPx(e EdgeSizes) [4]float64 {
	return [4]float64{e.Top.Px(), e.Right.Px(), e.Bottom.Px(), e.Left.Px()}
}

// Snapshot copies the tree rooted at b.
func (b *LayoutBox) Snapshot() Snapshot {
	s := Snapshot{
		Type:    b.Type.String(),
		Tag:     b.tagName(),
		Text:    b.Text(),
		X:       b.Dims.Content.X.Px(),
		Y:       b.Dims.Content.Y.Px(),
		Width:   b.Dims.Content.Width.Px(),
		Height:  b.Dims.Content.Height.Px(),
		Margin:  edgesPx(b.Dims.Margin),
		Border:  edgesPx(b.Dims.Border),
		Padding: edgesPx(b.Dims.Padding),
		ZIndex:  b.ZIndex,
		Lines:   len(b.Lines),
	}
	for _, c := range b.Children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}
