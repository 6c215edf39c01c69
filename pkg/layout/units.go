package layout

import (
	"math"

	"boxlayout/pkg/css"
)

// Au is a length in app units. One CSS pixel is 60 Au, which keeps
// geometry exact for the halves, thirds and quarters that centering and
// line metrics produce.
type Au int32

const AuPerPx = 60

// MaxPx is the largest length in pixels that Au can represent.
const MaxPx = math.MaxInt32 / AuPerPx

func PxToAu(px float64) Au {
	return Au(math.Round(px * AuPerPx))
}

func (a Au) Px() float64 {
	return float64(a) / AuPerPx
}

// resolveLength converts a length to Au. Percentages resolve against base.
// Keywords, auto included, do not resolve.
func resolveLength(v css.Value, base Au, fontSize float64) (Au, bool) {
	px, ok := v.ToPx(base.Px(), fontSize)
	if !ok {
		return 0, false
	}
	return PxToAu(px), true
}

// edgeSizes resolves margin, padding or border widths on all four sides.
// Unresolvable values, auto included, are zero.
func edgeSizes(style css.PropertyMap, prefix string, base Au) EdgeSizes {
	fs := style.GetFontSize()
	get := func(side css.Side) Au {
		au, _ := resolveLength(style.GetEdge(prefix, side), base, fs)
		if prefix != "margin" && au < 0 {
			return 0
		}
		return au
	}
	return EdgeSizes{
		Top:    get(css.Top),
		Right:  get(css.Right),
		Bottom: get(css.Bottom),
		Left:   get(css.Left),
	}
}
