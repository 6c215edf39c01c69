package layout

import (
	"boxlayout/pkg/css"
)

// replacedSize returns the used content size of an <img>. A specified width
// or height (the CSS property, else the HTML attribute) wins; with only one
// of them given, the other follows the intrinsic aspect ratio; with neither,
// the intrinsic size is used.
func (b *LayoutBox) replacedSize(cbWidth, cbHeight Au) (Au, Au) {
	w, wok := b.replacedDimension("width", cbWidth)
	h, hok := b.replacedDimension("height", cbHeight)
	img := b.Info.Image
	iw, ih := 0, 0
	if img != nil && img.Err == nil {
		iw, ih = img.Width, img.Height
	}

	switch {
	case wok && hok:
		return w, h
	case wok:
		if iw == 0 {
			return w, 0
		}
		return w, Au(int64(w) * int64(ih) / int64(iw))
	case hok:
		if ih == 0 {
			return 0, h
		}
		return Au(int64(h) * int64(iw) / int64(ih)), h
	}
	return PxToAu(float64(iw)), PxToAu(float64(ih))
}

// replacedHeight returns the height that goes with an already resolved
// width.
func (b *LayoutBox) replacedHeight(width, cbHeight Au) Au {
	if h, ok := b.replacedDimension("height", cbHeight); ok {
		return h
	}
	img := b.Info.Image
	if img == nil || img.Err != nil || img.Width == 0 {
		return 0
	}
	return Au(int64(width) * int64(img.Height) / int64(img.Width))
}

func (b *LayoutBox) replacedDimension(name string, base Au) (Au, bool) {
	fs := b.Style.GetFontSize()
	v, ok := b.Style.First(name)
	if !ok || v.IsAuto() {
		attr, found := "", false
		if b.Node != nil {
			attr, found = b.Node.GetAttribute(name)
		}
		if !found {
			return 0, false
		}
		if v, ok = css.ParseValue(attr); !ok {
			return 0, false
		}
	}
	if v.Kind == css.LengthValue && v.Unit == css.UnitPercent && base == indefinite {
		return 0, false
	}
	au, ok := resolveLength(v, max(base, 0), fs)
	if !ok || au < 0 {
		return 0, false
	}
	return au, true
}
