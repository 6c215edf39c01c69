package css

import "testing"

func TestLookupFallback(t *testing.T) {
	props := PropertyMap{"margin-left": {Px(3)}, "margin": {Px(9)}}
	if got := props.Lookup("margin-left", "margin", Px(0)); got != Px(3) {
		t.Errorf("expected margin-left 3px, got %v", got)
	}
	if got := props.Lookup("margin-right", "margin", Px(0)); got != Px(9) {
		t.Errorf("expected fallback 9px, got %v", got)
	}
	if got := props.Lookup("width", "", Auto); got != Auto {
		t.Errorf("expected default auto, got %v", got)
	}
}

func TestGetLineHeight(t *testing.T) {
	tests := []struct {
		name  string
		props PropertyMap
		want  float64
	}{
		{"missing", PropertyMap{"font-size": {Px(10)}}, 12},
		{"normal", PropertyMap{"font-size": {Px(10)}, "line-height": {Keyword("normal")}}, 12},
		{"number", PropertyMap{"font-size": {Px(10)}, "line-height": {Number(2)}}, 20},
		{"length", PropertyMap{"font-size": {Px(10)}, "line-height": {Px(14)}}, 14},
		{"em", PropertyMap{"font-size": {Px(10)}, "line-height": {Length(1.5, UnitEm)}}, 15},
		{"default font size", PropertyMap{}, 19.2},
	}
	for _, tt := range tests {
		if got := tt.props.GetLineHeight(); got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestGetFloatAndClear(t *testing.T) {
	props := PropertyMap{"float": {Keyword("right")}, "clear": {Keyword("both")}}
	if props.GetFloat() != FloatRight {
		t.Errorf("expected float right, got %v", props.GetFloat())
	}
	if props.GetClear() != ClearBoth {
		t.Errorf("expected clear both, got %v", props.GetClear())
	}
	empty := PropertyMap{}
	if empty.GetFloat() != FloatNone || empty.GetClear() != ClearNone {
		t.Error("expected float and clear to default to none")
	}
}

func TestGetDisplayDefaultsToInline(t *testing.T) {
	if got := (PropertyMap{}).GetDisplay(); got != DisplayInline {
		t.Errorf("expected inline, got %v", got)
	}
	if got := (PropertyMap{"display": {Keyword("inline-block")}}).GetDisplay(); got != DisplayInlineBlock {
		t.Errorf("expected inline-block, got %v", got)
	}
}

func TestGetFontWeight(t *testing.T) {
	if (PropertyMap{"font-weight": {Number(700)}}).GetFontWeight() != FontWeightBold {
		t.Error("700 should be bold")
	}
	if (PropertyMap{"font-weight": {Number(400)}}).GetFontWeight() != FontWeightNormal {
		t.Error("400 should be normal")
	}
}

func TestGetColorResolvesNamesAndCurrentColor(t *testing.T) {
	props := PropertyMap{
		"color":             {Keyword("red")},
		"background-color":  {Keyword("bogus")},
		"border-top-color":  {Keyword("currentcolor")},
		"border-left-color": {ColorOf(White)},
	}
	if got := props.GetColor("color", Black); got != (Color{255, 0, 0, 255}) {
		t.Errorf("expected red, got %v", got)
	}
	if got := props.GetColor("background-color", Transparent); got != Transparent {
		t.Errorf("expected fallback for invalid color, got %v", got)
	}
	if got := props.GetBorderColor(Top); got != (Color{255, 0, 0, 255}) {
		t.Errorf("expected currentcolor to be red, got %v", got)
	}
	if got := props.GetBorderColor(Bottom); got != (Color{255, 0, 0, 255}) {
		t.Errorf("expected missing border color to follow color, got %v", got)
	}
	if got := props.GetBorderColor(Left); got != White {
		t.Errorf("expected white, got %v", got)
	}
}

func TestInheritable(t *testing.T) {
	props := PropertyMap{
		"color":      {Keyword("red")},
		"text-align": {Keyword("center")},
		"margin-top": {Px(5)},
		"display":    {Keyword("block")},
	}
	inh := props.Inheritable()
	if len(inh) != 2 {
		t.Errorf("expected 2 inherited properties, got %v", inh)
	}
	if _, ok := inh["margin-top"]; ok {
		t.Error("margin must not be inherited")
	}
}

func TestPropertyMapString(t *testing.T) {
	props := PropertyMap{"width": {Px(10)}, "color": {Keyword("red")}}
	if got := props.String(); got != "color: red; width: 10px" {
		t.Errorf("unexpected String(): %q", got)
	}
}
