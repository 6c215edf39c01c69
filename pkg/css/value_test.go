package css

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"auto", Auto},
		{"AUTO", Auto},
		{"12px", Px(12)},
		{"-3.5px", Px(-3.5)},
		{"12pt", Length(12, UnitPt)},
		{"50%", Length(50, UnitPercent)},
		{"1.5em", Length(1.5, UnitEm)},
		{".5em", Length(0.5, UnitEm)},
		{"0", Number(0)},
		{"1.2", Number(1.2)},
		{"#fff", ColorOf(White)},
		{"#00ff00", ColorOf(Color{0, 255, 0, 255})},
		{"rgb(1, 2, 3)", ColorOf(Color{1, 2, 3, 255})},
		{"rgba(255,0,0,0.5)", ColorOf(Color{255, 0, 0, 128})},
		{"-webkit-box", Keyword("-webkit-box")},
	}
	for _, tt := range tests {
		got, ok := ParseValue(tt.in)
		if !ok {
			t.Errorf("ParseValue(%q) failed", tt.in)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseValueRejects(t *testing.T) {
	for _, in := range []string{"", "10furlongs", "#12", "#ggg", "rgb(1,2)"} {
		if v, ok := ParseValue(in); ok {
			t.Errorf("expected ParseValue(%q) to fail, got %v", in, v)
		}
	}
}

func TestParseValuesKeepsFunctionsTogether(t *testing.T) {
	vals, ok := ParseValues("1px solid rgb(10, 20, 30) !important")
	if !ok || len(vals) != 3 {
		t.Fatalf("expected 3 values, got %v", vals)
	}
	if vals[2] != ColorOf(Color{10, 20, 30, 255}) {
		t.Errorf("unexpected color %v", vals[2])
	}
}

func TestToPx(t *testing.T) {
	tests := []struct {
		v    Value
		want float64
	}{
		{Px(10), 10},
		{Number(7), 7},
		{Length(12, UnitPt), 16},
		{Length(50, UnitPercent), 150},
		{Length(2, UnitEm), 20},
	}
	for _, tt := range tests {
		got, ok := tt.v.ToPx(300, 10)
		if !ok || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%v.ToPx(300, 10) = %v, %v; want %v", tt.v, got, ok, tt.want)
		}
	}
	if _, ok := Auto.ToPx(300, 10); ok {
		t.Error("auto should not resolve to pixels")
	}
	if got := Auto.ToPxOr(300, 10, 4); got != 4 {
		t.Errorf("expected fallback 4, got %v", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"red", Color{255, 0, 0, 255}},
		{"Transparent", Transparent},
		{"#abc", Color{0xaa, 0xbb, 0xcc, 255}},
		{"rgb(100%, 0%, 50%)", Color{255, 0, 128, 255}},
		{"rgba(0 0 0 / 25%)", Color{0, 0, 0, 64}},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if !ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", tt.in, got, ok, tt.want)
		}
	}
	if _, ok := ParseColor("notacolor"); ok {
		t.Error("expected unknown color name to fail")
	}
}
