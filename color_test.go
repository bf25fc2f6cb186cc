package skintile

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   color.NRGBA
		wantOK bool
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}, true},
		{"#000", color.NRGBA{0, 0, 0, 255}, true},
		{"#f0a8", color.NRGBA{0xff, 0x00, 0xaa, 0x88}, true},
		{"#1E293B", color.NRGBA{0x1e, 0x29, 0x3b, 0xff}, true},
		{"#11223344", color.NRGBA{0x11, 0x22, 0x33, 0x44}, true},
		{"  #abcdef  ", color.NRGBA{0xab, 0xcd, 0xef, 0xff}, true},
		{"rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 255}, true},
		{"rgba(10,20,30,0.5)", color.NRGBA{10, 20, 30, 128}, true},
		{"transparent", color.NRGBA{}, true},
		{"", color.NRGBA{}, false},
		{"#ff", color.NRGBA{}, false},
		{"#ggg", color.NRGBA{}, false},
		{"#+fffff", color.NRGBA{}, false},
		{"rgb(300,0,0)", color.NRGBA{}, false},
		{"rgba(0,0,0,2)", color.NRGBA{}, false},
		{"rgba(0,0,0,nan)", color.NRGBA{}, false},
		{"rgba(0,0,0,inf)", color.NRGBA{}, false},
		{"rgb(1,2)", color.NRGBA{}, false},
		{"red", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSwatchColors(t *testing.T) {
	tests := []struct {
		name               string
		colors             []string
		primary, secondary color.NRGBA
	}{
		{"none", nil, color.NRGBA{}, color.NRGBA{}},
		{"one", []string{"#fff"}, white, color.NRGBA{}},
		{"two", []string{"#fff", "#000"}, white, black},
		{"three", []string{"#000", "#fff", "#f00"}, black, white},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, s := swatchColors(tt.colors)
			if p != tt.primary || s != tt.secondary {
				t.Errorf("swatchColors(%v) = %v, %v; want %v, %v", tt.colors, p, s, tt.primary, tt.secondary)
			}
		})
	}
}
