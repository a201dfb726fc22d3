package frame

import "image/color"

var palette = map[string]color.RGBA{
	"red":       {220, 60, 50, 255},
	"green":     {60, 170, 70, 255},
	"blue":      {50, 90, 220, 255},
	"lightblue": {150, 200, 240, 255},
	"yellow":    {230, 200, 90, 255},
	"gray":      {128, 128, 128, 255},
	"darkgray":  {80, 80, 80, 255},
	"brown":     {139, 69, 19, 255},
	"wood":      {160, 110, 60, 255},
	"wood1":     {170, 130, 80, 255},
	"wood2":     {120, 80, 45, 255},
	"marble3":   {200, 195, 190, 255},
	"concrete":  {170, 170, 165, 255},
	"metal":     {150, 160, 170, 255},
	"building":  {110, 115, 130, 255},
	"mountain":  {95, 120, 70, 255},
	"robot":     {240, 160, 40, 255},
}

// fallback is used for empty or unknown appearance names.
var fallback = color.RGBA{128, 128, 128, 255}

// Palette maps an appearance name to a color. Names may also be "#rrggbb".
func Palette(name string) color.RGBA {
	if c, ok := palette[name]; ok {
		return c
	}
	if c, ok := parseHex(name); ok {
		return c
	}
	return fallback
}

func parseHex(s string) (color.RGBA, bool) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, false
	}
	var v [3]uint8
	for i := range v {
		hi, ok1 := hexDigit(s[1+2*i])
		lo, ok2 := hexDigit(s[2+2*i])
		if !ok1 || !ok2 {
			return color.RGBA{}, false
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{v[0], v[1], v[2], 255}, true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
