// Package render draws a merged contribution calendar for terminals, as a
// summary table, or as a standalone HTML heatmap.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ssk090/git-contri-merged/internal/level"
)

type Theme struct {
	Name       string
	Levels     [level.Levels]string
	Text       string
	Background string
}

var (
	Light = Theme{
		Name:       "light",
		Levels:     [level.Levels]string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
		Text:       "#24292f",
		Background: "#ffffff",
	}
	Dark = Theme{
		Name:       "dark",
		Levels:     [level.Levels]string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
		Text:       "#c9d1d9",
		Background: "#0d1117",
	}
)

// ThemeByName resolves "light" or "dark". An empty name is light.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Light.Name:
		return Light, nil
	case Dark.Name:
		return Dark, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q (want light or dark)", name)
	}
}

// LevelColor clamps lvl into range before looking it up.
func (t Theme) LevelColor(lvl int) string {
	if lvl < 0 {
		lvl = 0
	}
	if lvl > level.Max {
		lvl = level.Max
	}
	return t.Levels[lvl]
}

func hexRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
