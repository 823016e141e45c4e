package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderImagePreview paints a thumbnail as half-block cells, two pixel rows
// per terminal row. maxCols caps the character width.
func renderImagePreview(img image.Image, maxCols int) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return ""
	}
	if maxCols > 0 && w > maxCols {
		w = maxCols
	}

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := hexColor(img, b.Min.X+x, b.Min.Y+y)
			bottom := top
			if y+1 < h {
				bottom = hexColor(img, b.Min.X+x, b.Min.Y+y+1)
			}
			st := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			sb.WriteString(st.Render("▀"))
		}
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexColor(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
