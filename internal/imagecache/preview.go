package imagecache

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const halfBlock = "▀"

// RenderFile decodes the image at path and renders a preview at most width
// cells wide and maxRows cells tall.
func RenderFile(path string, width, maxRows int) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return Render(img, width, maxRows), nil
}

// Render draws img with upper half blocks: every cell carries two pixel rows,
// the top one as foreground and the bottom one as background.
func Render(img image.Image, width, maxRows int) string {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 || width <= 0 || maxRows <= 0 {
		return ""
	}
	cols, rows := previewSize(bounds.Dx(), bounds.Dy(), width, maxRows)
	scaled := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		var b strings.Builder
		for x := 0; x < cols; x++ {
			top := hexColor(scaled.At(x, y*2))
			bottom := hexColor(scaled.At(x, y*2+1))
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// previewSize keeps the aspect ratio, assuming cells twice as tall as wide.
func previewSize(imgW, imgH, width, maxRows int) (int, int) {
	cols := width
	if imgW < cols {
		cols = imgW
	}
	rows := (cols*imgH/imgW + 1) / 2
	if rows > maxRows {
		rows = maxRows
		cols = rows * 2 * imgW / imgH
		if cols > width {
			cols = width
		}
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
