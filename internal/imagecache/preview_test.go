package imagecache

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y * 2), B: 128, A: 255})
		}
	}
	p := filepath.Join(t.TempDir(), "fixture.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}

func TestRenderFileKeepsAspectRatio(t *testing.T) {
	p := writePNG(t, 100, 50)

	out, err := RenderFile(p, 40, 20)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 10)
	for _, line := range lines {
		assert.Equal(t, 40, lipgloss.Width(line))
	}
}

func TestRenderFileClampsRows(t *testing.T) {
	p := writePNG(t, 20, 200)

	out, err := RenderFile(p, 40, 6)
	require.NoError(t, err)
	assert.Len(t, strings.Split(out, "\n"), 6)
}

func TestRenderFileRejectsNonImage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bogus.png")
	require.NoError(t, os.WriteFile(p, []byte("not an image"), 0o644))
	_, err := RenderFile(p, 40, 10)
	assert.Error(t, err)
}

func TestPreviewSize(t *testing.T) {
	cols, rows := previewSize(10, 10, 40, 20)
	assert.Equal(t, 10, cols)
	assert.Equal(t, 5, rows)

	cols, rows = previewSize(400, 100, 80, 20)
	assert.Equal(t, 80, cols)
	assert.Equal(t, 10, rows)
}

func TestRenderEmptyInputs(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.Empty(t, Render(img, 0, 10))
	assert.Empty(t, Render(img, 10, 0))
}
