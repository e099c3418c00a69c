package banner

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	require.True(t, IsAvailable())

	out := Render("lexis", 4, 200)
	require.NotEmpty(t, out)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	width := utf8.RuneCountInString(lines[0])
	for _, line := range lines {
		require.Equal(t, width, utf8.RuneCountInString(line))
	}
	require.True(t, strings.ContainsAny(out, "█▀▄"))
}

func TestRenderDoesNotFit(t *testing.T) {
	require.Empty(t, Render("supercalifragilistic", 4, 10))
}

func TestRenderEmpty(t *testing.T) {
	require.Empty(t, Render("", 4, 80))
	require.Empty(t, Render("   ", 4, 80))
	require.Empty(t, Render("word", 0, 80))
}

func TestCached(t *testing.T) {
	first := Cached("echo", 3, 120)
	require.Equal(t, first, Cached("echo", 3, 120))
	require.Equal(t, Render("echo", 3, 120), first)
}

func TestImageToHalfBlocks(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 255})
	img.SetGray(0, 1, color.Gray{Y: 255})
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(2, 1, color.Gray{Y: 255})

	require.Equal(t, "█▀▄", imageToHalfBlocks(img, 3, 1))
}
