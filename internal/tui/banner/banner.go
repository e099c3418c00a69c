// Package banner renders words as large block art using half-block characters.
package banner

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const threshold = 96

var (
	faceOnce sync.Once
	face     font.Face

	mu    sync.Mutex
	cache = make(map[string]string)
)

func loadFace() font.Face {
	faceOnce.Do(func() {
		fnt, err := opentype.Parse(gobold.TTF)
		if err != nil {
			return
		}
		f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    48,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return
		}
		face = f
	})
	return face
}

// IsAvailable reports whether the banner font could be loaded.
func IsAvailable() bool {
	return loadFace() != nil
}

// Render draws text as half-block art that is rows cells tall.
// It returns "" when the text is empty or would not fit in maxCols.
func Render(text string, rows, maxCols int) string {
	text = strings.TrimSpace(text)
	if text == "" || rows <= 0 || maxCols <= 0 {
		return ""
	}
	f := loadFace()
	if f == nil {
		return ""
	}

	metrics := f.Metrics()
	padding := 2
	srcWidth := font.MeasureString(f, text).Ceil() + padding*2
	srcHeight := (metrics.Ascent + metrics.Descent).Ceil() + padding*2

	// Terminal cells are roughly twice as tall as wide, so a half block is square.
	targetHeight := rows * 2
	cols := (srcWidth*targetHeight + srcHeight - 1) / srcHeight
	if cols > maxCols {
		return ""
	}

	src := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: f,
		Dot:  fixed.P(padding, padding+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	return imageToHalfBlocks(scaleDown(src, cols, targetHeight), cols, rows)
}

// Cached returns a cached banner or renders a new one.
func Cached(text string, rows, maxCols int) string {
	key := fmt.Sprintf("%s\x00%d\x00%d", text, rows, maxCols)

	mu.Lock()
	defer mu.Unlock()
	if out, ok := cache[key]; ok {
		return out
	}
	out := Render(text, rows, maxCols)
	cache[key] = out
	return out
}

// scaleDown scales a grayscale image using area averaging
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Max.X
	srcHeight := src.Bounds().Max.Y

	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		for dx := 0; dx < dstWidth; dx++ {
			sx1 := int(float64(dx) * xRatio)
			sy1 := int(float64(dy) * yRatio)
			sx2 := min(int(float64(dx+1)*xRatio), srcWidth)
			sy2 := min(int(float64(dy+1)*yRatio), srcHeight)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}

	return dst
}

// imageToHalfBlocks converts a grayscale image to half-block art
func imageToHalfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			topOn := brightness(img, col, row*2) > threshold
			bottomOn := brightness(img, col, row*2+1) > threshold

			switch {
			case topOn && bottomOn:
				b.WriteRune('█')
			case topOn:
				b.WriteRune('▀')
			case bottomOn:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}
