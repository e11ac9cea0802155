package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

var (
	ink   = color.NRGBA{0, 0, 0, 255}
	paper = color.NRGBA{255, 255, 255, 255}
)

// prepare turns a cropped section into the black-on-white image Tesseract
// reads best. The in-game text is light on dark, so the result is inverted.
// A zero threshold selects the adaptive threshold.
func prepare(img image.Image, scale float64, threshold uint8) *image.NRGBA {
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 20)
	gray = imaging.Sharpen(gray, 0.7)
	if scale > 1 {
		b := gray.Bounds()
		gray = imaging.Resize(gray, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale), imaging.Lanczos)
	}
	inv := imaging.Invert(gray)
	if threshold == 0 {
		return adaptiveThreshold(inv, 15, 7)
	}
	return binarize(inv, threshold)
}

func luma(c color.Color) int {
	r, g, b, _ := c.RGBA()
	return int((r + g + b) / 3 >> 8)
}

// binarize performs a global threshold; pixels at or below threshold become ink.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := paper
			if luma(img.At(x, y)) <= int(threshold) {
				c = ink
			}
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return out
}

// adaptiveThreshold compares each pixel with the mean of its window, using
// an integral image so the cost does not grow with the window.
func adaptiveThreshold(img image.Image, window int, bias int) *image.NRGBA {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := imaging.New(w, h, paper)
	half := window / 2
	sums := make([]int, w*h)
	for y := 0; y < h; y++ {
		row := 0
		for x := 0; x < w; x++ {
			row += luma(img.At(b.Min.X+x, b.Min.Y+y))
			sums[y*w+x] = row
			if y > 0 {
				sums[y*w+x] += sums[(y-1)*w+x]
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(x-half, 0), max(y-half, 0)
			x1, y1 := min(x+half, w-1), min(y+half, h-1)
			sum := sums[y1*w+x1] - sums[y0*w+x1] - sums[y1*w+x0] + sums[y0*w+x0]
			mean := sum / ((x1 - x0 + 1) * (y1 - y0 + 1))
			if luma(img.At(b.Min.X+x, b.Min.Y+y)) < max(mean-bias, 0) {
				out.SetNRGBA(x, y, ink)
			}
		}
	}
	return out
}

// dilate grows ink by rx pixels horizontally and ry vertically. A wide
// kernel merges the glyphs of one damage cell into a single blob.
func dilate(img *image.NRGBA, rx, ry int) *image.NRGBA {
	if rx <= 0 && ry <= 0 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := imaging.New(w, h, paper)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.NRGBAAt(x, y) != ink {
				continue
			}
			for dy := -ry; dy <= ry; dy++ {
				for dx := -rx; dx <= rx; dx++ {
					x2, y2 := x+dx, y+dy
					if x2 >= 0 && y2 >= 0 && x2 < w && y2 < h {
						out.SetNRGBA(x2, y2, ink)
					}
				}
			}
		}
	}
	return out
}

// columnBands splits a binarized image into the horizontal extents of its
// ink, left to right. Bands narrower than minWidth are noise and dropped;
// the rest are widened by pad on both sides, clamped to the image.
func columnBands(img *image.NRGBA, minWidth, pad int) []image.Rectangle {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	var bands []image.Rectangle
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minWidth {
			bands = append(bands, image.Rect(max(start-pad, 0), 0, min(end+pad, w), h))
		}
		start = -1
	}
	for x := 0; x < w; x++ {
		inked := false
		for y := 0; y < h; y++ {
			if img.NRGBAAt(x, y) == ink {
				inked = true
				break
			}
		}
		switch {
		case inked && start < 0:
			start = x
		case !inked:
			flush(x)
		}
	}
	flush(w)
	return bands
}
