package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// reader wraps one Tesseract client for all sections of a screenshot.
type reader struct {
	client *gosseract.Client
}

func newReader(language string) (*reader, error) {
	c := gosseract.NewClient()
	if err := c.SetLanguage(language); err != nil {
		c.Close()
		return nil, fmt.Errorf("tesseract language %q: %w", language, err)
	}
	return &reader{client: c}, nil
}

func (r *reader) Close() error { return r.client.Close() }

func (r *reader) read(img image.Image, mode gosseract.PageSegMode) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", err
	}
	if err := r.client.SetPageSegMode(mode); err != nil {
		return "", err
	}
	return r.client.Text()
}

// block reads a whole section as one block of lines.
func (r *reader) block(img *image.NRGBA) (string, error) {
	text, err := r.read(img, gosseract.PSM_SINGLE_BLOCK)
	if err != nil {
		return "", err
	}
	return cleanText(text), nil
}

// cells reads an indexed section cell by cell, left to right, emitting one
// "index N: value" line per cell. spread is the horizontal dilation that
// glues the glyphs of a cell together; older screens space them wider.
func (r *reader) cells(img *image.NRGBA, spread int) (string, error) {
	var b strings.Builder
	for i, band := range columnBands(dilate(img, spread, 1), 10, 3) {
		text, err := r.read(imaging.Crop(img, band), gosseract.PSM_SINGLE_LINE)
		if err != nil {
			return "", fmt.Errorf("cell %d: %w", i, err)
		}
		fmt.Fprintf(&b, "index %d: %s\n", i, oneLine(text))
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
