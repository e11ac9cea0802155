package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"pfdb/pkg/weapon"
)

// SignalLine opens every dump. Setting it as the parse signal marker skips
// anything a tool printed before the capture.
const SignalLine = "Does the file exist? True"

// Capture reads the statistics screenshot at path and renders the text dump
// consumed by the parser: the signal line, then one "===== Name =====" block
// per section of the layout.
func Capture(path string, layout Layout, id weapon.ID) (string, error) {
	secs, err := layout.For(id.Kind())
	if err != nil {
		return "", err
	}
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open screenshot: %w", err)
	}
	r, err := newReader(layout.Language)
	if err != nil {
		return "", err
	}
	defer r.Close()

	spread := 2
	if id.Version.IsLegacy() {
		spread = 4
	}
	var b strings.Builder
	b.WriteString(SignalLine)
	b.WriteByte('\n')
	for _, s := range secs {
		text, err := captureSection(r, img, s, layout, spread)
		if err != nil {
			return "", fmt.Errorf("section %s: %w", s.Name, err)
		}
		log.Debug().Str("section", s.Name).Str("text", snippet(text, 120)).Msg("section read")
		writeSection(&b, s.Name, text)
	}
	return b.String(), nil
}

func captureSection(r *reader, img image.Image, s Section, layout Layout, spread int) (string, error) {
	rect := s.Rect()
	if !rect.In(img.Bounds()) {
		return "", fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, rect, img.Bounds())
	}
	crop := prepare(imaging.Crop(img, rect), layout.ResizeScale, layout.Threshold)
	if s.Indexed {
		return r.cells(crop, spread)
	}
	return r.block(crop)
}

func writeSection(b *strings.Builder, name, text string) {
	fmt.Fprintf(b, "===== %s =====\n", name)
	if text != "" {
		b.WriteString(text)
		b.WriteByte('\n')
	}
}
