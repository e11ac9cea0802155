package ocr

import "strings"

// snippet returns a shortened version of text for logging.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// cleanText keeps the line structure of Tesseract output but turns tabs into
// spaces, trims each line and drops blank ones. Tabs separate candidates
// downstream and must not survive.
func cleanText(t string) string {
	t = strings.ReplaceAll(t, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\t", " ")
	var lines []string
	for _, l := range strings.Split(t, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// oneLine collapses whitespace for single-line reads such as damage cells.
func oneLine(t string) string {
	return strings.Join(strings.Fields(t), " ")
}
