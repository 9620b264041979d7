package database

import "unicode/utf8"

// TruncationMarker joins the kept head and tail of a truncated text.
const TruncationMarker = "\n\n[... truncated ...]\n\n"

// TruncateText keeps the head and the tail of text so the result fits in
// maxBytes. The halves are cut on rune boundaries. A non-positive limit
// disables truncation.
func TruncateText(text string, maxBytes int) (string, bool) {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text, false
	}

	half := (maxBytes - len(TruncationMarker)) / 2
	if half <= 0 {
		return text[:runeFloor(text, maxBytes)], true
	}

	head := text[:runeFloor(text, half)]
	tail := text[runeCeil(text, len(text)-half):]
	return head + TruncationMarker + tail, true
}

// runeFloor moves i back to the start of the rune containing it.
func runeFloor(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil moves i forward to the next rune start.
func runeCeil(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
