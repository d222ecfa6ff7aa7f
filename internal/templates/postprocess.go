package templates

import "strings"

// EndOfTextMarkers are the spellings of llama.cpp's end-of-generation marker,
// checked in order.
var EndOfTextMarkers = []string{" [end of text]", "[end of text]"}

// llama.cpp echoes this CodeGeeX4 marker ahead of the completion.
const codeMiddleArtifact = "<|code_middle|>\n"

// TruncateAtEndOfText cuts out at the first marker of EndOfTextMarkers found in it.
func TruncateAtEndOfText(out string) string {
	for _, end := range EndOfTextMarkers {
		if before, _, found := strings.Cut(out, end); found {
			return before
		}
	}
	return out
}

// AfterLastMarker returns a cleanup step keeping only what follows the last
// occurrence of marker. Output without the marker is returned unchanged.
func AfterLastMarker(marker string) func(string) string {
	return func(out string) string {
		if i := strings.LastIndex(out, marker); i >= 0 {
			return out[i+len(marker):]
		}
		return out
	}
}
