package util

import (
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

const utf8BOM = "\uFEFF"

// CleanCompletionText normalizes model output before it is returned or
// stored: leading BOM and NUL bytes are dropped, invalid UTF-8 is replaced and
// surrounding whitespace trimmed.
func CleanCompletionText(text, src string) string {
	text = strings.TrimPrefix(text, utf8BOM)

	if !utf8.ValidString(text) {
		log.Warnf("%s returned invalid UTF-8, replacing invalid chars", src)
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	if strings.IndexByte(text, 0) >= 0 {
		text = strings.ReplaceAll(text, "\x00", "")
	}

	return strings.TrimSpace(text)
}
