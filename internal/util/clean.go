package util

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Typographic characters that subtitle files often carry, mapped to the
// plain forms the summarizer tokenizes cleanly.
var charReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201C", "\"", "\u201D", "\"",
	"\u2013", "-", "\u2014", "--", "\u2026", "...", "\u00a0", " ",
	"\u200b", "", "\u200e", "", "\u200f", "",
)

// CleanSubtitleBytes strips a UTF-8 BOM, repairs invalid UTF-8 and
// normalizes typographic punctuation. src is only used for logging.
func CleanSubtitleBytes(raw []byte, src string) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if !utf8.Valid(raw) {
		log.Warnf("%s: invalid UTF-8, replacing invalid chars", src)
		raw = bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError)))
	}

	str := charReplacer.Replace(string(raw))
	if !utf8.ValidString(str) {
		return "", fmt.Errorf("invalid UTF-8 after replacements: %s", src)
	}
	return str, nil
}
