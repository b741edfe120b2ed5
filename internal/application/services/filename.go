package services

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxFileNameLen = 100

var reservedNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// displayName reduces a client supplied file name to lowercase ASCII and
// swaps its extension for the sniffed one. The result is only ever shown
// back to users; blobs are addressed by id.
func displayName(original, sniffedExt string) string {
	s := strings.TrimSpace(strings.ReplaceAll(original, "\\", "/"))
	s = path.Base(s)
	if s == "." || s == ".." || s == "/" {
		s = ""
	}

	folded, _, err := transform.String(
		transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC),
		s,
	)
	if err == nil {
		s = folded
	}
	base := strings.TrimSuffix(s, path.Ext(s))

	var b strings.Builder
	b.Grow(len(base))
	dash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			dash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			dash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !dash {
				b.WriteRune('-')
				dash = true
			}
		}
	}

	base = strings.Trim(b.String(), "-")
	if base == "" {
		base = "file"
	}
	if _, bad := reservedNames[base]; bad {
		base = "_" + base
	}

	ext := strings.ToLower(sniffedExt)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for utf8.RuneCountInString(base)+len(ext) > maxFileNameLen && len(base) > 1 {
		_, size := utf8.DecodeLastRuneInString(base)
		base = base[:len(base)-size]
	}

	return base + ext
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
