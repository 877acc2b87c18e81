package labels

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"ocrprep/internal/fileutil"
)

// legacyEncodings are tried in order when a labels CSV is not valid UTF-8.
// The PL-20k CSV has historically shipped in cp1250; iso-8859-2 covers other
// Central European exports.
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"windows-1250", charmap.Windows1250},
	{"iso-8859-2", charmap.ISO8859_2},
}

// EnsureUTF8 verifies that the file at path is valid UTF-8 and, when it is
// not, re-decodes it from the first legacy encoding that produces clean text
// and rewrites the file in place. It returns the encoding the file was read
// with and whether a rewrite happened.
func EnsureUTF8(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read csv: %w", err)
	}
	if utf8.Valid(data) {
		return "utf-8", false, nil
	}

	for _, candidate := range legacyEncodings {
		decoded, err := candidate.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		// Charmap decoders substitute U+FFFD for bytes the encoding does
		// not define; treat that as a wrong guess.
		if strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		if err := fileutil.WriteFileAtomic(path, decoded, 0o644); err != nil {
			return "", false, fmt.Errorf("rewrite csv as utf-8: %w", err)
		}
		return candidate.name, true, nil
	}

	return "", false, fmt.Errorf("csv %s is not valid UTF-8 and no legacy encoding matched", path)
}
