package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extraction is the first JSON object found in a model response.
type Extraction struct {
	JSON json.RawMessage

	// Start and End are byte offsets of the object in the scanned text.
	// When Sanitized is true they refer to the sanitized copy, not the raw text.
	Start int
	End   int

	ViaMarker bool
	Sanitized bool
}

// ExtractError reports that no JSON object could be recovered.
type ExtractError struct {
	Length     int // bytes scanned
	Candidates int // '{' offsets where a parse was attempted
}

func (e *ExtractError) Error() string {
	last := e.Length - 1
	if last < 0 {
		last = 0
	}
	return fmt.Sprintf("no JSON object found in response (scanned offsets 0-%d, %d candidate positions tried)",
		last, e.Candidates)
}

func (e *ExtractError) Unwrap() error { return ErrInvalidOutput }

// ExtractFirstJSON locates the first syntactically complete JSON object in raw.
//
// If marker is non-empty and present, the text after it is scanned first.
// Otherwise, or if that fails, every '{' offset in raw is tried left to right
// with a streaming decoder that stops at the end of the first value, so
// trailing prose (even prose with stray braces) is ignored. As a last resort
// the scan is repeated on a copy with comments removed and ".5"-style numbers
// fixed. Failed attempts are skipped silently.
func ExtractFirstJSON(raw, marker string) (*Extraction, error) {
	if marker != "" {
		if idx := strings.Index(raw, marker); idx >= 0 {
			base := idx + len(marker)
			if ext, _ := scanFirstObject(raw[base:]); ext != nil {
				ext.Start += base
				ext.End += base
				ext.ViaMarker = true
				return ext, nil
			}
		}
	}

	ext, candidates := scanFirstObject(raw)
	if ext != nil {
		return ext, nil
	}

	sanitized := normalizeLeadingDecimalNumbers(stripJSONComments(raw))
	if sanitized != raw {
		if ext, _ := scanFirstObject(sanitized); ext != nil {
			ext.Sanitized = true
			return ext, nil
		}
	}

	return nil, &ExtractError{Length: len(raw), Candidates: candidates}
}

// scanFirstObject returns the first decodable object and the number of
// offsets tried.
func scanFirstObject(s string) (*Extraction, int) {
	candidates := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		candidates++

		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var msg json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			continue
		}
		return &Extraction{
			JSON:  msg,
			Start: i,
			End:   i + int(dec.InputOffset()),
		}, candidates
	}
	return nil, candidates
}

// stripJSONComments removes C-style line comments (// ...) outside of JSON string
// values. LLMs sometimes emit comments in JSON output despite instructions not to.
func stripJSONComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}

		if c == '\\' && inString {
			b.WriteByte(c)
			escaped = true
			continue
		}

		if c == '"' {
			b.WriteByte(c)
			inString = !inString
			continue
		}

		if inString {
			b.WriteByte(c)
			continue
		}

		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		}

		if c == '/' && i+1 < len(s) && s[i+1] == '*' {
			i += 2
			for i+1 < len(s) {
				if s[i] == '*' && s[i+1] == '/' {
					i++
					break
				}
				i++
			}
			continue
		}

		b.WriteByte(c)
	}

	return b.String()
}

// normalizeLeadingDecimalNumbers rewrites invalid JSON numeric literals such as
// ".8" or "-.3" into valid forms "0.8" and "-0.3" outside string values.
func normalizeLeadingDecimalNumbers(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}

		if c == '\\' && inString {
			b.WriteByte(c)
			escaped = true
			continue
		}

		if c == '"' {
			b.WriteByte(c)
			inString = !inString
			continue
		}

		if inString {
			b.WriteByte(c)
			continue
		}

		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && isNumericBoundary(prevNonSpace(s, i-1)) {
			b.WriteByte('0')
		}

		b.WriteByte(c)
	}

	return b.String()
}

func prevNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\n' && s[i] != '\r' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func isNumericBoundary(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
