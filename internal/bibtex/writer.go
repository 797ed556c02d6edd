package bibtex

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// entryStartRegex matches an entry header line: @type{key,
var entryStartRegex = regexp.MustCompile(`@\w+\s*\{\s*([^,]+),`)

// Format renders one entry in standard layout.
func Format(e Entry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, e.Key))
	for _, f := range e.Fields {
		b.WriteString(formatField(f))
	}
	b.WriteString("}\n")
	return b.String()
}

// FormatList renders multiple entries separated by blank lines.
func FormatList(entries []Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = Format(e)
	}
	return strings.Join(parts, "\n")
}

func formatField(f Field) string {
	return fmt.Sprintf("  %-12s = {%s},\n", f.Name, f.Value)
}

// Patch inserts new fields into existing entries without rewriting anything
// else: comments, spacing, and untouched entries pass through byte for byte.
// New fields are inserted directly after each entry's @type{key, header line.
// Keys with no pending patch are left alone; patches whose key never appears
// are silently unused (the caller validates keys against parsed entries).
func Patch(src []byte, patches map[string][]Field) []byte {
	if len(patches) == 0 {
		return src
	}

	// Copy so consuming patches doesn't mutate the caller's map.
	pending := make(map[string][]Field, len(patches))
	for k, v := range patches {
		pending[k] = v
	}

	var out bytes.Buffer
	lines := splitLinesKeepEnds(src)

	for _, line := range lines {
		out.Write(line)

		m := entryStartRegex.FindSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(string(m[1]))
		fields, ok := pending[key]
		if !ok {
			continue
		}
		for _, f := range fields {
			out.WriteString(formatField(f))
		}
		delete(pending, key)
	}

	return out.Bytes()
}

// splitLinesKeepEnds splits src into lines, each retaining its trailing
// newline so the output reassembles to the exact input.
func splitLinesKeepEnds(src []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, c := range src {
		if c == '\n' {
			lines = append(lines, src[start:i+1])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return lines
}
