package tabular

import (
	"strings"
)

// WhitespaceSeparator splits fields on runs of spaces and tabs.
const WhitespaceSeparator = `\s+`

// sniffLines is how many non-blank leading lines take part in sniffing.
const sniffLines = 20

// sniffCandidates are tried in order; ties keep the earlier candidate.
var sniffCandidates = []string{",", "\t", ";", "|"}

// ExtensionSeparator returns the separator implied by a file extension
// (including the dot, lower case). ok is false for unknown extensions.
func ExtensionSeparator(ext string) (sep string, ok bool) {
	switch ext {
	case ".csv":
		return ",", true
	case ".tsv", ".tab":
		return "\t", true
	case ".txt", ".dat":
		return WhitespaceSeparator, true
	default:
		return "", false
	}
}

// SniffSeparator guesses the separator from the leading lines of content.
//
// A candidate wins when it appears the same non-zero number of times on every
// sampled line; the candidate with the most fields per line is preferred.
// Content without a consistent candidate falls back to whitespace splitting if
// any line contains blanks, otherwise to a comma (one column per line).
func SniffSeparator(content string) string {
	lines := sampleLines(content, sniffLines)
	if len(lines) == 0 {
		return ","
	}

	best, bestCount := "", 0
	for _, cand := range sniffCandidates {
		count := strings.Count(lines[0], cand)
		if count == 0 || count <= bestCount {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, cand) != count {
				consistent = false
				break
			}
		}
		if consistent {
			best, bestCount = cand, count
		}
	}
	if best != "" {
		return best
	}

	for _, line := range lines {
		if strings.ContainsAny(strings.TrimSpace(line), " \t") {
			return WhitespaceSeparator
		}
	}
	return ","
}

// resolveSeparator picks the effective separator for a text file.
func resolveSeparator(cfg Config, ext, content string) string {
	if cfg.Separator != nil && *cfg.Separator != "" {
		return *cfg.Separator
	}
	if sep, ok := ExtensionSeparator(ext); ok {
		return sep
	}
	return SniffSeparator(content)
}

func sampleLines(content string, max int) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}
