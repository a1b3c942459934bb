package generation

import (
	"encoding/json"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// Normalize turns raw model text into something a JSON parser accepts, or
// "{}" when nothing usable can be recovered. Each step is a pure
// string-to-string transform applied in a fixed order; a later step never
// assumes an earlier one succeeded.
func Normalize(raw string) string {
	cleaned := applyRepairs(raw)
	if json.Valid([]byte(cleaned)) {
		return cleaned
	}
	// Last resort for malformations the targeted repairs don't cover. Only
	// an object or array counts as usable content.
	if fixed, err := jsonrepair.RepairJSON(cleaned); err == nil && json.Valid([]byte(fixed)) {
		trimmed := strings.TrimSpace(fixed)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return trimmed
		}
	}
	return "{}"
}

var (
	controlCharsRe  = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x{9f}]`)
	weekRangeRe     = regexp.MustCompile(`("weekNumber"\s*:\s*)(\d+\s*-\s*\d+)([,\s}])`)
	missingCommaRe  = regexp.MustCompile(`\}\s*\{`)
	singleQuoteKey  = regexp.MustCompile(`([{,]\s*)'([^']+)'\s*:`)
	singleQuoteVal  = regexp.MustCompile(`:\s*'([^']*)'(\s*[,}\]])`)
	outermostOpenRe = regexp.MustCompile(`[{\[]`)
)

func applyRepairs(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "{}"
	}

	cleaned = stripCodeFence(cleaned)
	cleaned = controlCharsRe.ReplaceAllString(cleaned, "")

	// "weekNumber": 6-7 is not a valid number token; quote the range so the
	// parser survives and the mapper can reduce it to its first integer.
	cleaned = weekRangeRe.ReplaceAllString(cleaned, `$1"$2"$3`)

	cleaned = missingCommaRe.ReplaceAllString(cleaned, "},{")
	cleaned = singleQuoteKey.ReplaceAllString(cleaned, `$1"$2":`)
	cleaned = singleQuoteVal.ReplaceAllString(cleaned, `: "$1"$2`)

	cleaned = sliceOutermost(cleaned)
	if strings.TrimSpace(cleaned) == "" {
		return "{}"
	}
	return cleaned
}

// stripCodeFence removes a surrounding markdown fence, with or without a
// language tag.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.Index(s, "\n")
	if nl < 0 {
		return s
	}
	body := s[nl+1:]
	end := strings.LastIndex(body, "```")
	if end < 0 {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(body[:end])
}

// sliceOutermost discards leading prose ("Here is the roadmap...") and
// trailing commentary around the outermost object or array.
func sliceOutermost(s string) string {
	loc := outermostOpenRe.FindStringIndex(s)
	if loc == nil {
		return s
	}
	start := loc[0]
	end := strings.LastIndexAny(s, "}]")
	if end <= start {
		return s
	}
	return s[start : end+1]
}
