package generation

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalize_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		if got := Normalize(in); got != "{}" {
			t.Fatalf("Normalize(%q) = %q, want {}", in, got)
		}
	}
}

func TestNormalize_StripsCodeFence(t *testing.T) {
	cases := []string{
		"```json\n{\"a\":1}\n```",
		"```\n{\"a\":1}\n```",
	}
	for _, in := range cases {
		got := Normalize(in)
		if got != `{"a":1}` {
			t.Fatalf("Normalize(%q) = %q", in, got)
		}
	}
}

func TestNormalize_QuotesWeekNumberRange(t *testing.T) {
	in := `{"phases":[{"phaseName":"Intro","weekNumber": 6-7}]}`
	got := Normalize(in)
	if !json.Valid([]byte(got)) {
		t.Fatalf("result not valid JSON: %q", got)
	}
	if !strings.Contains(got, `"6-7"`) {
		t.Fatalf("range not quoted: %q", got)
	}
}

func TestNormalize_InsertsMissingCommas(t *testing.T) {
	in := `[{"a":1} {"b":2}]`
	got := Normalize(in)
	if !json.Valid([]byte(got)) {
		t.Fatalf("result not valid JSON: %q", got)
	}
	if !strings.Contains(got, "},{") {
		t.Fatalf("missing comma not inserted: %q", got)
	}
}

func TestNormalize_SingleQuotes(t *testing.T) {
	in := `{'name': 'Intro', "weekNumber": 1}`
	got := Normalize(in)
	if !json.Valid([]byte(got)) {
		t.Fatalf("result not valid JSON: %q", got)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(got), &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj["name"] != "Intro" {
		t.Fatalf("got %v", obj)
	}
}

func TestNormalize_SlicesSurroundingProse(t *testing.T) {
	in := "Here is the roadmap you asked for:\n{\"phases\":[]}\nLet me know if you need more."
	got := Normalize(in)
	if got != `{"phases":[]}` {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestNormalize_FixedPoint(t *testing.T) {
	inputs := []string{
		"```json\n[{\"phaseName\":\"Intro\",\"weekNumber\":\"1-2\"}]\n```",
		`{"phases":[{"phaseName":"Basics","weekNumber": 6-7}]}`,
		"prose before {\"a\": 1} prose after",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalize_UnrecoverableReturnsEmptyObject(t *testing.T) {
	if got := Normalize("total nonsense with no json at all"); got != "{}" {
		t.Fatalf("got %q, want {}", got)
	}
}

func TestNormalize_StripsControlCharacters(t *testing.T) {
	in := "{\"a\":\"x\x01y\x00z\"}"
	got := Normalize(in)
	if !json.Valid([]byte(got)) {
		t.Fatalf("result not valid JSON: %q", got)
	}
	if strings.ContainsRune(got, '\x01') || strings.ContainsRune(got, '\x00') {
		t.Fatalf("control char survived: %q", got)
	}
}
