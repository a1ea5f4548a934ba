package freight

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches the first numeral in a value, with an optional
// decimal part separated by either "." or "," (Brazilian formatting).
var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// integerPattern matches the first plain integer in a value.
var integerPattern = regexp.MustCompile(`\d+`)

// notProvided lists the placeholder texts the generation step emits when an
// optional field is absent from the email. They normalize to zero instead of
// failing the parse.
var notProvided = map[string]bool{
	"n/a":             true,
	"não fornecido":   true,
	"(não fornecido)": true,
}

// FoldKey derives the canonical lookup key from a line label: lowercased,
// with spaces, slashes and dashes folded to underscores.
// "Destino/Estufagem" becomes "destino_estufagem".
func FoldKey(label string) string {
	key := strings.ToLower(label)
	key = strings.NewReplacer(" ", "_", "/", "_", "-", "_").Replace(key)
	return strings.TrimLeft(key, "_-")
}

// ParseLocation splits a free-text location on whitespace, taking the last
// token as the state code and the rest as the city. Values with fewer than
// two tokens are rejected rather than defaulted.
func ParseLocation(raw string) (Location, bool) {
	tokens := strings.Fields(raw)
	if len(tokens) < 2 {
		return Location{}, false
	}
	return Location{
		City:  strings.Join(tokens[:len(tokens)-1], " "),
		State: tokens[len(tokens)-1],
	}, true
}

// ParseNumber extracts the first numeral found anywhere in raw, treating a
// comma as the decimal separator. Surrounding words and units are ignored.
func ParseNumber(raw string) (float64, bool) {
	match := numberPattern.FindString(raw)
	if match == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseInt extracts the first integer found anywhere in raw.
func ParseInt(raw string) (int, bool) {
	match := integerPattern.FindString(raw)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsNotProvided reports whether raw is one of the recognized
// "not provided" sentinels.
func IsNotProvided(raw string) bool {
	return notProvided[strings.ToLower(strings.TrimSpace(raw))]
}
