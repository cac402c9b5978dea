// Package normalize converts the portal's free-text attribute encodings into
// numeric values usable in distance arithmetic. All functions are total: a
// value that cannot be parsed yields the documented default, never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// PenthouseFloor is the sentinel for "çatı katı" listings. It sits far above
// any real floor number so floor distance penalizes mismatches against it.
const PenthouseFloor = 99

// BasementFloor is the sentinel for "bodrum" listings.
const BasementFloor = -1

var firstIntPattern = regexp.MustCompile(`(\d+)`)

// affirmativeMarkers are the presence-indicating tokens the portal uses for
// amenity fields ("Var", "Mevcut", "Evet", "Krediye Uygun", "Eşyalı",
// "Açık Otopark" and so on).
var affirmativeMarkers = []string{
	"var",
	"mevcut",
	"evet",
	"uygun",
	"eşyalı",
	"otopark",
	"yes",
}

// firstInt extracts the first run of digits in raw. ok is false when raw
// contains no digits.
func firstInt(raw string) (int, bool) {
	match := firstIntPattern.FindString(raw)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HasDigit reports whether raw contains any digit token, i.e. whether the
// numeric parsers can extract a real value from it.
func HasDigit(raw string) bool {
	return firstIntPattern.MatchString(raw)
}

// RoomCount extracts the room tally from encodings like "3+1" or "2+1 Dubleks".
// Returns 0 when no digit token is present ("Stüdyo").
func RoomCount(raw string) int {
	n, _ := firstInt(raw)
	return n
}

// BuildingAge converts an age encoding to a representative year count:
// "0" stays 0, a "min-max" range becomes its floor-averaged midpoint,
// anything else yields its first integer token. Unparseable input returns 0.
func BuildingAge(raw string) int {
	if raw == "0" {
		return 0
	}
	if strings.Contains(raw, "-") {
		parts := strings.SplitN(raw, "-", 2)
		minAge, okMin := firstInt(parts[0])
		maxAge, okMax := firstInt(parts[1])
		if okMin && okMax {
			return (minAge + maxAge) / 2
		}
	}
	n, _ := firstInt(raw)
	return n
}

// FloorLocation converts a floor encoding to an integer: "Giriş" variants map
// to 0, "Bodrum" to BasementFloor, "Çatı" to PenthouseFloor, and numeric
// encodings to their first integer token. Defaults to 0.
func FloorLocation(raw string) int {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "giriş"):
		return 0
	case strings.Contains(lower, "bodrum"):
		return BasementFloor
	case strings.Contains(lower, "çatı"):
		return PenthouseFloor
	}
	n, _ := firstInt(raw)
	return n
}

// HasFeature reports whether an amenity value indicates presence. Booleans
// pass through, strings are matched case-insensitively against the
// affirmative markers, and nil or empty input is absence. Targets send
// booleans while stored listings carry free text; both meet here.
func HasFeature(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if v == "" {
			return false
		}
		lower := strings.ToLower(v)
		for _, marker := range affirmativeMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
		return false
	case nil:
		return false
	default:
		return false
	}
}
