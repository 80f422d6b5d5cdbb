package dataset

import (
	"strconv"
	"strings"
)

var groupLetters = [...]string{1: "A", 2: "B", 3: "C", 4: "D", 5: "E", 6: "F", 7: "G", 8: "H"}

// GroupLetter maps a group code 1..8 to its letter A..H.
func GroupLetter(code int) (string, bool) {
	if code < 1 || code >= len(groupLetters) {
		return "", false
	}
	return groupLetters[code], true
}

// parseGroup accepts a numeric code or an already-mapped letter.
func parseGroup(team, cell string) (string, error) {
	s := strings.TrimSpace(cell)
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'H' {
		return s, nil
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		// "3.0" from float-typed exports.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return "", &MappingError{Team: team, Code: cell}
		}
		code = int(f)
	}
	letter, ok := GroupLetter(code)
	if !ok {
		return "", &MappingError{Team: team, Code: cell}
	}
	return letter, nil
}
