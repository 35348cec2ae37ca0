package core

import "strconv"

// Stoplight is the scored state of a poverty indicator.
type Stoplight string

const (
	StoplightRed    Stoplight = "RED"
	StoplightYellow Stoplight = "YELLOW"
	StoplightGreen  Stoplight = "GREEN"
	StoplightNone   Stoplight = "NONE"
)

// stoplightCodes is the numeric code each state is exported as.
// Downstream CSV consumers depend on these exact values.
var stoplightCodes = map[Stoplight]int{
	StoplightRed:    1,
	StoplightYellow: 2,
	StoplightGreen:  3,
	StoplightNone:   0,
}

// Code returns the numeric export code and whether s is a known state.
func (s Stoplight) Code() (int, bool) {
	code, ok := stoplightCodes[s]
	return code, ok
}

// ParseStoplight returns the state matching value exactly.
func ParseStoplight(value string) (Stoplight, bool) {
	s := Stoplight(value)
	if _, ok := stoplightCodes[s]; !ok {
		return "", false
	}
	return s, true
}

// TranscodeIndicator maps a stoplight value to its numeric code string.
// Values that are not stoplight states are returned unchanged; most survey
// fields are plain text.
func TranscodeIndicator(value string) string {
	s, ok := ParseStoplight(value)
	if !ok {
		return value
	}
	code, _ := s.Code()
	return strconv.Itoa(code)
}
