package signature

import "strings"

// Stop identifies which candidate token ended a scan.
type Stop int

const (
	StopNone Stop = iota
	StopFirst
	StopSecond
)

func (s Stop) String() string {
	switch s {
	case StopFirst:
		return "first"
	case StopSecond:
		return "second"
	default:
		return "none"
	}
}

// Scan is the outcome of ScanUntil.
type Scan struct {
	Text string
	Stop Stop
}

// Matched reports whether a stop token ended the scan.
func (s Scan) Matched() bool {
	return s.Stop != StopNone
}

// ScanUntil concatenates lexeme text until one of up to two stop tokens shows up at
// top level, meaning both the parenthesis and the angle-bracket depth are zero. The
// stop token itself is consumed but not included in the text. A stop token seen
// inside nested brackets is ordinary text. Running out of input ends the scan with
// StopNone. With no stop tokens the scan consumes everything.
func (c Cursor) ScanUntil(stops ...string) (Scan, Cursor) {
	if len(stops) > 2 {
		stops = stops[:2]
	}

	var sb strings.Builder
	c.parenDepth, c.angleDepth = 0, 0
	for {
		text, next, ok := c.Next()
		if !ok {
			return Scan{Text: sb.String(), Stop: StopNone}, c
		}
		c = next

		if c.Balanced() {
			for i, stop := range stops {
				if text == stop {
					return Scan{Text: sb.String(), Stop: Stop(i + 1)}, c
				}
			}
		}

		sb.WriteString(text)

		switch text {
		case "(":
			c.parenDepth++
		case ")":
			c.parenDepth--
		case "<":
			c.angleDepth++
		case ">":
			c.angleDepth--
		}
	}
}

// ScanToEnd consumes the remaining lexemes and returns their text.
func (c Cursor) ScanToEnd() (string, Cursor) {
	scan, c := c.ScanUntil()
	return scan.Text, c
}
