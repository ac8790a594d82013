package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultBall is used when a label carries no fractional part.
const defaultBall = 1

// ParseOverBall parses "<over>" or "<over>.<ball>". The fractional part is an
// integer in its own right, so "16.10" is the tenth ball of over 16.
func ParseOverBall(label string) (over, ball int, err error) {
	s := strings.TrimSpace(label)
	whole, frac, hasFrac := strings.Cut(s, ".")

	over, err = strconv.Atoi(whole)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, label)
	}
	if !hasFrac {
		return over, defaultBall, nil
	}
	ball, err = strconv.Atoi(frac)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, label)
	}
	return over, ball, nil
}
