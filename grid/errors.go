package grid

import "fmt"

// MalformedGridError reports grid arrays that disagree with the declared
// dimensions. It is always fatal and raised before any topology work.
type MalformedGridError struct {
	Keyword   string
	Got, Want int
	Reason    string
}

func (e *MalformedGridError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed grid: %s: %s", e.Keyword, e.Reason)
	}
	return fmt.Sprintf("malformed grid: %s has %d entries, expected %d", e.Keyword, e.Got, e.Want)
}
