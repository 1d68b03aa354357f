package source

import "fmt"

// InvalidInputError indicates the GeoJSON document failed to parse or
// contained an unsupported geometry kind.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid time zone source data: %s", e.Reason)
}
