package reportparse

import "fmt"

// ErrMarkerNotFound names the layout marker a report scan never reached,
// rather than surfacing a raw parser failure. Marker drift is the usual
// symptom of an upstream report format change.
type ErrMarkerNotFound struct {
	Report string
	Marker string
}

func (e ErrMarkerNotFound) Error() string {
	return fmt.Sprintf("%s report: marker row %q not found", e.Report, e.Marker)
}
