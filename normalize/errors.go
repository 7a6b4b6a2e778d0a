package normalize

import (
	"fmt"

	"pms_metrics/models"
)

// ErrUnmappedStatus flags a source status string with no canonical mapping.
// The record carrying it is skipped, not dropped silently, so integration
// gaps stay visible in sync logs.
type ErrUnmappedStatus struct {
	Source models.SourceSystem
	Kind   string
	Raw    string
}

func (e ErrUnmappedStatus) Error() string {
	return fmt.Sprintf("unmapped %s status %q from %s", e.Kind, e.Raw, e.Source)
}
