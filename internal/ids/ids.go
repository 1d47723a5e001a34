package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id for stored entities.
func New() string {
	return ksuid.New().String()
}
