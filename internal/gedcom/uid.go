package gedcom

import (
	"strings"

	"github.com/google/uuid"
)

// NewUID returns a new record identifier: a random UUID as 32 upper-case
// hex digits, which is unique without consulting the tree.
func NewUID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
