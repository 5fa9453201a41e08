package valueobjects

import (
	"strings"

	pkgerrors "nodetree/pkg/errors"
)

// Name is a trimmed, non-empty label. Node and property names share the
// rule but report different messages.
type Name struct {
	value string
}

// NewName trims raw and fails with emptyMsg if nothing is left.
func NewName(raw, emptyMsg string) (Name, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Name{}, pkgerrors.NewBusinessRuleError(emptyMsg)
	}
	return Name{value: trimmed}, nil
}

func (n Name) String() string {
	return n.value
}

func (n Name) Equals(other Name) bool {
	return n.value == other.value
}
