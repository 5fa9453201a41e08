package valueobjects

import (
	"encoding/json"

	"github.com/google/uuid"

	pkgerrors "nodetree/pkg/errors"
	"nodetree/pkg/validation"
)

// NodeID is a value object representing a unique node identifier.
// Construction is the only validation gate; a NodeID obtained from NewNodeID
// or ParseNodeID never needs checking again.
type NodeID struct {
	value uuid.UUID
}

// NewNodeID creates a new time-ordered NodeID
func NewNodeID() NodeID {
	return NodeID{value: newTimeOrdered()}
}

// ParseNodeID creates a NodeID from its canonical string form
func ParseNodeID(id string) (NodeID, error) {
	u, err := parseIdentifier(id, "Invalid UUID format for NodeID", "NodeID must not be the nil UUID")
	if err != nil {
		return NodeID{}, err
	}
	return NodeID{value: u}, nil
}

// MustParseNodeID is ParseNodeID for constants and tests
func MustParseNodeID(id string) NodeID {
	n, err := ParseNodeID(id)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.value.String()
}

// UUID returns the underlying UUID
func (id NodeID) UUID() uuid.UUID {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == uuid.Nil
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseNodeID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func newTimeOrdered() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

func parseIdentifier(s, invalidMsg, nilMsg string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err == nil && u == uuid.Nil {
		return uuid.Nil, pkgerrors.NewBusinessRuleError(nilMsg)
	}
	if err != nil || !validation.IsUUID(s) {
		return uuid.Nil, pkgerrors.NewBusinessRuleError(invalidMsg)
	}
	return u, nil
}
