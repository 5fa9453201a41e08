package valueobjects

import (
	"encoding/json"

	"github.com/google/uuid"
)

// PropertyID identifies a node property.
type PropertyID struct {
	value uuid.UUID
}

func NewPropertyID() PropertyID {
	return PropertyID{value: newTimeOrdered()}
}

func ParsePropertyID(id string) (PropertyID, error) {
	u, err := parseIdentifier(id, "Invalid UUID format for PropertyID", "PropertyID must not be the nil UUID")
	if err != nil {
		return PropertyID{}, err
	}
	return PropertyID{value: u}, nil
}

func (id PropertyID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.value.String()
}

func (id PropertyID) Equals(other PropertyID) bool {
	return id.value == other.value
}

func (id PropertyID) IsZero() bool {
	return id.value == uuid.Nil
}

func (id PropertyID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}
