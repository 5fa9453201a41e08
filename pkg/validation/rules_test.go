package validation

import (
	"encoding/json"
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "nodetree/pkg/errors"
)

type prop struct {
	Name  string
	Value float64
}

type payload struct {
	ParentID   *string
	Name       string
	Properties []prop
}

var payloadRule = Object(
	Field("parentNodeId", func(p payload) *string { return p.ParentID }, Nullable(UUID("Invalid UUID"))),
	Field("name", func(p payload) string { return p.Name }, NonBlank("Name cannot be empty")),
	Field("properties", func(p payload) []prop { return p.Properties }, Each(Object(
		Field("name", func(p prop) string { return p.Name }, NonBlank("Property name cannot be empty")),
		Field("value", func(p prop) float64 { return p.Value }, Finite("Property value must be a valid number")),
	))),
)

func strPtr(s string) *string { return &s }

func TestObjectAccumulatesEveryIssue(t *testing.T) {
	res := Check(payload{
		ParentID: strPtr("not-a-uuid"),
		Name:     "   ",
		Properties: []prop{
			{Name: "ok", Value: 1},
			{Name: "", Value: math.NaN()},
		},
	}, payloadRule)

	require.False(t, res.OK())
	assert.Equal(t, []Issue{
		{Path: []any{"parentNodeId"}, Message: "Invalid UUID"},
		{Path: []any{"name"}, Message: "Name cannot be empty"},
		{Path: []any{"properties", 1, "name"}, Message: "Property name cannot be empty"},
		{Path: []any{"properties", 1, "value"}, Message: "Property value must be a valid number"},
	}, res.Issues())
}

func TestValidResultForwardsValueUnchanged(t *testing.T) {
	in := payload{Name: "  AlphaPC  ", Properties: []prop{{Name: "Height", Value: -0.5}}}
	res := Check(in, payloadRule)

	require.True(t, res.OK())
	assert.Equal(t, in, res.Value())
	assert.NoError(t, res.Err("Invalid command"))
}

func TestResultErrIsInvalidInput(t *testing.T) {
	err := Check(payload{}, payloadRule).Err("Invalid command")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsInvalidInput(err))
	assert.Len(t, pkgerrors.GetAppError(err).Violations, 1)
}

func TestFinite(t *testing.T) {
	rule := Finite("bad")
	for _, v := range []float64{0, -1, 2.41, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		assert.Empty(t, rule(v), "%v", v)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Len(t, rule(v), 1, "%v", v)
	}
}

func TestNumber(t *testing.T) {
	rule := Number("Property value must be a valid number")
	assert.Empty(t, rule(float64(32000)))
	assert.Empty(t, rule(json.Number("2.41")))
	assert.Len(t, rule("abc"), 1)
	assert.Len(t, rule(nil), 1)
	assert.Len(t, rule(true), 1)
	assert.Len(t, rule(json.Number("x")), 1)
}

func TestIsUUID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"00000000-0000-7000-a000-100000000001", true},
		{"0190a6f0-3c2b-7d4e-8f00-123456789abc", true},
		{"550e8400-e29b-41d4-a716-446655440000", true},
		{"00000000-0000-0000-0000-000000000000", false},
		{"10000000-0000-0000-0000-000000000000", false},
		{"550e8400e29b41d4a716446655440000", false},
		{"{550e8400-e29b-41d4-a716-446655440000}", false},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUUID(tt.in))
		})
	}
}

func TestExactlyOne(t *testing.T) {
	type sel struct{ id, path string }
	rule := ExactlyOne("Provide exactly one of nodeId or path",
		func(s sel) bool { return s.id != "" },
		func(s sel) bool { return s.path != "" },
	)
	assert.Empty(t, rule(sel{id: "x"}))
	assert.Empty(t, rule(sel{path: "/A"}))
	assert.Len(t, rule(sel{}), 1)
	assert.Len(t, rule(sel{id: "x", path: "/A"}), 1)
}

func TestMatchesAndWhen(t *testing.T) {
	re := regexp.MustCompile(`^/.+$`)
	rule := When(func(s string) bool { return s != "skip" }, Matches(re, "Path must start with a slash and not be empty"))
	assert.Empty(t, rule("/AlphaPC"))
	assert.Empty(t, rule("skip"))
	assert.Len(t, rule("/"), 1)
	assert.Len(t, rule("AlphaPC"), 1)
}

func TestRequired(t *testing.T) {
	rule := Required("name is required", NonBlank("Name cannot be empty"))
	assert.Equal(t, []Issue{{Path: []any{}, Message: "name is required"}}, rule(nil))
	assert.Equal(t, []Issue{{Path: []any{}, Message: "Name cannot be empty"}}, rule(strPtr(" ")))
	assert.Empty(t, rule(strPtr("x")))
}

func TestValidateStruct(t *testing.T) {
	type cfg struct {
		Driver string `validate:"oneof=memory postgres"`
		Port   int    `validate:"min=1"`
	}
	assert.Empty(t, ValidateStruct(cfg{Driver: "memory", Port: 8080}))

	issues := ValidateStruct(cfg{Driver: "sqlite", Port: 0})
	require.Len(t, issues, 2)
	assert.Equal(t, []any{"Driver"}, issues[0].Path)
	assert.Equal(t, "Driver must be one of: memory, postgres", issues[0].Message)
	assert.Equal(t, "Port must be at least 1", issues[1].Message)
}
