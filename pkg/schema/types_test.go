package schema_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/botforge/pkg/schema"
)

func TestTypes(t *testing.T) {
	tests := []struct {
		name  string
		typ   schema.Type
		value any
		ok    bool
	}{
		{"String", schema.String(), "hi", true},
		{"String Rejects Int", schema.String(), 3, false},
		{"Int", schema.Int(), 3, true},
		{"Int From JSON Float", schema.Int(), float64(4), true},
		{"Int Rejects Fraction", schema.Int(), 4.5, false},
		{"Int From json.Number", schema.Int(), json.Number("12"), true},
		{"Int Rejects String", schema.Int(), "12", false},
		{"Bool", schema.Bool(), true, true},
		{"Bool Rejects String", schema.Bool(), "true", false},
		{"Slice", schema.Slice(schema.String()), []any{"a", "b"}, true},
		{"Slice Bad Element", schema.Slice(schema.String()), []any{"a", 1}, false},
		{"Slice Rejects Scalar", schema.Slice(schema.String()), "a", false},
		{"Enum", schema.Enum("goto", "url"), "url", true},
		{"Enum Rejects Unknown", schema.Enum("goto", "url"), "jump", false},
		{"Object", schema.Object(schema.Schema{"id": schema.Required(schema.String())}), map[string]any{"id": "x"}, true},
		{"Object YAML Map", schema.Object(schema.Schema{"id": schema.Required(schema.String())}), map[any]any{"id": "x"}, true},
		{"Object Missing Required", schema.Object(schema.Schema{"id": schema.Required(schema.String())}), map[string]any{}, false},
		{"Object Rejects Scalar", schema.Object(schema.Schema{}), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.typ.Validate(tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "[string]", schema.Slice(schema.String()).Name())
	assert.Equal(t, "enum(a|b)", schema.Enum("b", "a").Name())
	assert.Equal(t, "object", schema.Object(nil).Name())
}

func TestCustom(t *testing.T) {
	positive := schema.Custom("positive", func(v any) error {
		i, ok := v.(int)
		if !ok || i <= 0 {
			return fmt.Errorf("must be a positive int")
		}
		return nil
	})
	assert.Equal(t, "positive", positive.Name())
	assert.NoError(t, positive.Validate(2))
	assert.Error(t, positive.Validate(-2))
}
