package schema

import "sort"

// Schema is a map of data keys to their fields.
type Schema map[string]Field

// Validate checks data against the schema and returns every failure found,
// ordered by key. Keys not declared in the schema are ignored and nil values
// count as absent.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		field := schema[key]
		value, exists := data[key]
		if !exists || value == nil {
			if field.Required {
				errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			}
			continue
		}

		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
