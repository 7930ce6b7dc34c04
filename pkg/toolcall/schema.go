package toolcall

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// CompileSchema compiles a JSON Schema given as a generic document, for use
// with WithSchema.
func CompileSchema(doc map[string]interface{}) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// WithSchema wraps a unit of work so its payload is validated against schema
// before the work runs. A payload that fails validation surfaces as an
// execution error through the normal taxonomy.
func WithSchema[P, T any](fn Func[P, T], schema *gojsonschema.Schema) Func[P, T] {
	return func(ctx context.Context, payload P) (T, error) {
		var zero T

		result, err := schema.Validate(gojsonschema.NewGoLoader(payload))
		if err != nil {
			return zero, fmt.Errorf("validate payload: %w", err)
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				msgs = append(msgs, desc.String())
			}
			return zero, fmt.Errorf("payload validation failed: %s", strings.Join(msgs, "; "))
		}

		return fn(ctx, payload)
	}
}
