package term

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// buildDatum converts a Go value into its wire JSON form. Scalars, slices,
// string-keyed maps, json.RawMessage and structpb values are accepted;
// anything else is a build error rather than a silent coercion.
func buildDatum(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case json.Number:
		return v, nil
	case json.RawMessage:
		var out any
		if err := json.Unmarshal(v, &out); err != nil {
			return nil, fmt.Errorf("datum: invalid raw JSON: %w", err)
		}
		return out, nil
	case *structpb.Value:
		if v == nil {
			return nil, nil
		}
		return v.AsInterface(), nil
	case *structpb.Struct:
		if v == nil {
			return nil, nil
		}
		return v.AsMap(), nil
	case Term:
		return nil, fmt.Errorf("datum: a term is not a literal; pass it as a child term instead")
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			b, err := buildDatum(e)
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	case []string:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			b, err := buildDatum(e)
			if err != nil {
				return nil, err
			}
			out[k] = b
		}
		return out, nil
	default:
		return nil, fmt.Errorf("datum: unsupported value type %T", v)
	}
}
