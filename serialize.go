package taskfilter

import (
	"encoding/json"
	"fmt"

	"github.com/valyala/fastjson"
)

// maxPayloadDepth bounds the generic tree rebuilt from serialized text. A
// valid expression is at most object → groups → group → conditions →
// condition → array value → element deep; anything deeper is garbage and is
// cut off before it can recurse further.
const maxPayloadDepth = 8

// SerializeFilterExpression validates expr and renders it as JSON text for
// the storage collaborator. Validation runs first, so by the time the
// marshaller sees the expression every value is a scalar or a flat scalar
// array and cycles are impossible; json.Marshal's own cycle detection remains
// as a final guard for values smuggled in through the any-typed fields. The
// serialized text is capped at 50,000 characters.
func SerializeFilterExpression(expr *FilterExpression) (string, error) {
	validated, err := ValidateFilterExpression(expr)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(validated)
	if err != nil {
		return "", validationErr(-1, -1, ErrMalformedPayload, err.Error())
	}
	if len(data) > maxSerializedLength {
		return "", validationErr(-1, -1, ErrPayloadTooLarge, fmt.Sprintf("%d > %d", len(data), maxSerializedLength))
	}
	return string(data), nil
}

// DeserializeFilterExpression parses serialized expression text and fully
// re-validates it. The size cap is enforced before any parsing happens, and
// the result of a previous validation pass is never trusted: text straight
// out of storage goes through the same structural and content checks as a
// fresh request payload.
func DeserializeFilterExpression(text string) (*FilterExpression, error) {
	if len(text) > maxSerializedLength {
		return nil, validationErr(-1, -1, ErrPayloadTooLarge, fmt.Sprintf("%d > %d", len(text), maxSerializedLength))
	}

	parsed, err := fastjson.Parse(text)
	if err != nil {
		return nil, validationErr(-1, -1, ErrMalformedPayload, err.Error())
	}

	generic, err := fastjsonToAny(parsed, 0)
	if err != nil {
		return nil, err
	}
	return ValidateFilterExpression(generic)
}

// fastjsonToAny converts a fastjson value into the generic map/slice shape
// the validator consumes, refusing to descend past maxPayloadDepth.
func fastjsonToAny(v *fastjson.Value, depth int) (any, error) {
	if depth > maxPayloadDepth {
		return nil, validationErr(-1, -1, ErrMalformedPayload, "payload nested too deeply")
	}

	switch v.Type() {
	case fastjson.TypeNull:
		return nil, nil
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	case fastjson.TypeString:
		return string(v.GetStringBytes()), nil
	case fastjson.TypeNumber:
		return v.GetFloat64(), nil
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]any, 0, len(items))
		for _, item := range items {
			converted, err := fastjsonToAny(item, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	case fastjson.TypeObject:
		obj, _ := v.Object()
		out := make(map[string]any, obj.Len())
		var walkErr error
		obj.Visit(func(key []byte, item *fastjson.Value) {
			if walkErr != nil {
				return
			}
			converted, err := fastjsonToAny(item, depth+1)
			if err != nil {
				walkErr = err
				return
			}
			out[string(key)] = converted
		})
		if walkErr != nil {
			return nil, walkErr
		}
		return out, nil
	default:
		return nil, validationErr(-1, -1, ErrMalformedPayload, "unsupported JSON value")
	}
}
