package client

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// JSONTransform is a [TransformFunc] serializing the body with
// encoding/json. Field-name overrides belong in the body's json tags.
func JSONTransform(body any) (string, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling body: %w", err)
	}

	return string(b), nil
}

// FormTransform is a [TransformFunc] encoding the body as
// percent-escaped key=value pairs joined with '&'. It accepts
// url.Values or map[string]string; anything else is rejected rather
// than reflected over.
func FormTransform(body any) (string, error) {
	switch v := body.(type) {
	case url.Values:
		return v.Encode(), nil
	case map[string]string:
		vals := make(url.Values, len(v))
		for k, val := range v {
			vals.Set(k, val)
		}

		return vals.Encode(), nil
	default:
		return "", fmt.Errorf("form encoding unsupported type %T", body)
	}
}
