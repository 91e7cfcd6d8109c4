package formatting

import (
	"bytes"
	"encoding/json"
)

// indentJSON encodes v with two-space indentation. HTML escaping is off so
// mail commands such as "<%r>" print as written.
func indentJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
