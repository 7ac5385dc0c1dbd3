// iojson are utilities for reading and writing JSON IO from a
// command line interface perspective
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

func jsonError(msg string, jsonErr error) string {
	// Use json.Marshal to properly escape strings
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// WriteWith writes obj as indented JSON to w. Marshal failures are reported
// on ew as a JSON error object.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, jsonError("error marshaling in iojson.WriteWith", err))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single line of JSON, for JSON-lines output.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
