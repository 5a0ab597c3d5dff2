// Package tools implements the two server-defined functions the model may
// invoke: create_artifact and create_document.
package tools

import "encoding/json"

// failure builds the structured error payload fed back to the model when a
// tool call cannot be honored. It is never surfaced as an HTTP error.
func failure(errMsg, detail string) string {
	payload := map[string]any{
		"success":     false,
		"error":       errMsg,
		"errorDetail": detail,
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

func success(fields map[string]any) string {
	payload := map[string]any{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	out, _ := json.Marshal(payload)
	return string(out)
}
