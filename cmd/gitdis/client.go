// HTTP client helpers shared by the branch/get subcommands: they talk to
// a running `gitdis serve` process rather than building an in-process
// Coordinator, since branch state lives only in that process's memory.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

var serverURL string

// apiError is the shape internal/httpapi writes on a non-2xx response.
type apiError struct {
	Error string `json:"error"`
}

func httpPostJSON(url string, body interface{}) (*http.Response, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return http.Post(url, "application/json", bytes.NewReader(buf))
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func errorFromResponse(resp *http.Response, raw []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}

func unmarshalInto(raw []byte, v interface{}) error {
	return json.Unmarshal(raw, v)
}

// jsonRaw lets ui.Output.JSON re-print an already-marshaled response
// verbatim instead of round-tripping it through a Go struct.
func jsonRaw(raw []byte) json.RawMessage {
	return json.RawMessage(raw)
}
