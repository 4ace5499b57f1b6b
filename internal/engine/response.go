package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
)

const maxErrorBody = 8192

// decodeResponse closes body and decodes it into out (skipped when out is
// nil). Numbers decode as json.Number so long values survive re-encoding.
func decodeResponse(op string, status int, isError bool, body io.ReadCloser, out any) error {
	defer func() {
		_ = body.Close()
	}()

	if isError {
		data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
		return domain.EngineErr(fmt.Errorf("%s returned error [%d]: %s", op, status, errorReason(data)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}

	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return domain.EngineErr(fmt.Errorf("decode %s response: %w", op, err))
	}
	return nil
}

// errorReason extracts error.reason from an engine error body, falling back
// to the raw text.
func errorReason(data []byte) string {
	var parsed struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && len(parsed.Error) > 0 {
		var detail struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		}
		if json.Unmarshal(parsed.Error, &detail) == nil && detail.Reason != "" {
			if detail.Type != "" {
				return detail.Type + ": " + detail.Reason
			}
			return detail.Reason
		}
		var s string
		if json.Unmarshal(parsed.Error, &s) == nil {
			return s
		}
	}
	return string(bytes.TrimSpace(data))
}

func encodeBody(body map[string]any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	return &buf, nil
}

func requestErr(op string, err error) error {
	return domain.EngineErr(fmt.Errorf("%s request failed: %w", op, err))
}
