package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mitchellh/mapstructure"

	"github.com/jonesrussell/north-cloud/query-api/internal/domain"
)

// maxBodyBytes bounds POST argument bodies.
const maxBodyBytes = 1 << 20

// requestArguments merges a JSON object body (POST) with the query string.
// Query parameters win when both name the same argument.
func requestArguments(c *gin.Context) (map[string]any, error) {
	args := map[string]any{}

	if c.Request.Method == http.MethodPost && c.Request.Body != nil {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			return nil, domain.ParseErr("read request body: %v", err)
		}
		if len(bytes.TrimSpace(body)) > 0 {
			dec := json.NewDecoder(bytes.NewReader(body))
			dec.UseNumber()

			var decoded any
			if err := dec.Decode(&decoded); err != nil {
				return nil, domain.ParseErr("request body is not valid JSON: %v", err)
			}
			// Non-object bodies carry no arguments.
			if obj, ok := decoded.(map[string]any); ok {
				for k, v := range obj {
					args[k] = v
				}
			}
		}
	}

	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}
	return args, nil
}

// decodeArguments converts loosely typed arguments into QueryArgs. Strings
// are accepted for numbers and numbers for strings.
func decodeArguments(raw map[string]any) (domain.QueryArgs, error) {
	var args domain.QueryArgs
	if err := mapstructure.WeakDecode(raw, &args); err != nil {
		return domain.QueryArgs{}, domain.ParseErr("invalid arguments: %v", err)
	}
	args.From = strings.TrimSpace(args.From)
	args.To = strings.TrimSpace(args.To)
	return args, nil
}

// splitFields parses the comma-separated field list of /agg/<fields>.
func splitFields(param string) []string {
	param = strings.Trim(param, "/")
	if param == "" {
		return nil
	}

	var fields []string
	for _, f := range strings.Split(param, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
