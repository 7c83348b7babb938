// Package form reads submitted bid form values from an HTTP request.
package form

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/render"
)

const maxMemory = 10 << 20

var ErrUnsupportedMediaType = errors.New("unsupported content type")

// Values returns the string fields of a form-encoded, multipart or JSON
// request body. Non-string values such as file parts are ignored. When a key
// repeats, the last value wins.
func Values(r *http.Request) (map[string]string, error) {
	const op = "lib.form.Values"

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var body map[string]any
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		values := make(map[string]string, len(body))
		for k, v := range body {
			if s, ok := v.(string); ok {
				values[k] = s
			}
		}
		return values, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return last(r.MultipartForm.Value), nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return last(r.PostForm), nil
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrUnsupportedMediaType)
	}
}

func last(in map[string][]string) map[string]string {
	values := make(map[string]string, len(in))
	for k, vs := range in {
		if len(vs) > 0 {
			values[k] = vs[len(vs)-1]
		}
	}
	return values
}
