// Package request decodes and validates JSON request bodies.
package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/validator"
)

// maxJSONBody bounds JSON request bodies; datasets travel as multipart.
const maxJSONBody = 8 << 20

// DecodeJSON decodes the request body into dst and validates it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validator, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", entity.ErrInvalidParameter, err)
	}
	return v.Struct(dst)
}
