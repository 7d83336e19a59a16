package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// pathInt64 parses the integer path parameter name.
func pathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", apperrors.ErrBadRequest, name, raw)
	}
	return id, nil
}

// pathUUID parses the UUID path parameter name.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s %q", apperrors.ErrBadRequest, name, raw)
	}
	return id, nil
}

// queryParams reads typed query parameters, keeping the first parse error.
type queryParams struct {
	values url.Values
	err    error
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

// String returns nil when the parameter is absent or blank.
func (q *queryParams) String(name string) *string {
	v := strings.TrimSpace(q.values.Get(name))
	if v == "" {
		return nil
	}
	return &v
}

// StringOr returns the parameter or fallback.
func (q *queryParams) StringOr(name, fallback string) string {
	if v := q.String(name); v != nil {
		return *v
	}
	return fallback
}

func (q *queryParams) Bool(name string, fallback bool) bool {
	v := q.String(name)
	if v == nil {
		return fallback
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		q.fail(name, *v)
		return fallback
	}
	return b
}

func (q *queryParams) Int(name string, fallback int) int {
	v := q.String(name)
	if v == nil {
		return fallback
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		q.fail(name, *v)
		return fallback
	}
	return n
}

func (q *queryParams) OptionalInt64(name string) *int64 {
	v := q.String(name)
	if v == nil {
		return nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		q.fail(name, *v)
		return nil
	}
	return &n
}

func (q *queryParams) OptionalFloat(name string) *float64 {
	v := q.String(name)
	if v == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		q.fail(name, *v)
		return nil
	}
	return &f
}

// Err returns the first parse failure.
func (q *queryParams) Err() error {
	return q.err
}

func (q *queryParams) fail(name, raw string) {
	if q.err == nil {
		q.err = fmt.Errorf("%w: invalid %s %q", apperrors.ErrBadRequest, name, raw)
	}
}

// decodeJSON decodes a JSON body into v and rejects unknown keys.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownField, field)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", apperrors.ErrBadRequest)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", apperrors.ErrBadRequest, err)
	}
	return nil
}

// readBody returns the raw request body.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable body: %v", apperrors.ErrBadRequest, err)
	}
	return body, nil
}
