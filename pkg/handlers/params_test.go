package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

func TestPathInt64(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/12", nil)
	req.SetPathValue("id", "12")
	id, err := pathInt64(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"abc", "0", "-3", ""} {
		req.SetPathValue("id", raw)
		_, err := pathInt64(req, "id")
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest), "raw %q", raw)
	}
}

func TestQueryParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?status=draft&limit=5&featured=true&min=0.5&blank=%20", nil)
	q := newQueryParams(req)

	assert.Equal(t, "draft", *q.String("status"))
	assert.Nil(t, q.String("blank"))
	assert.Nil(t, q.String("missing"))
	assert.Equal(t, 5, q.Int("limit", 50))
	assert.Equal(t, 50, q.Int("missing", 50))
	assert.True(t, q.Bool("featured", false))
	assert.True(t, q.Bool("missing", true))
	assert.Equal(t, 0.5, *q.OptionalFloat("min"))
	assert.NoError(t, q.Err())
}

func TestQueryParams_KeepsFirstError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=ten&featured=maybe", nil)
	q := newQueryParams(req)
	q.Int("limit", 10)
	q.Bool("featured", false)

	require.Error(t, q.Err())
	assert.True(t, errors.Is(q.Err(), apperrors.ErrBadRequest))
	assert.Contains(t, q.Err().Error(), "limit")
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, decodeJSON(req, &v))
	assert.Equal(t, "a", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nmae":"a"}`))
	err := decodeJSON(req, &v)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownField))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err = decodeJSON(req, &v)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err = decodeJSON(req, &v)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}
