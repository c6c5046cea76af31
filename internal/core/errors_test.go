package core

import (
	"errors"
	"net/http"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("missing id")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("restaurant r1")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Upstream(errors.New("timeout"), "fetch menu")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestKindsSurviveWrapping(t *testing.T) {
	err := eris.Wrap(NotFound("restaurant r9"), "chat")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.False(t, eris.Is(err, ErrValidation))
}

func TestPublicMessage(t *testing.T) {
	assert.Contains(t, PublicMessage(Validation("missing id")), "missing id")
	assert.Contains(t, PublicMessage(NotFound("restaurant r1")), "restaurant r1 not found")

	up := Upstream(errors.New("GET https://x.example/?key=SECRET: 403"), "fetch menu")
	assert.Equal(t, "upstream extraction failed", PublicMessage(up))
	assert.Equal(t, "internal server error", PublicMessage(eris.Wrap(errors.New("open /data/restaurants.json: denied"), "save")))
}
