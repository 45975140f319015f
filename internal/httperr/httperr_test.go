package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrBusiness("appointment_not_found"), http.StatusNotFound},
		{ErrBusiness("time_conflict"), http.StatusConflict},
		{ErrBusiness("too_soon"), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", ErrBusiness("insufficient_stock")), http.StatusConflict},
		{&pgconn.PgError{Code: "23P01"}, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ErrBusiness("invalid_state"))
	assert.True(t, IsBusiness(err, "invalid_state"))
	assert.False(t, IsBusiness(err, "time_conflict"))
	assert.False(t, IsBusiness(errors.New("invalid_state"), "invalid_state"))
}

func TestRespondHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Respond(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), "internal_error")
}
