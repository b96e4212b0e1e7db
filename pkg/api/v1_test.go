package routing

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func newTestAPI(t *testing.T) humatest.TestAPI {
	_, api := humatest.New(t)
	Setup(api)
	return api
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/healthz")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())
}

func TestGetISBN(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/v1/isbn?isbn=9781408855898")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{
		"isbn": "978-1-4088-5589-8",
		"gtin": 9781408855898,
		"isbn10": "1408855895",
		"agency": "English language",
		"elements": {"prefix": 978, "group": 1, "registrant": "4088", "publication": "5589", "checkDigit": 8}
	}`, resp.Body.String())

	// ISBN-10 input resolves to the same book.
	resp = api.Get("/v1/isbn?isbn=0-306-40615-2")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{
		"isbn": "978-0-306-40615-7",
		"gtin": 9780306406157,
		"isbn10": "0306406152",
		"agency": "English language",
		"elements": {"prefix": 978, "group": 0, "registrant": "306", "publication": "40615", "checkDigit": 7}
	}`, resp.Body.String())
}

func TestGetISBNInvalid(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/v1/isbn?isbn=9781408855899")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "9781408855899")
	assert.Contains(t, resp.Body.String(), "check digit mismatch")

	resp = api.Get("/v1/isbn?isbn=9792123456789")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "no registration range assigned")

	// A missing query parameter is rejected by the schema.
	resp = api.Get("/v1/isbn")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestValidateISBN(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/v1/validate?isbn=9781408855898")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"input":"9781408855898","valid":true}`, resp.Body.String())

	// Checksum-valid numbers in unassigned ranges still validate.
	resp = api.Get("/v1/validate?isbn=9788730123459")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"input":"9788730123459","valid":true}`, resp.Body.String())

	resp = api.Get("/v1/validate?isbn=9781408855899")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"input":"9781408855899","valid":false}`, resp.Body.String())
}

func TestHyphenateISBN(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/v1/hyphenate?isbn=0306406152")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"isbn":"978-0-306-40615-7"}`, resp.Body.String())

	resp = api.Get("/v1/hyphenate?isbn=9788730123459")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "cannot hyphenate")
}

func TestGetStatisticsUnavailable(t *testing.T) {
	api := newTestAPI(t)

	// No database connection and nothing cached yet.
	resp := api.Get("/v1/statistics")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestGetSyncStatistics(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/v1/statistics/sync")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"isRunning":false`)
}

func TestSynchronizeRequiresToken(t *testing.T) {
	t.Setenv("ISBN_JWT_SECRET", "test-secret")
	api := newTestAPI(t)

	resp := api.Post("/v1/synchronize")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid token")

	resp = api.Post("/v1/synchronize", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSynchronizeWithToken(t *testing.T) {
	t.Setenv("ISBN_JWT_SECRET", "test-secret")
	api := newTestAPI(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	resp := api.Post("/v1/synchronize", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusAccepted, resp.Code)
	assert.JSONEq(t, `{"status":"started"}`, resp.Body.String())
}
