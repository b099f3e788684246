// Package integrationtest provides server helpers used in end-to-end tests.
package integrationtest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-transfer/cmd/httpserver"
	"github.com/go-petr/pet-transfer/internal/transfergateway"
	"github.com/go-petr/pet-transfer/pkg/configpkg"
)

// SetupServer returns a test server starting at balance whose transfer
// service answers at once and succeeds with successRate.
func SetupServer(t *testing.T, balance string, successRate float64) *httpserver.Server {
	t.Helper()

	config := configpkg.Config{
		InitialBalance:      balance,
		TransferSuccessRate: successRate,
		MaxBodyBytes:        4096,
	}

	gin.SetMode(gin.ReleaseMode)

	gateway := transfergateway.NewSimulated(0, successRate)

	server, err := httpserver.New(zerolog.Nop(), config, gateway)
	if err != nil {
		t.Fatalf(`httpserver.New(logger, config, gateway) returned error: %v`, err)
	}

	return server
}

// Do sends a JSON request to server and decodes the response body into out
// when out is not nil. It returns the response status code.
func Do(t *testing.T, server http.Handler, method, url string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("json.Encode(%v) returned error: %v", body, err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("http.NewRequest(%v, %v) returned error: %v", method, url, err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if out != nil {
		if err := json.Unmarshal(recorder.Body.Bytes(), out); err != nil {
			t.Fatalf("json.Unmarshal(%s) returned error: %v", recorder.Body.String(), err)
		}
	}

	return recorder.Code
}
