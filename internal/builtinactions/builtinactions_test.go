package builtinactions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/builtinactions"
	"github.com/skull8888888/dagrs/internal/envvar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintActionProducesEmptyOutput(t *testing.T) {
	act := builtinactions.NewPrint()
	out, err := act.Run(context.Background(), action.NewInput(nil), envvar.New())
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}

func TestEnvVarsActionReadsProcessEnvironment(t *testing.T) {
	require.NoError(t, os.Setenv("DAGRS_TEST_VAR", "present"))
	defer os.Unsetenv("DAGRS_TEST_VAR")

	act := builtinactions.NewEnvVars()
	out, err := act.Run(context.Background(), action.NewInput(nil), envvar.New())
	require.NoError(t, err)

	all, ok := action.OutputAs[map[string]string](out)
	require.True(t, ok)
	assert.Equal(t, "present", all["DAGRS_TEST_VAR"])
}

func TestHTTPRequestActionCapturesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("hi"))
	}))
	defer srv.Close()

	act := builtinactions.NewHTTPRequest(nil, http.MethodGet, srv.URL)
	out, err := act.Run(context.Background(), action.NewInput(nil), envvar.New())
	require.NoError(t, err)

	resp, ok := action.OutputAs[builtinactions.HTTPResponse](out)
	require.True(t, ok)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "hi", resp.Body)
}
