package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/dmitrijs2005/edutrack/internal/logging"
	"github.com/dmitrijs2005/edutrack/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestFail_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	auth := &fakeAuth{}
	h := NewServer(Services{Auth: auth}, fakePinger{}, cfg, logging.NewJSONLogger(&buf, slog.LevelDebug)).Router()

	body := `{"username":"ann","email":"ann@example.com","password":"secret1"}`

	auth.err = common.NewError(common.ErrorConflict, "Email or username already in use")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)))
	require.Equal(t, http.StatusConflict, rr.Code)

	auth.err = errBoom{}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "boom")

	var rejected, failed map[string]any
	for _, rec := range logLines(t, &buf) {
		switch rec["msg"] {
		case "request rejected":
			rejected = rec
		case "Failed to sign up":
			failed = rec
		}
	}
	require.NotNil(t, rejected)
	assert.Equal(t, "DEBUG", rejected["level"])
	assert.Equal(t, 409.0, rejected["status"])

	require.NotNil(t, failed)
	assert.Equal(t, "ERROR", failed["level"])
	assert.Equal(t, "boom", failed["error"])
}

func TestAccuracy_MarshalJSON(t *testing.T) {
	cases := []struct {
		in   accuracy
		want string
	}{
		{accuracy{}, `0`},
		{accuracy{value: 75, attempted: true}, `"75.0"`},
		{accuracy{value: 6.3, attempted: true}, `"6.3"`},
		{accuracy{value: 0, attempted: true}, `"0.0"`},
	}
	for _, tc := range cases {
		got, err := json.Marshal(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(got))
	}
}
