package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
	"github.com/Team-Lightning-LLC/montecarlo/tests/common"
)

func multipartUpload(t *testing.T, filename string, content []byte) (string, io.Reader) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType(), &buf
}

func fetchStatuses(t *testing.T, env *common.Env) map[models.StatusSlot]models.Status {
	t.Helper()
	resp, err := env.HTTPGet("/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var statusResp struct {
		Statuses []models.Status `json:"statuses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statusResp))

	byName := make(map[models.StatusSlot]models.Status, len(statusResp.Statuses))
	for _, st := range statusResp.Statuses {
		byName[st.Slot] = st
	}
	return byName
}

func TestParseUploadReplacesPortfolio(t *testing.T) {
	env := common.NewEnv(t)
	defer env.Cleanup()

	contentType, body := multipartUpload(t, "overview.docx", []byte("fake docx bytes"))
	resp, err := env.HTTPPost("/api/parse", contentType, body)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var result struct {
		Status    string          `json:"status"`
		Portfolio json.RawMessage `json:"portfolio"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()
	assert.Equal(t, "ok", result.Status)
	assert.Contains(t, string(result.Portfolio), "accounts")

	assert.Equal(t, 1, env.Upstream.ParseCalls())

	resp, err = env.HTTPGet("/api/portfolio")
	require.NoError(t, err)
	stored, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(stored), "\"balance\": 100000")

	statuses := fetchStatuses(t, env)
	assert.Equal(t, models.StatusLevelNormal, statuses[models.StatusSlotParse].Level)
	assert.Equal(t, "Parse complete", statuses[models.StatusSlotParse].Text)
}

func TestParseFailureKeepsPriorPortfolio(t *testing.T) {
	env := common.NewEnv(t)
	defer env.Cleanup()

	resp, err := env.HTTPPut("/api/portfolio", "application/json", strings.NewReader(samplePortfolio))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	env.Upstream.SetParseHandler(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "not a docx"}`))
	})

	contentType, body := multipartUpload(t, "notes.txt", []byte("plain text"))
	resp, err = env.HTTPPost("/api/parse", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 502, resp.StatusCode)

	// The failed parse does not disturb the loaded portfolio.
	resp, err = env.HTTPGet("/api/portfolio")
	require.NoError(t, err)
	stored, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(stored), "\"balance\": 250000")

	statuses := fetchStatuses(t, env)
	assert.Equal(t, models.StatusLevelError, statuses[models.StatusSlotParse].Level)
	assert.Equal(t, "Parse failed", statuses[models.StatusSlotParse].Text)
}

func TestParseWithoutFile(t *testing.T) {
	env := common.NewEnv(t)
	defer env.Cleanup()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file attached"))
	require.NoError(t, w.Close())

	resp, err := env.HTTPPost("/api/parse", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 412, resp.StatusCode)
	assert.Equal(t, 0, env.Upstream.ParseCalls())

	statuses := fetchStatuses(t, env)
	assert.Equal(t, models.StatusLevelError, statuses[models.StatusSlotParse].Level)
	assert.Equal(t, "Choose a document first", statuses[models.StatusSlotParse].Text)
}
