package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_SuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"result_count": 2}, nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"result_count": float64(2)}, resp.Data)
}

func TestOutputFormatter_SuccessTextUsesRenderer(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	err := f.Success("ignored", func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "2 result(s)")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "2 result(s)\n", buf.String())
}

func TestOutputFormatter_SuccessTextDefault(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Success("done", nil))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatter_ErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Error("search_failed", "table unreachable", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "search_failed", resp.Error.Code)
	assert.Equal(t, "table unreachable", resp.Error.Message)
}

func TestOutputFormatter_ErrorText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: true}

	require.NoError(t, f.Error("search_failed", "table unreachable", "status 503"))
	assert.Equal(t, "Error [search_failed]: table unreachable\nDetails: status 503\n", buf.String())
}

func TestOutputFormatter_VerboseLogGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}

	f.VerboseLog("driver=%s", "sqlite")
	assert.Empty(t, out.String())
	assert.Equal(t, "driver=sqlite\n", errOut.String())

	f.Verbose = false
	f.VerboseLog("hidden")
	assert.Equal(t, "driver=sqlite\n", errOut.String())
}
