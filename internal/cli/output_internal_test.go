package cli

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{OutputTable, OutputJSON, OutputNDJSON} {
		assert.NoError(t, validateOutputFormat(f))
	}
	assert.Error(t, validateOutputFormat("yaml"))
}

func TestWriteStructured(t *testing.T) {
	type item struct {
		N int `json:"n"`
	}
	items := []item{{N: 1}, {N: 2}}

	var buf bytes.Buffer
	require.NoError(t, writeStructured(&buf, OutputNDJSON, map[string]any{"items": items}, items))
	assert.Equal(t, "{\"n\":1}\n{\"n\":2}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeStructured(&buf, OutputJSON, map[string]any{"total": 2}, items))
	assert.Equal(t, "{\n  \"total\": 2\n}\n", buf.String())
}

func TestMaskSecret(t *testing.T) {
	assert.Empty(t, maskSecret(""))
	assert.Equal(t, "***", maskSecret("abc"))
	assert.Equal(t, "****5678", maskSecret("12345678"))
}

func TestWriteQRCode(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("png-bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("data uri", func(t *testing.T) {
		path := filepath.Join(dir, "a.png")
		require.NoError(t, writeQRCode(path, "data:image/png;base64,"+encoded))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("bare base64", func(t *testing.T) {
		path := filepath.Join(dir, "b.png")
		require.NoError(t, writeQRCode(path, encoded))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("missing", func(t *testing.T) {
		assert.ErrorIs(t, writeQRCode(filepath.Join(dir, "c.png"), ""), errNoQRCode)
	})

	t.Run("invalid", func(t *testing.T) {
		assert.Error(t, writeQRCode(filepath.Join(dir, "d.png"), "%%%"))
	})
}

func TestTitleProvider(t *testing.T) {
	assert.Equal(t, "GitHub", titleProvider("github"))
	assert.Equal(t, "Google", titleProvider("google"))
	assert.Empty(t, titleProvider(""))
}
