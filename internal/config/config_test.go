package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/codec"
	"github.com/arloliu/geobuf/format"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geobuf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
compression: zstd
precision: 3
compact: true
numeric_cache: true
log_level: debug
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, "zstd", cfg.Compression)
	require.Equal(t, format.CompressionZstd, cfg.CompressionType())
	require.NotNil(t, cfg.Precision)
	require.Equal(t, 3, *cfg.Precision)
	require.True(t, cfg.Compact)
	require.True(t, cfg.NumericCache)
	require.Equal(t, "debug", cfg.LogLevel)

	enc, err := codec.NewEncoder(cfg.EncoderOptions()...)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, enc.Config().Compression())
	require.Equal(t, 3, enc.Config().MaxPrecision())

	dec, err := codec.NewDecoder(cfg.DecoderOptions()...)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, dec.Config().Compression())
	require.True(t, dec.Config().Compact())
}

func TestLoad_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	require.Equal(t, &Config{}, cfg)

	_, err = Load(missing, false)
	require.ErrorIs(t, err, os.ErrNotExist)

	cfg, err = Load("", false)
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, cfg.CompressionType())
	require.Len(t, cfg.EncoderOptions(), 1)
	require.Len(t, cfg.DecoderOptions(), 1)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "compression: [zstd"},
		{"unknown compression", "compression: brotli"},
		{"precision too high", "precision: 9"},
		{"negative precision", "precision: -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content), false)
			require.Error(t, err)
		})
	}
}
