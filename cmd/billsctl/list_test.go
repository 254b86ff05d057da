package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/billed/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunList_Memory(t *testing.T) {
	cfg := &config.Config{}

	tests := []struct {
		name   string
		opts   listOptions
		rows   int
		status string
	}{
		{name: "admin sees all", opts: listOptions{source: config.SourceMemory, locale: "fr"}, rows: 4, status: "En attente"},
		{name: "fixture employee", opts: listOptions{source: config.SourceMemory, locale: "en", email: "a@a"}, rows: 4, status: "Pending"},
		{name: "employee scoped", opts: listOptions{source: config.SourceMemory, locale: "en", email: "a@a.io"}, rows: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runList(context.Background(), &out, cfg, zaptest.NewLogger(t), tt.opts))

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.Len(t, lines, tt.rows+2, "header, rows and total")
			assert.True(t, strings.HasPrefix(lines[0], "DATE"))
			if tt.rows > 0 {
				assert.True(t, strings.HasPrefix(lines[1], "2004-04-04T00:00:00.000Z"), "latest first")
				assert.Contains(t, lines[1], tt.status)
			}
		})
	}
}

func TestRunList_UnknownSource(t *testing.T) {
	err := runList(context.Background(), &bytes.Buffer{}, &config.Config{}, zaptest.NewLogger(t),
		listOptions{source: "ftp"})
	assert.ErrorContains(t, err, `unknown bill source "ftp"`)
}

func TestCliSession_SignsRemoteToken(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "cli-test-secret-32-characters!!!", Issuer: "billed"}}

	s, err := cliSession(cfg, listOptions{source: config.SourceRemote, email: "employee@billed.test"})
	require.NoError(t, err)
	assert.True(t, s.IsEmployee())
	assert.NotEmpty(t, s.JWT)

	s, err = cliSession(cfg, listOptions{source: config.SourceMemory})
	require.NoError(t, err)
	assert.Empty(t, s.JWT)
	assert.False(t, s.IsEmployee())

	_, err = cliSession(cfg, listOptions{email: "not-an-email"})
	assert.Error(t, err)
}
