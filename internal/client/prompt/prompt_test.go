package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/lumina/internal/gate"
	"github.com/atinyakov/lumina/internal/models"
)

type memBackend struct {
	stored string
}

func (m *memBackend) Exists(context.Context) (bool, error) { return m.stored != "", nil }
func (m *memBackend) Create(_ context.Context, p string) (bool, error) {
	m.stored = p
	return true, nil
}
func (m *memBackend) Verify(_ context.Context, p string) (bool, error) {
	return m.stored != "" && m.stored == p, nil
}

func TestPassword_ReadsLines(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("first\r\nlast"), &out)

	got, err := p.Password("A: ")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = p.Password("B: ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.Password("C: ")
	assert.Error(t, err)
	assert.Equal(t, "A: B: C: ", out.String())
}

func TestRun_SetupRetriesUntilValid(t *testing.T) {
	b := &memBackend{}
	successes := 0
	g := gate.New(b, gate.Options{Kind: models.LocalBackend, OnSuccess: func() { successes++ }})
	var out bytes.Buffer
	in := "ab\nab\nabcd\nabce\nabcd\nabcd\n"

	err := Run(context.Background(), g, New(strings.NewReader(in), &out), 0)
	require.NoError(t, err)
	assert.Equal(t, "abcd", b.stored)
	assert.Equal(t, 1, successes)

	text := out.String()
	assert.Contains(t, text, "First-time setup")
	assert.Contains(t, text, "local mode")
	assert.Contains(t, text, "✗ password too short")
	assert.Contains(t, text, "✗ passwords do not match")
	assert.Equal(t, gate.Idle, g.State())
}

func TestRun_LoginWrongThenRight(t *testing.T) {
	b := &memBackend{stored: "abcd"}
	g := gate.New(b, gate.Options{Kind: models.RemoteBackend})
	var out bytes.Buffer

	err := Run(context.Background(), g, New(strings.NewReader("nope\nabcd\n"), &out), 3)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Admin login")
	assert.Contains(t, out.String(), "cloud sync enabled")
	assert.Contains(t, out.String(), "✗ incorrect password")
}

func TestRun_Aborted(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		attempts int
	}{
		{"end of input", "nope\n", 0},
		{"attempts exhausted", "a\nb\nc\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gate.New(&memBackend{stored: "abcd"}, gate.Options{Kind: models.LocalBackend})
			err := Run(context.Background(), g, New(strings.NewReader(tt.in), &bytes.Buffer{}), tt.attempts)
			assert.ErrorIs(t, err, ErrAborted)
			assert.Equal(t, gate.Idle, g.State())
		})
	}
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "First-time setup\n  local mode (this device only)", Header(models.SetupRequired, models.LocalBackend))
	assert.True(t, strings.HasPrefix(Header(models.LoginRequired, models.RemoteBackend), "Admin login"))
}
