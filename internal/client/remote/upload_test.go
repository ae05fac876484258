package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadAsset_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "secret", r.Header.Get(SecretKeyHeader))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, pngHeader, body)
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/assets/1"}`))
	}))
	defer srv.Close()

	a := New(Options{BaseURL: srv.URL, SecretKey: "secret"})
	url, err := a.UploadAsset(context.Background(), EncodeDataURL("image/png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/assets/1", url)
}

func TestUploadAsset_NonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(Options{BaseURL: srv.URL}).UploadAsset(context.Background(), EncodeDataURL("image/png", pngHeader))
	var upErr *UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Equal(t, "unauthorized", upErr.Body)
}

func TestUploadAsset_BadResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", "nope", "decode upload response"},
		{"no url", `{}`, "missing url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := stubbed(func(*http.Request) (*http.Response, error) { return respond(200, tt.body), nil })
			_, err := a.UploadAsset(context.Background(), EncodeDataURL("image/png", pngHeader))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUploadAsset_TransportError(t *testing.T) {
	a := stubbed(func(*http.Request) (*http.Response, error) { return nil, errors.New("reset") })
	_, err := a.UploadAsset(context.Background(), EncodeDataURL("image/png", pngHeader))
	require.Error(t, err)
	var upErr *UploadError
	assert.False(t, errors.As(err, &upErr))
}

func TestUploadAsset_InvalidInputSkipsNetwork(t *testing.T) {
	a := stubbed(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	_, err := a.UploadAsset(context.Background(), "data:image/png;base64,@@@")
	assert.ErrorIs(t, err, ErrInvalidDataURL)
}

func TestUploadAsset_PassThroughWhenNotConfigured(t *testing.T) {
	in := EncodeDataURL("image/png", pngHeader)
	out, err := New(Options{}).UploadAsset(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = New(Options{}).Upload(context.Background(), "image/png", pngHeader)
	assert.Error(t, err)
}
