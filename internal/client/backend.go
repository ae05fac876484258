// Package client wires the admin gate to exactly one credential backend,
// chosen once from static configuration.
package client

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/lumina/internal/client/remote"
	"github.com/atinyakov/lumina/internal/client/storage"
	"github.com/atinyakov/lumina/internal/config"
	"github.com/atinyakov/lumina/internal/gate"
	"github.com/atinyakov/lumina/internal/models"
)

// Backend is the selection made at start. It never changes for the life of
// the process, so a credential set under one kind is invisible to the other.
type Backend struct {
	// Kind is the selected backend kind.
	Kind models.BackendKind
	// Credentials answers exists/create/verify for the gate.
	Credentials gate.Backend
	// Assets uploads images; it passes input through in local mode.
	Assets *remote.Authority

	kv storage.KV
}

// Select builds the backend chosen by opts. Local storage is only opened in
// local mode.
func Select(opts *config.Options, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	kind := opts.Backend()

	authority := remote.New(remote.Options{
		BaseURL:   opts.Remote.URL,
		SecretKey: opts.Remote.SecretKey,
		Timeout:   opts.Remote.Timeout,
		Logger:    log,
	})

	b := &Backend{Kind: kind, Assets: authority}
	if kind == models.RemoteBackend {
		b.Credentials = authority
		log.Debug("using remote credential backend", zap.String("url", opts.Remote.URL))
		return b, nil
	}

	kv, err := storage.Open(opts.Local.Driver, opts.Local.Path)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}
	b.kv = kv
	b.Credentials = storage.NewCredentialStore(kv)
	log.Debug("using local credential backend",
		zap.String("driver", opts.Local.Driver),
		zap.String("path", opts.Local.Path),
	)
	return b, nil
}

// NewGate returns a closed gate over the selected backend.
func (b *Backend) NewGate(opts gate.Options) *gate.Gate {
	opts.Kind = b.Kind
	return gate.New(b.Credentials, opts)
}

// Close releases local storage, if any.
func (b *Backend) Close() error {
	if b.kv == nil {
		return nil
	}
	return b.kv.Close()
}
