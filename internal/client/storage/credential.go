package storage

import "context"

// CredentialKey is the fixed key holding the plain-text admin password.
const CredentialKey = "lumina_admin_pwd"

// CredentialStore is the local-mode credential backend. The password is
// stored verbatim and compared with ==.
type CredentialStore struct {
	kv KV
}

// NewCredentialStore returns a credential store over kv.
func NewCredentialStore(kv KV) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Exists reports whether a non-empty credential is stored.
func (s *CredentialStore) Exists(ctx context.Context) (bool, error) {
	v, ok, err := s.kv.Get(ctx, CredentialKey)
	if err != nil {
		return false, err
	}
	return ok && v != "", nil
}

// Create writes password under CredentialKey, overwriting any prior value.
func (s *CredentialStore) Create(ctx context.Context, password string) (bool, error) {
	if err := s.kv.Set(ctx, CredentialKey, password); err != nil {
		return false, err
	}
	return true, nil
}

// Verify reports whether password equals the stored value exactly.
func (s *CredentialStore) Verify(ctx context.Context, password string) (bool, error) {
	v, ok, err := s.kv.Get(ctx, CredentialKey)
	if err != nil {
		return false, err
	}
	return ok && v != "" && v == password, nil
}
