// Package credential stores owner-scoped provider secrets. Metadata lives in
// the generic memory store; the secret value itself is encrypted at rest with
// a reversible symmetric scheme (viant/scy) and decrypted per invocation -
// never cached across nodes.
package credential

import (
	"context"
	"strings"
	"time"

	"github.com/runlet/runlet/internal/clock"
	"github.com/runlet/runlet/service/dao"
	"github.com/runlet/runlet/service/dao/store"
	"github.com/viant/afs/url"
	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// Type identifies the provider a credential authenticates against.
type Type string

const (
	TypeOpenAI   Type = "OPENAI"
	TypeDeepSeek Type = "DEEPSEEK"
)

// Credential is the stored metadata row; the encrypted value lives at an
// afs URL derived from the credential id.
type Credential struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service persists credentials and seals/unseals their values.
type Service struct {
	records *store.Memory[string, Credential]
	vault   *scy.Service
	baseURL string
	key     string
}

// DefaultKey is the scy cipher key URL used when none is configured.
const DefaultKey = "blowfish://default"

// New creates a credential service keeping encrypted values under baseURL
// (file://, mem://, s3:// - any afs scheme). An empty key falls back to
// DefaultKey.
func New(baseURL, key string) *Service {
	if key == "" {
		key = DefaultKey
	}
	return &Service{
		records: store.NewMemory[string, Credential](
			func(c *Credential) string { return c.ID }, nil),
		vault:   scy.New(),
		baseURL: baseURL,
		key:     key,
	}
}

func (s *Service) secretURL(id string) string {
	return url.Join(s.baseURL, id+".enc")
}

// Save stores the metadata row and the encrypted secret value.
func (s *Service) Save(ctx context.Context, credential *Credential, value string) error {
	if credential == nil {
		return dao.ErrNilEntity
	}
	if credential.ID == "" {
		return dao.ErrInvalidID
	}
	if credential.CreatedAt.IsZero() {
		credential.CreatedAt = clock.Now()
	}
	resource := scy.NewResource(nil, s.secretURL(credential.ID), s.key)
	if err := s.vault.Store(ctx, scy.NewSecret(value, resource)); err != nil {
		return err
	}
	return s.records.Save(ctx, credential)
}

// Lookup returns the metadata row scoped to (id, expected type, owner).
// A row of the wrong type or owner is reported as dao.ErrNotFound so that
// callers cannot probe for other users' credentials.
func (s *Service) Lookup(ctx context.Context, id string, expected Type, ownerID string) (*Credential, error) {
	row, err := s.records.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Type != expected || row.OwnerID != ownerID {
		return nil, dao.ErrNotFound
	}
	return row, nil
}

// Reveal decrypts and returns the credential value scoped to (id, expected
// type, owner). An empty decrypted value is reported as dao.ErrNotFound.
func (s *Service) Reveal(ctx context.Context, id string, expected Type, ownerID string) (string, error) {
	if _, err := s.Lookup(ctx, id, expected, ownerID); err != nil {
		return "", err
	}
	resource := scy.NewResource(nil, s.secretURL(id), s.key)
	secret, err := s.vault.Load(ctx, resource)
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(secret.String())
	if value == "" {
		return "", dao.ErrNotFound
	}
	return value, nil
}

// Delete removes the metadata row; the sealed value is left for the vault's
// retention policy.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}
