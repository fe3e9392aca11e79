// Package session persists the signed-in session subset (user, token,
// isAuthenticated) between runs. Every backend stores one record named
// RecordName holding the JSON form of model.Session.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/and161185/shopfront/internal/model"
)

// RecordName is the name of the persisted session record.
const RecordName = "auth-storage"

// Persister stores the session record. Load returns errs.ErrNotFound when
// nothing has been saved.
type Persister interface {
	Load(ctx context.Context) (model.Session, error)
	Save(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
	Close() error
}

func encode(s model.Session) ([]byte, error) {
	b, err := json.Marshal(s.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return b, nil
}

func decode(b []byte) (model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return model.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s.Normalize(), nil
}
