package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// ConfigDir is $XDG_CONFIG_HOME/shopfront, or ~/.config/shopfront.
func ConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "shopfront")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shopfront")
}

// DefaultPath is where the file backend keeps the session record.
func DefaultPath() string { return filepath.Join(ConfigDir(), RecordName+".json") }

// File keeps the session record in a single file. With a passphrase the
// content is sealed with XChaCha20-Poly1305 under an Argon2id-derived key.
type File struct {
	path       string
	passphrase []byte
}

// NewFile returns a plaintext file persister. An empty path means DefaultPath.
func NewFile(path string) *File {
	if path == "" {
		path = DefaultPath()
	}
	return &File{path: path}
}

// NewEncryptedFile returns a file persister that seals its content.
func NewEncryptedFile(path, passphrase string) (*File, error) {
	if passphrase == "" {
		return nil, errors.New("session: empty passphrase")
	}
	f := NewFile(path)
	f.passphrase = []byte(passphrase)
	return f, nil
}

// Path returns the file location.
func (f *File) Path() string { return f.path }

func (f *File) Load(_ context.Context) (model.Session, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Session{}, errs.ErrNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	if f.passphrase != nil {
		if b, err = open(f.passphrase, b); err != nil {
			return model.Session{}, fmt.Errorf("open session file: %w", err)
		}
	}
	return decode(b)
}

func (f *File) Save(_ context.Context, s model.Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	if f.passphrase != nil {
		if b, err = seal(f.passphrase, b); err != nil {
			return fmt.Errorf("seal session: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	// write then rename so a crash never leaves a torn record
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *File) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f *File) Close() error { return nil }
