package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

var ErrSealed = errors.New("storage: sealed value could not be opened")

const (
	saltLen  = 16
	nonceLen = 24
)

type fileDocument struct {
	Salt    string            `json:"salt,omitempty"`
	Entries map[string]string `json:"entries"`
}

// FileStorage persists values in a single JSON document. When a secret is
// configured every value is sealed with secretbox under an argon2id key.
type FileStorage struct {
	path   string
	secret string

	mu      sync.Mutex
	keySalt string
	key     *[32]byte
}

func NewFileStorage(path string, secret string) *FileStorage {
	return &FileStorage{path: path, secret: secret}
}

func (s *FileStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}
	value, ok := doc.Entries[key]
	if !ok {
		return "", ErrNotFound
	}
	if s.secret == "" {
		return value, nil
	}
	return s.open(doc.Salt, value)
}

func (s *FileStorage) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	if s.secret != "" {
		if doc.Salt == "" {
			salt := make([]byte, saltLen)
			if _, err := rand.Read(salt); err != nil {
				return fmt.Errorf("generate salt: %w", err)
			}
			doc.Salt = base64.StdEncoding.EncodeToString(salt)
		}
		sealed, err := s.seal(doc.Salt, value)
		if err != nil {
			return err
		}
		value = sealed
	}

	doc.Entries[key] = value
	return s.write(doc)
}

func (s *FileStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)
	return s.write(doc)
}

func (s *FileStorage) Close() error {
	return nil
}

func (s *FileStorage) read() (fileDocument, error) {
	doc := fileDocument{Entries: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	return doc, nil
}

func (s *FileStorage) write(doc fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".marketplace-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStorage) deriveKey(saltB64 string) (*[32]byte, error) {
	if s.key != nil && s.keySalt == saltB64 {
		return s.key, nil
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}

	var key [32]byte
	copy(key[:], argon2.IDKey([]byte(s.secret), salt, 1, 64*1024, 2, 32))
	s.key = &key
	s.keySalt = saltB64
	return s.key, nil
}

func (s *FileStorage) seal(saltB64 string, value string) (string, error) {
	key, err := s.deriveKey(saltB64)
	if err != nil {
		return "", err
	}

	var nonce [nonceLen]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	box := secretbox.Seal(nonce[:], []byte(value), &nonce, key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (s *FileStorage) open(saltB64 string, value string) (string, error) {
	if saltB64 == "" {
		return "", ErrSealed
	}
	key, err := s.deriveKey(saltB64)
	if err != nil {
		return "", err
	}

	box, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(box) < nonceLen {
		return "", ErrSealed
	}

	var nonce [nonceLen]byte
	copy(nonce[:], box[:nonceLen])
	plain, ok := secretbox.Open(nil, box[nonceLen:], &nonce, key)
	if !ok {
		return "", ErrSealed
	}
	return string(plain), nil
}
