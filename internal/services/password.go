package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/bankingapp/ledger/internal/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into its stored form and checks candidates against it.
// The default plaintext hasher stores passwords as given and is not safe outside a demo.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

func NewPasswordHasher(cfg config.AuthConfig) (PasswordHasher, error) {
	switch cfg.PasswordHasher {
	case "", "plaintext":
		return PlaintextHasher{}, nil
	case "argon2":
		return Argon2Hasher{
			Time:    cfg.Argon2Time,
			Memory:  cfg.Argon2Memory,
			Threads: cfg.Argon2Threads,
			KeyLen:  cfg.Argon2KeyLen,
			SaltLen: cfg.Argon2SaltLen,
		}, nil
	case "bcrypt":
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", cfg.PasswordHasher)
	}
}

type PlaintextHasher struct{}

func (PlaintextHasher) Hash(password string) (string, error) { return password, nil }

func (PlaintextHasher) Verify(password, stored string) bool { return password == stored }

// Argon2Hasher stores base64(salt)$base64(key)
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

func (h Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func (h Argon2Hasher) Verify(password, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, computed) == 1
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
