package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/mygroup/mygroup-backend/pkg/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHash signals a stored hash that is neither PHC-encoded Argon2id
// nor bcrypt.
var ErrInvalidHash = errors.New("invalid password hash")

const argonPrefix = "$argon2id$"

var legacyPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// ArgonParams are the cost settings encoded into every hash.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// ParamsFromConfig bounds the configured costs to values argon2 accepts and
// that a login request can afford.
func ParamsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		Time:        uint32(clamp(cfg.ArgonTime, 1, 10)),
		Parallelism: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     uint32(clamp(cfg.ArgonSaltLen, 8, 64)),
		KeyLen:      uint32(clamp(cfg.ArgonKeyLen, 16, 64)),
	}
}

// HashPassword derives an Argon2id hash and encodes it in PHC form.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	p := ParamsFromConfig(cfg)
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)

	var b strings.Builder
	fmt.Fprintf(&b, "%sv=%d$m=%d,t=%d,p=%d$", argonPrefix, argon2.Version, p.Memory, p.Time, p.Parallelism)
	b.WriteString(base64.RawStdEncoding.EncodeToString(salt))
	b.WriteByte('$')
	b.WriteString(base64.RawStdEncoding.EncodeToString(key))
	return b.String(), nil
}

// VerifyPassword reports whether password matches encoded. Bcrypt hashes
// written by the previous service are verified with bcrypt.
func VerifyPassword(password, encoded string) (bool, error) {
	if IsLegacyHash(encoded) {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, ErrInvalidHash
		}
	}

	p, salt, key, err := decodeArgon(encoded)
	if err != nil {
		return false, err
	}
	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// IsLegacyHash reports whether encoded is a bcrypt hash.
func IsLegacyHash(encoded string) bool {
	for _, prefix := range legacyPrefixes {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

// NeedsRehash reports whether encoded should be replaced after the next
// successful login: bcrypt hashes always, Argon2id hashes whose costs differ
// from cfg, and anything unparseable.
func NeedsRehash(encoded string, cfg config.PasswordConfig) bool {
	if IsLegacyHash(encoded) {
		return true
	}
	p, _, _, err := decodeArgon(encoded)
	if err != nil {
		return true
	}
	want := ParamsFromConfig(cfg)
	return p.Memory != want.Memory ||
		p.Time != want.Time ||
		p.Parallelism != want.Parallelism ||
		p.KeyLen != want.KeyLen
}

// decodeArgon parses $argon2id$v=19$m=..,t=..,p=..$salt$key.
func decodeArgon(encoded string) (ArgonParams, []byte, []byte, error) {
	if !strings.HasPrefix(encoded, argonPrefix) {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	fields := strings.Split(strings.TrimPrefix(encoded, argonPrefix), "$")
	if len(fields) != 4 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var p ArgonParams
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Parallelism); err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	if p.Memory == 0 || p.Time == 0 || p.Parallelism == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[2])
	if err != nil || len(salt) == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(fields[3])
	if err != nil || len(key) == 0 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
