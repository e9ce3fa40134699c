package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argonPrefix = "$argon2id$"

// Upper bounds for parameters read back from a stored hash. A tampered
// hash shouldn't be able to make a login allocate gigabytes.
const (
	maxArgonMemory     = 1 << 20 // KiB
	maxArgonIterations = 16
	maxArgonKeyLength  = 128
)

var ErrInvalidHash = errors.New("invalid password hash")

// ArgonHash holds the argon2id parameters used for new hashes. Stored
// hashes carry their own parameters, so changing these only affects
// passwords hashed afterwards.
type ArgonHash struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func NewArgon() *ArgonHash {
	return &ArgonHash{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hash returns p hashed in the PHC string format,
// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
func (a *ArgonHash) Hash(p string) (string, error) {
	salt := make([]byte, a.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt, %w", err)
	}

	key := argon2.IDKey([]byte(p), salt, a.Iterations, a.Memory, a.Parallelism, a.KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argonPrefix,
		argon2.Version,
		a.Memory, a.Iterations, a.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a *ArgonHash) Verify(p, encoded string) (bool, error) {
	params, salt, key, err := decodeArgon(encoded)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey([]byte(p), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func decodeArgon(encoded string) (params ArgonHash, salt, key []byte, err error) {
	rest, ok := strings.CutPrefix(encoded, argonPrefix)
	if !ok {
		return params, nil, nil, ErrInvalidHash
	}

	// v=19, m=..,t=..,p=.., salt, key
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return params, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w, unsupported argon2 version", ErrInvalidHash)
	}

	_, err = fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism)
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w, %w", ErrInvalidHash, err)
	}

	if params.Memory == 0 || params.Memory > maxArgonMemory ||
		params.Iterations == 0 || params.Iterations > maxArgonIterations ||
		params.Parallelism == 0 {
		return params, nil, nil, fmt.Errorf("%w, parameters out of range", ErrInvalidHash)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(fields[2]); err != nil {
		return params, nil, nil, fmt.Errorf("%w, %w", ErrInvalidHash, err)
	}

	if key, err = base64.RawStdEncoding.DecodeString(fields[3]); err != nil {
		return params, nil, nil, fmt.Errorf("%w, %w", ErrInvalidHash, err)
	}

	if len(key) == 0 || len(key) > maxArgonKeyLength {
		return params, nil, nil, fmt.Errorf("%w, bad key length", ErrInvalidHash)
	}

	return params, salt, key, nil
}
