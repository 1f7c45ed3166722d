// Package hashalg names the content-hash algorithms an assembly's file table
// may be hashed with and computes file digests.
package hashalg

import (
	"crypto/md5"  // #nosec G501 -- legacy file-table algorithm
	"crypto/sha1" // #nosec G505 -- legacy file-table default
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
)

// Algorithm mirrors the assembly-hash algorithm ids stored in metadata.
type Algorithm uint32

const (
	None   Algorithm = 0
	MD5    Algorithm = 0x8003
	SHA1   Algorithm = 0x8004
	SHA256 Algorithm = 0x800c
	SHA384 Algorithm = 0x800d
	SHA512 Algorithm = 0x800e
)

// Default is used when a descriptor does not name an algorithm.
const Default = SHA1

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case MD5:
		return "md5"
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	case SHA384:
		return "sha384"
	case SHA512:
		return "sha512"
	}
	return fmt.Sprintf("alg(0x%x)", uint32(a))
}

// Parse accepts the lower-case names produced by String and hexadecimal ids
// ("0x8004"). Unknown but well-formed ids parse successfully so that
// IsSupported can report them.
func Parse(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return Default, nil
	case "none":
		return None, nil
	case "md5":
		return MD5, nil
	case "sha1", "sha-1":
		return SHA1, nil
	case "sha256", "sha-256":
		return SHA256, nil
	case "sha384", "sha-384":
		return SHA384, nil
	case "sha512", "sha-512":
		return SHA512, nil
	}
	var id uint32
	if _, err := fmt.Sscanf(s, "0x%x", &id); err == nil {
		return Algorithm(id), nil
	}
	return None, fmt.Errorf("unknown hash algorithm %q", s)
}

// IsSupported reports whether the file table can be hashed with a.
func IsSupported(a Algorithm) bool {
	switch a {
	case None, MD5, SHA1, SHA256, SHA384, SHA512:
		return true
	}
	return false
}

// New returns a hasher for a, or nil when a is None or unsupported.
func New(a Algorithm) hash.Hash {
	switch a {
	case MD5:
		return md5.New() // #nosec G401
	case SHA1:
		return sha1.New() // #nosec G401
	case SHA256:
		return sha256.New()
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	}
	return nil
}

// Sum hashes data with a. It returns nil when no digest can be produced.
func Sum(a Algorithm, data []byte) []byte {
	h := New(a)
	if h == nil {
		return nil
	}
	_, _ = h.Write(data)
	return h.Sum(nil)
}
