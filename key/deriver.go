package key

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Deriver computes input and output ids. It memoizes per-value digests so
// that hashing a large identical value repeatedly costs one digest, and
// coalesces concurrent digests of the same value.
//
// The zero value is not usable; construct with NewDeriver. A Deriver is
// safe for concurrent use.
type Deriver struct {
	mu    sync.RWMutex
	memo  map[memoKey]string
	group singleflight.Group
}

// memoKey indexes the digest memo by a fast hash of the canonical bytes
// plus their length. Treating equal (hash, length) pairs as equal content
// is the standard cache-index tradeoff (an xxhash64 collision at equal
// length is needed to go wrong).
type memoKey struct {
	sum  uint64
	size int
}

// NewDeriver returns a ready-to-use Deriver.
func NewDeriver() *Deriver {
	return &Deriver{memo: make(map[memoKey]string)}
}

// ValueDigest returns the content digest of a single value: canonical
// serialization followed by SHA-256, truncated to DigestLength lowercase
// hex characters. Equal values yield equal digests regardless of identity.
func (d *Deriver) ValueDigest(v any) (string, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	return d.digestBytes(canonical), nil
}

func (d *Deriver) digestBytes(canonical []byte) string {
	mk := memoKey{sum: xxhash.Sum64(canonical), size: len(canonical)}

	d.mu.RLock()
	digest, ok := d.memo[mk]
	d.mu.RUnlock()
	if ok {
		return digest
	}

	flight := strconv.FormatUint(mk.sum, 16) + ":" + strconv.Itoa(mk.size)
	out, _, _ := d.group.Do(flight, func() (any, error) {
		sum := sha256.Sum256(canonical)
		digest := hex.EncodeToString(sum[:])[:DigestLength]
		d.mu.Lock()
		d.memo[mk] = digest
		d.mu.Unlock()
		return digest, nil
	})
	return out.(string)
}

// InputID derives the input id for one call: each argument value is
// digested independently, then the function id and the ordered
// (name, digest) pairs are digested together. Pairing names with digests
// means swapping equal values between differently named arguments changes
// the id. Fails with ErrUnhashableArgument naming the offending argument.
func (d *Deriver) InputID(functionID string, args []Argument) (string, error) {
	h := sha256.New()
	h.Write([]byte(functionID))
	for _, a := range args {
		digest, err := d.ValueDigest(a.Value)
		if err != nil {
			return "", fmt.Errorf("argument %q: %w", a.Name, err)
		}
		h.Write([]byte{0})
		h.Write([]byte(a.Name))
		h.Write([]byte{'='})
		h.Write([]byte(digest))
	}
	return hex.EncodeToString(h.Sum(nil))[:DigestLength], nil
}

// OutputID returns the digest of serialized output bytes, using the same
// algorithm as input derivation.
func OutputID(serialized []byte) string {
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])[:DigestLength]
}
