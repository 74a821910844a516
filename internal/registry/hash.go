// Package registry implements the identity and lineage engine of the
// Carbon Room IP registry: composite content hashing, watermark tokens,
// and remix attribution chains. Everything here is a pure computation
// over caller-supplied inputs; persistence and transport live elsewhere.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// FileHash returns the SHA-256 of the raw file content as lowercase hex.
func FileHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// CompositeHash derives the asset's identity hash from its content, its
// registration metadata and the registration timestamp.
//
// The construction is a wire contract shared with external verifiers:
//
//	sha256(hex(sha256(content)) + ":" + canonicalMetadata + ":" + timestamp)
//
// where canonicalMetadata is a JSON object with keys in lexicographic
// order, ", " between members and ": " after each key. Sorting makes
// the hash independent of the insertion order of the metadata map,
// which arrives unordered from the transport layer; the separator
// bytes are part of the contract and must not change.
func CompositeHash(content []byte, metadata map[string]string, timestamp string) string {
	combined := FileHash(content) + ":" + canonicalMetadata(metadata) + ":" + timestamp
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// CertificateHash fingerprints a rendered certificate. It follows the
// same colon-joined scheme as CompositeHash but is truncated to 32 hex
// characters and is never used for identity.
func CertificateHash(assetName, creatorName, timestamp, identityHash string) string {
	combined := assetName + ":" + creatorName + ":" + timestamp + ":" + identityHash
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])[:32]
}

func canonicalMetadata(metadata map[string]string) string {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		// json.Marshal on a string never fails
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(metadata[k])
		b.Write(kb)
		b.WriteString(": ")
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.String()
}
