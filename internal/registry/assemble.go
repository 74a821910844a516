package registry

import (
	"strings"
	"time"
)

// RegistrationMeta is the metadata submitted alongside an upload.
type RegistrationMeta struct {
	Name            string
	Description     string
	Type            string
	Version         string
	Filename        string
	Tags            []string
	CreatorName     string
	CreatorEmail    string
	CreatorCompany  string
	CoCreators      []string
	IsRemix         bool
	OriginalCreator string
	OriginalAsset   string
	OriginalHash    string
}

// Registration is the fully assembled record handed to storage and
// rendering. The identity fields are immutable once assembled.
type Registration struct {
	ID            string
	Meta          RegistrationMeta
	FileHash      string
	IdentityHash  string
	Watermark     string
	CertificateID string
	Timestamp     string
	CreatedAt     time.Time
}

// Assembler binds the hash and watermark engines into the registration
// pipeline. It performs no I/O; uniqueness of the produced identity
// hash and watermark is enforced by the storage layer at commit.
type Assembler struct {
	wm Watermarker
}

func NewAssembler(wm Watermarker) Assembler {
	return Assembler{wm: wm}
}

// Assemble computes the content-derived identity for one registration.
// shortID must be fresh per call (the caller draws it from a unique-id
// generator) and now must be a fresh high-resolution timestamp.
func (a Assembler) Assemble(content []byte, meta RegistrationMeta, shortID string, now time.Time) Registration {
	if !meta.IsRemix {
		meta.OriginalCreator = ""
		meta.OriginalAsset = ""
		meta.OriginalHash = ""
	}

	timestamp := now.UTC().Format(time.RFC3339Nano)
	identityHash := CompositeHash(content, map[string]string{
		"name":    meta.Name,
		"creator": meta.CreatorName,
	}, timestamp)

	return Registration{
		ID:            shortID,
		Meta:          meta,
		FileHash:      FileHash(content),
		IdentityHash:  identityHash,
		Watermark:     a.wm.Generate(shortID, meta.CreatorName, timestamp),
		CertificateID: a.wm.Prefix() + "-" + strings.ToUpper(identityHash[:16]),
		Timestamp:     timestamp,
		CreatedAt:     now.UTC(),
	}
}
