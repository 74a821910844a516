package registry

import (
	"strings"
	"testing"
	"time"
)

func TestAssemble(t *testing.T) {
	a := NewAssembler(NewWatermarker("C6"))
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	reg := a.Assemble([]byte("protocol body"), RegistrationMeta{
		Name:        "Flow Engine",
		Type:        "code",
		Version:     "2.1",
		CreatorName: "Ada Lovelace",
	}, "a1b2c3d4", now)

	if reg.ID != "a1b2c3d4" {
		t.Errorf("id = %s", reg.ID)
	}
	if len(reg.IdentityHash) != 64 {
		t.Errorf("identity hash length = %d, want 64", len(reg.IdentityHash))
	}
	if reg.FileHash != FileHash([]byte("protocol body")) {
		t.Error("file hash does not match raw content hash")
	}

	wantCert := "C6-" + strings.ToUpper(reg.IdentityHash[:16])
	if reg.CertificateID != wantCert {
		t.Errorf("certificate id = %s, want %s", reg.CertificateID, wantCert)
	}

	if !strings.HasPrefix(reg.Watermark, "C6-A1B2C3D4-") {
		t.Errorf("watermark = %s, want C6-A1B2C3D4-<hash8>", reg.Watermark)
	}
}

func TestAssemble_Reproducible(t *testing.T) {
	a := NewAssembler(NewWatermarker("C6"))
	now := time.Date(2026, 1, 15, 10, 0, 0, 123456789, time.UTC)
	meta := RegistrationMeta{Name: "x", CreatorName: "y"}

	r1 := a.Assemble([]byte("c"), meta, "a1b2c3d4", now)
	r2 := a.Assemble([]byte("c"), meta, "a1b2c3d4", now)

	if r1.IdentityHash != r2.IdentityHash || r1.Watermark != r2.Watermark {
		t.Error("assembly is not reproducible for identical inputs")
	}
}

func TestAssemble_ClearsAttributionWhenNotRemix(t *testing.T) {
	a := NewAssembler(NewWatermarker("C6"))

	reg := a.Assemble([]byte("c"), RegistrationMeta{
		Name:            "x",
		CreatorName:     "y",
		IsRemix:         false,
		OriginalCreator: "stray",
		OriginalAsset:   "stray",
		OriginalHash:    "stray",
	}, "a1b2c3d4", time.Now())

	if reg.Meta.OriginalCreator != "" || reg.Meta.OriginalAsset != "" || reg.Meta.OriginalHash != "" {
		t.Error("attribution fields not cleared for non-remix registration")
	}
}

func TestAssemble_KeepsAttributionForRemix(t *testing.T) {
	a := NewAssembler(NewWatermarker("C6"))

	reg := a.Assemble([]byte("c"), RegistrationMeta{
		Name:         "x",
		CreatorName:  "y",
		IsRemix:      true,
		OriginalHash: "deadbeef",
	}, "a1b2c3d4", time.Now())

	if reg.Meta.OriginalHash != "deadbeef" {
		t.Error("remix attribution hash dropped")
	}
}
