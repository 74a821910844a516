package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// BackupBundle is what the worker pushes to the GitHub backup repo for
// one protocol: the registration record as JSON plus the rendered
// certificate.
type BackupBundle struct {
	ShortID         string
	ManifestJSON    []byte
	CertificateHTML string
}

// ExportProtocolBackup builds the backup payload for a protocol.
func (u Usecase) ExportProtocolBackup(ctx context.Context, shortID string) (BackupBundle, error) {
	p, err := u.repo.GetProtocolByShortID(ctx, shortID)
	if err != nil {
		return BackupBundle{}, err
	}

	record := map[string]any{
		"id":               p.ShortID,
		"name":             p.Name,
		"description":      p.Description,
		"type":             p.Type,
		"filename":         p.Filename,
		"version":          p.Version,
		"tags":             p.Tags,
		"file_hash":        p.FileHash,
		"blockchain_hash":  p.BlockchainHash,
		"watermark":        p.Watermark,
		"certificate_id":   p.CertificateID,
		"is_remix":         p.IsRemix,
		"original_hash":    p.OriginalHash,
		"original_creator": p.OriginalCreator,
		"original_asset":   p.OriginalAsset,
		"invocations":      p.InvocationCount,
		"created_at":       p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if owner := p.Owner(); owner != nil {
		record["creator_name"] = owner.Name
		record["creator_company"] = owner.Company
	}
	if cc := p.CoCreatorNames(); len(cc) > 0 {
		record["co_creators"] = cc
	}

	manifest, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return BackupBundle{}, fmt.Errorf("marshaling backup manifest: %w", err)
	}

	bundle := BackupBundle{ShortID: p.ShortID, ManifestJSON: manifest}

	cert, err := u.repo.GetCertificateByProtocolID(ctx, p.ID)
	switch {
	case err == nil:
		bundle.CertificateHTML = cert.HTML
	case errors.Is(err, ErrCertificateNotFound):
		// protocols registered before certificates existed back up
		// without one
	default:
		return BackupBundle{}, fmt.Errorf("loading certificate for backup: %w", err)
	}

	return bundle, nil
}
