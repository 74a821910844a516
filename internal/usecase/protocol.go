package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carbonroom/carbonroom/internal/registry"
)

type ProtocolType string

const (
	ProtocolTypeCode     ProtocolType = "code"
	ProtocolTypeConfig   ProtocolType = "config"
	ProtocolTypeAgent    ProtocolType = "agent"
	ProtocolTypeDocument ProtocolType = "document"
	ProtocolTypeDesign   ProtocolType = "design"
	ProtocolTypeMedia    ProtocolType = "media"
)

func (t ProtocolType) IsValid() bool {
	switch t {
	case ProtocolTypeCode, ProtocolTypeConfig, ProtocolTypeAgent,
		ProtocolTypeDocument, ProtocolTypeDesign, ProtocolTypeMedia:
		return true
	}
	return false
}

type CreatorRole string

const (
	CreatorRoleOwner     CreatorRole = "owner"
	CreatorRoleCoCreator CreatorRole = "co_creator"
)

// Protocol is a registered asset. The identity fields (BlockchainHash,
// Watermark, FileHash, CertificateID) are fixed at registration and
// never change afterwards.
type Protocol struct {
	ID              uuid.UUID
	ShortID         string
	Name            string
	Description     string
	Type            ProtocolType
	Filename        string
	Version         string
	Tags            []string
	FileHash        string
	BlockchainHash  string
	Watermark       string
	CertificateID   string
	IsRemix         bool
	OriginalHash    string
	OriginalCreator string
	OriginalAsset   string
	InvocationCount int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Creators    []ProtocolCreator
	Certificate *Certificate
}

// ProtocolCreator associates a creator with a protocol under a role.
// Exactly one owner per protocol; co-creators are informational.
type ProtocolCreator struct {
	Role    CreatorRole
	Creator Creator
}

// Owner returns the owning creator, if the association is loaded.
func (p Protocol) Owner() *Creator {
	for _, pc := range p.Creators {
		if pc.Role == CreatorRoleOwner {
			return &pc.Creator
		}
	}
	return nil
}

func (p Protocol) CoCreatorNames() []string {
	var names []string
	for _, pc := range p.Creators {
		if pc.Role == CreatorRoleCoCreator {
			names = append(names, pc.Creator.Name)
		}
	}
	return names
}

type ListProtocolsOption struct {
	Skip    int
	Limit   int
	Type    ProtocolType
	Keyword string
	SortBy  string
	SortIn  string
}

func (u Usecase) ListProtocols(ctx context.Context, opt ListProtocolsOption) ([]Protocol, int, error) {
	return u.repo.ListProtocols(ctx, opt)
}

func (u Usecase) GetProtocolByShortID(ctx context.Context, shortID string) (Protocol, error) {
	return u.repo.GetProtocolByShortID(ctx, shortID)
}

type RegisterProtocolInput struct {
	Name            string
	Description     string
	Type            ProtocolType
	Version         string
	Tags            []string
	Filename        string
	Content         []byte
	CreatorName     string
	CreatorEmail    string
	CreatorCompany  string
	CoCreators      []string
	IsRemix         bool
	OriginalCreator string
	OriginalAsset   string
	OriginalHash    string
}

// RegisterProtocol runs the full registration pipeline: assemble the
// content-derived identity, reject hash/watermark collisions before
// commit, persist the record with its creator links and certificate,
// store the raw bytes in the vault and enqueue backup and email tasks.
func (u Usecase) RegisterProtocol(ctx context.Context, in RegisterProtocolInput) (Protocol, error) {
	if !in.Type.IsValid() {
		in.Type = ProtocolTypeDocument
	}
	if in.Version == "" {
		in.Version = "1.0"
	}

	shortID := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	reg := u.assembler.Assemble(in.Content, registry.RegistrationMeta{
		Name:            in.Name,
		Description:     in.Description,
		Type:            string(in.Type),
		Version:         in.Version,
		Filename:        in.Filename,
		Tags:            in.Tags,
		CreatorName:     in.CreatorName,
		CreatorEmail:    in.CreatorEmail,
		CreatorCompany:  in.CreatorCompany,
		CoCreators:      in.CoCreators,
		IsRemix:         in.IsRemix,
		OriginalCreator: in.OriginalCreator,
		OriginalAsset:   in.OriginalAsset,
		OriginalHash:    in.OriginalHash,
	}, shortID, time.Now())

	// Collision is astronomically unlikely but aborts persistence when
	// it happens; the unique indexes are the last line of defense.
	if _, err := u.repo.GetProtocolByHash(ctx, reg.IdentityHash); err == nil {
		return Protocol{}, ErrHashCollision
	} else if !errors.Is(err, ErrProtocolNotFound) {
		return Protocol{}, err
	}
	if _, err := u.repo.GetProtocolByWatermark(ctx, reg.Watermark); err == nil {
		return Protocol{}, ErrWatermarkCollision
	} else if !errors.Is(err, ErrProtocolNotFound) {
		return Protocol{}, err
	}

	owner, err := u.repo.GetOrCreateCreator(ctx, Creator{
		Name:    in.CreatorName,
		Email:   in.CreatorEmail,
		Company: in.CreatorCompany,
	})
	if err != nil {
		return Protocol{}, fmt.Errorf("resolving owner creator: %w", err)
	}

	creators := []ProtocolCreator{{Role: CreatorRoleOwner, Creator: owner}}
	for _, name := range in.CoCreators {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		cc, err := u.repo.GetOrCreateCreator(ctx, Creator{Name: name})
		if err != nil {
			return Protocol{}, fmt.Errorf("resolving co-creator %q: %w", name, err)
		}
		creators = append(creators, ProtocolCreator{Role: CreatorRoleCoCreator, Creator: cc})
	}

	protocol := Protocol{
		ShortID:         reg.ID,
		Name:            in.Name,
		Description:     in.Description,
		Type:            in.Type,
		Filename:        in.Filename,
		Version:         in.Version,
		Tags:            in.Tags,
		FileHash:        reg.FileHash,
		BlockchainHash:  reg.IdentityHash,
		Watermark:       reg.Watermark,
		CertificateID:   reg.CertificateID,
		IsRemix:         reg.Meta.IsRemix,
		OriginalHash:    reg.Meta.OriginalHash,
		OriginalCreator: reg.Meta.OriginalCreator,
		OriginalAsset:   reg.Meta.OriginalAsset,
		Creators:        creators,
	}

	cert, err := u.buildCertificate(protocol, reg.Timestamp)
	if err != nil {
		return Protocol{}, fmt.Errorf("building certificate: %w", err)
	}
	protocol.Certificate = &cert

	protocol, err = u.repo.CreateProtocol(ctx, protocol)
	if err != nil {
		return Protocol{}, err
	}

	if err := u.fileStorageProvider.StoreVaultFile(
		ctx,
		vaultObjectName(protocol.ShortID, protocol.Filename),
		in.Content,
		"application/octet-stream",
	); err != nil {
		// The registration record is committed; vault storage is
		// recoverable from the uploader's copy.
		slog.ErrorContext(ctx, "failed to store vault file",
			slog.String("protocol_id", protocol.ShortID),
			slog.String("err", err.Error()))
	}

	if u.tasks != nil {
		if err := u.tasks.EnqueueGitHubBackup(ctx, protocol.ShortID); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue backup",
				slog.String("protocol_id", protocol.ShortID),
				slog.String("err", err.Error()))
		}
		if owner.Email != "" {
			if err := u.tasks.EnqueueCertificateEmail(ctx, protocol.ShortID); err != nil {
				slog.ErrorContext(ctx, "failed to enqueue certificate email",
					slog.String("protocol_id", protocol.ShortID),
					slog.String("err", err.Error()))
			}
		}
	}

	return protocol, nil
}

func vaultObjectName(shortID, filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	return shortID + ext
}

// GetVaultDownloadURL returns a presigned URL for the registered bytes.
func (u Usecase) GetVaultDownloadURL(ctx context.Context, shortID string) (string, error) {
	p, err := u.repo.GetProtocolByShortID(ctx, shortID)
	if err != nil {
		return "", err
	}
	return u.fileStorageProvider.GetVaultDownloadURL(ctx, vaultObjectName(p.ShortID, p.Filename))
}
