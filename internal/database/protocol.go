package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

type Protocol struct {
	ID              uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	ShortID         string          `gorm:"column:short_id;type:varchar(8);uniqueIndex"`
	Name            string          `gorm:"column:name;type:varchar(255)"`
	Description     string          `gorm:"column:description;type:text"`
	Type            string          `gorm:"column:type;type:varchar(32);index"`
	Filename        string          `gorm:"column:filename;type:varchar(255)"`
	Version         string          `gorm:"column:version;type:varchar(32)"`
	Tags            datatypes.JSON  `gorm:"column:tags"`
	FileHash        string          `gorm:"column:file_hash;type:varchar(64)"`
	BlockchainHash  string          `gorm:"column:blockchain_hash;type:varchar(64);uniqueIndex"`
	Watermark       string          `gorm:"column:watermark;type:varchar(64);uniqueIndex"`
	CertificateID   string          `gorm:"column:certificate_id;type:varchar(32)"`
	IsRemix         bool            `gorm:"column:is_remix"`
	OriginalHash    string          `gorm:"column:original_hash;type:varchar(64)"`
	OriginalCreator string          `gorm:"column:original_creator;type:varchar(255)"`
	OriginalAsset   string          `gorm:"column:original_asset;type:varchar(255)"`
	InvocationCount int             `gorm:"column:invocation_count"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
	DeletedAt       *gorm.DeletedAt `gorm:"column:deleted_at"`

	Creators    []ProtocolCreator `gorm:"foreignKey:ProtocolID"`
	Certificate *Certificate      `gorm:"foreignKey:ProtocolID"`
}

func (Protocol) TableName() string {
	return "protocols"
}

type ProtocolCreator struct {
	ID         uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	ProtocolID uuid.UUID `gorm:"column:protocol_id;type:uuid;uniqueIndex:idx_protocol_creator"`
	CreatorID  uuid.UUID `gorm:"column:creator_id;type:uuid;uniqueIndex:idx_protocol_creator"`
	Role       string    `gorm:"column:role;type:varchar(16)"`
	CreatedAt  time.Time `gorm:"column:created_at"`

	Creator *Creator `gorm:"foreignKey:CreatorID"`
}

func (ProtocolCreator) TableName() string {
	return "protocol_creators"
}

func (s *service) CreateProtocol(ctx context.Context, protocol usecase.Protocol) (usecase.Protocol, error) {
	tags, err := json.Marshal(protocol.Tags)
	if err != nil {
		return usecase.Protocol{}, fmt.Errorf("marshaling tags: %w", err)
	}

	p := Protocol{
		ShortID:         protocol.ShortID,
		Name:            protocol.Name,
		Description:     protocol.Description,
		Type:            string(protocol.Type),
		Filename:        protocol.Filename,
		Version:         protocol.Version,
		Tags:            tags,
		FileHash:        protocol.FileHash,
		BlockchainHash:  protocol.BlockchainHash,
		Watermark:       protocol.Watermark,
		CertificateID:   protocol.CertificateID,
		IsRemix:         protocol.IsRemix,
		OriginalHash:    protocol.OriginalHash,
		OriginalCreator: protocol.OriginalCreator,
		OriginalAsset:   protocol.OriginalAsset,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		for _, pc := range protocol.Creators {
			link := ProtocolCreator{
				ProtocolID: p.ID,
				CreatorID:  pc.Creator.ID,
				Role:       string(pc.Role),
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		if protocol.Certificate != nil {
			cert := Certificate{
				ProtocolID:      p.ID,
				CertificateID:   protocol.Certificate.CertificateID,
				HTML:            protocol.Certificate.HTML,
				DocumentText:    protocol.Certificate.DocumentText,
				CertificateHash: protocol.Certificate.CertificateHash,
			}
			if err := tx.Create(&cert).Error; err != nil {
				return err
			}
			p.Certificate = &cert
		}

		return nil
	})
	if err != nil {
		return usecase.Protocol{}, err
	}

	up := p.ConvertToUsecase()
	up.Creators = protocol.Creators
	if p.Certificate != nil {
		cert := p.Certificate.ConvertToUsecase()
		up.Certificate = &cert
	}
	return up, nil
}

func (s *service) GetProtocolByShortID(ctx context.Context, shortID string) (usecase.Protocol, error) {
	return s.getProtocol(ctx, "short_id = ?", shortID)
}

func (s *service) GetProtocolByHash(ctx context.Context, hash string) (usecase.Protocol, error) {
	return s.getProtocol(ctx, "blockchain_hash = ?", hash)
}

func (s *service) GetProtocolByWatermark(ctx context.Context, watermark string) (usecase.Protocol, error) {
	return s.getProtocol(ctx, "watermark = ?", watermark)
}

func (s *service) getProtocol(ctx context.Context, query string, arg any) (usecase.Protocol, error) {
	var p Protocol

	err := s.db.WithContext(ctx).
		Preload("Creators.Creator").
		Where(query, arg).
		First(&p).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.Protocol{}, usecase.ErrProtocolNotFound
	}
	if err != nil {
		return usecase.Protocol{}, err
	}

	return p.ConvertToUsecase(), nil
}

func (s *service) ListProtocols(ctx context.Context, opt usecase.ListProtocolsOption) ([]usecase.Protocol, int, error) {
	var (
		protocols  []Protocol
		uprotocols []usecase.Protocol
		count      int64
	)

	db := s.db.Model([]Protocol{}).WithContext(ctx)

	if opt.Type != "" {
		db = db.Where("type = ?", opt.Type)
	}
	if opt.Keyword != "" {
		kw := "%" + opt.Keyword + "%"
		db = db.Where("name ILIKE ? OR tags::text ILIKE ?", kw, kw)
	}

	orderIn := "DESC"
	if opt.SortIn == "asc" {
		orderIn = "ASC"
	}
	orderBy := "created_at"
	switch opt.SortBy {
	case "name", "invocation_count":
		orderBy = opt.SortBy
	}

	err := db.
		Count(&count).
		Order(orderBy + " " + orderIn).
		Limit(opt.Limit).
		Offset(opt.Skip).
		Preload("Creators.Creator").
		Find(&protocols).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, p := range protocols {
		uprotocols = append(uprotocols, p.ConvertToUsecase())
	}

	return uprotocols, int(count), nil
}

func (s *service) SearchProtocols(ctx context.Context, keyword string) ([]usecase.Protocol, error) {
	var protocols []Protocol

	kw := "%" + keyword + "%"
	err := s.db.WithContext(ctx).
		Where("name ILIKE ? OR tags::text ILIKE ?", kw, kw).
		Preload("Creators.Creator").
		Find(&protocols).
		Error
	if err != nil {
		return nil, err
	}

	uprotocols := make([]usecase.Protocol, 0, len(protocols))
	for _, p := range protocols {
		uprotocols = append(uprotocols, p.ConvertToUsecase())
	}
	return uprotocols, nil
}

func (s *service) CountProtocols(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model([]Protocol{}).Count(&count).Error
	return int(count), err
}

// Convert core model to Usecase
func (p Protocol) ConvertToUsecase() usecase.Protocol {
	var tags []string
	if len(p.Tags) > 0 {
		_ = json.Unmarshal(p.Tags, &tags)
	}

	up := usecase.Protocol{
		ID:              p.ID,
		ShortID:         p.ShortID,
		Name:            p.Name,
		Description:     p.Description,
		Type:            usecase.ProtocolType(p.Type),
		Filename:        p.Filename,
		Version:         p.Version,
		Tags:            tags,
		FileHash:        p.FileHash,
		BlockchainHash:  p.BlockchainHash,
		Watermark:       p.Watermark,
		CertificateID:   p.CertificateID,
		IsRemix:         p.IsRemix,
		OriginalHash:    p.OriginalHash,
		OriginalCreator: p.OriginalCreator,
		OriginalAsset:   p.OriginalAsset,
		InvocationCount: p.InvocationCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}

	for _, pc := range p.Creators {
		upc := usecase.ProtocolCreator{Role: usecase.CreatorRole(pc.Role)}
		if pc.Creator != nil {
			upc.Creator = pc.Creator.ConvertToUsecase()
		}
		up.Creators = append(up.Creators, upc)
	}

	if p.Certificate != nil {
		cert := p.Certificate.ConvertToUsecase()
		up.Certificate = &cert
	}

	return up
}
