package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

type Certificate struct {
	ID              uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	ProtocolID      uuid.UUID `gorm:"column:protocol_id;type:uuid;uniqueIndex"`
	CertificateID   string    `gorm:"column:certificate_id;type:varchar(32);uniqueIndex"`
	HTML            string    `gorm:"column:html;type:text"`
	DocumentText    string    `gorm:"column:document_text;type:text"`
	CertificateHash string    `gorm:"column:certificate_hash;type:varchar(32)"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (s *service) GetCertificateByProtocolID(ctx context.Context, protocolID uuid.UUID) (usecase.Certificate, error) {
	var c Certificate

	err := s.db.WithContext(ctx).Where("protocol_id = ?", protocolID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.Certificate{}, usecase.ErrCertificateNotFound
	}
	if err != nil {
		return usecase.Certificate{}, err
	}

	return c.ConvertToUsecase(), nil
}

func (s *service) CountCertificates(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model([]Certificate{}).Count(&count).Error
	return int(count), err
}

// Convert core model to Usecase
func (c Certificate) ConvertToUsecase() usecase.Certificate {
	return usecase.Certificate{
		ID:              c.ID,
		ProtocolID:      c.ProtocolID,
		CertificateID:   c.CertificateID,
		HTML:            c.HTML,
		DocumentText:    c.DocumentText,
		CertificateHash: c.CertificateHash,
		CreatedAt:       c.CreatedAt,
	}
}
