package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WatermarkHit is one successful public verification of a watermark.
type WatermarkHit struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Watermark string    `gorm:"column:watermark;type:varchar(64);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (WatermarkHit) TableName() string {
	return "watermark_hits"
}

func (s *service) RecordWatermarkDetection(ctx context.Context, watermark string) error {
	return s.db.WithContext(ctx).Create(&WatermarkHit{Watermark: watermark}).Error
}

func (s *service) CountWatermarkDetections(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model([]WatermarkHit{}).Count(&count).Error
	return int(count), err
}
