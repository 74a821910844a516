package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

type Invocation struct {
	ID         uuid.UUID      `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	ProtocolID uuid.UUID      `gorm:"column:protocol_id;type:uuid;index"`
	UserID     string         `gorm:"column:user_id;type:varchar(255)"`
	UserEmail  string         `gorm:"column:user_email;type:varchar(255)"`
	UserIP     string         `gorm:"column:user_ip;type:varchar(45)"`
	UserAgent  string         `gorm:"column:user_agent;type:varchar(512)"`
	Telemetry  datatypes.JSON `gorm:"column:telemetry"`
	CreatedAt  time.Time      `gorm:"column:created_at"`

	Protocol *Protocol `gorm:"foreignKey:ProtocolID"`
}

func (Invocation) TableName() string {
	return "invocations"
}

// CreateInvocation records the invocation and bumps the protocol's
// counter in the same transaction.
func (s *service) CreateInvocation(ctx context.Context, invocation usecase.Invocation) (usecase.Invocation, error) {
	telemetry, err := json.Marshal(invocation.Telemetry)
	if err != nil {
		return usecase.Invocation{}, fmt.Errorf("marshaling telemetry: %w", err)
	}

	inv := Invocation{
		ProtocolID: invocation.ProtocolID,
		UserID:     invocation.UserID,
		UserEmail:  invocation.UserEmail,
		UserIP:     invocation.UserIP,
		UserAgent:  invocation.UserAgent,
		Telemetry:  telemetry,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		return tx.Model(Protocol{}).
			Where("id = ?", invocation.ProtocolID).
			UpdateColumn("invocation_count", gorm.Expr("invocation_count + 1")).
			Error
	})
	if err != nil {
		return usecase.Invocation{}, err
	}

	return inv.ConvertToUsecase(), nil
}

func (s *service) CountInvocations(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model([]Invocation{}).Count(&count).Error
	return int(count), err
}

// Convert core model to Usecase
func (i Invocation) ConvertToUsecase() usecase.Invocation {
	var telemetry map[string]any
	if len(i.Telemetry) > 0 {
		_ = json.Unmarshal(i.Telemetry, &telemetry)
	}

	return usecase.Invocation{
		ID:         i.ID,
		ProtocolID: i.ProtocolID,
		UserID:     i.UserID,
		UserEmail:  i.UserEmail,
		UserIP:     i.UserIP,
		UserAgent:  i.UserAgent,
		Telemetry:  telemetry,
		CreatedAt:  i.CreatedAt,
	}
}
