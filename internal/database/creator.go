package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

type Creator struct {
	ID        uuid.UUID       `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name      string          `gorm:"column:name;type:varchar(255);index"`
	Email     string          `gorm:"column:email;type:varchar(255);index"`
	Company   string          `gorm:"column:company;type:varchar(255)"`
	Verified  bool            `gorm:"column:verified"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
	DeletedAt *gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (Creator) TableName() string {
	return "creators"
}

// GetOrCreateCreator resolves a creator by email when present, falling
// back to the exact name. A new record is created on miss.
func (s *service) GetOrCreateCreator(ctx context.Context, creator usecase.Creator) (usecase.Creator, error) {
	var c Creator

	db := s.db.WithContext(ctx)
	if creator.Email != "" {
		db = db.Where("email = ?", creator.Email)
	} else {
		db = db.Where("name = ?", creator.Name)
	}

	err := db.First(&c).Error
	if err == nil {
		return c.ConvertToUsecase(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.Creator{}, err
	}

	c = Creator{
		Name:    creator.Name,
		Email:   creator.Email,
		Company: creator.Company,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return usecase.Creator{}, err
	}
	return c.ConvertToUsecase(), nil
}

func (s *service) GetCreatorByID(ctx context.Context, id uuid.UUID) (usecase.Creator, error) {
	var c Creator

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.Creator{}, usecase.ErrCreatorNotFound
	}
	if err != nil {
		return usecase.Creator{}, err
	}

	return c.ConvertToUsecase(), nil
}

func (s *service) ListCreators(ctx context.Context, opt usecase.ListCreatorsOption) ([]usecase.Creator, int, error) {
	var (
		creators  []Creator
		ucreators []usecase.Creator
		count     int64
	)

	db := s.db.Model([]Creator{}).WithContext(ctx)

	if opt.Name != "" {
		db = db.Where("name ILIKE ?", "%"+opt.Name+"%")
	}

	err := db.
		Count(&count).
		Order("created_at DESC").
		Limit(opt.Limit).
		Offset(opt.Skip).
		Find(&creators).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, c := range creators {
		ucreators = append(ucreators, c.ConvertToUsecase())
	}

	return ucreators, int(count), nil
}

// Convert core model to Usecase
func (c Creator) ConvertToUsecase() usecase.Creator {
	return usecase.Creator{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Verified:  c.Verified,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
