package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Creator is an individual or organization registering IP. Email, when
// present, uniquely identifies the creator across registrations.
type Creator struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Company   string
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ListCreatorsOption struct {
	Skip  int
	Limit int
	Name  string
}

func (u Usecase) ListCreators(ctx context.Context, opt ListCreatorsOption) ([]Creator, int, error) {
	return u.repo.ListCreators(ctx, opt)
}

func (u Usecase) GetCreatorByID(ctx context.Context, id uuid.UUID) (Creator, error) {
	return u.repo.GetCreatorByID(ctx, id)
}
