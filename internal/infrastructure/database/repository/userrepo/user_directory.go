package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/dbschema"
	"github.com/shoplite/messaging-api/internal/utils/platformerrors"
)

// UserGormDirectory resolves identities and role membership from the users
// table. Role membership is queried per call, never cached, so broadcasts
// always see the current group.
type UserGormDirectory struct {
	db *gorm.DB
}

var _ identity.Directory = (*UserGormDirectory)(nil)

func NewUserGormDirectory(db *gorm.DB) identity.Directory {
	return &UserGormDirectory{db}
}

// FindByID implements identity.Directory.
func (repo *UserGormDirectory) FindByID(ctx context.Context, userID string) (*identity.User, error) {
	var row dbschema.User
	err := repo.db.WithContext(ctx).Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to find user", err)
	}
	return row.EtoD(), nil
}

// ListByRole implements identity.Directory.
func (repo *UserGormDirectory) ListByRole(ctx context.Context, role identity.Role) ([]*identity.User, error) {
	var rows []*dbschema.User
	err := repo.db.WithContext(ctx).Where("role = ?", string(role)).Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to list users by role", err)
	}

	result := make([]*identity.User, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.EtoD())
	}
	return result, nil
}
