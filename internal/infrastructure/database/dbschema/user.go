package dbschema

import (
	"time"

	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
}

// User is the directory schema: public profile plus the role and
// verification flag the gatekeeper and broadcaster rely on. Account
// management itself lives in another service; this table is read-mostly
// here.
type User struct {
	ID        string    `gorm:"type:varchar(50);primaryKey"`
	Name      string    `gorm:"type:varchar(256);not null"`
	Email     string    `gorm:"type:varchar(256);uniqueIndex;not null"`
	AvatarURL string    `gorm:"type:varchar(512)"`
	Role      string    `gorm:"type:varchar(20);not null;index"`
	Verified  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// EtoD converts the schema row into its domain form.
func (u *User) EtoD() *identity.User {
	return &identity.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      identity.Role(u.Role),
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
