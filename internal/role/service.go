package role

import (
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrRoleNotFound = errors.New("role not found")

// EnsureRole creates the role if needed and makes its permission set equal
// to perms. Running it again is harmless.
func EnsureRole(db *gorm.DB, name, description string, perms []models.Permission) (*models.Role, error) {
	var role models.Role
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = models.Role{Name: name, Description: description}
			if err := tx.Create(&role).Error; err != nil {
				return errors.Wrapf(err, "create role %s", name)
			}
		} else if err != nil {
			return err
		}

		if err := tx.Unscoped().Where("role_id = ?", role.ID).Delete(&models.Permission{}).Error; err != nil {
			return errors.Wrapf(err, "reset permissions of %s", name)
		}
		for _, p := range perms {
			p.RoleID = role.ID
			if err := tx.Create(&p).Error; err != nil {
				return errors.Wrapf(err, "grant %s:%s to %s", p.Module, p.Action, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.Preload("Permissions").First(&role, role.ID)
	return &role, nil
}

func IDByName(name string) (uint, error) {
	var role models.Role
	if err := database.DB.Select("id").Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errors.Wrap(ErrRoleNotFound, name)
		}
		return 0, err
	}
	return role.ID, nil
}

func ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := database.DB.Preload("Permissions").Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
