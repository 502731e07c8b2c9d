package role

import (
	"github.com/Kyz7/landing/internal/models"
	"gorm.io/gorm"
)

const (
	Admin     = "admin"
	Marketing = "marketing"
	Viewer    = "viewer"
)

// Permission modules.
const (
	ModuleLandingPage = "LandingPage"
	ModuleMedia       = "Media"
	ModuleEnquiry     = "Enquiry"
)

func grant(module string, actions ...string) []models.Permission {
	perms := make([]models.Permission, 0, len(actions))
	for _, action := range actions {
		perms = append(perms, models.Permission{Module: module, Action: action})
	}
	return perms
}

func concat(groups ...[]models.Permission) []models.Permission {
	var out []models.Permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// SeedDefaultRoles installs admin, marketing and viewer.
func SeedDefaultRoles(db *gorm.DB) error {
	roles := []struct {
		name, description string
		perms             []models.Permission
	}{
		{Admin, "Full access to landing pages, media and enquiries", concat(
			grant(ModuleLandingPage, "create", "read", "update", "delete", "publish"),
			grant(ModuleMedia, "create", "read", "delete"),
			grant(ModuleEnquiry, "read"),
		)},
		{Marketing, "Builds and publishes landing pages", concat(
			grant(ModuleLandingPage, "create", "read", "update", "publish"),
			grant(ModuleMedia, "create", "read"),
			grant(ModuleEnquiry, "read"),
		)},
		{Viewer, "Read-only access", concat(
			grant(ModuleLandingPage, "read"),
			grant(ModuleMedia, "read"),
		)},
	}

	for _, r := range roles {
		if _, err := EnsureRole(db, r.name, r.description, r.perms); err != nil {
			return err
		}
	}
	return nil
}
