package store

import (
	"errors"

	"gorm.io/gorm"

	"notes-service/internal/model"
)

// FindTenantByID returns the tenant with the given id, or nil when no such
// tenant exists.
func FindTenantByID(db *gorm.DB, id string) (*model.Tenant, error) {
	var tenant model.Tenant
	result := db.Where("id = ?", id).First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &tenant, nil
}

// FindTenantBySlug returns the tenant with the given slug, or nil when no
// such tenant exists.
func FindTenantBySlug(db *gorm.DB, slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	result := db.Where("slug = ?", slug).First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &tenant, nil
}

// CountNotes returns the number of notes currently held by a tenant.
func CountNotes(db *gorm.DB, tenantID string) (int64, error) {
	var count int64
	result := db.Model(&model.Note{}).Where("tenant_id = ?", tenantID).Count(&count)
	return count, result.Error
}

// UpgradeTenantPlan moves a tenant to the PRO plan. Plan changes are one-way.
func UpgradeTenantPlan(db *gorm.DB, tenantID string) error {
	return db.Model(&model.Tenant{}).
		Where("id = ?", tenantID).
		Update("plan", model.PlanPro).Error
}
