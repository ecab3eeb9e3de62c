package main

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"notes-service/internal/model"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/logger"
)

// Seeds two demo tenants with a manager and a member each. Safe to run more
// than once; existing rows are left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()

	tenants := []model.Tenant{
		{Name: "Acme", Slug: "acme"},
		{Name: "Globex", Slug: "globex"},
	}
	for i := range tenants {
		if err := db.Where(model.Tenant{Slug: tenants[i].Slug}).
			FirstOrCreate(&tenants[i]).Error; err != nil {
			log.Fatal("Failed to seed tenant", zap.String("slug", tenants[i].Slug), zap.Error(err))
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash default password", zap.Error(err))
	}

	users := []model.User{
		{Name: "Admin", Email: "admin@acme.test", Role: model.RoleManager, TenantID: tenants[0].ID},
		{Name: "Member", Email: "user@acme.test", Role: model.RoleMember, TenantID: tenants[0].ID},
		{Name: "Admin", Email: "admin@globex.test", Role: model.RoleManager, TenantID: tenants[1].ID},
		{Name: "Member", Email: "user@globex.test", Role: model.RoleMember, TenantID: tenants[1].ID},
	}
	for i := range users {
		users[i].Password = string(hashed)
		if err := seedUser(db, &users[i]); err != nil {
			log.Fatal("Failed to seed user", zap.String("email", users[i].Email), zap.Error(err))
		}
	}

	log.Info("Seeding completed",
		zap.Int("tenants", len(tenants)),
		zap.Int("users", len(users)))
}

func seedUser(db *gorm.DB, user *model.User) error {
	var existing model.User
	result := db.Where("email = ?", user.Email).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return db.Create(user).Error
}
