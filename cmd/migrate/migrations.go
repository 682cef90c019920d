package main

import (
	"gorm.io/gorm"

	"github.com/projectflow/engine/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		// Identity
		&models.User{},
		&models.StudentProfile{},
		&models.FacultyProfile{},

		// Group formation
		&models.Group{},
		&models.GroupMember{},
		&models.GroupRequest{},

		// Workflow
		&models.CoordinatorApproval{},
		&models.GuideRequest{},
		&models.Abstract{},
		&models.SustainableDevelopmentGoal{},

		// Messaging
		&models.Notification{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	models := registerModels()

	// Run AutoMigrate for all models
	if err := db.AutoMigrate(models...); err != nil {
		return err
	}

	// Run custom migrations
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		enableUUIDExtension,
		addGuideRequestActiveIndex,
		addFinalAbstractIndex,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

// enableUUIDExtension ensures UUID generation is available
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addGuideRequestActiveIndex enforces at most one pending-or-accepted
// guide request per group, closing the race two concurrent requests
// would otherwise win together.
func addGuideRequestActiveIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_guide_requests_one_active
		ON guide_requests(group_id)
		WHERE status IN ('pending', 'accepted') AND deleted_at IS NULL
	`).Error
}

// addFinalAbstractIndex enforces at most one final-approved abstract per
// group.
func addFinalAbstractIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_abstracts_one_final
		ON abstracts(group_id)
		WHERE is_final_approved = true AND deleted_at IS NULL
	`).Error
}
