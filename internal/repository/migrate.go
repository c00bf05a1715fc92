package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates every table this service owns. Production
// runs it once at startup; tests run it against in-memory sqlite.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&tutorProfileModel{},
		&lessonModel{},
		&reviewModel{},
		&messageModel{},
	)
}
