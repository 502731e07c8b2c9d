package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Kyz7/landing/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Migration struct {
	ID        uint   `gorm:"primaryKey"`
	Version   string `gorm:"uniqueIndex;size:255"`
	AppliedAt time.Time
}

// RunMigrations applies every *.sql file in dir that has not been recorded
// yet. Files named rollback_* are skipped. Applied files are returned.
func RunMigrations(db *gorm.DB, dir string) ([]string, error) {
	if err := db.AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Strings(files)

	var applied []string
	for _, file := range files {
		filename := filepath.Base(file)
		if len(filename) > 9 && filename[:9] == "rollback_" {
			continue
		}

		var count int64
		db.Model(&Migration{}).Where("version = ?", filename).Count(&count)
		if count > 0 {
			logger.Log.Debug("Skipping migration", zap.String("file", filename))
			continue
		}

		sqlContent, err := os.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(sqlContent)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", filename, err)
			}
			return tx.Create(&Migration{Version: filename, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return applied, err
		}

		logger.Log.Info("Applied migration", zap.String("file", filename))
		applied = append(applied, filename)
	}

	return applied, nil
}

func RollbackMigration(db *gorm.DB, dir, version string) error {
	var migration Migration
	if err := db.Where("version = ?", version).First(&migration).Error; err != nil {
		return fmt.Errorf("migration not found: %s", version)
	}

	rollbackFile := filepath.Join(dir, "rollback_"+version)
	sqlContent, err := os.ReadFile(rollbackFile)
	if err != nil {
		return fmt.Errorf("rollback file not found: %s", rollbackFile)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(sqlContent)).Error; err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}
		if err := tx.Delete(&migration).Error; err != nil {
			return fmt.Errorf("failed to delete migration record: %w", err)
		}
		logger.Log.Info("Rolled back migration", zap.String("version", version))
		return nil
	})
}

func GetAppliedMigrations(db *gorm.DB) ([]Migration, error) {
	var migrations []Migration
	if err := db.Order("applied_at DESC").Find(&migrations).Error; err != nil {
		return nil, err
	}
	return migrations, nil
}
