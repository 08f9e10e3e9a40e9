package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hamrokrishi/advisory-service/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second pooled connection to :memory: would see a different
	// database entirely.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.Office{},
		&model.Technician{},
		&model.Ticket{},
		&model.Message{},
	))
	return db
}

func seedOffice(t *testing.T, db *gorm.DB, name string) *model.Office {
	t.Helper()
	o := &model.Office{Name: name, District: "Kathmandu", Email: name + "@akc.example"}
	require.NoError(t, db.Create(o).Error)
	return o
}

func seedTechnician(t *testing.T, db *gorm.DB, officeID uint64, name string, primary, active bool) *model.Technician {
	t.Helper()
	tech := &model.Technician{
		OfficeID:  officeID,
		Name:      name,
		Email:     name + "@akc.example",
		IsPrimary: primary,
		IsActive:  active,
	}
	require.NoError(t, db.Create(tech).Error)
	return tech
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
