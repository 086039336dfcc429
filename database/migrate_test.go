package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/factory-app/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestSeedMachinesOnlyOnce(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	created, err := SeedMachines(db, DefaultMachines())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultMachines()), created)

	created, err = SeedMachines(db, DefaultMachines())
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	db.Model(&models.Machine{}).Count(&count)
	assert.Equal(t, int64(len(DefaultMachines())), count)
}

func TestSeedMachinesRecordsChanges(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	_, err := SeedMachines(db, DefaultMachines()[:2])
	require.NoError(t, err)

	var changes []models.DBChange
	require.NoError(t, db.Where("table_name = ?", "machines").Find(&changes).Error)
	assert.Len(t, changes, 2)
	for _, c := range changes {
		assert.Equal(t, models.ChangeInsert, c.ActionType)
		assert.False(t, c.Processed)
	}
}
