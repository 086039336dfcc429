package database

import (
	"github.com/yeremiapane/factory-app/models"
	"github.com/yeremiapane/factory-app/utils"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Customer{},
		&models.Product{},
		&models.Machine{},
		&models.Order{},
		&models.OrderItem{},
		&models.WeeklyPlanning{},
		&models.Operator{},
		&models.Roll{},
		&models.DBChange{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// DefaultMachines is the machine park created on first deployment.
func DefaultMachines() []models.Machine {
	return []models.Machine{
		{Number: 1, Name: "Extrusora 01", Type: models.MachineNoPrint, Status: models.MachineActive, CapacityPerHour: 120},
		{Number: 2, Name: "Extrusora 02", Type: models.MachineNoPrint, Status: models.MachineActive, CapacityPerHour: 120},
		{Number: 3, Name: "Impressora 01", Type: models.MachineWithPrint, Status: models.MachineActive, CapacityPerHour: 80},
		{Number: 4, Name: "Impressora 02", Type: models.MachineWithPrint, Status: models.MachineActive, CapacityPerHour: 80},
		{Number: 5, Name: "Corte e Solda", Type: models.MachineSpecial, Status: models.MachineActive, CapacityPerHour: 60},
	}
}

// SeedMachines inserts machines only when the machines table is empty.
// It returns the number of rows created.
func SeedMachines(db *gorm.DB, machines []models.Machine) (int, error) {
	var count int64
	if err := db.Model(&models.Machine{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 || len(machines) == 0 {
		return 0, nil
	}

	if err := db.Create(&machines).Error; err != nil {
		return 0, err
	}
	utils.InfoLogger.Printf("Seeded %d machines", len(machines))
	return len(machines), nil
}
