package database

import (
	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultIngredients is the catalog installed on an empty database
var DefaultIngredients = []string{
	"Pomodoro", "Mozzarella", "Basilico", "Funghi", "Salame piccante", "Prosciutto cotto",
	"Prosciutto crudo", "Olive", "Carciofi", "Acciughe", "Capperi", "Peperoni",
	"Cipolla", "Gorgonzola", "Wurstel", "Patatine", "Rucola", "Tonno", "Nduja", "Bufala",
}

// Migrate creates or updates every tracker table
func Migrate(db *gorm.DB) error {
	log.Info("Migrating database schema")
	return db.AutoMigrate(models.AllModels()...)
}

// SeedCatalog installs DefaultIngredients when the ingredient catalog is empty
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Ingredient{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.WithField("ingredients", count).Info("Ingredient catalog already seeded")
		return nil
	}

	ingredients := make([]models.Ingredient, len(DefaultIngredients))
	for i, name := range DefaultIngredients {
		ingredients[i] = models.Ingredient{Name: name}
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredients).Error; err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"ingredients": len(ingredients)}).Info("Ingredient catalog seeded")
	return nil
}
