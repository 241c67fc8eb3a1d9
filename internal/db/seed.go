package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/models"
)

var baseServices = []models.Service{
	{Concept: "Servicio técnico en sitio", Unit: models.UnitHour, PriceWithContract: 850, PriceWithoutContract: 1100, Currency: models.DefaultCurrency},
	{Concept: "Servicio técnico en sitio (jornada)", Unit: models.UnitDay, PriceWithContract: 6200, PriceWithoutContract: 7800, Currency: models.DefaultCurrency},
	{Concept: "Inspección técnica de equipo", Unit: models.UnitDay, PriceWithContract: 5400, PriceWithoutContract: 6900, Currency: models.DefaultCurrency},
	{Concept: "Capacitación a operadores", Unit: models.UnitHour, PriceWithContract: 950, PriceWithoutContract: 1250, Currency: models.DefaultCurrency},
}

var baseCompany = models.Company{
	Name:  "SIG Servicios Industriales",
	Email: "contacto@sig.com.mx",
	City:  "Monterrey",
	State: "Nuevo León",
}

// Seed inserts the default tariff catalog and issuing company. Safe to run repeatedly.
func Seed(db *gorm.DB) error {
	for _, s := range baseServices {
		var existing models.Service
		err := db.Where("concept = ?", s.Concept).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s := s
			s.Active = true
			if err := db.Create(&s).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	var count int64
	if err := db.Model(&models.Company{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		c := baseCompany
		return db.Create(&c).Error
	}
	return nil
}
