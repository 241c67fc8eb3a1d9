package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/models"
	"github.com/sig-servicios/cotizador/internal/reports"
)

type ReportService struct {
	store *datastore.Store
}

func NewReportService(store *datastore.Store) *ReportService {
	return &ReportService{store: store}
}

// Dashboard aggregates the quotations visible to the caller.
func (s *ReportService) Dashboard(ctx context.Context) (reports.Dashboard, error) {
	var qs []models.Quotation
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Client").Order("created_at asc, id asc").Find(&qs).Error
	})
	if err != nil {
		return reports.Dashboard{}, err
	}
	rows := make([]reports.Row, 0, len(qs))
	for _, q := range qs {
		rows = append(rows, reports.Row{
			Total:      q.Total,
			Status:     q.Status,
			ClientName: q.Client.DisplayName(),
			CreatedAt:  q.CreatedAt,
		})
	}
	return reports.BuildDashboard(rows), nil
}
