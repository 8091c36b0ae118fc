package service

import (
	"context"

	"github.com/bitfantasy/mantenix/internal/gmao/repository"
)

// DashboardStats aggregates per-entity counters for the back-office home.
type DashboardStats struct {
	Solicitudes  *repository.RequestStats      `json:"solicitudes"`
	Ordenes      *repository.OrderStats        `json:"ordenes"`
	Visitas      *repository.VisitStats        `json:"visitas"`
	Cotizaciones *repository.QuotationStats    `json:"cotizaciones"`
	Bodega       *repository.WarehouseStats    `json:"bodega"`
	Bajas        *repository.DecommissionStats `json:"bajas"`
}

// DashboardService composes the status aggregates of every entity family.
type DashboardService struct {
	requestRepo      *repository.RequestRepository
	orderRepo        *repository.OrderRepository
	visitRepo        *repository.VisitRepository
	quotationRepo    *repository.QuotationRepository
	warehouseRepo    *repository.WarehouseRepository
	decommissionRepo *repository.DecommissionRepository
}

func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{
		requestRepo:      repos.Request,
		orderRepo:        repos.Order,
		visitRepo:        repos.Visit,
		quotationRepo:    repos.Quotation,
		warehouseRepo:    repos.Warehouse,
		decommissionRepo: repos.Decommission,
	}
}

// Stats runs one aggregate query per entity family.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	solicitudes, err := s.requestRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	ordenes, err := s.orderRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	visitas, err := s.visitRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	cotizaciones, err := s.quotationRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	bodega, err := s.warehouseRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	bajas, err := s.decommissionRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Solicitudes:  solicitudes,
		Ordenes:      ordenes,
		Visitas:      visitas,
		Cotizaciones: cotizaciones,
		Bodega:       bodega,
		Bajas:        bajas,
	}, nil
}
