package service

import (
	"time"

	"go-perfumeria-ws/internal/model"
	"go-perfumeria-ws/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	PendingEntradas  int64           `json:"entradas_pendientes"`
	ValidatedToday   int64           `json:"validadas_hoy"`
	RejectedEntradas int64           `json:"entradas_rechazadas"`
	TotalPerfumes    int64           `json:"total_perfumes"`
	LowStockCount    int64           `json:"stock_bajo"`
	TotalValuation   decimal.Decimal `json:"valuacion_total"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetEntradaFlow(days int) ([]repository.EntradaFlowData, error)
}

type dashboardService struct {
	entradaRepo repository.EntradaRepository
	perfumeRepo repository.PerfumeRepository
}

func NewDashboardService(entradaRepo repository.EntradaRepository, perfumeRepo repository.PerfumeRepository) DashboardService {
	return &dashboardService{
		entradaRepo: entradaRepo,
		perfumeRepo: perfumeRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.PendingEntradas, err = s.entradaRepo.CountByStatus(model.EntradaRegistered); err != nil {
		return nil, err
	}
	if stats.RejectedEntradas, err = s.entradaRepo.CountByStatus(model.EntradaRejected); err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.ValidatedToday, err = s.entradaRepo.CountValidatedBetween(startOfDay, now); err != nil {
		return nil, err
	}

	if stats.TotalPerfumes, err = s.perfumeRepo.Count(); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.perfumeRepo.CountLowStock(); err != nil {
		return nil, err
	}
	if stats.TotalValuation, err = s.perfumeRepo.TotalValuation(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *dashboardService) GetEntradaFlow(days int) ([]repository.EntradaFlowData, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return s.entradaRepo.GetEntradaFlow(start, end)
}
