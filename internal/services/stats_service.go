package services

import (
	"fmt"

	"bakery_backend/internal/models"
	"bakery_backend/internal/repositories"
)

// StatsService aggregates counters for the admin dashboard and order reports.
type StatsService interface {
	GetDashboardStats() (*models.DashboardStats, error)
	GetOrderStatistics(dateFrom, dateTo *string) (*models.OrderStatistics, error)
}

type statsService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	branchRepo   repositories.BranchRepository
	orderRepo    repositories.OrderRepository
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(
	pr repositories.ProductRepository,
	cr repositories.CategoryRepository,
	br repositories.BranchRepository,
	or repositories.OrderRepository,
) StatsService {
	return &statsService{
		productRepo:  pr,
		categoryRepo: cr,
		branchRepo:   br,
		orderRepo:    or,
	}
}

func (s *statsService) GetDashboardStats() (*models.DashboardStats, error) {
	products, err := s.productRepo.CountAvailable()
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	categories, err := s.categoryRepo.CountActive()
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	branches, err := s.branchRepo.CountActive()
	if err != nil {
		return nil, fmt.Errorf("failed to count branches: %w", err)
	}
	orders, err := s.orderRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	todayOrders, err := s.orderRepo.TodayCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}
	revenue, err := s.orderRepo.TotalRevenue()
	if err != nil {
		return nil, fmt.Errorf("failed to compute total revenue: %w", err)
	}

	return &models.DashboardStats{
		Products:     products,
		Categories:   categories,
		Orders:       orders,
		Branches:     branches,
		TodayOrders:  todayOrders,
		TotalRevenue: revenue,
	}, nil
}

func (s *statsService) GetOrderStatistics(dateFrom, dateTo *string) (*models.OrderStatistics, error) {
	stats, err := s.orderRepo.Statistics(dateFrom, dateTo)
	if err != nil {
		return nil, fmt.Errorf("failed to compute order statistics: %w", err)
	}
	return stats, nil
}
