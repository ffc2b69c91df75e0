package repository

import (
	"go-salepoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	GetDashboardStats() (*DashboardStats, error)
}

// DashboardStats for the overview endpoint
type DashboardStats struct {
	TotalProducts   int64 `json:"total_products"`
	TotalSales      int64 `json:"total_sales"`
	LowStockCount   int64 `json:"low_stock_count"`
	OutOfStockCount int64 `json:"out_of_stock_count"`
	TotalValuation  int64 `json:"total_valuation"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	// Preload Items and RecordedBy, newest first
	err := r.db.Preload("Items").Preload("RecordedBy").Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").Preload("RecordedBy").First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.Sale{}).Count(&stats.TotalSales)

	// Low stock: on hand but at or below the per-product reorder threshold
	r.db.Model(&model.Product{}).Where("quantity > 0 AND quantity <= threshold").Count(&stats.LowStockCount)

	// Out of stock includes oversold (negative) quantities
	r.db.Model(&model.Product{}).Where("quantity <= 0").Count(&stats.OutOfStockCount)

	// Valuation only counts units actually on hand
	r.db.Model(&model.Product{}).Select("COALESCE(SUM(GREATEST(quantity, 0) * price), 0)").Scan(&stats.TotalValuation)

	return &stats, nil
}
