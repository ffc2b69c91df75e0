package service

import (
	"errors"

	"go-salepoint/internal/model"
	"go-salepoint/internal/repository"
	"go-salepoint/internal/ws"
	"go-salepoint/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUExists       = errors.New("SKU already exists")
	ErrEmptySale       = errors.New("sale requires at least one line item")
	ErrUnknownProducts = errors.New("no line item references a known product")
)

type InventoryService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
	RecordSale(items []model.SaleItem, userID, userName string) (*SaleReceipt, error)
	GetAllSales() ([]model.Sale, error)
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
}

// SaleReceipt reports what the sale actually did: the created record plus
// any line items that were dropped because their product id did not resolve.
type SaleReceipt struct {
	Sale    *model.Sale `json:"sale"`
	Skipped []uuid.UUID `json:"skipped_product_ids,omitempty"`
}

type inventoryService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, sRepo repository.SaleRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		saleRepo:    sRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product) error {
	// 1. Basic struct validation
	if err := validator.FirstError(req); err != nil {
		return err
	}

	// 2. SKU duplication check (business rule)
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.broadcast("product_created", productPayload(req))
	return nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	var updated *model.Product

	// Transaction block with pessimistic locking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Quantity = req.Quantity
		existing.Threshold = req.Threshold
		existing.Price = req.Price

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcast("product_updated", productPayload(updated))
	return updated, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	s.broadcast("product_deleted", map[string]interface{}{"id": id})
	return nil
}

// RecordSale decrements stock for every resolvable line item inside a single
// DB transaction. Quantities are not clamped: overselling stores
// a negative quantity rather than failing the checkout. Unresolvable ids are
// skipped and reported in the receipt.
func (s *inventoryService) RecordSale(items []model.SaleItem, userID, userName string) (*SaleReceipt, error) {
	if len(items) == 0 {
		return nil, ErrEmptySale
	}

	for i := range items {
		if err := validator.FirstError(&items[i]); err != nil {
			return nil, err
		}
	}

	receipt := &SaleReceipt{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale := &model.Sale{RecordedByID: &userID}
		var total int64

		for _, item := range items {
			var product model.Product
			if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", item.ProductID).Error; err != nil {
				receipt.Skipped = append(receipt.Skipped, item.ProductID)
				continue
			}

			newQuantity := product.Quantity - item.Quantity
			if err := s.productRepo.UpdateQuantity(tx, product.ID, newQuantity); err != nil {
				return err
			}

			total += product.Price * int64(item.Quantity)
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		if len(sale.Items) == 0 {
			return ErrUnknownProducts
		}

		sale.TotalAmount = total
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		receipt.Sale = sale
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.broadcast("sale_recorded", map[string]interface{}{
		"sale_id":      receipt.Sale.ID,
		"total_amount": receipt.Sale.TotalAmount,
		"items":        len(receipt.Sale.Items),
		"recorded_by":  userName,
	})

	return receipt, nil
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *inventoryService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.FindByID(id)
}

func (s *inventoryService) broadcast(action string, data map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastEvent(map[string]interface{}{
		"type":   "stock_update",
		"action": action,
		"data":   data,
	})
}

func productPayload(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":        p.ID,
		"sku":       p.SKU,
		"name":      p.Name,
		"quantity":  p.Quantity,
		"threshold": p.Threshold,
		"price":     p.Price,
	}
}
