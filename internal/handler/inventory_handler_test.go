package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"go-salepoint/internal/model"
	"go-salepoint/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubInventoryService struct {
	products []model.Product
	sales    []model.Sale
	receipt  *service.SaleReceipt
	err      error

	recordedItems []model.SaleItem
}

func (s *stubInventoryService) CreateProduct(req *model.Product) error { return s.err }

func (s *stubInventoryService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	return req, s.err
}

func (s *stubInventoryService) DeleteProduct(id uuid.UUID) error { return s.err }

func (s *stubInventoryService) GetAllProducts() ([]model.Product, error) {
	return s.products, s.err
}

func (s *stubInventoryService) RecordSale(items []model.SaleItem, userID, userName string) (*service.SaleReceipt, error) {
	s.recordedItems = items
	return s.receipt, s.err
}

func (s *stubInventoryService) GetAllSales() ([]model.Sale, error) { return s.sales, s.err }

func (s *stubInventoryService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	if len(s.sales) == 0 {
		return nil, s.err
	}
	return &s.sales[0], nil
}

func newTestRouter(svc service.InventoryService) *fiber.App {
	app := fiber.New()
	h := NewInventoryHandler(svc)

	// Stand-in for the auth middleware
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uuid.New().String())
		c.Locals("user_name", "Test Operator")
		return c.Next()
	})

	app.Get("/products", h.GetProducts)
	app.Post("/sales", h.CreateSale)
	app.Get("/sales", h.GetSales)
	return app
}

func TestGetProducts(t *testing.T) {
	p := model.Product{Name: "Widget", SKU: "W-1", Quantity: 10, Threshold: 5}
	p.ID = uuid.New()
	svc := &stubInventoryService{products: []model.Product{p}}
	app := newTestRouter(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/products", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got []model.Product
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].SKU != "W-1" {
		t.Fatalf("unexpected products: %+v", got)
	}
}

func TestCreateSaleReportsSkipped(t *testing.T) {
	productID := uuid.New()
	ghost := uuid.New()
	sale := &model.Sale{TotalAmount: 100, Items: []model.SaleItem{{ProductID: productID, Quantity: 2}}}
	sale.ID = uuid.New()
	svc := &stubInventoryService{receipt: &service.SaleReceipt{Sale: sale, Skipped: []uuid.UUID{ghost}}}
	app := newTestRouter(svc)

	payload := `{"items":[{"product_id":"` + productID.String() + `","quantity":2},{"product_id":"` + ghost.String() + `","quantity":1}]}`
	req := httptest.NewRequest("POST", "/sales", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var got struct {
		Skipped []uuid.UUID `json:"skipped_product_ids"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Skipped) != 1 || got.Skipped[0] != ghost {
		t.Fatalf("skipped ids not surfaced: %+v", got)
	}
	if len(svc.recordedItems) != 2 {
		t.Fatalf("expected both items forwarded to the service, got %d", len(svc.recordedItems))
	}
}

func TestCreateSaleRejectsBadJSON(t *testing.T) {
	app := newTestRouter(&stubInventoryService{})

	req := httptest.NewRequest("POST", "/sales", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateSaleServiceError(t *testing.T) {
	svc := &stubInventoryService{err: service.ErrEmptySale}
	app := newTestRouter(svc)

	req := httptest.NewRequest("POST", "/sales", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
