package state

import (
	"context"
	"errors"

	"go-salepoint/internal/apiclient"
	"go-salepoint/internal/model"

	"github.com/google/uuid"
)

// API is the remote surface the facade depends on. *apiclient.Client
// satisfies it; tests swap in a fake.
type API interface {
	SetToken(token string)
	Login(ctx context.Context, email, password string) (*apiclient.Credentials, error)
	GoogleLogin(ctx context.Context, idToken string) (*apiclient.Credentials, error)
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, name, avatar string) (*model.User, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListSales(ctx context.Context) ([]model.Sale, error)
	CreateSale(ctx context.Context, items []model.SaleItem) (*model.Sale, []uuid.UUID, error)
}

// IsRecoverable classifies a failed remote operation: transport errors and
// server-side (5xx) responses are worth retrying; an unauthorized response
// means the session is gone, and other client errors will not improve on
// retry. Callers choose retry/surface-to-user policy from this.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}
