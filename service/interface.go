package service

import (
	"context"

	"rocketcart/model"
)

type ServiceInterface interface {
	Cart() model.Cart
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, req model.UpdateProductAmount) error
}

// Catalog is the remote stock and product lookup.
type Catalog interface {
	GetStock(ctx context.Context, productID int64) (model.Stock, error)
	GetProduct(ctx context.Context, productID int64) (model.Product, error)
}
