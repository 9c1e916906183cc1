package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"rocketcart/model"
	"rocketcart/notify"
	"rocketcart/store"
)

// Service owns one cart. Mutations are serialized by ops for their whole
// read-modify-write, remote reads included; mu only guards the cart value so
// readers never wait on the catalog.
type Service struct {
	catalog  Catalog
	store    store.Store
	notifier notify.Notifier
	logger   *zap.Logger

	ops  sync.Mutex
	mu   sync.RWMutex
	cart model.Cart
}

// NewService loads the persisted cart. A corrupt snapshot is discarded and
// the cart starts empty; any other load error is returned.
func NewService(ctx context.Context, c Catalog, s store.Store, n notify.Notifier, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if n == nil {
		n = notify.NewLogNotifier(logger)
	}

	cart, err := s.Load(ctx)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		logger.Warn("discarding unreadable cart snapshot", zap.Error(err))
		cart = model.Cart{}
	case err != nil:
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	if cart == nil {
		cart = model.Cart{}
	}

	logger.Info("cart loaded", zap.Int("items", len(cart)))
	return &Service{
		catalog:  c,
		store:    s,
		notifier: n,
		logger:   logger,
		cart:     cart,
	}, nil
}

// Cart returns a copy of the current line items.
func (s *Service) Cart() model.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// AddProduct adds one unit of productID, fetching the product record when it
// is not in the cart yet.
func (s *Service) AddProduct(ctx context.Context, productID int64) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	next := s.Cart()
	idx := next.Index(productID)

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return s.fail(&Error{Op: OpAdd, Kind: remoteKind(err), ProductID: productID, Err: err})
	}

	current := 0
	if idx >= 0 {
		current = next[idx].Amount
	}
	desired := current + 1
	if desired > stock.Amount {
		return s.fail(&Error{Op: OpAdd, Kind: KindStockExceeded, ProductID: productID,
			Err: fmt.Errorf("want %d, stock %d", desired, stock.Amount)})
	}

	if idx >= 0 {
		next[idx].Amount = desired
	} else {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return s.fail(&Error{Op: OpAdd, Kind: remoteKind(err), ProductID: productID, Err: err})
		}
		product.Amount = 1
		next = append(next, product)
	}

	return s.commit(ctx, OpAdd, productID, next)
}

// RemoveProduct drops the line item for productID.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	next := s.Cart()
	idx := next.Index(productID)
	if idx < 0 {
		return s.fail(&Error{Op: OpRemove, Kind: KindNotFound, ProductID: productID})
	}

	next = append(next[:idx], next[idx+1:]...)
	return s.commit(ctx, OpRemove, productID, next)
}

// UpdateProductAmount sets an existing line item's amount. Amounts <= 0 are
// ignored without notification.
func (s *Service) UpdateProductAmount(ctx context.Context, req model.UpdateProductAmount) error {
	if req.Amount <= 0 {
		return nil
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	stock, err := s.catalog.GetStock(ctx, req.ProductID)
	if err != nil {
		return s.fail(&Error{Op: OpUpdateAmount, Kind: remoteKind(err), ProductID: req.ProductID, Err: err})
	}
	if req.Amount > stock.Amount {
		return s.fail(&Error{Op: OpUpdateAmount, Kind: KindStockExceeded, ProductID: req.ProductID,
			Err: fmt.Errorf("want %d, stock %d", req.Amount, stock.Amount)})
	}

	next := s.Cart()
	idx := next.Index(req.ProductID)
	if idx < 0 {
		return s.fail(&Error{Op: OpUpdateAmount, Kind: KindNotFound, ProductID: req.ProductID})
	}

	next[idx].Amount = req.Amount
	return s.commit(ctx, OpUpdateAmount, req.ProductID, next)
}

// commit writes the snapshot first and swaps the in-memory cart only once
// the write succeeded.
func (s *Service) commit(ctx context.Context, op Op, productID int64, next model.Cart) error {
	if err := s.store.Save(ctx, next); err != nil {
		return s.fail(&Error{Op: op, Kind: KindStorage, ProductID: productID, Err: err})
	}

	s.mu.Lock()
	s.cart = next
	s.mu.Unlock()

	s.logger.Info("cart updated",
		zap.String("op", string(op)),
		zap.Int64("product_id", productID),
		zap.Int("items", len(next)),
	)
	return nil
}

func (s *Service) fail(e *Error) error {
	level := s.logger.Warn
	if e.Kind == KindStockExceeded || e.Kind == KindNotFound {
		level = s.logger.Info
	}
	level("cart operation rejected",
		zap.String("op", string(e.Op)),
		zap.Int64("product_id", e.ProductID),
		zap.Stringer("kind", e.Kind),
		zap.Error(e.Err),
	)
	s.notifier.Notify(Message(e))
	return e
}
