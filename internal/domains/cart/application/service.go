package application

import (
	"context"
	"errors"

	catalogports "github.com/quickmeds/pharmacy-api/internal/domains/catalog/ports"
	"github.com/quickmeds/pharmacy-api/internal/domains/cart/domain"
	"github.com/quickmeds/pharmacy-api/internal/domains/cart/ports"
	inventoryports "github.com/quickmeds/pharmacy-api/internal/domains/inventory/ports"
	ordersdomain "github.com/quickmeds/pharmacy-api/internal/domains/orders/domain"
)

var _ ports.Service = (*Service)(nil)

// Service orchestrates basket use cases.
type Service struct {
	repo    ports.Repository
	catalog catalogports.Reader
	stock   inventoryports.Ledger
}

func NewService(repo ports.Repository, catalog catalogports.Reader, stock inventoryports.Ledger) *Service {
	return &Service{repo: repo, catalog: catalog, stock: stock}
}

// Add puts qty of an item into the user's cart, creating the cart on first use.
func (s *Service) Add(ctx context.Context, userID, itemID string, qty int) (*ports.CartView, error) {
	if _, err := s.catalog.GetItem(ctx, itemID); err != nil {
		return nil, mapError(err)
	}
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(itemID, qty); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.project(ctx, cart)
}

// Update replaces the quantity of an existing cart line.
func (s *Service) Update(ctx context.Context, userID, itemID string, qty int) (*ports.CartView, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := cart.SetQuantity(itemID, qty); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.project(ctx, cart)
}

// Remove drops a line from the cart.
func (s *Service) Remove(ctx context.Context, userID, itemID string) (*ports.CartView, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := cart.Remove(itemID); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.project(ctx, cart)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	return nil
}

// View returns cart lines joined with live catalog data plus a preview quote.
func (s *Service) View(ctx context.Context, userID string) (*ports.CartView, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return s.project(ctx, domain.New(userID))
		}
		return nil, err
	}
	return s.project(ctx, cart)
}

func (s *Service) loadOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		return domain.New(userID), nil
	}
	return nil, err
}

func (s *Service) project(ctx context.Context, cart *domain.Cart) (*ports.CartView, error) {
	view := &ports.CartView{UserID: cart.UserID}
	var subtotal float64
	for _, line := range cart.Items {
		item, err := s.catalog.GetItem(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, catalogports.ErrItemNotFound) {
				// Line survives in the cart but renders unavailable; order
				// creation revalidates and rejects it anyway.
				view.Lines = append(view.Lines, ports.LineView{ItemID: line.ItemID, Quantity: line.Quantity})
				continue
			}
			return nil, err
		}
		available, err := s.stock.Quantity(ctx, line.ItemID)
		if err != nil && !errors.Is(err, inventoryports.ErrEntryNotFound) {
			return nil, err
		}
		lineTotal := item.Price * float64(line.Quantity)
		subtotal += lineTotal
		view.Lines = append(view.Lines, ports.LineView{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  line.Quantity,
			UnitPrice: item.Price,
			LineTotal: lineTotal,
			InStock:   item.Active && available >= line.Quantity,
		})
	}
	view.Preview = ordersdomain.PriceQuote(subtotal, 0)
	if gap := ordersdomain.FreeShippingThreshold - view.Preview.Subtotal; gap > 0 {
		view.FreeShippingGap = gap
	}
	return view, nil
}
