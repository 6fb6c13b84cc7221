package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quickmeds/pharmacy-api/internal/domains/orders/ports"
)

var _ ports.PromoResolver = (*PromoTable)(nil)

// PromoTable is the in-memory trusted promo-code table. Codes are matched
// case-insensitively.
type PromoTable struct {
	mu     sync.RWMutex
	promos map[string]ports.Promo
}

func NewPromoTable(promos ...ports.Promo) *PromoTable {
	t := &PromoTable{promos: map[string]ports.Promo{}}
	for _, promo := range promos {
		t.promos[strings.ToUpper(promo.Code)] = promo
	}
	return t
}

func (t *PromoTable) Resolve(_ context.Context, code string, at time.Time) (ports.Promo, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	promo, ok := t.promos[strings.ToUpper(code)]
	if !ok {
		return ports.Promo{}, fmt.Errorf("%w: %s", ports.ErrPromoInvalid, code)
	}
	if !promo.ExpiresAt.IsZero() && at.After(promo.ExpiresAt) {
		return ports.Promo{}, fmt.Errorf("%w: %s expired at %s", ports.ErrPromoInvalid, code, promo.ExpiresAt.Format(time.RFC3339))
	}
	return promo, nil
}

// Put upserts a promo. Seed helper.
func (t *PromoTable) Put(promo ports.Promo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.promos[strings.ToUpper(promo.Code)] = promo
}
