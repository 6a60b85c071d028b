package cart

import (
	"go.uber.org/zap"

	"github.com/wichananm65/helmet-storefront/internal/product"
)

// CatalogReader resolves product ids. *catalog.Catalog satisfies it.
type CatalogReader interface {
	Get(id string) (product.Product, bool)
}

// Service orchestrates cart operations for sessions. Products are always taken
// from the catalog, never from the caller. Session ids come from
// session.IDFromCtx, which never yields an empty id.
type Service struct {
	store   *Store
	catalog CatalogReader
	log     *zap.Logger
}

func NewService(store *Store, catalog CatalogReader, log *zap.Logger) *Service {
	return &Service{store: store, catalog: catalog, log: log}
}

func (s *Service) Get(sessionID string) Snapshot {
	return s.store.Get(sessionID).Snapshot()
}

func (s *Service) Add(sessionID, productID string, qty int) (Snapshot, error) {
	c := s.store.Get(sessionID)
	p, ok := s.catalog.Get(productID)
	if !ok {
		s.log.Info("rejected unknown product",
			zap.String("session_id", sessionID),
			zap.String("product_id", productID))
		return c.Snapshot(), NewUnknownProduct(productID)
	}
	return c.Add(p, qty)
}

func (s *Service) SetQuantity(sessionID, productID string, qty int) (Snapshot, bool, error) {
	return s.store.Get(sessionID).SetQuantity(productID, qty)
}

func (s *Service) Increment(sessionID, productID string) (Snapshot, bool, error) {
	return s.store.Get(sessionID).Increment(productID)
}

func (s *Service) Decrement(sessionID, productID string) (Snapshot, bool) {
	return s.store.Get(sessionID).Decrement(productID)
}

func (s *Service) Remove(sessionID, productID string) (Snapshot, bool) {
	return s.store.Get(sessionID).RemoveItem(productID)
}

func (s *Service) Clear(sessionID string) Snapshot {
	return s.store.Get(sessionID).Clear()
}

// LogEvents returns a Store observer that logs every applied cart change.
func LogEvents(log *zap.Logger) func(sessionID string, ev Event) {
	return func(sessionID string, ev Event) {
		log.Info("cart changed",
			zap.String("session_id", sessionID),
			zap.String("event", string(ev.Kind)),
			zap.String("product_id", ev.ProductID),
			zap.Uint64("seq", ev.Seq),
			zap.Int("item_count", ev.Snapshot.ItemCount),
			zap.Int64("subtotal", ev.Snapshot.Subtotal))
	}
}

// EndSession discards the session's cart.
func (s *Service) EndSession(sessionID string) bool {
	ended := s.store.Drop(sessionID)
	if ended {
		s.log.Info("session ended", zap.String("session_id", sessionID))
	}
	return ended
}
