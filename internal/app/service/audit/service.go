package audit

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/tool"
)

// Service records append-only audit entries. Entries are written inside the
// caller's database transaction: if the entry cannot be written the whole
// state change rolls back, so no durable mutation exists without its trail.
type Service struct {
	log *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Service { return &Service{log: log} }

// Record persists one entry on tx. The returned error must propagate to the
// enclosing transaction.
func (s *Service) Record(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error {
	if entry == nil {
		return fmt.Errorf("nil audit entry")
	}
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(New),
)
