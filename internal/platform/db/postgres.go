package db

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/models"
	cfgpkg "github.com/rioporto/p2p/pkg/config"
	gormzap "github.com/rioporto/p2p/pkg/gormlog"
)

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		l.Error("database DSN is empty")
		return nil, gorm.ErrInvalidDB
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         gormzap.New(l),
		TranslateError: true,
	})
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	l.Infow("connected to postgres via DSN")
	return db, nil
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)

// uqActivePixPayment allows at most one settleable payment attempt per
// transaction. Concurrent initiates race on the insert and the loser gets a
// duplicate-key violation, so the invariant holds across instances.
const uqActivePixPayment = `CREATE UNIQUE INDEX IF NOT EXISTS uq_pix_payment_active ` +
	`ON pix_payment (transaction_id) ` +
	`WHERE status IN ('pending', 'awaiting_confirmation') AND deleted_at IS NULL`

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.PixPayment{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	// partial indexes are out of reach for gorm struct tags
	if err := db.Exec(uqActivePixPayment).Error; err != nil {
		l.Errorf("failed to create active pix payment index: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing postgres connection pool")
			return sqlDB.Close()
		},
	})
}
