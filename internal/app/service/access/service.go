package access

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rioporto/p2p/internal/models"
	"github.com/rioporto/p2p/pkg/config"
	"github.com/rioporto/p2p/pkg/types"
)

// Service answers "may this user do that" from the persisted KYC level.
// The level always comes from the store, never from a client-supplied claim.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, db: db, log: log}
}

// LevelOf loads the user's current tier. An unknown or deleted user maps to
// the lowest tier rather than an error, so gating fails closed.
func (s *Service) LevelOf(ctx context.Context, userID string) (types.KYCLevel, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.KYCLevelPlatformAccess, nil
		}
		return types.KYCLevelPlatformAccess, fmt.Errorf("failed to load user tier: %w", err)
	}
	if !user.KYCLevel.Valid() {
		s.log.Warnw("invalid_kyc_level", "user_id", userID, "level", int(user.KYCLevel))
		return types.KYCLevelPlatformAccess, nil
	}
	return user.KYCLevel, nil
}

// RequireTier reports whether the user's tier satisfies the required minimum.
func (s *Service) RequireTier(ctx context.Context, userID string, required types.KYCLevel) (bool, error) {
	level, err := s.LevelOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return level.AtLeast(required), nil
}

// Allowed checks the configured minimum tier for a feature.
func (s *Service) Allowed(ctx context.Context, userID string, feature types.Feature) (bool, error) {
	return s.RequireTier(ctx, userID, s.cfg.MinLevelForFeature(feature))
}

var Module = fx.Options(
	fx.Provide(NewService),
)
