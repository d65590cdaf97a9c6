package trade

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/rioporto/p2p/internal/models"
	types "github.com/rioporto/p2p/pkg/types"
)

// filtersAnd is a helper to combine multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ListForParty returns trades the user participates in, newest first. An
// optional status narrows the result.
func (s *Service) ListForParty(ctx context.Context, userID string, status types.TransactionStatus, from, size int) ([]*models.Transaction, int64, error) {
	if size <= 0 || size > 100 {
		size = 20
	}
	if from < 0 {
		from = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("(buyer_id = ? OR seller_id = ?) AND deleted_at IS NULL", userID, userID)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var rows []*models.Transaction
	if err := tx.Order("created_at desc").Offset(from).Limit(size).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return rows, total, nil
}

// ScanTransactions implements paginated/filterable listing for user history
// and admin pages. Soft-deleted rows are excluded.
func (s *Service) ScanTransactions(ctx context.Context, req *ScanTransactionsRequest) (*ScanTransactionsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("deleted_at IS NULL")
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	var rows []*models.Transaction

	q := tx.Limit(req.Size)

	if req.From > 0 {
		q = q.Offset(req.From)
	}

	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ScanTransactionsResponse{Items: rows, Total: total}, nil
}
