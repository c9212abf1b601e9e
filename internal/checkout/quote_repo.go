package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storekeeper/connector/pkg/db"
	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
)

// QuoteRepository handles quote persistence.
type QuoteRepository struct {
	client *db.Client
}

// NewQuoteRepository binds the database client to quote operations.
func NewQuoteRepository(client *db.Client) *QuoteRepository {
	return &QuoteRepository{client: client}
}

// Restore reactivates a quote after a failed checkout attempt: the quote is
// marked active again and its order reservation cleared, as one transaction.
func (r *QuoteRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		var quote models.Quote
		if err := tx.Where("id = ?", id).First(&quote).Error; err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "quote not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading quote")
		}
		err := tx.Model(&models.Quote{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"active":            true,
				"reserved_order_id": nil,
			}).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restoring quote")
		}
		return nil
	})
}
