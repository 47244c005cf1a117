package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/domain"
)

// uniqueViolation is the Postgres error code for duplicate primary keys
const uniqueViolation = "23505"

// PostgresPurchaseRepository implements PurchaseRepository using PostgreSQL.
// Concurrent saves are detected through the version column: an update only
// lands when the row still carries the version that was loaded.
type PostgresPurchaseRepository struct {
	db *sqlx.DB
}

// NewPostgresPurchaseRepository creates a new PostgresPurchaseRepository
func NewPostgresPurchaseRepository(db *sqlx.DB) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{db: db}
}

// postgresPurchase represents a purchase row
type postgresPurchase struct {
	CorrelationID string         `db:"correlation_id"`
	UserID        string         `db:"user_id"`
	ItemID        string         `db:"item_id"`
	Quantity      int64          `db:"quantity"`
	TotalAmount   sql.NullInt64  `db:"total_amount"`
	TotalCurrency sql.NullString `db:"total_currency"`
	State         string         `db:"state"`
	ErrorMessage  sql.NullString `db:"error_message"`
	Received      time.Time      `db:"received"`
	LastUpdated   time.Time      `db:"last_updated"`
	Version       int            `db:"version"`
}

// FindByID finds a purchase by correlation id, (nil, nil) when absent
func (r *PostgresPurchaseRepository) FindByID(ctx context.Context, correlationID models.ID) (*domain.Purchase, error) {
	query := `
		SELECT correlation_id, user_id, item_id, quantity, total_amount,
			   total_currency, state, error_message, received, last_updated, version
		FROM purchases
		WHERE correlation_id = $1`

	var row postgresPurchase
	err := r.db.GetContext(ctx, &row, query, correlationID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find purchase")
	}

	return r.toDomain(&row)
}

// Create inserts a new purchase record
func (r *PostgresPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		INSERT INTO purchases (
			correlation_id, user_id, item_id, quantity, total_amount,
			total_currency, state, error_message, received, last_updated, version
		) VALUES (
			:correlation_id, :user_id, :item_id, :quantity, :total_amount,
			:total_currency, :state, :error_message, :received, :last_updated, :version
		)`

	_, err := r.db.NamedExecContext(ctx, query, r.toPostgres(purchase))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrPurchaseExists
		}
		return errors.Wrap(err, "failed to insert purchase")
	}

	return nil
}

// Save updates an existing purchase, failing with ErrVersionConflict when a
// concurrent save intervened since the load
func (r *PostgresPurchaseRepository) Save(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		UPDATE purchases
		SET total_amount = :total_amount, total_currency = :total_currency,
			state = :state, error_message = :error_message,
			last_updated = :last_updated, version = version + 1
		WHERE correlation_id = :correlation_id AND version = :version`

	result, err := r.db.NamedExecContext(ctx, query, r.toPostgres(purchase))
	if err != nil {
		return errors.Wrap(err, "failed to update purchase")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}

	if affected == 0 {
		return domain.ErrVersionConflict
	}

	purchase.Version = purchase.Version.Update()
	return nil
}

// toPostgres converts a domain purchase to a row
func (r *PostgresPurchaseRepository) toPostgres(purchase *domain.Purchase) *postgresPurchase {
	row := &postgresPurchase{
		CorrelationID: purchase.CorrelationID.String(),
		UserID:        purchase.UserID.String(),
		ItemID:        purchase.ItemID.String(),
		Quantity:      purchase.Quantity,
		State:         string(purchase.State),
		Received:      purchase.Received,
		LastUpdated:   purchase.LastUpdated,
		Version:       purchase.Version.Value,
	}

	if purchase.PurchaseTotal != nil {
		row.TotalAmount = sql.NullInt64{Int64: purchase.PurchaseTotal.Amount, Valid: true}
		row.TotalCurrency = sql.NullString{String: purchase.PurchaseTotal.Currency, Valid: true}
	}

	if purchase.ErrorMessage != "" {
		row.ErrorMessage = sql.NullString{String: purchase.ErrorMessage, Valid: true}
	}

	return row
}

// toDomain converts a row to a domain purchase
func (r *PostgresPurchaseRepository) toDomain(row *postgresPurchase) (*domain.Purchase, error) {
	correlationID, err := models.NewID(row.CorrelationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid correlation id")
	}

	userID, err := models.NewID(row.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid user id")
	}

	itemID, err := models.NewID(row.ItemID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid item id")
	}

	purchase := &domain.Purchase{
		CorrelationID: correlationID,
		UserID:        userID,
		ItemID:        itemID,
		Quantity:      row.Quantity,
		State:         domain.State(row.State),
		ErrorMessage:  row.ErrorMessage.String,
		Received:      row.Received,
		LastUpdated:   row.LastUpdated,
		Version:       models.Version{Value: row.Version},
	}

	if row.TotalAmount.Valid {
		total := models.NewMoney(row.TotalAmount.Int64, row.TotalCurrency.String)
		purchase.PurchaseTotal = &total
	}

	return purchase, nil
}
