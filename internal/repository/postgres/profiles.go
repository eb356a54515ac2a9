package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

type profileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) *profileRepository {
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, first_name, last_name, email, phone, address, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile domain.Profile
	var address []byte

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Email,
		&profile.Phone,
		&address,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "profile", ID: userID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get profile", zap.Error(err))
		return nil, err
	}

	if len(address) > 0 {
		if err := json.Unmarshal(address, &profile.Address); err != nil {
			return nil, fmt.Errorf("failed to decode profile address: %w", err)
		}
	}

	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, email, phone, address, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			updated_at = EXCLUDED.updated_at
	`

	address, err := json.Marshal(profile.Address)
	if err != nil {
		return fmt.Errorf("failed to encode profile address: %w", err)
	}
	profile.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.Phone,
		address,
		profile.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to upsert profile", zap.Error(err))
		return err
	}

	return nil
}
