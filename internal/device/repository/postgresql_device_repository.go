package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/allisson/sampletrack/internal/database"
	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
	apperrors "github.com/allisson/sampletrack/internal/errors"
)

// PostgreSQLDeviceRepository implements DeviceRegistration persistence for PostgreSQL.
type PostgreSQLDeviceRepository struct {
	db *sql.DB
}

// Upsert inserts the registration or reactivates the existing (client_id, token) row.
func (p *PostgreSQLDeviceRepository) Upsert(
	ctx context.Context,
	registration *deviceDomain.DeviceRegistration,
) error {
	querier := database.GetTx(ctx, p.db)

	deviceInfoJSON, err := marshalDeviceInfo(registration.DeviceInfo)
	if err != nil {
		return err
	}

	query := `INSERT INTO device_registrations
				  (id, client_id, token, token_digest, platform, is_active, device_info, created_at, last_used_at)
			  VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8)
			  ON CONFLICT (client_id, token_digest) DO UPDATE SET
				  platform = EXCLUDED.platform,
				  is_active = TRUE,
				  device_info = EXCLUDED.device_info,
				  last_used_at = EXCLUDED.last_used_at
			  RETURNING id, created_at`

	err = querier.QueryRowContext(
		ctx,
		query,
		registration.ID,
		registration.ClientID,
		registration.Token,
		tokenDigest(registration.Token),
		string(registration.Platform),
		deviceInfoJSON,
		registration.CreatedAt,
		registration.LastUsedAt,
	).Scan(&registration.ID, &registration.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert device registration")
	}

	registration.IsActive = true
	return nil
}

// FindActiveByClient returns the client's active registrations, oldest first.
func (p *PostgreSQLDeviceRepository) FindActiveByClient(
	ctx context.Context,
	clientID uuid.UUID,
) ([]*deviceDomain.DeviceRegistration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, client_id, token, platform, is_active, device_info, created_at, last_used_at
			  FROM device_registrations
			  WHERE client_id = $1 AND is_active = TRUE
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list device registrations")
	}
	defer func() {
		_ = rows.Close()
	}()

	registrations := make([]*deviceDomain.DeviceRegistration, 0)
	for rows.Next() {
		var registration deviceDomain.DeviceRegistration
		var platform string
		var deviceInfoJSON []byte

		err := rows.Scan(
			&registration.ID,
			&registration.ClientID,
			&registration.Token,
			&platform,
			&registration.IsActive,
			&deviceInfoJSON,
			&registration.CreatedAt,
			&registration.LastUsedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan device registration")
		}

		registration.Platform = deviceDomain.Platform(platform)
		if registration.DeviceInfo, err = unmarshalDeviceInfo(deviceInfoJSON); err != nil {
			return nil, err
		}

		registrations = append(registrations, &registration)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate device registrations")
	}

	return registrations, nil
}

// MarkInactive flags every registration holding the token as inactive.
func (p *PostgreSQLDeviceRepository) MarkInactive(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE device_registrations SET is_active = FALSE
			  WHERE token_digest = $1 AND is_active = TRUE`

	if _, err := querier.ExecContext(ctx, query, tokenDigest(token)); err != nil {
		return apperrors.Wrap(err, "failed to deactivate device registration")
	}

	return nil
}

// NewPostgreSQLDeviceRepository creates a new PostgreSQL DeviceRegistration repository.
func NewPostgreSQLDeviceRepository(db *sql.DB) *PostgreSQLDeviceRepository {
	return &PostgreSQLDeviceRepository{db: db}
}

func marshalDeviceInfo(info map[string]any) ([]byte, error) {
	if info == nil {
		return nil, nil
	}
	data, err := json.Marshal(info)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal device info")
	}
	return data, nil
}

func unmarshalDeviceInfo(data []byte) (map[string]any, error) {
	if data == nil {
		return nil, nil
	}
	var info map[string]any
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal device info")
	}
	return info, nil
}
