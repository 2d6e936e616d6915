package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/sampletrack/internal/database"
	deviceDomain "github.com/allisson/sampletrack/internal/device/domain"
	apperrors "github.com/allisson/sampletrack/internal/errors"
)

// MySQLDeviceRepository implements DeviceRegistration persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLDeviceRepository struct {
	db *sql.DB
}

// Upsert inserts the registration or reactivates the existing (client_id, token)
// row, then reads back the stored id and created_at.
func (m *MySQLDeviceRepository) Upsert(
	ctx context.Context,
	registration *deviceDomain.DeviceRegistration,
) error {
	querier := database.GetTx(ctx, m.db)

	deviceInfoJSON, err := marshalDeviceInfo(registration.DeviceInfo)
	if err != nil {
		return err
	}

	id, err := registration.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal device registration id")
	}

	clientID, err := registration.ClientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal device registration client_id")
	}

	digest := tokenDigest(registration.Token)

	upsert := `INSERT INTO device_registrations
				   (id, client_id, token, token_digest, platform, is_active, device_info, created_at, last_used_at)
			   VALUES (?, ?, ?, ?, ?, TRUE, ?, ?, ?)
			   ON DUPLICATE KEY UPDATE
				   platform = VALUES(platform),
				   is_active = TRUE,
				   device_info = VALUES(device_info),
				   last_used_at = VALUES(last_used_at)`

	_, err = querier.ExecContext(
		ctx,
		upsert,
		id,
		clientID,
		registration.Token,
		digest,
		string(registration.Platform),
		deviceInfoJSON,
		registration.CreatedAt,
		registration.LastUsedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert device registration")
	}

	query := `SELECT id, created_at FROM device_registrations
			  WHERE client_id = ? AND token_digest = ?`

	var storedID []byte
	if err := querier.QueryRowContext(ctx, query, clientID, digest).Scan(&storedID, &registration.CreatedAt); err != nil {
		return apperrors.Wrap(err, "failed to read device registration")
	}

	if err := registration.ID.UnmarshalBinary(storedID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal device registration id")
	}

	registration.IsActive = true
	return nil
}

// FindActiveByClient returns the client's active registrations, oldest first.
func (m *MySQLDeviceRepository) FindActiveByClient(
	ctx context.Context,
	clientID uuid.UUID,
) ([]*deviceDomain.DeviceRegistration, error) {
	querier := database.GetTx(ctx, m.db)

	clientIDBinary, err := clientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal client id")
	}

	query := `SELECT id, client_id, token, platform, is_active, device_info, created_at, last_used_at
			  FROM device_registrations
			  WHERE client_id = ? AND is_active = TRUE
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, clientIDBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list device registrations")
	}
	defer func() {
		_ = rows.Close()
	}()

	registrations := make([]*deviceDomain.DeviceRegistration, 0)
	for rows.Next() {
		var registration deviceDomain.DeviceRegistration
		var id, rowClientID, deviceInfoJSON []byte
		var platform string

		err := rows.Scan(
			&id,
			&rowClientID,
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

		if err := registration.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal device registration id")
		}
		if err := registration.ClientID.UnmarshalBinary(rowClientID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal device registration client_id")
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
func (m *MySQLDeviceRepository) MarkInactive(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE device_registrations SET is_active = FALSE
			  WHERE token_digest = ? AND is_active = TRUE`

	if _, err := querier.ExecContext(ctx, query, tokenDigest(token)); err != nil {
		return apperrors.Wrap(err, "failed to deactivate device registration")
	}

	return nil
}

// NewMySQLDeviceRepository creates a new MySQL DeviceRegistration repository.
func NewMySQLDeviceRepository(db *sql.DB) *MySQLDeviceRepository {
	return &MySQLDeviceRepository{db: db}
}
