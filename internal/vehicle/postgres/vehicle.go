package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/vehicle"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const listColumns = `
	SELECT v.vehicle_id, v.license_plate, v.brand, v.model, v.year, v.vin,
	       u.username AS owner_name, u.email AS owner_email
	FROM vehicles v
	JOIN users u ON v.owner_id = u.user_id`

func (r *Repository) ListAll(ctx context.Context) ([]vehicle.Vehicle, error) {
	query := listColumns + `
	ORDER BY v.created_at DESC`

	vehicles := []vehicle.Vehicle{}
	if err := r.db.SelectContext(ctx, &vehicles, query); err != nil {
		return nil, internal.NewInternalError("failed to list vehicles", err)
	}
	return vehicles, nil
}

func (r *Repository) ListForOwner(ctx context.Context, ownerID string) ([]vehicle.Vehicle, error) {
	query := listColumns + `
	WHERE v.owner_id = $1
	ORDER BY v.created_at DESC`

	vehicles := []vehicle.Vehicle{}
	if err := r.db.SelectContext(ctx, &vehicles, query, ownerID); err != nil {
		return nil, internal.NewInternalError("failed to list vehicles", err)
	}
	return vehicles, nil
}

func (r *Repository) Create(ctx context.Context, dto vehicle.CreateVehicleDTO) (string, error) {
	metadata, err := json.Marshal(dto.Metadata)
	if err != nil {
		return "", internal.NewInternalError("failed to encode metadata", err)
	}
	if dto.Metadata == nil {
		metadata = []byte("{}")
	}

	const query = `
		INSERT INTO vehicles (owner_id, license_plate, brand, model, year, vin, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING vehicle_id`

	var vehicleID string
	if err := r.db.GetContext(ctx, &vehicleID, query, dto.OwnerID, dto.LicensePlate, dto.Brand, dto.Model, dto.Year, dto.VIN, metadata); err != nil {
		return "", internal.NewInternalError("failed to create vehicle", err)
	}
	return vehicleID, nil
}
