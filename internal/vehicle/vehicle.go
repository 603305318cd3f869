package vehicle

import (
	"context"
	"time"

	"github.com/dkralj/workshop-management/internal/auth"
)

// Vehicle is the listing shape, joined with its owning customer.
type Vehicle struct {
	VehicleID    string  `db:"vehicle_id" json:"vehicle_id"`
	LicensePlate string  `db:"license_plate" json:"license_plate"`
	Brand        string  `db:"brand" json:"brand"`
	Model        string  `db:"model" json:"model"`
	Year         *int    `db:"year" json:"year"`
	VIN          *string `db:"vin" json:"vin"`
	OwnerName    string  `db:"owner_name" json:"owner_name"`
	OwnerEmail   string  `db:"owner_email" json:"owner_email"`
}

type CreateVehicleDTO struct {
	OwnerID      string                 `json:"owner_id"`
	LicensePlate string                 `json:"license_plate"`
	Brand        string                 `json:"brand"`
	Model        string                 `json:"model"`
	Year         *int                   `json:"year"`
	VIN          *string                `json:"vin"`
	Metadata     map[string]interface{} `json:"metadata"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateVehicleDTO) Validate() error {
	if d.OwnerID == "" {
		return ValidationError{Msg: "owner_id is required"}
	}
	if d.LicensePlate == "" {
		return ValidationError{Msg: "license_plate is required"}
	}
	if d.Brand == "" {
		return ValidationError{Msg: "brand is required"}
	}
	if d.Model == "" {
		return ValidationError{Msg: "model is required"}
	}
	if d.Year != nil && (*d.Year < 1900 || *d.Year > time.Now().Year()+1) {
		return ValidationError{Msg: "invalid year"}
	}
	return nil
}

type Repository interface {
	ListAll(ctx context.Context) ([]Vehicle, error)
	ListForOwner(ctx context.Context, ownerID string) ([]Vehicle, error)
	Create(ctx context.Context, dto CreateVehicleDTO) (string, error)
}

type ServiceAPI interface {
	List(ctx context.Context, profile *auth.UserProfile) ([]Vehicle, error)
	Create(ctx context.Context, profile *auth.UserProfile, dto CreateVehicleDTO) (string, error)
}
