// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"
	"time"

	"turnero/database"
	"turnero/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository exposes the tenant configuration the booking core reads:
// services, resource units, weekly hours and ad-hoc blocked windows. All of
// it is authored through the admin surface; the core never writes here.
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error)
	GetActiveServices(ctx context.Context, businessID string) ([]models.Service, error)
	GetActiveResourceUnits(ctx context.Context, serviceID string) ([]models.ResourceUnit, error)
	// GetBusinessHours returns (nil, nil) when no record exists for the
	// weekday, which means the default window applies.
	GetBusinessHours(ctx context.Context, businessID string, weekday time.Weekday) (*models.BusinessHours, error)
	GetBlockedWindows(ctx context.Context, businessID, date string) ([]models.BlockedWindow, error)
}

type mongoCatalogRepo struct {
	services *mongo.Collection
	units    *mongo.Collection
	hours    *mongo.Collection
	blocked  *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &mongoCatalogRepo{
		services: db.Collection("services"),
		units:    db.Collection("resource_units"),
		hours:    db.Collection("business_hours"),
		blocked:  db.Collection("blocked_windows"),
	}
}
