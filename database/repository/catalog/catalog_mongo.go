// File: database/repository/catalog/catalog_mongo.go
package catalogRepo

import (
	"context"
	"errors"
	"time"

	"turnero/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCatalogRepo) GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	err := r.services.FindOne(ctx, bson.M{"id": serviceID}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError("service", serviceID)
	}
	if err != nil {
		return nil, models.NewStorageError("get service", err)
	}
	return &svc, nil
}

func (r *mongoCatalogRepo) GetActiveServices(ctx context.Context, businessID string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"business_id": businessID, "active": true}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.services.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.NewStorageError("list services", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, models.NewStorageError("decode services", err)
	}
	return services, nil
}

func (r *mongoCatalogRepo) GetActiveResourceUnits(ctx context.Context, serviceID string) ([]models.ResourceUnit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"service_id": serviceID, "active": true}
	// Ordering is part of the allocator contract: display order first,
	// name as the tie-break.
	opts := options.Find().SetSort(bson.D{
		{Key: "display_order", Value: 1},
		{Key: "name", Value: 1},
	})
	cursor, err := r.units.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.NewStorageError("list resource units", err)
	}
	defer cursor.Close(ctx)

	var units []models.ResourceUnit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, models.NewStorageError("decode resource units", err)
	}
	return units, nil
}

func (r *mongoCatalogRepo) GetBusinessHours(ctx context.Context, businessID string, weekday time.Weekday) (*models.BusinessHours, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var hours models.BusinessHours
	err := r.hours.FindOne(ctx, bson.M{"business_id": businessID, "weekday": int(weekday)}).Decode(&hours)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("get business hours", err)
	}
	return &hours, nil
}

func (r *mongoCatalogRepo) GetBlockedWindows(ctx context.Context, businessID, date string) ([]models.BlockedWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.blocked.Find(ctx, bson.M{"business_id": businessID, "date": date})
	if err != nil {
		return nil, models.NewStorageError("list blocked windows", err)
	}
	defer cursor.Close(ctx)

	var windows []models.BlockedWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, models.NewStorageError("decode blocked windows", err)
	}
	return windows, nil
}
