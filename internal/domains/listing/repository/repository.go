package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"seva/infras/otel"
	"seva/infras/postgres"
	"seva/internal/domains/listing/model"
	"seva/shared"
	"seva/shared/constant"
	gRepo "seva/shared/repository"
)

type Listing interface {
	Insert(ctx context.Context, listing model.FoodListing) error
	GetForDay(ctx context.Context, instituteUsername string, day time.Time) (model.FoodListing, error)
	InsertItems(ctx context.Context, items []model.FoodItem) error
	GetItems(ctx context.Context, listingID, mealType string) ([]model.FoodItem, error)
	GetAllItems(ctx context.Context, listingID string) ([]model.FoodItem, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.FoodListing]
	items gRepo.Repository[model.FoodItem]
	db    *postgres.Connection
	otel  otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Listing {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.FoodListing](model.EntityName, model.TableName, model.FieldID, db, otel),
		items:      gRepo.NewRepository[model.FoodItem](model.ItemEntityName, model.ItemTableName, model.ItemFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetForDay(ctx context.Context, instituteUsername string, day time.Time) (model.FoodListing, error) {
	filter := shared.FilterByFields(model.TableName, map[string]any{
		model.FieldInstituteUsername: instituteUsername,
		model.FieldListingDate:       day.Format(constant.DayBucketFmt),
	})

	return repo.Get(ctx, filter) //nolint:wrapcheck
}

func (repo *repositoryImpl) InsertItems(ctx context.Context, items []model.FoodItem) error {
	return repo.items.InsertBulk(ctx, items) //nolint:wrapcheck
}

// GetItems returns one meal bucket's items in insertion order. The
// ordering is load-bearing: claims resolve duplicate names by taking
// the first AVAILABLE instance in this order.
func (repo *repositoryImpl) GetItems(ctx context.Context, listingID, mealType string) ([]model.FoodItem, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.ItemEntityName+".GetItems")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s, %s",
		model.ItemFieldID, model.ItemFieldListingID, model.ItemFieldMealType,
		model.ItemFieldName, model.ItemFieldQuantity, model.ItemFieldAvailability, model.ItemFieldAddedAt,
		model.ItemTableName, model.ItemFieldListingID, model.ItemFieldMealType,
		model.ItemFieldAddedAt, model.ItemFieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var items []model.FoodItem

	err := repo.db.Read.SelectContext(ctx, &items, query, listingID, mealType)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get items (%s): %w", model.ItemEntityName, err)
	}

	return items, nil
}

func (repo *repositoryImpl) GetAllItems(ctx context.Context, listingID string) ([]model.FoodItem, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.ItemEntityName+".GetAllItems")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s, %s",
		model.ItemFieldID, model.ItemFieldListingID, model.ItemFieldMealType,
		model.ItemFieldName, model.ItemFieldQuantity, model.ItemFieldAvailability, model.ItemFieldAddedAt,
		model.ItemTableName, model.ItemFieldListingID,
		model.ItemFieldAddedAt, model.ItemFieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var items []model.FoodItem

	err := repo.db.Read.SelectContext(ctx, &items, query, listingID)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get items (%s): %w", model.ItemEntityName, err)
	}

	return items, nil
}
