package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"seva/infras/otel"
	"seva/infras/postgres"
	"seva/internal/domains/booking/model"
	listingModel "seva/internal/domains/listing/model"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	gRepo "seva/shared/repository"
	"seva/shared/timezone"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	CreateClaim(ctx context.Context, booking model.Booking, listingID string, version int, itemIDs []string) (conflict bool, err error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// CreateClaim commits a claim as one transaction: bump the listing
// version under a version guard, flip the chosen items to CLAIMED,
// insert the pending booking. Either all three land or none do. A
// zero-row version bump means another claimer got there first; the
// transaction is rolled back and conflict is reported so the caller
// can re-read and retry.
func (repo *repositoryImpl) CreateClaim(ctx context.Context, booking model.Booking, listingID string, version int, itemIDs []string) (conflict bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".CreateClaim")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin claim transaction: %w", err)
	}

	defer func() {
		if err != nil || conflict {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("failed to roll back claim transaction")
			}
		}
	}()

	bumpQuery := fmt.Sprintf(
		"UPDATE %s SET %s = %s + 1, %s = $1 WHERE %s = $2 AND %s = $3",
		listingModel.TableName,
		listingModel.FieldVersion, listingModel.FieldVersion,
		constant.FieldModifiedAt,
		listingModel.FieldID, listingModel.FieldVersion,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, bumpQuery)

	res, err := tx.ExecContext(ctx, bumpQuery, timezone.Now(), listingID, version)
	if err != nil {
		return false, fmt.Errorf("failed to bump listing version: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return true, nil
	}

	claimQuery, args, err := sqlx.In(
		fmt.Sprintf(
			"UPDATE %s SET %s = ? WHERE %s IN (?) AND %s = ?",
			listingModel.ItemTableName,
			listingModel.ItemFieldAvailability,
			listingModel.ItemFieldID,
			listingModel.ItemFieldAvailability,
		),
		constant.AvailabilityClaimed, itemIDs, constant.AvailabilityAvailable,
	)
	if err != nil {
		return false, fmt.Errorf("failed to build claim query: %w", err)
	}

	res, err = tx.ExecContext(ctx, tx.Rebind(claimQuery), args...)
	if err != nil {
		return false, fmt.Errorf("failed to claim items: %w", err)
	}

	affected, err = res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	// The version guard held, so nothing else may have touched these
	// items; a short count would mean the read was stale after all.
	if affected != int64(len(itemIDs)) {
		return true, nil
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		return false, fmt.Errorf("failed to insert booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit claim transaction: %w", err)
	}

	return false, nil
}
