package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"fleetops/infras/otel"
	"fleetops/infras/postgres"
	"fleetops/internal/domains/transition/model"
	gDto "fleetops/shared/dto"
	gRepo "fleetops/shared/repository"
)

type Transition interface {
	Insert(ctx context.Context, model model.Transition) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Transition, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Transition]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Transition {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Transition](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
