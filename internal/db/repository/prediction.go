package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/tilevision/segserve/internal/db/models"
)

type IPredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error)
	GetByID(ctx context.Context, id string) (*models.Prediction, error)
	List(ctx context.Context, limit int) ([]models.Prediction, error)
}

type PredictionRepository struct {
	db *bun.DB
}

func NewPredictionRepository(db *bun.DB) IPredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error) {
	if prediction == nil {
		return nil, fmt.Errorf("prediction model is nil")
	}

	if err := r.db.NewInsert().Model(prediction).Returning("*").Scan(ctx); err != nil {
		return nil, err
	}

	return prediction, nil
}

func (r *PredictionRepository) GetByID(ctx context.Context, id string) (*models.Prediction, error) {
	var prediction models.Prediction
	if err := r.db.NewSelect().Model(&prediction).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}

	return &prediction, nil
}

func (r *PredictionRepository) List(ctx context.Context, limit int) ([]models.Prediction, error) {
	var predictions []models.Prediction
	if err := r.db.NewSelect().Model(&predictions).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx); err != nil {
		return nil, err
	}

	return predictions, nil
}
