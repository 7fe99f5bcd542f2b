package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"riskpulse/internal/model"
)

// AnalysisRepo handles MongoDB operations for persisted analysis snapshots
type AnalysisRepo interface {
	SaveSnapshot(ctx context.Context, snapshot *model.AnalysisSnapshot) error
	GetSnapshot(ctx context.Context, formID string) (*model.AnalysisSnapshot, error)
}

type analysisRepo struct {
	snapshots *mongo.Collection
}

// NewAnalysisRepo creates a new analysis repository
func NewAnalysisRepo(db *mongo.Database) AnalysisRepo {
	return &analysisRepo{
		snapshots: db.Collection("analysis_snapshots"),
	}
}

func (r *analysisRepo) SaveSnapshot(ctx context.Context, snapshot *model.AnalysisSnapshot) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.snapshots.ReplaceOne(ctx, bson.M{"formId": snapshot.FormID}, snapshot, opts)
	return err
}

func (r *analysisRepo) GetSnapshot(ctx context.Context, formID string) (*model.AnalysisSnapshot, error) {
	var snapshot model.AnalysisSnapshot
	err := r.snapshots.FindOne(ctx, bson.M{"formId": formID}).Decode(&snapshot)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
