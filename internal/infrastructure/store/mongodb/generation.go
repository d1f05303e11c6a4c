package mongodb

import (
	"context"
	"errors"
	"log"

	"pipelineai/internal/domain/entity"
	"pipelineai/internal/domain/repository"
	"pipelineai/internal/infrastructure/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGenerationRepo struct {
	col *mongo.Collection
}

func NewMongoGenerationRepo(db *mongo.Database) *MongoGenerationRepo {
	col := db.Collection("generations")

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{bson.E{Key: "platform", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "source", Value: 1}}},
	})

	return &MongoGenerationRepo{
		col: col,
	}
}

var _ repository.GenerationRepository = (*MongoGenerationRepo)(nil)

func (r *MongoGenerationRepo) Create(ctx context.Context, g *entity.Generation) error {
	metrics.IncDBOp("put")

	if _, err := r.col.InsertOne(ctx, g); err != nil {
		metrics.IncError("mongo_generation_repo", "create_error")
		return err
	}
	return nil
}

func (r *MongoGenerationRepo) GetByID(ctx context.Context, id string) (*entity.Generation, error) {
	metrics.IncDBOp("get")

	var g entity.Generation
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGenerationNotFound
		}
		metrics.IncError("mongo_generation_repo", "get_error")
		return nil, err
	}
	return &g, nil
}

func (r *MongoGenerationRepo) List(ctx context.Context) ([]*entity.Generation, error) {
	metrics.IncDBOp("list")

	gens, err := r.find(ctx, bson.D{})
	if err != nil {
		metrics.IncError("mongo_generation_repo", "list_error")
		return nil, err
	}
	return gens, nil
}

func (r *MongoGenerationRepo) ListByPlatform(ctx context.Context, platform entity.Platform) ([]*entity.Generation, error) {
	metrics.IncDBOp("list")

	gens, err := r.find(ctx, bson.M{"platform": platform})
	if err != nil {
		metrics.IncError("mongo_generation_repo", "list_by_platform_error")
		return nil, err
	}
	return gens, nil
}

func (r *MongoGenerationRepo) Delete(ctx context.Context, id string) error {
	metrics.IncDBOp("delete")

	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		metrics.IncError("mongo_generation_repo", "delete_error")
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrGenerationNotFound
	}
	return nil
}

func (r *MongoGenerationRepo) CountBySource(ctx context.Context, source entity.ResultSource) (int, error) {
	metrics.IncDBOp("count")

	count, err := r.col.CountDocuments(ctx, bson.M{"source": source})
	if err != nil {
		metrics.IncError("mongo_generation_repo", "count_by_source_error")
		return 0, err
	}
	return int(count), nil
}

// find returns matches newest first.
func (r *MongoGenerationRepo) find(ctx context.Context, filter interface{}) ([]*entity.Generation, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		err := cur.Close(ctx)
		if err != nil {
			log.Printf("close cursor err: %s", err)
		}
	}()

	var gens []*entity.Generation
	for cur.Next(ctx) {
		var g entity.Generation
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		gens = append(gens, &g)
	}
	return gens, cur.Err()
}
