package mongodb

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

const storeName = "mongo"

type MongoProjectRepo struct {
	col *mongo.Collection
}

func NewMongoProjectRepo(db *mongo.Database) repository.ProjectRepository {
	col := db.Collection("projects")

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{bson.E{Key: "created_at", Value: -1}}},
		{Keys: bson.D{bson.E{Key: "user_id", Value: 1}}},
	})

	return &MongoProjectRepo{
		col: col,
	}
}

func (r *MongoProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	metrics.IncDBOp(storeName, "put")

	_, err := r.col.InsertOne(ctx, project)
	if err != nil {
		metrics.IncError("mongo_project_repo", "create_error")
		return err
	}
	return nil
}

func (r *MongoProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	metrics.IncDBOp(storeName, "get")

	var project entity.Project
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		metrics.IncError("mongo_project_repo", "get_error")
		return nil, err
	}
	return &project, nil
}

func (r *MongoProjectRepo) List(ctx context.Context) ([]*entity.Project, error) {
	metrics.IncDBOp(storeName, "list")

	opts := options.Find().SetSort(bson.D{bson.E{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		metrics.IncError("mongo_project_repo", "list_error")
		return nil, err
	}
	defer func() {
		err := cur.Close(ctx)
		if err != nil {
			log.Printf("close cursor err: %s", err)
		}
	}()

	projects := []*entity.Project{}
	for cur.Next(ctx) {
		var p entity.Project
		if err := cur.Decode(&p); err != nil {
			metrics.IncError("mongo_project_repo", "list_decode_error")
			return nil, err
		}
		projects = append(projects, &p)
	}
	if err := cur.Err(); err != nil {
		metrics.IncError("mongo_project_repo", "list_cursor_error")
		return nil, err
	}
	return projects, nil
}

func (r *MongoProjectRepo) Delete(ctx context.Context, id string) error {
	metrics.IncDBOp(storeName, "delete")

	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		metrics.IncError("mongo_project_repo", "delete_error")
		return err
	}
	if res.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}
