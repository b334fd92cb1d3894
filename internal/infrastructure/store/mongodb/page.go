package mongodb

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

type MongoPageRepo struct {
	col *mongo.Collection
}

func NewMongoPageRepo(db *mongo.Database) repository.PageRepository {
	col := db.Collection("pages")

	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "project_id", Value: 1}, bson.E{Key: "created_at", Value: 1}}},
	})

	return &MongoPageRepo{
		col: col,
	}
}

func (r *MongoPageRepo) Create(ctx context.Context, page *entity.Page) error {
	metrics.IncDBOp(storeName, "put")

	if _, err := r.col.InsertOne(ctx, page); err != nil {
		metrics.IncError("mongo_page_repo", "create_error")
		return err
	}
	return nil
}

func (r *MongoPageRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Page, error) {
	metrics.IncDBOp(storeName, "list")

	opts := options.Find().SetSort(bson.D{bson.E{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		metrics.IncError("mongo_page_repo", "list_error")
		return nil, err
	}
	defer func() {
		err := cur.Close(ctx)
		if err != nil {
			log.Printf("close cursor err: %s", err)
		}
	}()

	pages := []*entity.Page{}
	for cur.Next(ctx) {
		var p entity.Page
		if err := cur.Decode(&p); err != nil {
			metrics.IncError("mongo_page_repo", "list_decode_error")
			return nil, err
		}
		pages = append(pages, &p)
	}
	return pages, cur.Err()
}

func (r *MongoPageRepo) DeleteByProject(ctx context.Context, projectID string) error {
	metrics.IncDBOp(storeName, "delete")

	if _, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		metrics.IncError("mongo_page_repo", "delete_error")
		return err
	}
	return nil
}
