package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/domain/repository"
	"sitebuilder/internal/infrastructure/metrics"
)

type MongoPaymentRepo struct {
	col *mongo.Collection
}

func NewMongoPaymentRepo(db *mongo.Database) repository.PaymentRepository {
	col := db.Collection("payments")

	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoPaymentRepo{
		col: col,
	}
}

// Save is idempotent on the webhook event id; redelivered events are no-ops.
func (r *MongoPaymentRepo) Save(ctx context.Context, payment *entity.Payment) error {
	metrics.IncDBOp(storeName, "put")

	_, err := r.col.UpdateOne(ctx,
		bson.M{"event_id": payment.EventID},
		bson.M{"$setOnInsert": payment},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		metrics.IncError("mongo_payment_repo", "save_error")
		return err
	}
	return nil
}
