package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements all repositories on MongoDB.
//
// Membership keeps both representations (role map + flattened membersArray)
// inside the inventory document and mutates them in a single UpdateOne, so
// they stay in sync at the document level. A partial unique index on the
// invitations collection backstops the duplicate-pending check.
type MongoStore struct {
	client      *mongo.Client
	db          *mongo.Database
	inventories *mongo.Collection
	items       *mongo.Collection
	invitations *mongo.Collection
	users       *mongo.Collection
}

// MongoConfig holds collection names for the store.
type MongoConfig struct {
	URI         string
	Database    string
	Inventories string
	Items       string
	Invitations string
	Users       string
}

// NewMongoStore connects to MongoDB and prepares collections and indexes.
func NewMongoStore(cfg MongoConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:      client,
		db:          db,
		inventories: db.Collection(cfg.Inventories),
		items:       db.Collection(cfg.Items),
		invitations: db.Collection(cfg.Invitations),
		users:       db.Collection(cfg.Users),
	}

	s.createIndexes(ctx)

	log.Printf("[MongoStore] Connected to %s", cfg.Database)
	return s, nil
}

// createIndexes creates the query and constraint indexes. Failures are logged
// rather than fatal so a restricted user can still run against pre-built
// collections.
func (s *MongoStore) createIndexes(ctx context.Context) {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.inventories, mongo.IndexModel{
			Keys: bson.D{{Key: "membersArray", Value: 1}},
		}},
		{s.items, mongo.IndexModel{
			Keys: bson.D{{Key: "inventoryId", Value: 1}},
		}},
		{s.items, mongo.IndexModel{
			Keys: bson.D{{Key: "reminderDate", Value: 1}},
		}},
		{s.invitations, mongo.IndexModel{
			Keys: bson.D{{Key: "toUser", Value: 1}, {Key: "status", Value: 1}},
		}},
		// One pending invitation per (inviter, invitee, inventory) triple.
		{s.invitations, mongo.IndexModel{
			Keys: bson.D{{Key: "fromUser", Value: 1}, {Key: "toUser", Value: 1}, {Key: "inventoryId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		}},
		{s.users, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			log.Printf("[MongoStore] Warning: failed to create index on %s: %v",
				idx.coll.Name(), err)
		}
	}
}

// Stats returns statistics about the store.
func (s *MongoStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"backend": "mongodb"}

	counts := map[string]*mongo.Collection{
		"inventories": s.inventories,
		"items":       s.items,
		"invitations": s.invitations,
		"users":       s.users,
	}
	for name, coll := range counts {
		n, err := coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			return stats, err
		}
		stats["total_"+name] = n
	}

	pending, err := s.invitations.CountDocuments(ctx, bson.M{"status": "pending"})
	if err == nil {
		stats["pending_invitations"] = pending
	}

	return stats, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements the repository interfaces
var (
	_ InventoryRepository  = (*MongoStore)(nil)
	_ ItemRepository       = (*MongoStore)(nil)
	_ InvitationRepository = (*MongoStore)(nil)
	_ UserRepository       = (*MongoStore)(nil)
	_ StatsProvider        = (*MongoStore)(nil)
)
