package repository

import (
	"context"
	"fmt"
	"time"

	"wastenot-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// inventoryDocument is the persisted shape of an inventory.
type inventoryDocument struct {
	ID           string            `bson:"_id"`
	Name         string            `bson:"name"`
	Owner        string            `bson:"owner"`
	Members      map[string]string `bson:"members"`
	MembersArray []string          `bson:"membersArray"`
	CreatedAt    time.Time         `bson:"createdAt"`
}

func (d *inventoryDocument) toModel() *model.Inventory {
	return &model.Inventory{
		ID:           d.ID,
		Name:         d.Name,
		Owner:        d.Owner,
		Members:      d.Members,
		MembersArray: d.MembersArray,
		CreatedAt:    d.CreatedAt,
	}
}

// Create persists a new inventory document.
func (s *MongoStore) Create(ctx context.Context, inv *model.Inventory) error {
	doc := inventoryDocument{
		ID:           inv.ID,
		Name:         inv.Name,
		Owner:        inv.Owner,
		Members:      inv.Members,
		MembersArray: inv.MembersArray,
		CreatedAt:    inv.CreatedAt,
	}
	if _, err := s.inventories.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert inventory: %w", err)
	}
	return nil
}

// GetByID fetches one inventory document.
func (s *MongoStore) GetByID(ctx context.Context, id string) (*model.Inventory, error) {
	var doc inventoryDocument
	err := s.inventories.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return doc.toModel(), nil
}

// ListByMember queries the flattened member list for containment.
func (s *MongoStore) ListByMember(ctx context.Context, uid string) ([]*model.Inventory, error) {
	cursor, err := s.inventories.Find(ctx, bson.M{"membersArray": uid})
	if err != nil {
		return nil, fmt.Errorf("failed to list inventories: %w", err)
	}
	defer cursor.Close(ctx)

	result := make([]*model.Inventory, 0)
	for cursor.Next(ctx) {
		var doc inventoryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode inventory: %w", err)
		}
		result = append(result, doc.toModel())
	}
	return result, cursor.Err()
}

// Rename updates the display name.
func (s *MongoStore) Rename(ctx context.Context, id, name string) error {
	res, err := s.inventories.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return fmt.Errorf("failed to rename inventory: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInventoryNotFound
	}
	return nil
}

// AddMember unions uid into both membership representations in one document
// write: $set on the role map entry plus $addToSet on the flattened list.
func (s *MongoStore) AddMember(ctx context.Context, id, uid, role string) error {
	res, err := s.inventories.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":      bson.M{"members." + uid: role},
			"$addToSet": bson.M{"membersArray": uid},
		})
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInventoryNotFound
	}
	return nil
}
