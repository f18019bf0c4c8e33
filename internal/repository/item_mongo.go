package repository

import (
	"context"
	"fmt"
	"time"

	"wastenot-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// itemDocument is the persisted shape of an inventory item. Field names
// follow the original collection layout.
type itemDocument struct {
	ID                 string     `bson:"_id"`
	InventoryID        string     `bson:"inventoryId"`
	Barcode            string     `bson:"barcode"`
	ItemName           string     `bson:"itemName"`
	Quantity           int        `bson:"quantity"`
	LastUpdated        time.Time  `bson:"lastUpdated"`
	ProductDescription string     `bson:"productDescription"`
	ImageURL           string     `bson:"imageURL"`
	Ingredients        string     `bson:"ingredients"`
	NutritionFacts     string     `bson:"nutritionFacts"`
	Brand              string     `bson:"brand"`
	Title              string     `bson:"title"`
	Category           string     `bson:"category"`
	ReminderDate       *time.Time `bson:"reminderDate,omitempty"`
	CreatedBy          string     `bson:"createdBy"`
	LastUpdatedBy      string     `bson:"lastUpdatedBy"`
}

func (d *itemDocument) toModel() *model.InventoryItem {
	return &model.InventoryItem{
		ID:                 d.ID,
		InventoryID:        d.InventoryID,
		Barcode:            d.Barcode,
		ItemName:           d.ItemName,
		Quantity:           d.Quantity,
		LastUpdated:        d.LastUpdated,
		ProductDescription: d.ProductDescription,
		ImageURL:           d.ImageURL,
		Ingredients:        d.Ingredients,
		NutritionFacts:     d.NutritionFacts,
		Brand:              d.Brand,
		Title:              d.Title,
		Category:           d.Category,
		ReminderDate:       d.ReminderDate,
		CreatedBy:          d.CreatedBy,
		LastUpdatedBy:      d.LastUpdatedBy,
	}
}

func fromItemModel(item *model.InventoryItem) itemDocument {
	return itemDocument{
		ID:                 item.ID,
		InventoryID:        item.InventoryID,
		Barcode:            item.Barcode,
		ItemName:           item.ItemName,
		Quantity:           item.Quantity,
		LastUpdated:        item.LastUpdated,
		ProductDescription: item.ProductDescription,
		ImageURL:           item.ImageURL,
		Ingredients:        item.Ingredients,
		NutritionFacts:     item.NutritionFacts,
		Brand:              item.Brand,
		Title:              item.Title,
		Category:           item.Category,
		ReminderDate:       item.ReminderDate,
		CreatedBy:          item.CreatedBy,
		LastUpdatedBy:      item.LastUpdatedBy,
	}
}

// CreateItem persists a new item document.
func (s *MongoStore) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	if _, err := s.items.InsertOne(ctx, fromItemModel(item)); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItem fetches one item scoped to an inventory.
func (s *MongoStore) GetItem(ctx context.Context, inventoryID, itemID string) (*model.InventoryItem, error) {
	var doc itemDocument
	err := s.items.FindOne(ctx,
		bson.M{"_id": itemID, "inventoryId": inventoryID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return doc.toModel(), nil
}

// UpdateItem applies a partial $set with only the patched fields plus the
// modification stamp.
func (s *MongoStore) UpdateItem(ctx context.Context, inventoryID, itemID string, patch *model.ItemPatch, updatedBy string, updatedAt time.Time) error {
	set := bson.M{
		"lastUpdated":   updatedAt,
		"lastUpdatedBy": updatedBy,
	}
	if patch.ItemName != nil {
		set["itemName"] = *patch.ItemName
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.ProductDescription != nil {
		set["productDescription"] = *patch.ProductDescription
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}

	update := bson.M{"$set": set}
	if patch.ClearReminder {
		update["$unset"] = bson.M{"reminderDate": ""}
	} else if patch.ReminderDate != nil {
		set["reminderDate"] = *patch.ReminderDate
	}

	res, err := s.items.UpdateOne(ctx,
		bson.M{"_id": itemID, "inventoryId": inventoryID}, update)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItem removes one item.
func (s *MongoStore) DeleteItem(ctx context.Context, inventoryID, itemID string) error {
	res, err := s.items.DeleteOne(ctx,
		bson.M{"_id": itemID, "inventoryId": inventoryID})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ListItems returns the full item snapshot for an inventory.
func (s *MongoStore) ListItems(ctx context.Context, inventoryID string) ([]*model.InventoryItem, error) {
	cursor, err := s.items.Find(ctx, bson.M{"inventoryId": inventoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*model.InventoryItem, 0)
	for cursor.Next(ctx) {
		var doc itemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		items = append(items, doc.toModel())
	}
	return items, cursor.Err()
}

// ListExpiringBetween returns items with a reminder date inside [start, end].
func (s *MongoStore) ListExpiringBetween(ctx context.Context, start, end time.Time) ([]*model.InventoryItem, error) {
	filter := bson.M{
		"reminderDate": bson.M{"$gte": start, "$lte": end},
	}
	cursor, err := s.items.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring items: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*model.InventoryItem, 0)
	for cursor.Next(ctx) {
		var doc itemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		items = append(items, doc.toModel())
	}
	return items, cursor.Err()
}
