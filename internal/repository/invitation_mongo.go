package repository

import (
	"context"
	"fmt"
	"time"

	"wastenot-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// invitationDocument is the persisted shape of a ledger record.
type invitationDocument struct {
	ID            string    `bson:"_id"`
	FromUser      string    `bson:"fromUser"`
	ToUser        string    `bson:"toUser"`
	InventoryID   string    `bson:"inventoryId"`
	InventoryName string    `bson:"inventoryName"`
	Status        string    `bson:"status"`
	CreatedAt     time.Time `bson:"createdAt"`
}

func (d *invitationDocument) toModel() *model.Invitation {
	return &model.Invitation{
		ID:            d.ID,
		FromUser:      d.FromUser,
		ToUser:        d.ToUser,
		InventoryID:   d.InventoryID,
		InventoryName: d.InventoryName,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt,
	}
}

// CreateInvitation appends one record. The partial unique index turns a
// concurrent duplicate into ErrDuplicatePending.
func (s *MongoStore) CreateInvitation(ctx context.Context, inv *model.Invitation) error {
	doc := invitationDocument{
		ID:            inv.ID,
		FromUser:      inv.FromUser,
		ToUser:        inv.ToUser,
		InventoryID:   inv.InventoryID,
		InventoryName: inv.InventoryName,
		Status:        inv.Status,
		CreatedAt:     inv.CreatedAt,
	}
	_, err := s.invitations.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicatePending
	}
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// GetInvitation fetches one record by id.
func (s *MongoStore) GetInvitation(ctx context.Context, id string) (*model.Invitation, error) {
	var doc invitationDocument
	err := s.invitations.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return doc.toModel(), nil
}

// ListPendingByInvitee returns all pending records addressed to uid.
func (s *MongoStore) ListPendingByInvitee(ctx context.Context, uid string) ([]*model.Invitation, error) {
	cursor, err := s.invitations.Find(ctx,
		bson.M{"toUser": uid, "status": model.InvitationPending})
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer cursor.Close(ctx)

	result := make([]*model.Invitation, 0)
	for cursor.Next(ctx) {
		var doc invitationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode invitation: %w", err)
		}
		result = append(result, doc.toModel())
	}
	return result, cursor.Err()
}

// ExistsPending reports whether a pending record matches the triple.
func (s *MongoStore) ExistsPending(ctx context.Context, toUser, inventoryID, fromUser string) (bool, error) {
	n, err := s.invitations.CountDocuments(ctx, bson.M{
		"toUser":      toUser,
		"inventoryId": inventoryID,
		"fromUser":    fromUser,
		"status":      model.InvitationPending,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check invitation: %w", err)
	}
	return n > 0, nil
}

// UpdateStatus flips a record's status in place.
func (s *MongoStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.invitations.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
