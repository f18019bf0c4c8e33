package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"wastenot-api/internal/model"
	"wastenot-api/internal/repository"
	"wastenot-api/pkg/apierror"
	"wastenot-api/pkg/uid"
)

// InvitationService mediates the lifecycle of cross-user invitations to join
// a shared inventory, and applies their resolution to the target inventory's
// membership.
type InvitationService struct {
	invitations repository.InvitationRepository
	inventories repository.InventoryRepository
	users       repository.UserRepository
}

// NewInvitationService creates a new invitation service.
func NewInvitationService(
	invitations repository.InvitationRepository,
	inventories repository.InventoryRepository,
	users repository.UserRepository,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		inventories: inventories,
		users:       users,
	}
}

// InviteByEmail resolves the invitee's email to an identity and creates a
// pending invitation for the inviter's inventory.
func (s *InvitationService) InviteByEmail(ctx context.Context, inviterID, inventoryID, email string) (*model.Invitation, error) {
	inv, err := s.inventories.GetByID(ctx, inventoryID)
	if err == repository.ErrInventoryNotFound {
		return nil, apierror.NotFound("Inventory not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if !inv.IsMember(inviterID) {
		return nil, apierror.Forbidden("Only members can invite")
	}

	invitee, err := s.users.GetUserByEmail(ctx, email)
	if err == repository.ErrUserNotFound {
		return nil, apierror.LookupFailed("")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if inv.IsMember(invitee.ID) {
		return nil, apierror.Conflict("User is already a member")
	}

	if s.CheckExistingInvitation(ctx, invitee.ID, inventoryID, inviterID) {
		return nil, apierror.Conflict("Invitation already sent")
	}

	return s.CreateInvitation(ctx, inviterID, invitee.ID, inventoryID, inv.Name)
}

// CreateInvitation appends one pending record to the ledger.
func (s *InvitationService) CreateInvitation(ctx context.Context, fromUID, toUID, inventoryID, inventoryName string) (*model.Invitation, error) {
	if fromUID == "" || toUID == "" {
		return nil, apierror.BadRequest("inviter and invitee are required")
	}
	if fromUID == toUID {
		return nil, apierror.BadRequest("cannot invite yourself")
	}

	invitation := &model.Invitation{
		ID:            uid.New(),
		FromUser:      fromUID,
		ToUser:        toUID,
		InventoryID:   inventoryID,
		InventoryName: inventoryName,
		Status:        model.InvitationPending,
		CreatedAt:     time.Now().UTC(),
	}

	err := s.invitations.CreateInvitation(ctx, invitation)
	if err == repository.ErrDuplicatePending {
		return nil, apierror.Conflict("Invitation already sent")
	}
	if err != nil {
		return nil, apierror.StoreWriteFailed("Could not create invitation")
	}

	log.Printf("[InvitationService] Invitation %s: %s -> %s for inventory %s",
		invitation.ID, fromUID, toUID, inventoryID)
	return invitation, nil
}

// CheckExistingInvitation reports whether a pending invitation already exists
// for the (inviter, invitee, inventory) triple. Query errors degrade to
// false; the store-level uniqueness constraint is the hard backstop against
// duplicates created under failure.
func (s *InvitationService) CheckExistingInvitation(ctx context.Context, toUID, inventoryID, fromUID string) bool {
	exists, err := s.invitations.ExistsPending(ctx, toUID, inventoryID, fromUID)
	if err != nil {
		log.Printf("[InvitationService] Error checking invitation: %v", err)
		return false
	}
	return exists
}

// FetchPendingInvitations returns a snapshot of pending invitations addressed
// to uid.
func (s *InvitationService) FetchPendingInvitations(ctx context.Context, userID string) ([]*model.Invitation, error) {
	if userID == "" {
		return nil, apierror.NotAuthenticated("")
	}
	invitations, err := s.invitations.ListPendingByInvitee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending invitations: %w", err)
	}
	return invitations, nil
}

// Accept resolves an invitation as accepted and unions the invitee into the
// target inventory's membership.
//
// The membership grant runs before the status flip, and re-accepting an
// already-accepted invitation re-applies the (no-op) grant. Either order of
// crash between the two writes is therefore recoverable by retrying Accept.
func (s *InvitationService) Accept(ctx context.Context, invitationID, userID string) error {
	invitation, err := s.getForInvitee(ctx, invitationID, userID)
	if err != nil {
		return err
	}
	if invitation.Status == model.InvitationDeclined {
		return apierror.Conflict("Invitation was already declined")
	}

	err = s.inventories.AddMember(ctx, invitation.InventoryID, userID, model.RoleMember)
	if err == repository.ErrInventoryNotFound {
		return apierror.NotFound("Inventory not found")
	}
	if err != nil {
		return apierror.StoreWriteFailed("Could not join inventory")
	}

	if invitation.Status != model.InvitationAccepted {
		if err := s.invitations.UpdateStatus(ctx, invitationID, model.InvitationAccepted); err != nil {
			return apierror.StoreWriteFailed("Could not update invitation")
		}
	}

	log.Printf("[InvitationService] Invitation %s accepted by %s", invitationID, userID)
	return nil
}

// Decline resolves an invitation as declined. Membership is untouched.
func (s *InvitationService) Decline(ctx context.Context, invitationID, userID string) error {
	invitation, err := s.getForInvitee(ctx, invitationID, userID)
	if err != nil {
		return err
	}
	if invitation.Status == model.InvitationAccepted {
		return apierror.Conflict("Invitation was already accepted")
	}
	if invitation.Status == model.InvitationDeclined {
		return nil
	}

	if err := s.invitations.UpdateStatus(ctx, invitationID, model.InvitationDeclined); err != nil {
		return apierror.StoreWriteFailed("Could not update invitation")
	}

	log.Printf("[InvitationService] Invitation %s declined by %s", invitationID, userID)
	return nil
}

// getForInvitee loads an invitation and verifies userID is its addressee.
// Invitations addressed to someone else behave as not found.
func (s *InvitationService) getForInvitee(ctx context.Context, invitationID, userID string) (*model.Invitation, error) {
	if userID == "" {
		return nil, apierror.NotAuthenticated("")
	}
	invitation, err := s.invitations.GetInvitation(ctx, invitationID)
	if err == repository.ErrInvitationNotFound {
		return nil, apierror.NotFound("Invitation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if invitation.ToUser != userID {
		return nil, apierror.NotFound("Invitation not found")
	}
	return invitation, nil
}
