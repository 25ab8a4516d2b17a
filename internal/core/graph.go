package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/parkshare/parkshare-backend/internal/models"
)

type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// RelationshipGraph manages friendship edges and lucky-group memberships and
// answers who is visible to whom. Every mutation either fully applies or
// leaves the graph untouched.
type RelationshipGraph struct {
	friendships FriendshipStore
	groups      GroupStore
}

func NewRelationshipGraph(friendships FriendshipStore, groups GroupStore) *RelationshipGraph {
	return &RelationshipGraph{friendships: friendships, groups: groups}
}

// ProposeFriendship creates a pending edge from sender to receiver. An
// existing pending or accepted edge between the pair, in either direction,
// blocks the request; a rejected edge does not.
func (g *RelationshipGraph) ProposeFriendship(ctx context.Context, senderID, receiverID uint) (*models.Friendship, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot befriend yourself", ErrValidation)
	}

	existing, err := g.friendships.ActiveBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: friendship already %s", ErrDuplicateRequest, strings.ToLower(string(existing.Status)))
	}

	f := &models.Friendship{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendshipPending,
	}
	if err := g.friendships.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// RespondFriendship lets the receiver accept or reject a pending request.
func (g *RelationshipGraph) RespondFriendship(ctx context.Context, edgeID, responderID uint, decision Decision) (*models.Friendship, error) {
	f, err := g.friendships.ByID(ctx, edgeID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: friendship %d", ErrNotFound, edgeID)
	}
	if f.ReceiverID != responderID {
		return nil, fmt.Errorf("%w: only the receiver may respond", ErrNotAuthorized)
	}
	if f.Status != models.FriendshipPending {
		return nil, fmt.Errorf("%w: friendship is %s", ErrInvalidState, strings.ToLower(string(f.Status)))
	}

	switch decision {
	case DecisionAccept:
		f.Status = models.FriendshipAccepted
	case DecisionReject:
		f.Status = models.FriendshipRejected
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}
	if err := g.friendships.Save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// RemoveFriendship deletes the active edge between the two users. Removing a
// non-existent friendship is a no-op.
func (g *RelationshipGraph) RemoveFriendship(ctx context.Context, userA, userB uint) error {
	f, err := g.friendships.ActiveBetween(ctx, userA, userB)
	if err != nil {
		return err
	}
	if f == nil {
		return nil
	}
	return g.friendships.Delete(ctx, f)
}

// CreateGroup creates a lucky group with the creator as an already-accepted
// member, in a single atomic step.
func (g *RelationshipGraph) CreateGroup(ctx context.Context, creatorID uint, name string) (*models.LuckyGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}

	group := &models.LuckyGroup{Name: name, CreatedBy: creatorID}
	membership := &models.GroupMembership{
		UserID:    creatorID,
		InvitedBy: creatorID,
		Status:    models.MembershipAccepted,
	}
	if err := g.groups.CreateGroup(ctx, group, membership); err != nil {
		return nil, err
	}
	return group, nil
}

// InviteToGroup creates a pending membership for the invitee, or revives a
// previously rejected one. Only the group creator may invite.
func (g *RelationshipGraph) InviteToGroup(ctx context.Context, groupID, inviterID, inviteeID uint) (*models.GroupMembership, error) {
	group, err := g.groups.GroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if group.CreatedBy != inviterID {
		return nil, fmt.Errorf("%w: only the group creator may invite", ErrNotAuthorized)
	}

	existing, err := g.groups.MembershipFor(ctx, groupID, inviteeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.MembershipAccepted:
			return nil, fmt.Errorf("%w: user %d", ErrAlreadyMember, inviteeID)
		case models.MembershipPending:
			return nil, fmt.Errorf("%w: invite already pending", ErrDuplicateRequest)
		case models.MembershipRejected:
			existing.Status = models.MembershipPending
			existing.InvitedBy = inviterID
			if err := g.groups.SaveMembership(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
	}

	m := &models.GroupMembership{
		GroupID:   groupID,
		UserID:    inviteeID,
		InvitedBy: inviterID,
		Status:    models.MembershipPending,
	}
	if err := g.groups.CreateMembership(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RespondGroupInvite lets the invitee accept or reject a pending membership.
func (g *RelationshipGraph) RespondGroupInvite(ctx context.Context, membershipID, responderID uint, decision Decision) (*models.GroupMembership, error) {
	m, err := g.groups.MembershipByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: membership %d", ErrNotFound, membershipID)
	}
	if m.UserID != responderID {
		return nil, fmt.Errorf("%w: only the invitee may respond", ErrNotAuthorized)
	}
	if m.Status != models.MembershipPending {
		return nil, fmt.Errorf("%w: invite is %s", ErrInvalidState, strings.ToLower(string(m.Status)))
	}

	switch decision {
	case DecisionAccept:
		m.Status = models.MembershipAccepted
	case DecisionReject:
		m.Status = models.MembershipRejected
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}
	if err := g.groups.SaveMembership(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RemoveMember lets the group creator remove another member. The creator
// cannot remove themselves here; LeaveGroup covers everyone else's exit.
func (g *RelationshipGraph) RemoveMember(ctx context.Context, groupID, requesterID, memberID uint) error {
	group, err := g.groups.GroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if group.CreatedBy != requesterID {
		return fmt.Errorf("%w: only the group creator may remove members", ErrNotAuthorized)
	}
	if memberID == requesterID {
		return fmt.Errorf("%w: the creator cannot remove themselves", ErrValidation)
	}

	m, err := g.groups.MembershipFor(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: membership for user %d", ErrNotFound, memberID)
	}
	return g.groups.DeleteMembership(ctx, m)
}

// LeaveGroup removes the caller's own accepted membership. The creator may
// not leave their own group.
func (g *RelationshipGraph) LeaveGroup(ctx context.Context, groupID, userID uint) error {
	group, err := g.groups.GroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if group.CreatedBy == userID {
		return fmt.Errorf("%w: the creator cannot leave their own group", ErrValidation)
	}

	m, err := g.groups.MembershipFor(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if m == nil || m.Status != models.MembershipAccepted {
		return fmt.Errorf("%w: not an accepted member", ErrInvalidState)
	}
	return g.groups.DeleteMembership(ctx, m)
}

// VisiblePeers returns the set of user ids whose listings the user may see:
// the user themselves, accepted friends in either direction, and co-members
// of groups where both memberships are accepted. One hop only; friends of
// friends are not included.
func (g *RelationshipGraph) VisiblePeers(ctx context.Context, userID uint) ([]uint, error) {
	seen := map[uint]bool{userID: true}
	peers := []uint{userID}

	friends, err := g.friendships.AcceptedPartners(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range friends {
		if !seen[id] {
			seen[id] = true
			peers = append(peers, id)
		}
	}

	coMembers, err := g.groups.AcceptedCoMembers(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range coMembers {
		if !seen[id] {
			seen[id] = true
			peers = append(peers, id)
		}
	}

	return peers, nil
}
