package models

import "gorm.io/gorm"

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipRejected FriendshipStatus = "REJECTED"
)

// Friendship is a directed request edge between two users. Direction matters
// only while pending: once accepted the pair is friends regardless of which
// side sent the request.
type Friendship struct {
	gorm.Model
	SenderID   uint             `json:"senderId" gorm:"not null;index"`
	Sender     User             `json:"sender"`
	ReceiverID uint             `json:"receiverId" gorm:"not null;index"`
	Receiver   User             `json:"receiver"`
	Status     FriendshipStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// Active reports whether the edge still blocks a new request for the pair.
// Rejected edges are inert: the sender may propose again.
func (f *Friendship) Active() bool {
	return f.Status == FriendshipPending || f.Status == FriendshipAccepted
}

// Involves reports whether the edge connects the two given users in either
// direction.
func (f *Friendship) Involves(a, b uint) bool {
	return (f.SenderID == a && f.ReceiverID == b) || (f.SenderID == b && f.ReceiverID == a)
}
