package models

import "gorm.io/gorm"

type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "PENDING"
	MembershipAccepted MembershipStatus = "ACCEPTED"
	MembershipRejected MembershipStatus = "REJECTED"
)

// LuckyGroup is a user-created circle whose accepted members see each
// other's listings.
type LuckyGroup struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	CreatedBy uint   `json:"createdBy" gorm:"not null;index"`
	Creator   User   `json:"creator" gorm:"foreignKey:CreatedBy"`
}

func (LuckyGroup) TableName() string {
	return "lucky_groups"
}

// GroupMembership joins a user to a lucky group. At most one record per
// (group, user) pair; re-inviting a rejected member flips the same record
// back to pending.
type GroupMembership struct {
	gorm.Model
	GroupID   uint             `json:"groupId" gorm:"not null;index"`
	Group     LuckyGroup       `json:"group"`
	UserID    uint             `json:"userId" gorm:"not null;index"`
	User      User             `json:"user"`
	InvitedBy uint             `json:"invitedBy" gorm:"not null"`
	Status    MembershipStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
}

func (GroupMembership) TableName() string {
	return "group_members"
}
