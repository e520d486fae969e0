package models

import (
	"time"
)

// GroupVisibility decides how users may join a group
type GroupVisibility string

const (
	GroupPublic  GroupVisibility = "public"
	GroupClosed  GroupVisibility = "closed"
	GroupPrivate GroupVisibility = "private"
)

// Valid reports whether v is one of the known group visibilities
func (v GroupVisibility) Valid() bool {
	return v == GroupPublic || v == GroupClosed || v == GroupPrivate
}

type Group struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Visibility  GroupVisibility `gorm:"type:varchar(20);default:'public'" json:"visibility"`
	OwnerID     uint            `gorm:"index;not null" json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Group) TableName() string {
	return "groups"
}

const (
	MemberRoleMember = "member"
	MemberRoleAdmin  = "admin"

	MemberStatusPending = "pending"
	MemberStatusActive  = "active"
)

// GroupMember is the membership of a user in a group
type GroupMember struct {
	GroupID   uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Role      string    `gorm:"type:varchar(10);default:'member'" json:"role"`
	Status    string    `gorm:"type:varchar(10);default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

// FriendshipStatus represents the status of a friendship request
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Friendship is symmetric once accepted; the requester is kept for the pending phase
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"index;not null" json:"requester_id"`
	AddresseeID uint             `gorm:"index;not null" json:"addressee_id"`
	Status      FriendshipStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// Other returns the id of the friend on the other side of the relation
func (f Friendship) Other(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
