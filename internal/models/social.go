package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friendship statuses.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is directional: UserID sent the request to FriendID. A single
// accepted row represents the edge in both directions.
type Friendship struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair"`
	FriendID  uuid.UUID `json:"friendId" gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair"`
	Status    string    `json:"status" gorm:"not null;default:pending"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Friend User `json:"friend,omitempty" gorm:"foreignKey:FriendID"`
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type Group struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID      `json:"ownerId" gorm:"type:uuid;index;not null"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Members []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type GroupMember struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GroupID  uuid.UUID `json:"groupId" gorm:"type:uuid;not null;uniqueIndex:idx_group_user"`
	UserID   uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_group_user"`
	Role     string    `json:"role" gorm:"default:member"` // owner, member
	JoinedAt time.Time `json:"joinedAt"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
