package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Activity is the append-only unit of record. Rows are never updated or
// deleted; within a tenant the feed order is (created_at desc, id desc).
type Activity struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID  string            `gorm:"not null;index:idx_activities_tenant_created,priority:1" json:"tenantId"`
	ActorID   string            `gorm:"not null" json:"actorId"`
	ActorName string            `gorm:"not null" json:"actorName"`
	Type      Type              `gorm:"not null" json:"type"`
	EntityID  *string           `json:"entityId"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;index:idx_activities_tenant_created,priority:2,sort:desc" json:"createdAt"`
}

func (Activity) TableName() string { return "activities" }

// Type is a member of the closed activity kind set.
type Type string

const (
	TypeUserLogin         Type = "USER_LOGIN"
	TypeUserLogout        Type = "USER_LOGOUT"
	TypeDocumentCreated   Type = "DOCUMENT_CREATED"
	TypeDocumentUpdated   Type = "DOCUMENT_UPDATED"
	TypeDocumentDeleted   Type = "DOCUMENT_DELETED"
	TypeCommentAdded      Type = "COMMENT_ADDED"
	TypeTaskAssigned      Type = "TASK_ASSIGNED"
	TypeTaskCompleted     Type = "TASK_COMPLETED"
	TypeProfileUpdated    Type = "PROFILE_UPDATED"
	TypeTeamMemberAdded   Type = "TEAM_MEMBER_ADDED"
	TypeTeamMemberRemoved Type = "TEAM_MEMBER_REMOVED"
	TypeReportGenerated   Type = "REPORT_GENERATED"
	TypeSettingChanged    Type = "SETTING_CHANGED"
)

// Types lists every valid activity type, in a stable order. This is the single
// authority shared by write validation and list filtering.
func Types() []Type {
	return []Type{
		TypeUserLogin,
		TypeUserLogout,
		TypeDocumentCreated,
		TypeDocumentUpdated,
		TypeDocumentDeleted,
		TypeCommentAdded,
		TypeTaskAssigned,
		TypeTaskCompleted,
		TypeProfileUpdated,
		TypeTeamMemberAdded,
		TypeTeamMemberRemoved,
		TypeReportGenerated,
		TypeSettingChanged,
	}
}

var validTypes = func() map[Type]struct{} {
	set := make(map[Type]struct{})
	for _, t := range Types() {
		set[t] = struct{}{}
	}
	return set
}()

// Valid reports whether t is a member of the closed type set.
func (t Type) Valid() bool {
	_, ok := validTypes[t]
	return ok
}
