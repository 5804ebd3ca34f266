package models

// Role groups users for authorization purposes. Exactly one role should
// carry Default = true; it is assigned to new users at registration.
type Role struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Default bool   `gorm:"index" json:"default"`
	Users   []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}
