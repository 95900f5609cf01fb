package model

type Role struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Code        string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Description string `gorm:"size:255" json:"description"`
}

type Permission struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:64;not null" json:"name"`
	Type        string `gorm:"size:16;not null" json:"type"` // menu / button
	Description string `gorm:"size:255" json:"description"`
	Code        string `gorm:"uniqueIndex;size:128;not null" json:"code"`
}

// RolePermission 角色-权限关联
type RolePermission struct {
	RoleID       uint64 `gorm:"primaryKey;autoIncrement:false"`
	PermissionID uint64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// RoleMenu 角色-菜单关联
type RoleMenu struct {
	RoleID uint64 `gorm:"primaryKey;autoIncrement:false"`
	MenuID uint64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (RoleMenu) TableName() string { return "role_menus" }
