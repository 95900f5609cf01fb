package model

const (
	MenuTypeMenu   = "menu"
	MenuTypeButton = "button"
)

// Menu 邻接表存储的菜单树节点
type Menu struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"size:64;not null" json:"name"`
	Path      string  `gorm:"size:255" json:"path"`
	Component string  `gorm:"size:255" json:"component"`
	Type      string  `gorm:"size:16;not null;default:menu" json:"type"`
	Icon      string  `gorm:"size:64" json:"icon,omitempty"`
	Code      string  `gorm:"size:128" json:"code,omitempty"`
	Explain   string  `gorm:"size:255" json:"explain,omitempty"`
	ParentID  *uint64 `gorm:"index" json:"parentId"`
	Sort      int     `gorm:"not null;default:0" json:"sort"`

	Children []*Menu `gorm:"-" json:"children"`
}
