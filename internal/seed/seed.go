// Package seed 启动时按 yaml 文件写入默认的角色、权限、菜单与字典。
// 已存在的记录（按 code / type 匹配）不会被覆盖。
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/repository/mysql"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type File struct {
	Permissions []Permission `yaml:"permissions"`
	Menus       []Menu       `yaml:"menus"`
	Roles       []Role       `yaml:"roles"`
	Dicts       []Dict       `yaml:"dicts"`
}

type Permission struct {
	Name        string `yaml:"name"`
	Code        string `yaml:"code"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

type Menu struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	Component string `yaml:"component"`
	Type      string `yaml:"type"`
	Icon      string `yaml:"icon"`
	Code      string `yaml:"code"`
	Sort      int    `yaml:"sort"`
	Children  []Menu `yaml:"children"`
}

// key 按钮用 code 匹配，普通菜单用 path
func (m Menu) key() string {
	if m.Code != "" {
		return "code:" + m.Code
	}
	return "path:" + m.Path
}

type Role struct {
	Name        string   `yaml:"name"`
	Code        string   `yaml:"code"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
	Menus       []string `yaml:"menus"` // 菜单 path 或按钮 code
}

type Dict struct {
	Name    string            `yaml:"name"`
	Type    string            `yaml:"type"`
	Remark  string            `yaml:"remark"`
	Sort    int               `yaml:"sort"`
	Entries []model.DictEntry `yaml:"entries"`
}

func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("unmarshal seed %s: %w", path, err)
	}
	return &f, nil
}

type Seeder struct {
	roles       *mysql.RoleRepository
	permissions *mysql.PermissionRepository
	menus       *mysql.MenuRepository
	dicts       *mysql.DictRepository
	log         *logrus.Entry
}

func NewSeeder(db *gorm.DB, log *logrus.Logger) *Seeder {
	return &Seeder{
		roles:       &mysql.RoleRepository{DB: db},
		permissions: &mysql.PermissionRepository{DB: db},
		menus:       &mysql.MenuRepository{DB: db},
		dicts:       &mysql.DictRepository{DB: db},
		log:         log.WithField("component", "seed"),
	}
}

// RunFile 文件不存在时直接跳过
func (s *Seeder) RunFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		s.log.WithField("file", path).Info("seed file not found, skipped")
		return nil
	}
	f, err := Load(path)
	if err != nil {
		return err
	}
	return s.Apply(ctx, f)
}

func (s *Seeder) Apply(ctx context.Context, f *File) error {
	permIDs := make(map[string]uint64, len(f.Permissions))
	for _, p := range f.Permissions {
		id, err := s.ensurePermission(ctx, p)
		if err != nil {
			return err
		}
		permIDs[p.Code] = id
	}

	existing, err := s.menus.FindAll(ctx)
	if err != nil {
		return err
	}
	menuIDs := make(map[string]uint64, len(existing))
	for _, m := range existing {
		menuIDs[Menu{Code: m.Code, Path: m.Path}.key()] = m.ID
	}
	created := 0
	for _, m := range f.Menus {
		if err := s.ensureMenu(ctx, m, nil, menuIDs, &created); err != nil {
			return err
		}
	}

	for _, r := range f.Roles {
		if err := s.ensureRole(ctx, r, permIDs, menuIDs); err != nil {
			return err
		}
	}
	for _, d := range f.Dicts {
		if err := s.ensureDict(ctx, d); err != nil {
			return err
		}
	}
	s.log.WithFields(logrus.Fields{
		"permissions": len(f.Permissions),
		"menus":       created,
		"roles":       len(f.Roles),
		"dicts":       len(f.Dicts),
	}).Info("seed applied")
	return nil
}

func (s *Seeder) ensurePermission(ctx context.Context, p Permission) (uint64, error) {
	got, err := s.permissions.FindByCode(ctx, p.Code)
	if err == nil {
		return got.ID, nil
	}
	if !errors.Is(err, mysql.ErrNotFound) {
		return 0, err
	}
	row := &model.Permission{Name: p.Name, Code: p.Code, Type: p.Type, Description: p.Description}
	if row.Type == "" {
		row.Type = model.MenuTypeMenu
	}
	if err := s.permissions.Create(ctx, row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *Seeder) ensureMenu(ctx context.Context, m Menu, parentID *uint64, ids map[string]uint64, created *int) error {
	id, ok := ids[m.key()]
	if !ok {
		row := &model.Menu{
			Name:      m.Name,
			Path:      m.Path,
			Component: m.Component,
			Type:      m.Type,
			Icon:      m.Icon,
			Code:      m.Code,
			Sort:      m.Sort,
			ParentID:  parentID,
		}
		if row.Type == "" {
			row.Type = model.MenuTypeMenu
		}
		if err := s.menus.Create(ctx, row); err != nil {
			return err
		}
		id = row.ID
		ids[m.key()] = id
		*created++
	}
	for _, child := range m.Children {
		if err := s.ensureMenu(ctx, child, &id, ids, created); err != nil {
			return err
		}
	}
	return nil
}

// ensureRole 仅新建的角色才写入权限与菜单
func (s *Seeder) ensureRole(ctx context.Context, r Role, permIDs, menuIDs map[string]uint64) error {
	_, err := s.roles.FindByCode(ctx, r.Code)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mysql.ErrNotFound) {
		return err
	}
	row := &model.Role{Name: r.Name, Code: r.Code, Description: r.Description}
	if err := s.roles.Create(ctx, row); err != nil {
		return err
	}
	var perms []uint64
	for _, code := range r.Permissions {
		if id, ok := permIDs[code]; ok {
			perms = append(perms, id)
		}
	}
	if err := s.roles.SetPermissions(ctx, row.ID, perms); err != nil {
		return err
	}
	var menus []uint64
	for _, ref := range r.Menus {
		if id, ok := menuIDs["path:"+ref]; ok {
			menus = append(menus, id)
		} else if id, ok := menuIDs["code:"+ref]; ok {
			menus = append(menus, id)
		}
	}
	return s.roles.SetMenus(ctx, row.ID, menus)
}

func (s *Seeder) ensureDict(ctx context.Context, d Dict) error {
	exists, err := s.dicts.ExistsType(ctx, d.Type, 0)
	if err != nil || exists {
		return err
	}
	return s.dicts.Create(ctx, &model.Dict{
		Name:    d.Name,
		Type:    d.Type,
		Entries: d.Entries,
		Status:  true,
		Sort:    d.Sort,
		Remark:  d.Remark,
	})
}
