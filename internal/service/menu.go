package service

import (
	"context"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
)

type MenuService struct {
	menus *mysql.MenuRepository
	roles *mysql.RoleRepository
	users *mysql.UserRepository
}

func NewMenuService(menus *mysql.MenuRepository, roles *mysql.RoleRepository, users *mysql.UserRepository) *MenuService {
	return &MenuService{menus: menus, roles: roles, users: users}
}

type MenuInput struct {
	Name      string  `json:"name" binding:"required"`
	Path      string  `json:"path"`
	Component string  `json:"component"`
	Type      string  `json:"type"`
	Icon      string  `json:"icon"`
	Code      string  `json:"code"`
	Explain   string  `json:"explain"`
	ParentID  *uint64 `json:"parentId"`
	Sort      int     `json:"sort"`
}

type MenuUpdate struct {
	Name      *string `json:"name"`
	Path      *string `json:"path"`
	Component *string `json:"component"`
	Type      *string `json:"type"`
	Icon      *string `json:"icon"`
	Code      *string `json:"code"`
	Explain   *string `json:"explain"`
	ParentID  *uint64 `json:"parentId"`
	Sort      *int    `json:"sort"`
}

// checkMenu 唯一字段、父菜单存在、按钮必须带编码
func (s *MenuService) checkMenu(ctx context.Context, m *model.Menu) error {
	if m.Type != model.MenuTypeMenu && m.Type != model.MenuTypeButton {
		return badRequest("菜单类型只能是 menu 或 button")
	}
	if m.Type == model.MenuTypeButton && m.Code == "" {
		return badRequest("按钮必须填写权限编码")
	}
	for _, f := range []struct{ col, val, label string }{
		{"code", m.Code, "权限编码"},
		{"path", m.Path, "路由路径"},
		{"component", m.Component, "组件"},
	} {
		taken, err := s.menus.FindConflict(ctx, f.col, f.val, m.ID)
		if err != nil {
			return err
		}
		if taken {
			return mapRepoError(mysql.ErrDuplicateEntry, f.label)
		}
	}
	if m.ParentID != nil {
		if _, err := s.menus.FindByID(ctx, *m.ParentID); err != nil {
			return mapRepoError(err, "父菜单")
		}
	}
	return nil
}

func (s *MenuService) Create(ctx context.Context, in MenuInput) (*model.Menu, error) {
	m := &model.Menu{
		Name:      in.Name,
		Path:      in.Path,
		Component: in.Component,
		Type:      in.Type,
		Icon:      in.Icon,
		Code:      in.Code,
		Explain:   in.Explain,
		ParentID:  in.ParentID,
		Sort:      in.Sort,
	}
	if m.Type == "" {
		m.Type = model.MenuTypeMenu
	}
	if err := s.checkMenu(ctx, m); err != nil {
		return nil, err
	}
	if err := s.menus.Create(ctx, m); err != nil {
		return nil, mapRepoError(err, "菜单")
	}
	return m, nil
}

func (s *MenuService) Get(ctx context.Context, id uint64) (*model.Menu, error) {
	m, err := s.menus.FindByID(ctx, id)
	return m, mapRepoError(err, "菜单")
}

// Update parentId 传 0 表示移动到顶层
func (s *MenuService) Update(ctx context.Context, id uint64, in MenuUpdate) (*model.Menu, error) {
	m, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "菜单")
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Path != nil {
		m.Path = *in.Path
	}
	if in.Component != nil {
		m.Component = *in.Component
	}
	if in.Type != nil {
		m.Type = *in.Type
	}
	if in.Icon != nil {
		m.Icon = *in.Icon
	}
	if in.Code != nil {
		m.Code = *in.Code
	}
	if in.Explain != nil {
		m.Explain = *in.Explain
	}
	if in.Sort != nil {
		m.Sort = *in.Sort
	}
	if in.ParentID != nil {
		if *in.ParentID == 0 {
			m.ParentID = nil
		} else {
			parent := *in.ParentID
			all, err := s.menus.FindAll(ctx)
			if err != nil {
				return nil, err
			}
			if createsCycle(all, id, parent) {
				return nil, ErrMenuCycle
			}
			m.ParentID = &parent
		}
	}
	if err := s.checkMenu(ctx, m); err != nil {
		return nil, err
	}
	if err := s.menus.Save(ctx, m); err != nil {
		return nil, mapRepoError(err, "菜单")
	}
	return m, nil
}

// createsCycle 沿 parent 链向上查找，遇到自身即成环
func createsCycle(all []model.Menu, id, newParent uint64) bool {
	parentOf := make(map[uint64]*uint64, len(all))
	for i := range all {
		parentOf[all[i].ID] = all[i].ParentID
	}
	seen := make(map[uint64]bool)
	cur := newParent
	for {
		if cur == id {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		p, ok := parentOf[cur]
		if !ok || p == nil {
			return false
		}
		cur = *p
	}
}

// Delete 删除整棵子树，返回删除的节点数
func (s *MenuService) Delete(ctx context.Context, id uint64) (int, error) {
	n, err := s.menus.DeleteTree(ctx, id)
	return n, mapRepoError(err, "菜单")
}

// PageTrees 分页的一级菜单及其完整子树
func (s *MenuService) PageTrees(ctx context.Context, q pkg.PageQuery) (pkg.PageResult[*model.Menu], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[*model.Menu]{}, badRequest(err.Error())
	}
	roots, total, err := s.menus.ListRoots(ctx, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[*model.Menu]{}, err
	}
	all, err := s.menus.FindAll(ctx)
	if err != nil {
		return pkg.PageResult[*model.Menu]{}, err
	}
	trees := BuildMenuTree(all, nil)
	byID := make(map[uint64]*model.Menu, len(trees))
	for _, t := range trees {
		byID[t.ID] = t
	}
	out := make([]*model.Menu, 0, len(roots))
	for _, r := range roots {
		if t, ok := byID[r.ID]; ok {
			out = append(out, t)
		}
	}
	return pkg.NewPageResult(out, total, q), nil
}

// Tree 完整菜单树，不含按钮
func (s *MenuService) Tree(ctx context.Context) ([]*model.Menu, error) {
	all, err := s.menus.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildMenuTree(all, notButton), nil
}

func notButton(m *model.Menu) bool { return m.Type != model.MenuTypeButton }

// BuildMenuTree 从根逐层挂载子节点；keep 为 nil 时保留全部。
// 父节点被过滤掉的节点提升为根，环上的节点不可达，直接丢弃。
func BuildMenuTree(list []model.Menu, keep func(*model.Menu) bool) []*model.Menu {
	nodes := make(map[uint64]*model.Menu, len(list))
	order := make([]*model.Menu, 0, len(list))
	for i := range list {
		m := list[i]
		if keep != nil && !keep(&m) {
			continue
		}
		m.Children = []*model.Menu{}
		nodes[m.ID] = &m
		order = append(order, &m)
	}
	children := make(map[uint64][]*model.Menu, len(order))
	var roots []*model.Menu
	for _, m := range order {
		if m.ParentID != nil {
			if _, ok := nodes[*m.ParentID]; ok && *m.ParentID != m.ID {
				children[*m.ParentID] = append(children[*m.ParentID], m)
				continue
			}
		}
		roots = append(roots, m)
	}
	visited := make(map[uint64]bool, len(order))
	queue := make([]*model.Menu, 0, len(order))
	for _, r := range roots {
		visited[r.ID] = true
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range children[cur.ID] {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			cur.Children = append(cur.Children, c)
			queue = append(queue, c)
		}
	}
	if roots == nil {
		roots = []*model.Menu{}
	}
	return roots
}

func (s *MenuService) grantedMenus(ctx context.Context, userID uint64) ([]model.Menu, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "用户")
	}
	ids, err := s.roles.MenuIDs(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	return s.menus.FindByIDs(ctx, ids)
}

// UserTree 当前用户角色可见的菜单树
func (s *MenuService) UserTree(ctx context.Context, userID uint64) ([]*model.Menu, error) {
	list, err := s.grantedMenus(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildMenuTree(list, notButton), nil
}

// UserButtons 当前用户角色拥有的按钮权限编码
func (s *MenuService) UserButtons(ctx context.Context, userID uint64) ([]string, error) {
	list, err := s.grantedMenus(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(list))
	for _, m := range list {
		if m.Type == model.MenuTypeButton && m.Code != "" {
			codes = append(codes, m.Code)
		}
	}
	return codes, nil
}
