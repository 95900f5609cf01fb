package service

import (
	"context"
	"testing"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v uint64) *uint64 { return &v }

func TestBuildMenuTree(t *testing.T) {
	list := []model.Menu{
		{ID: 1, Name: "系统", Type: model.MenuTypeMenu},
		{ID: 2, Name: "用户", Type: model.MenuTypeMenu, ParentID: ptr(1)},
		{ID: 3, Name: "删除", Type: model.MenuTypeButton, Code: "user:delete", ParentID: ptr(2)},
		{ID: 4, Name: "孤儿", Type: model.MenuTypeMenu, ParentID: ptr(99)},
		// 5 和 6 互为父节点，不可达
		{ID: 5, Name: "a", Type: model.MenuTypeMenu, ParentID: ptr(6)},
		{ID: 6, Name: "b", Type: model.MenuTypeMenu, ParentID: ptr(5)},
	}

	roots := BuildMenuTree(list, nil)
	require.Len(t, roots, 2)
	assert.EqualValues(t, 1, roots[0].ID)
	assert.EqualValues(t, 4, roots[1].ID)
	require.Len(t, roots[0].Children, 1)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "user:delete", roots[0].Children[0].Children[0].Code)

	noButtons := BuildMenuTree(list, notButton)
	require.Len(t, noButtons, 2)
	assert.Empty(t, noButtons[0].Children[0].Children)

	// 父节点被过滤后子节点提升为根
	withoutRoot := BuildMenuTree(list, func(m *model.Menu) bool { return m.ID != 1 })
	ids := make([]uint64, 0, len(withoutRoot))
	for _, r := range withoutRoot {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint64{2, 4}, ids)

	assert.NotNil(t, BuildMenuTree(nil, nil))
}

func TestCreatesCycle(t *testing.T) {
	all := []model.Menu{
		{ID: 1},
		{ID: 2, ParentID: ptr(1)},
		{ID: 3, ParentID: ptr(2)},
		{ID: 4},
	}
	assert.True(t, createsCycle(all, 1, 1))
	assert.True(t, createsCycle(all, 1, 3))
	assert.True(t, createsCycle(all, 2, 3))
	assert.False(t, createsCycle(all, 3, 4))
	assert.False(t, createsCycle(all, 4, 3))
}

func TestMenuService_UpdateRejectsCycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewMenuService(&mysql.MenuRepository{DB: db}, &mysql.RoleRepository{DB: db}, &mysql.UserRepository{DB: db})
	ctx := context.Background()

	root, err := svc.Create(ctx, MenuInput{Name: "root", Path: "/root"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, MenuInput{Name: "child", Path: "/root/child", ParentID: &root.ID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, root.ID, MenuUpdate{ParentID: &child.ID})
	assert.ErrorIs(t, err, ErrMenuCycle)

	zero := uint64(0)
	moved, err := svc.Update(ctx, child.ID, MenuUpdate{ParentID: &zero})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)

	_, err = svc.Create(ctx, MenuInput{Name: "btn", Type: model.MenuTypeButton})
	assert.ErrorIs(t, err, ErrBadRequest)
}
