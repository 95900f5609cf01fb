package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/repository/mysql"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), mysql.Config())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

const testSeed = `
permissions:
  - { name: 用户管理, code: "user:manage" }
menus:
  - name: 系统
    path: /system
    children:
      - { name: 用户, path: /system/users }
      - { name: 删除, type: button, code: "user:delete" }
roles:
  - name: 管理员
    code: admin
    permissions: ["user:manage"]
    menus: [/system, /system/users, "user:delete"]
dicts:
  - name: 状态
    type: status
    entries:
      - { label: 启用, value: 1 }
`

func TestSeeder_ApplyIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o644))

	s := NewSeeder(db, logrus.New())
	ctx := context.Background()
	require.NoError(t, s.RunFile(ctx, path))
	require.NoError(t, s.RunFile(ctx, path))

	var menus []model.Menu
	require.NoError(t, db.Order("id").Find(&menus).Error)
	require.Len(t, menus, 3)
	assert.Nil(t, menus[0].ParentID)
	require.NotNil(t, menus[1].ParentID)
	assert.Equal(t, menus[0].ID, *menus[1].ParentID)
	assert.Equal(t, model.MenuTypeButton, menus[2].Type)

	var roleCount int64
	db.Model(&model.Role{}).Count(&roleCount)
	assert.Equal(t, int64(1), roleCount)

	roles := &mysql.RoleRepository{DB: db}
	admin, err := roles.FindByCode(ctx, "admin")
	require.NoError(t, err)
	ids, err := roles.MenuIDs(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	perms, err := roles.Permissions(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "user:manage", perms[0].Code)

	dict, err := (&mysql.DictRepository{DB: db}).FindByType(ctx, "status")
	require.NoError(t, err)
	assert.True(t, dict.Status)
	require.Len(t, dict.Entries, 1)
	assert.Equal(t, "启用", dict.Entries[0].Label)
}

func TestSeeder_MissingFileSkipped(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db, logrus.New())
	assert.NoError(t, s.RunFile(context.Background(), filepath.Join(t.TempDir(), "none.yaml")))
}

func TestLoad_DefaultSeedParses(t *testing.T) {
	f, err := Load("../../configs/seed.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, f.Roles)
	assert.NotEmpty(t, f.Menus)
	assert.NotEmpty(t, f.Dicts)
}
