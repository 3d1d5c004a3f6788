package bookmark

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LeeBhin/boasting/internal/models"
	"github.com/LeeBhin/boasting/internal/modules/project"
	"github.com/LeeBhin/boasting/internal/modules/user"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{}, &models.UserViewsModel{}, &models.ProjectModel{},
	))
	return db
}

func seed(t *testing.T, db *gorm.DB) (*Service, *models.UserModel, *models.ProjectModel) {
	t.Helper()
	u := models.UserModel{Username: "viewer", Bookmarks: models.StringArray{}}
	require.NoError(t, db.Create(&u).Error)
	p := models.ProjectModel{
		Title:     "자랑",
		ImageURLs: models.StringArray{"/img/1.png"},
		UserID:    "owner-1",
	}
	require.NoError(t, db.Create(&p).Error)

	userSvc := user.NewService(db)
	projectSvc := project.NewService(db, userSvc)
	return NewService(db, projectSvc), &u, &p
}

func TestToggle(t *testing.T) {
	db := testDB(t)
	svc, u, p := seed(t, db)

	on, err := svc.Toggle(u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, on)

	var got models.UserModel
	require.NoError(t, db.First(&got, "id = ?", u.ID).Error)
	assert.True(t, got.Bookmarks.Contains(p.ID))

	off, err := svc.Toggle(u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, off)

	require.NoError(t, db.First(&got, "id = ?", u.ID).Error)
	assert.False(t, got.Bookmarks.Contains(p.ID))
}

func TestToggleUnknownProject(t *testing.T) {
	db := testDB(t)
	svc, u, _ := seed(t, db)

	_, err := svc.Toggle(u.ID, "missing")
	assert.ErrorIs(t, err, errProjectNotFound)
}

func TestListSkipsDeletedProjects(t *testing.T) {
	db := testDB(t)
	svc, u, p := seed(t, db)

	_, err := svc.Toggle(u.ID, p.ID)
	require.NoError(t, err)

	// a bookmark pointing at a project that no longer exists simply
	// resolves to nothing
	require.NoError(t, db.Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		UpdateColumn("bookmarks", models.StringArray{p.ID, "gone"}).Error)

	items, err := svc.List(u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ID)
}
