package project

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LeeBhin/boasting/internal/models"
)

type staticNames map[string]string

func (n staticNames) DisplayNameOf(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return id
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{}, &models.UserViewsModel{},
		&models.ProjectModel{}, &models.CommentModel{}, &models.RatingModel{},
	))
	return db
}

func seedProject(t *testing.T, db *gorm.DB, ownerID string) *models.ProjectModel {
	t.Helper()
	p := models.ProjectModel{
		Title:     "자랑할 프로젝트",
		ImageURLs: models.StringArray{"/img/1.png"},
		UserID:    ownerID,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestRecordViewCountsOncePerUser(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, staticNames{})
	p := seedProject(t, db, "owner-1")

	counted, err := svc.RecordView("viewer-1", p.ID)
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = svc.RecordView("viewer-1", p.ID)
	require.NoError(t, err)
	assert.False(t, counted)

	var got models.ProjectModel
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, uint64(1), got.Views)
}

func TestRecordViewDistinctUsers(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, staticNames{})
	p := seedProject(t, db, "owner-1")

	for _, uid := range []string{"viewer-1", "viewer-2", "viewer-3"} {
		counted, err := svc.RecordView(uid, p.ID)
		require.NoError(t, err)
		assert.True(t, counted)
	}

	var got models.ProjectModel
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, uint64(3), got.Views)
}

func TestRecordViewAnonymousIsNoop(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, staticNames{})
	p := seedProject(t, db, "owner-1")

	counted, err := svc.RecordView("", p.ID)
	require.NoError(t, err)
	assert.False(t, counted)

	var got models.ProjectModel
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, uint64(0), got.Views)
}

func TestRecordViewAcrossProjects(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, staticNames{})
	p1 := seedProject(t, db, "owner-1")
	p2 := seedProject(t, db, "owner-1")

	counted, err := svc.RecordView("viewer-1", p1.ID)
	require.NoError(t, err)
	assert.True(t, counted)
	counted, err = svc.RecordView("viewer-1", p2.ID)
	require.NoError(t, err)
	assert.True(t, counted)

	var uv models.UserViewsModel
	require.NoError(t, db.First(&uv, "user_id = ?", "viewer-1").Error)
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, []string(uv.ViewedProjects))
}

func TestRecordViewUnknownProject(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, staticNames{})

	_, err := svc.RecordView("viewer-1", "missing")
	assert.ErrorIs(t, err, errProjectNotFound)
}
