package comment

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LeeBhin/boasting/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{}, &models.ProjectModel{},
		&models.CommentModel{}, &models.RatingModel{},
	))
	return db
}

func TestCreateRejectsDuplicate(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	m, err := svc.Create("project-1", "user-1", &CreateCommentDTO{
		Comment: "잘 봤습니다",
		Rating:  4.5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	_, err = svc.Create("project-1", "user-1", &CreateCommentDTO{
		Comment: "두 번째",
		Rating:  3,
	})
	assert.ErrorIs(t, err, errAlreadyCommented)

	// same user, different project is fine
	_, err = svc.Create("project-2", "user-1", &CreateCommentDTO{
		Comment: "다른 프로젝트", Rating: 5,
	})
	assert.NoError(t, err)
}

func TestCreateChecksLegacyRatings(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	require.NoError(t, db.Create(&models.RatingModel{
		ProjectID: "project-1", UserID: "user-1", Rating: 3.5,
	}).Error)

	_, err := svc.Create("project-1", "user-1", &CreateCommentDTO{
		Comment: "새 댓글", Rating: 4,
	})
	assert.ErrorIs(t, err, errAlreadyCommented)
}

func TestCreateValidation(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	_, err := svc.Create("project-1", "user-1", &CreateCommentDTO{Comment: "   "})
	assert.ErrorIs(t, err, errEmptyComment)

	for _, rating := range []float64{-0.5, 5.5, 3.2} {
		_, err = svc.Create("project-1", "user-1", &CreateCommentDTO{
			Comment: "별점 확인", Rating: rating,
		})
		assert.ErrorIs(t, err, errBadRating)
	}

	for _, rating := range []float64{0, 0.5, 2.5, 5} {
		_, err = svc.Create("project-1", "user-"+string(rune('a'+int(rating*2))), &CreateCommentDTO{
			Comment: "별점 확인", Rating: rating,
		})
		assert.NoError(t, err)
	}
}

func TestDeleteAuthorOnly(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	m, err := svc.Create("project-1", "user-1", &CreateCommentDTO{
		Comment: "지울 댓글", Rating: 2,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(m.ID, "user-2"), errNotAuthor)
	assert.ErrorIs(t, svc.Delete("missing", "user-1"), errCommentNotFound)
	require.NoError(t, svc.Delete(m.ID, "user-1"))

	var count int64
	require.NoError(t, db.Model(&models.CommentModel{}).
		Where("id = ?", m.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteKeepsThreadOrdered(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]string, 3)
	for i := range ids {
		m := models.CommentModel{
			Base:      models.Base{CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			ProjectID: "project-1",
			UserID:    fmt.Sprintf("user-%d", i),
			Text:      fmt.Sprintf("댓글 %d", i),
			Rating:    3,
		}
		require.NoError(t, db.Create(&m).Error)
		ids[i] = m.ID
	}

	// drop the middle comment; the survivors keep their order
	require.NoError(t, svc.Delete(ids[1], "user-1"))

	items, err := svc.ListByProject("project-1", "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].ID)
	assert.Equal(t, ids[0], items[1].ID)
	assert.True(t, items[0].Created > items[1].Created)
}

func TestListAuthorNameFallbacks(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	require.NoError(t, db.Create(&models.UserModel{
		Base: models.Base{ID: "user-named"}, Username: "kim", DisplayName: "김개발",
	}).Error)
	require.NoError(t, db.Create(&models.UserModel{
		Base: models.Base{ID: "user-blank"}, Username: "",
	}).Error)

	for _, uid := range []string{"user-named", "user-blank", "user-gone"} {
		_, err := svc.Create("project-1", uid, &CreateCommentDTO{
			Comment: "댓글", Rating: 3,
		})
		require.NoError(t, err)
	}

	items, err := svc.ListByProject("project-1", "user-named")
	require.NoError(t, err)
	require.Len(t, items, 3)

	byUser := map[string]commentResponse{}
	for _, it := range items {
		byUser[it.UserID] = it
	}
	assert.Equal(t, "김개발", byUser["user-named"].AuthorName)
	assert.Equal(t, "익명", byUser["user-blank"].AuthorName)
	assert.Equal(t, "알 수 없음", byUser["user-gone"].AuthorName)
	assert.True(t, byUser["user-named"].IsMine)
	assert.False(t, byUser["user-blank"].IsMine)
}
