package channel

import (
	"path/filepath"
	"testing"

	"github.com/campuscord/core/internal/database"
	"github.com/campuscord/core/internal/models"
	"github.com/campuscord/core/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(db), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.UserModel {
	t.Helper()
	u := models.UserModel{Username: username, Email: username + "@uni.edu", Name: username, Password: "x", Verified: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedServer(t *testing.T, db *gorm.DB) models.ServerModel {
	t.Helper()
	s := models.ServerModel{Name: "Uni"}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func TestCreateChannel(t *testing.T) {
	svc, db := newTestService(t)
	srv := seedServer(t, db)

	ch, err := svc.Create(srv.ID, &CreateChannelDTO{Name: "general", Topic: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "general", ch.Name)

	_, err = svc.Create(srv.ID, &CreateChannelDTO{Name: "general"})
	assert.ErrorIs(t, err, errChannelExists)

	// Same name in another server is fine.
	other := seedServer(t, db)
	_, err = svc.Create(other.ID, &CreateChannelDTO{Name: "general"})
	require.NoError(t, err)
}

func TestEditAndDeleteChannel(t *testing.T) {
	svc, db := newTestService(t)
	srv := seedServer(t, db)
	_, err := svc.Create(srv.ID, &CreateChannelDTO{Name: "general"})
	require.NoError(t, err)

	restricted := true
	ch, err := svc.Edit(srv.ID, "general", &UpdateChannelDTO{Topic: "rules", Restricted: &restricted})
	require.NoError(t, err)
	assert.Equal(t, "rules", ch.Topic)
	assert.True(t, ch.Restricted)

	_, err = svc.Edit(srv.ID, "missing", &UpdateChannelDTO{})
	assert.ErrorIs(t, err, errChannelMissing)

	require.NoError(t, svc.Delete(srv.ID, "general"))
	assert.ErrorIs(t, svc.Delete(srv.ID, "general"), errChannelMissing)
}

func TestMessagesOrderedAscending(t *testing.T) {
	svc, db := newTestService(t)
	srv := seedServer(t, db)
	user := seedUser(t, db, "ada")
	_, err := svc.Create(srv.ID, &CreateChannelDTO{Name: "general"})
	require.NoError(t, err)

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.CreateMessage(user.ID, srv.ID, "general", &CreateMessageDTO{Content: content})
		require.NoError(t, err)
	}

	messages, page, err := svc.Messages(srv.ID, "general", pagination.Query{Page: 1, Size: 50})
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)
	assert.Equal(t, "ada", messages[0].CreatedBy.Username)
}

func TestCreateMessageWithMedia(t *testing.T) {
	svc, db := newTestService(t)
	srv := seedServer(t, db)
	user := seedUser(t, db, "ada")
	_, err := svc.Create(srv.ID, &CreateChannelDTO{Name: "general"})
	require.NoError(t, err)

	msg, err := svc.CreateMessage(user.ID, srv.ID, "general", &CreateMessageDTO{
		Content: "look at this",
		Media:   []MediaDTO{{Name: "cat.png", Type: "image/png"}},
	})
	require.NoError(t, err)
	require.Len(t, msg.Media, 1)
	assert.Equal(t, "cat.png", msg.Media[0].Name)
}

func TestCreateMessageInMissingChannel(t *testing.T) {
	svc, db := newTestService(t)
	srv := seedServer(t, db)
	user := seedUser(t, db, "ada")

	_, err := svc.CreateMessage(user.ID, srv.ID, "nope", &CreateMessageDTO{Content: "hi"})
	assert.ErrorIs(t, err, errChannelMissing)
}

func TestDeleteMessageOnlyByAuthor(t *testing.T) {
	svc, db := newTestService(t)
	srv := seedServer(t, db)
	author := seedUser(t, db, "ada")
	other := seedUser(t, db, "bob")
	_, err := svc.Create(srv.ID, &CreateChannelDTO{Name: "general"})
	require.NoError(t, err)

	msg, err := svc.CreateMessage(author.ID, srv.ID, "general", &CreateMessageDTO{Content: "mine"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteMessage(msg.ID, other.ID), errMessageMissing)
	require.NoError(t, svc.DeleteMessage(msg.ID, author.ID))
}

func TestLikeState(t *testing.T) {
	svc, db := newTestService(t)
	srv := seedServer(t, db)
	ada := seedUser(t, db, "ada")
	bob := seedUser(t, db, "bob")
	_, err := svc.Create(srv.ID, &CreateChannelDTO{Name: "general"})
	require.NoError(t, err)

	msg, err := svc.CreateMessage(ada.ID, srv.ID, "general", &CreateMessageDTO{Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.Like(ada.ID, msg.ID))
	require.NoError(t, svc.Like(bob.ID, msg.ID))
	assert.ErrorIs(t, svc.Like(bob.ID, msg.ID), errAlreadyLiked)

	counts, mine, err := svc.LikeState(bob.ID, []string{msg.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[msg.ID])
	assert.True(t, mine[msg.ID])

	require.NoError(t, svc.Dislike(bob.ID, msg.ID))
	// Removing a like that is already gone stays quiet.
	require.NoError(t, svc.Dislike(bob.ID, msg.ID))

	counts, mine, err = svc.LikeState(bob.ID, []string{msg.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[msg.ID])
	assert.False(t, mine[msg.ID])
}
