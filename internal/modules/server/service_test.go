package server

import (
	"path/filepath"
	"testing"

	"github.com/campuscord/core/internal/database"
	"github.com/campuscord/core/internal/models"
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

func seedUser(t *testing.T, db *gorm.DB, username, email string) models.UserModel {
	t.Helper()
	u := models.UserModel{Username: username, Email: email, Name: username, Password: "x", Verified: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestCreateMakesCreatorAdmin(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "ada", "ada@uni.edu")

	srv, err := svc.Create(user.ID, &CreateServerDTO{Name: "Chess Club", Description: "checkmates"})
	require.NoError(t, err)

	_, members, err := svc.Details(srv.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, user.ID, members[0].UserID)
	assert.True(t, members[0].Admin)
}

func TestListAllSplitsPrimaryByEmailDomain(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "ada", "ada@uni.edu")

	campus := models.ServerModel{Name: "Uni", Domain: "uni.edu", IsPrimary: true}
	otherCampus := models.ServerModel{Name: "Other Uni", Domain: "other.edu", IsPrimary: true}
	club := models.ServerModel{Name: "Chess Club"}
	require.NoError(t, db.Create(&campus).Error)
	require.NoError(t, db.Create(&otherCampus).Error)
	require.NoError(t, db.Create(&club).Error)
	require.NoError(t, db.Create(&models.Membership{UserID: user.ID, ServerID: club.ID}).Error)

	primary, secondary, err := svc.ListAll(user.ID)
	require.NoError(t, err)

	require.NotNil(t, primary)
	assert.Equal(t, "Uni", primary.Server.Name)
	assert.False(t, primary.Joined)

	// Foreign-domain primaries are invisible, clubs are listed with join state.
	require.Len(t, secondary, 1)
	assert.Equal(t, "Chess Club", secondary[0].Server.Name)
	assert.True(t, secondary[0].Joined)
}

func TestMineListsOnlyJoinedServers(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "ada", "ada@uni.edu")

	joined, err := svc.Create(user.ID, &CreateServerDTO{Name: "Mine"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.ServerModel{Name: "Not Mine"}).Error)

	servers, err := svc.Mine(user.ID)
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, joined.ID, servers[0].ID)
}

func TestEditAndDelete(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db, "ada", "ada@uni.edu")
	srv, err := svc.Create(user.ID, &CreateServerDTO{Name: "Old Name"})
	require.NoError(t, err)

	updated, err := svc.Edit(srv.ID, &UpdateServerDTO{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	_, err = svc.Edit("missing", &UpdateServerDTO{Name: "x"})
	assert.ErrorIs(t, err, errServerNotFound)

	require.NoError(t, svc.Delete(srv.ID))
	_, _, err = svc.Details(srv.ID)
	assert.ErrorIs(t, err, errServerNotFound)

	// Memberships go with the server.
	servers, err := svc.Mine(user.ID)
	require.NoError(t, err)
	assert.Empty(t, servers)

	assert.ErrorIs(t, svc.Delete(srv.ID), errServerNotFound)
}
