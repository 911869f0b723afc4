package services

import (
	"context"
	"os"
	"testing"
	"time"

	"bandmate.link/configs/configslog"
	"bandmate.link/models"
	"bandmate.link/repositories"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	code := m.Run()
	configslog.SyncLogger()
	os.Exit(code)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Capability{},
		&models.User{},
		&models.Song{},
		&models.Session{},
		&models.SessionSong{},
		&models.Commitment{},
		&models.Recording{},
	))
	return db
}

func newCommitmentServiceForTest(db *gorm.DB) ICommitmentService {
	return newCommitmentServiceWith(
		repositories.NewCommitmentRepositoryTx(db),
		repositories.NewSessionRepositoryTx(db),
		repositories.NewUserRepositoryTx(db),
	)
}

func newCoverageServiceForTest(db *gorm.DB) ICoverageService {
	return newCoverageServiceWith(
		repositories.NewSessionRepositoryTx(db),
		repositories.NewSongRepositoryTx(db),
	)
}

func newMatcherServiceForTest(db *gorm.DB) IMatcherService {
	return newMatcherServiceWith(
		repositories.NewUserRepositoryTx(db),
		repositories.NewSessionRepositoryTx(db),
		repositories.NewCapabilityRepositoryTx(db),
	)
}

func createCapability(t *testing.T, db *gorm.DB, name string) models.Capability {
	t.Helper()
	capability := models.Capability{Name: name}
	require.NoError(t, db.Create(&capability).Error)
	return capability
}

func createUser(t *testing.T, db *gorm.DB, name, phone string, isAdmin bool, capabilities ...models.Capability) models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        name + "@example.com",
		Phone:        phone,
		IsAdmin:      isAdmin,
		Capabilities: capabilities,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createSession(t *testing.T, db *gorm.DB, songs ...models.SessionSong) models.Session {
	t.Helper()
	for i := range songs {
		songs[i].Position = i
	}
	session := models.Session{
		Date:      time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime: "19:00",
		EndTime:   "22:00",
		ShareKey:  uuid.NewString(),
		Songs:     songs,
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

func createSong(t *testing.T, db *gorm.DB, title string, required ...models.Capability) models.Song {
	t.Helper()
	song := models.Song{Title: title, RequiredCapabilities: required}
	require.NoError(t, db.Create(&song).Error)
	return song
}

func testCtx() context.Context {
	return context.Background()
}
