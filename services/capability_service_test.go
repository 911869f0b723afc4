package services

import (
	"testing"

	"bandmate.link/models"
	"bandmate.link/pkg/apperrors"
	"bandmate.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCapabilityServiceForTest(db *gorm.DB) ICapabilityService {
	return &CapabilityService{
		repo:     repositories.NewCapabilityRepositoryTx(db),
		userRepo: repositories.NewUserRepositoryTx(db),
	}
}

func TestCreateCapabilityRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newCapabilityServiceForTest(db)

	member := createUser(t, db, "ada", "+4400001", false)

	_, err := svc.CreateCapability(testCtx(), member.ID, "bass", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateCapabilityNameUniqueCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := newCapabilityServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)

	created, err := svc.CreateCapability(testCtx(), admin.ID, "Bass", "bass-icon")
	require.NoError(t, err)
	assert.Equal(t, "Bass", created.Name)

	_, err = svc.CreateCapability(testCtx(), admin.ID, "bass", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDeleteCapabilityBlockedWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	svc := newCapabilityServiceForTest(db)
	ledger := newCommitmentServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)
	bass := createCapability(t, db, "bass")

	// Referenced by a profile.
	ada := createUser(t, db, "ada", "+4400001", false, bass)
	err := svc.DeleteCapability(testCtx(), admin.ID, bass.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// Referenced by a commitment pledge too.
	session := createSession(t, db)
	_, err = ledger.Commit(testCtx(), ada.ID, session.ID, ada.ID, []uint{bass.ID})
	require.NoError(t, err)
	err = svc.DeleteCapability(testCtx(), admin.ID, bass.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// Referenced by a song requirement.
	drums := createCapability(t, db, "drums")
	createSong(t, db, "Seven Nation Army", drums)
	err = svc.DeleteCapability(testCtx(), admin.ID, drums.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDeleteCapabilityUnreferenced(t *testing.T) {
	db := newTestDB(t)
	svc := newCapabilityServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)
	theremin := createCapability(t, db, "theremin")

	require.NoError(t, svc.DeleteCapability(testCtx(), admin.ID, theremin.ID))

	var count int64
	require.NoError(t, db.Model(&models.Capability{}).Where("id = ?", theremin.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteCapabilityMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newCapabilityServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)

	err := svc.DeleteCapability(testCtx(), admin.ID, 999)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
