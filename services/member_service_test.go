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

func newMemberServiceForTest(db *gorm.DB) IMemberService {
	return &MemberService{
		userRepo:       repositories.NewUserRepositoryTx(db),
		capabilityRepo: repositories.NewCapabilityRepositoryTx(db),
	}
}

func TestSetMemberCapabilitiesReplacesProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)
	bass := createCapability(t, db, "bass")
	drums := createCapability(t, db, "drums")
	vocals := createCapability(t, db, "vocals")
	ada := createUser(t, db, "ada", "+4400001", false, bass)

	require.NoError(t, svc.SetMemberCapabilities(testCtx(), admin.ID, ada.ID, []uint{drums.ID, vocals.ID}))

	capabilities, err := svc.GetMemberCapabilities(testCtx(), ada.ID)
	require.NoError(t, err)
	names := []string{}
	for _, capability := range capabilities {
		names = append(names, capability.Name)
	}
	// Replace semantics: bass is gone, only the new set remains.
	assert.ElementsMatch(t, []string{"drums", "vocals"}, names)
}

func TestSetMemberCapabilitiesEmptyClearsProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberServiceForTest(db)
	ledger := newCommitmentServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)
	bass := createCapability(t, db, "bass")
	ada := createUser(t, db, "ada", "+4400001", false, bass)

	require.NoError(t, svc.SetMemberCapabilities(testCtx(), admin.ID, ada.ID, nil))

	capabilities, err := svc.GetMemberCapabilities(testCtx(), ada.ID)
	require.NoError(t, err)
	assert.Empty(t, capabilities)

	// An empty profile cannot commit anything.
	session := createSession(t, db)
	_, err = ledger.Commit(testCtx(), ada.ID, session.ID, ada.ID, []uint{bass.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapabilityNotOwned)
}

func TestSetMemberCapabilitiesRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberServiceForTest(db)

	bass := createCapability(t, db, "bass")
	ada := createUser(t, db, "ada", "+4400001", false)
	ben := createUser(t, db, "ben", "+4400002", false)

	err := svc.SetMemberCapabilities(testCtx(), ada.ID, ben.ID, []uint{bass.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSetMemberCapabilitiesUnknownCapability(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)
	ada := createUser(t, db, "ada", "+4400001", false)

	err := svc.SetMemberCapabilities(testCtx(), admin.ID, ada.ID, []uint{999})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSetMemberCapabilitiesMissingMember(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)
	bass := createCapability(t, db, "bass")

	err := svc.SetMemberCapabilities(testCtx(), admin.ID, 999, []uint{bass.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateContactChannel(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberServiceForTest(db)

	admin := createUser(t, db, "zoe", "+4400000", true)
	ada := createUser(t, db, "ada", "+4400001", false)

	require.NoError(t, svc.UpdateContactChannel(testCtx(), admin.ID, ada.ID, " +4499999 "))

	var stored models.User
	require.NoError(t, db.First(&stored, ada.ID).Error)
	assert.Equal(t, "+4499999", stored.Phone)

	// Clearing the channel is valid; the dispatcher will report the member
	// as skipped from then on.
	require.NoError(t, svc.UpdateContactChannel(testCtx(), admin.ID, ada.ID, ""))
	require.NoError(t, db.First(&stored, ada.ID).Error)
	assert.Empty(t, stored.Phone)

	err := svc.UpdateContactChannel(testCtx(), admin.ID, 999, "+4400009")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListMembersOrderedByName(t *testing.T) {
	db := newTestDB(t)
	svc := newMemberServiceForTest(db)

	createUser(t, db, "zoe", "+4400003", false)
	createUser(t, db, "ada", "+4400001", false)

	members, err := svc.ListMembers(testCtx())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "ada", members[0].Name)
	assert.Equal(t, "zoe", members[1].Name)
}
