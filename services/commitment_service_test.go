package services

import (
	"testing"

	"bandmate.link/models"
	"bandmate.link/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitRejectsEmptyCapabilitySet(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	user := createUser(t, db, "ada", "+4400001", false, bass)
	session := createSession(t, db)

	_, err := svc.Commit(testCtx(), user.ID, session.ID, user.ID, []uint{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCommitRejectsCapabilityNotOwned(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	drums := createCapability(t, db, "drums")
	user := createUser(t, db, "ada", "+4400001", false, bass)
	session := createSession(t, db)

	_, err := svc.Commit(testCtx(), user.ID, session.ID, user.ID, []uint{drums.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.ErrorIs(t, err, ErrCapabilityNotOwned)
}

func TestCommitRejectsMissingSession(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	user := createUser(t, db, "ada", "+4400001", false, bass)

	_, err := svc.Commit(testCtx(), user.ID, 9999, user.ID, []uint{bass.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCommitIsUpsertNotInsert(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	drums := createCapability(t, db, "drums")
	user := createUser(t, db, "ada", "+4400001", false, bass, drums)
	session := createSession(t, db)

	_, err := svc.Commit(testCtx(), user.ID, session.ID, user.ID, []uint{bass.ID})
	require.NoError(t, err)

	// Same set again: still exactly one row with that set.
	_, err = svc.Commit(testCtx(), user.ID, session.ID, user.ID, []uint{bass.ID})
	require.NoError(t, err)

	commitments, err := svc.ListCommitments(testCtx(), session.ID)
	require.NoError(t, err)
	require.Len(t, commitments, 1)
	require.Len(t, commitments[0].CoveredCapabilities, 1)
	assert.Equal(t, bass.ID, commitments[0].CoveredCapabilities[0].ID)

	// Different set: replaced, not merged.
	_, err = svc.Commit(testCtx(), user.ID, session.ID, user.ID, []uint{drums.ID})
	require.NoError(t, err)

	commitments, err = svc.ListCommitments(testCtx(), session.ID)
	require.NoError(t, err)
	require.Len(t, commitments, 1)
	require.Len(t, commitments[0].CoveredCapabilities, 1)
	assert.Equal(t, drums.ID, commitments[0].CoveredCapabilities[0].ID)
}

func TestCommitThenCancelRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	user := createUser(t, db, "ada", "+4400001", false, bass)
	session := createSession(t, db)

	_, err := svc.Commit(testCtx(), user.ID, session.ID, user.ID, []uint{bass.ID})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(testCtx(), user.ID, session.ID, user.ID))

	commitments, err := svc.ListCommitments(testCtx(), session.ID)
	require.NoError(t, err)
	assert.Empty(t, commitments)

	// No orphaned pledge rows either.
	var pledges int64
	require.NoError(t, db.Table("commitment_capabilities").Count(&pledges).Error)
	assert.Zero(t, pledges)

	// And the member can commit again afterwards.
	_, err = svc.Commit(testCtx(), user.ID, session.ID, user.ID, []uint{bass.ID})
	require.NoError(t, err)
}

func TestCancelWithoutCommitmentIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	user := createUser(t, db, "ada", "+4400001", false)
	session := createSession(t, db)

	err := svc.Cancel(testCtx(), user.ID, session.ID, user.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListCommitmentsNeverDuplicatesAMember(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	drums := createCapability(t, db, "drums")
	ada := createUser(t, db, "ada", "+4400001", false, bass, drums)
	ben := createUser(t, db, "ben", "+4400002", false, drums)
	session := createSession(t, db)

	for i := 0; i < 3; i++ {
		_, err := svc.Commit(testCtx(), ada.ID, session.ID, ada.ID, []uint{bass.ID, drums.ID})
		require.NoError(t, err)
	}
	_, err := svc.Commit(testCtx(), ben.ID, session.ID, ben.ID, []uint{drums.ID})
	require.NoError(t, err)

	commitments, err := svc.ListCommitments(testCtx(), session.ID)
	require.NoError(t, err)
	require.Len(t, commitments, 2)

	seen := map[uint]bool{}
	for _, commitment := range commitments {
		assert.False(t, seen[commitment.UserID], "member %d appears twice", commitment.UserID)
		seen[commitment.UserID] = true
	}

	// Insertion order: first RSVP first.
	assert.Equal(t, ada.ID, commitments[0].UserID)
	assert.Equal(t, ben.ID, commitments[1].UserID)
	assert.Equal(t, "ada", commitments[0].User.Name)
}

func TestCommitOnBehalfRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	ada := createUser(t, db, "ada", "+4400001", false, bass)
	ben := createUser(t, db, "ben", "+4400002", false)
	admin := createUser(t, db, "zoe", "+4400003", true)
	session := createSession(t, db)

	_, err := svc.Commit(testCtx(), ben.ID, session.ID, ada.ID, []uint{bass.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Commit(testCtx(), admin.ID, session.ID, ada.ID, []uint{bass.ID})
	require.NoError(t, err)

	err = svc.Cancel(testCtx(), ben.ID, session.ID, ada.ID)
	require.Error(t, err)

	require.NoError(t, svc.Cancel(testCtx(), admin.ID, session.ID, ada.ID))
}

func TestCommitDeduplicatesCapabilityIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	user := createUser(t, db, "ada", "+4400001", false, bass)
	session := createSession(t, db)

	commitment, err := svc.Commit(testCtx(), user.ID, session.ID, user.ID, []uint{bass.ID, bass.ID, 0})
	require.NoError(t, err)
	assert.Len(t, commitment.CoveredCapabilities, 1)

	var m models.Commitment
	require.NoError(t, db.Preload("CoveredCapabilities").First(&m, commitment.ID).Error)
	assert.Len(t, m.CoveredCapabilities, 1)
}
