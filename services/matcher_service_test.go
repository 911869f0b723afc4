package services

import (
	"testing"

	"bandmate.link/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCandidatesExcludesCommittedMembers(t *testing.T) {
	db := newTestDB(t)
	matcher := newMatcherServiceForTest(db)
	ledger := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	ada := createUser(t, db, "ada", "+4400001", false, bass)
	ben := createUser(t, db, "ben", "+4400002", false, bass)
	cleo := createUser(t, db, "cleo", "+4400003", false, bass)
	session := createSession(t, db)

	// Ada is already in; only the other two holders qualify.
	_, err := ledger.Commit(testCtx(), ada.ID, session.ID, ada.ID, []uint{bass.ID})
	require.NoError(t, err)

	candidates, err := matcher.FindCandidates(testCtx(), session.ID, bass.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, ben.ID, candidates[0].ID)
	assert.Equal(t, cleo.ID, candidates[1].ID)
}

func TestFindCandidatesExcludesCommittedEvenWithoutThePledge(t *testing.T) {
	db := newTestDB(t)
	matcher := newMatcherServiceForTest(db)
	ledger := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	vocals := createCapability(t, db, "vocals")
	ada := createUser(t, db, "ada", "+4400001", false, bass, vocals)
	createUser(t, db, "ben", "+4400002", false, bass)
	session := createSession(t, db)

	// Ada committed vocals only; she still must not be re-invited for bass.
	_, err := ledger.Commit(testCtx(), ada.ID, session.ID, ada.ID, []uint{vocals.ID})
	require.NoError(t, err)

	candidates, err := matcher.FindCandidates(testCtx(), session.ID, bass.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "ben", candidates[0].Name)
}

func TestFindCandidatesNoHoldersIsEmptyNotError(t *testing.T) {
	db := newTestDB(t)
	matcher := newMatcherServiceForTest(db)

	theremin := createCapability(t, db, "theremin")
	createUser(t, db, "ada", "+4400001", false)
	session := createSession(t, db)

	candidates, err := matcher.FindCandidates(testCtx(), session.ID, theremin.ID)
	require.NoError(t, err)
	assert.NotNil(t, candidates)
	assert.Empty(t, candidates)
}

func TestFindCandidatesOrderedByName(t *testing.T) {
	db := newTestDB(t)
	matcher := newMatcherServiceForTest(db)

	drums := createCapability(t, db, "drums")
	createUser(t, db, "zoe", "+4400003", false, drums)
	createUser(t, db, "ada", "+4400001", false, drums)
	createUser(t, db, "mel", "+4400002", false, drums)
	session := createSession(t, db)

	candidates, err := matcher.FindCandidates(testCtx(), session.ID, drums.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	assert.Equal(t, "ada", candidates[0].Name)
	assert.Equal(t, "mel", candidates[1].Name)
	assert.Equal(t, "zoe", candidates[2].Name)
}

func TestFindCandidatesUnknownSessionOrCapability(t *testing.T) {
	db := newTestDB(t)
	matcher := newMatcherServiceForTest(db)

	bass := createCapability(t, db, "bass")
	session := createSession(t, db)

	_, err := matcher.FindCandidates(testCtx(), 9999, bass.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = matcher.FindCandidates(testCtx(), session.ID, 9999)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
