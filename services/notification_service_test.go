package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bandmate.link/pkg/apperrors"
	"bandmate.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeMessenger records sends and fails or stalls on demand per destination.
type fakeMessenger struct {
	mu       sync.Mutex
	sent     []string
	failFor  map[string]error
	stallFor map[string]bool
}

func (f *fakeMessenger) Send(ctx context.Context, destination, message string) error {
	if f.stallFor[destination] {
		<-ctx.Done()
		return ctx.Err()
	}
	if err := f.failFor[destination]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, destination)
	return nil
}

func newNotificationServiceForTest(db *gorm.DB, messenger *fakeMessenger) INotificationService {
	return newNotificationServiceWith(
		messenger,
		repositories.NewSessionRepositoryTx(db),
		repositories.NewCommitmentRepositoryTx(db),
		repositories.NewUserRepositoryTx(db),
		2,
		200*time.Millisecond,
	)
}

func TestInviteSkipsMembersWithoutContactChannel(t *testing.T) {
	db := newTestDB(t)
	messenger := &fakeMessenger{}
	svc := newNotificationServiceForTest(db, messenger)

	admin := createUser(t, db, "zoe", "+4400000", true)
	u1 := createUser(t, db, "ada", "+4400001", false)
	u2 := createUser(t, db, "ben", "+4400002", false)
	u3 := createUser(t, db, "cleo", "", false)
	session := createSession(t, db)

	result, err := svc.Invite(testCtx(), admin.ID, session.ID, []uint{u1.ID, u2.ID, u3.ID}, "bass")
	require.NoError(t, err)
	assert.Equal(t, 2, result.SentCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, u3.ID, result.Skipped[0].UserID)
	assert.Equal(t, "no contact channel", result.Skipped[0].Reason)
	assert.ElementsMatch(t, []string{"+4400001", "+4400002"}, messenger.sent)
}

func TestInviteIsolatesPerRecipientFailures(t *testing.T) {
	db := newTestDB(t)
	messenger := &fakeMessenger{failFor: map[string]error{"+4400002": errors.New("gateway 500")}}
	svc := newNotificationServiceForTest(db, messenger)

	admin := createUser(t, db, "zoe", "+4400000", true)
	u1 := createUser(t, db, "ada", "+4400001", false)
	u2 := createUser(t, db, "ben", "+4400002", false)
	session := createSession(t, db)

	result, err := svc.Invite(testCtx(), admin.ID, session.ID, []uint{u1.ID, u2.ID}, "drums")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SentCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, u2.ID, result.Skipped[0].UserID)
	assert.Contains(t, result.Skipped[0].Reason, "gateway 500")
}

func TestInviteSlowRecipientDoesNotBlockOthers(t *testing.T) {
	db := newTestDB(t)
	messenger := &fakeMessenger{stallFor: map[string]bool{"+4400001": true}}
	svc := newNotificationServiceForTest(db, messenger)

	admin := createUser(t, db, "zoe", "+4400000", true)
	u1 := createUser(t, db, "ada", "+4400001", false)
	u2 := createUser(t, db, "ben", "+4400002", false)
	session := createSession(t, db)

	start := time.Now()
	result, err := svc.Invite(testCtx(), admin.ID, session.ID, []uint{u1.ID, u2.ID}, "keys")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, 1, result.SentCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, u1.ID, result.Skipped[0].UserID)
}

func TestInviteRequiresAdminAndRecipients(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationServiceForTest(db, &fakeMessenger{})

	member := createUser(t, db, "ada", "+4400001", false)
	admin := createUser(t, db, "zoe", "+4400000", true)
	session := createSession(t, db)

	_, err := svc.Invite(testCtx(), member.ID, session.ID, []uint{member.ID}, "bass")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Invite(testCtx(), admin.ID, session.ID, nil, "bass")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Invite(testCtx(), admin.ID, 9999, []uint{member.ID}, "bass")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemindMessagesEveryCommittedMember(t *testing.T) {
	db := newTestDB(t)
	messenger := &fakeMessenger{}
	svc := newNotificationServiceForTest(db, messenger)
	ledger := newCommitmentServiceForTest(db)

	bass := createCapability(t, db, "bass")
	drums := createCapability(t, db, "drums")
	admin := createUser(t, db, "zoe", "+4400000", true)
	ada := createUser(t, db, "ada", "+4400001", false, bass)
	ben := createUser(t, db, "ben", "", false, drums)
	createUser(t, db, "cleo", "+4400003", false, drums) // not committed, not reminded
	session := createSession(t, db)

	_, err := ledger.Commit(testCtx(), ada.ID, session.ID, ada.ID, []uint{bass.ID})
	require.NoError(t, err)
	_, err = ledger.Commit(testCtx(), ben.ID, session.ID, ben.ID, []uint{drums.ID})
	require.NoError(t, err)

	result, err := svc.Remind(testCtx(), admin.ID, session.ID, "Bring your own cables!")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SentCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ben.ID, result.Skipped[0].UserID)
	assert.Equal(t, "no contact channel", result.Skipped[0].Reason)
	assert.Equal(t, []string{"+4400001"}, messenger.sent)
}

func TestRemindRejectsEmptyMessage(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationServiceForTest(db, &fakeMessenger{})

	admin := createUser(t, db, "zoe", "+4400000", true)
	session := createSession(t, db)

	_, err := svc.Remind(testCtx(), admin.ID, session.ID, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDispatchWithoutMessengerSkipsEveryone(t *testing.T) {
	db := newTestDB(t)
	svc := newNotificationServiceWith(
		nil,
		repositories.NewSessionRepositoryTx(db),
		repositories.NewCommitmentRepositoryTx(db),
		repositories.NewUserRepositoryTx(db),
		2,
		time.Second,
	)

	admin := createUser(t, db, "zoe", "+4400000", true)
	u1 := createUser(t, db, "ada", "+4400001", false)
	session := createSession(t, db)

	result, err := svc.Invite(testCtx(), admin.ID, session.ID, []uint{u1.ID}, "bass")
	require.NoError(t, err)
	assert.Zero(t, result.SentCount)
	require.Len(t, result.Skipped, 1)
}
