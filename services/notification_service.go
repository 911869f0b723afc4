package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bandmate.link/configs"
	"bandmate.link/configs/configslog"
	"bandmate.link/pkg/apperrors"
	"bandmate.link/pkg/messaging"
	"bandmate.link/repositories"

	"go.uber.org/zap"
)

var (
	ErrNoRecipients      = fmt.Errorf("%w: no recipients selected", apperrors.ErrValidation)
	ErrEmptyMessage      = fmt.Errorf("%w: message text is required", apperrors.ErrValidation)
	ErrMessengerMissing  = fmt.Errorf("%w: outbound messenger is not configured", apperrors.ErrTransport)
	reasonNoChannel      = "no contact channel"
	reasonUnknownMember  = "member does not exist"
)

// SkippedRecipient names one member the dispatcher could not reach and why.
type SkippedRecipient struct {
	UserID uint   `json:"user_id"`
	Reason string `json:"reason"`
}

// DispatchResult reports a fan-out: partial success is normal and expected.
type DispatchResult struct {
	SentCount int                `json:"sent_count"`
	Skipped   []SkippedRecipient `json:"skipped"`
}

// INotificationService turns a selected candidate subset into outbound
// messages. One-shot fan-out: no retries, no persisted delivery state.
type INotificationService interface {
	Invite(ctx context.Context, actorUserID, sessionID uint, candidateUserIDs []uint, capabilityName string) (*DispatchResult, error)
	Remind(ctx context.Context, actorUserID, sessionID uint, message string) (*DispatchResult, error)
}

type NotificationService struct {
	messenger      messaging.Messenger
	sessionRepo    repositories.ISessionRepository
	commitmentRepo repositories.ICommitmentRepository
	userRepo       repositories.IUserRepository
	workers        int
	sendTimeout    time.Duration
}

func NewNotificationService(messenger messaging.Messenger) INotificationService {
	return &NotificationService{
		messenger:      messenger,
		sessionRepo:    repositories.NewSessionRepository(),
		commitmentRepo: repositories.NewCommitmentRepository(),
		userRepo:       repositories.NewUserRepository(),
		workers:        configs.DispatchWorkers(),
		sendTimeout:    configs.DispatchSendTimeout(),
	}
}

func newNotificationServiceWith(messenger messaging.Messenger, sessionRepo repositories.ISessionRepository, commitmentRepo repositories.ICommitmentRepository, userRepo repositories.IUserRepository, workers int, sendTimeout time.Duration) INotificationService {
	return &NotificationService{
		messenger:      messenger,
		sessionRepo:    sessionRepo,
		commitmentRepo: commitmentRepo,
		userRepo:       userRepo,
		workers:        workers,
		sendTimeout:    sendTimeout,
	}
}

// Invite asks selected candidates to fill a specific capability gap. Members
// without a usable contact channel are reported as skipped, never fatal.
func (s *NotificationService) Invite(ctx context.Context, actorUserID, sessionID uint, candidateUserIDs []uint, capabilityName string) (*DispatchResult, error) {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return nil, err
	}
	candidateUserIDs = dedupeIDs(candidateUserIDs)
	if len(candidateUserIDs) == 0 {
		return nil, ErrNoRecipients
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	message := fmt.Sprintf(
		"Rehearsal on %s (%s-%s) still needs %s. %d song(s) planned. Can you cover it? RSVP at bandmate.link",
		session.Date.Format("Mon 2 Jan"), session.StartTime, session.EndTime,
		capabilityName, len(session.Songs),
	)
	result := s.fanOut(ctx, candidateUserIDs, message)
	configslog.SLog.Infof("invite dispatched: session %d, capability %q, sent %d, skipped %d",
		sessionID, capabilityName, result.SentCount, len(result.Skipped))
	return result, nil
}

// Remind sends an admin-edited message to every currently committed member,
// independent of capability gaps.
func (s *NotificationService) Remind(ctx context.Context, actorUserID, sessionID uint, message string) (*DispatchResult, error) {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	exists, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSessionNotFound
	}

	recipients, err := s.commitmentRepo.CommittedUserIDs(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := s.fanOut(ctx, recipients, message)
	configslog.SLog.Infof("reminder dispatched: session %d, sent %d, skipped %d",
		sessionID, result.SentCount, len(result.Skipped))
	return result, nil
}

type dispatchOutcome struct {
	sent    bool
	skipped *SkippedRecipient
}

// fanOut sends the message to every recipient through a bounded worker pool.
// Each send gets its own timeout so one slow transport call cannot block the
// batch; the call returns only once every send has settled.
func (s *NotificationService) fanOut(ctx context.Context, userIDs []uint, message string) *DispatchResult {
	outcomes := make([]dispatchOutcome, len(userIDs))

	workers := s.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(userIDs) {
		workers = len(userIDs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.sendOne(ctx, userIDs[i], message)
			}
		}()
	}
	for i := range userIDs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := &DispatchResult{Skipped: []SkippedRecipient{}}
	for _, outcome := range outcomes {
		if outcome.sent {
			result.SentCount++
		} else if outcome.skipped != nil {
			result.Skipped = append(result.Skipped, *outcome.skipped)
		}
	}
	return result
}

func (s *NotificationService) sendOne(ctx context.Context, userID uint, message string) dispatchOutcome {
	skip := func(reason string) dispatchOutcome {
		return dispatchOutcome{skipped: &SkippedRecipient{UserID: userID, Reason: reason}}
	}

	if s.messenger == nil {
		return skip(ErrMessengerMissing.Error())
	}

	phone, err := s.userRepo.GetContactChannel(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return skip(reasonUnknownMember)
		}
		return skip("contact lookup failed: " + err.Error())
	}
	if strings.TrimSpace(phone) == "" {
		return skip(reasonNoChannel)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.messenger.Send(sendCtx, phone, message); err != nil {
		configslog.Log.Warn("outbound send failed", zap.Uint("userID", userID), zap.Error(err))
		return skip("send failed: " + err.Error())
	}
	return dispatchOutcome{sent: true}
}

var _ INotificationService = (*NotificationService)(nil)
