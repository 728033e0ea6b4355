package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	domainnotice "github.com/campuskit/campus-client/internal/domain/notice"
	apperrors "github.com/campuskit/campus-client/internal/errors"
	mocknotices "github.com/campuskit/campus-client/internal/mocks/notices"
)

func studentSession() domainauth.Snapshot {
	return domainauth.Authenticated("tok-1", domainauth.User{ID: "s1", Role: domainauth.RoleStudent})
}

func pushNotice(id string, target domainnotice.Target, createdAt time.Time) domainnotice.Notice {
	return domainnotice.Notice{ID: id, Title: "title " + id, Target: target, CreatedAt: createdAt}
}

func fastPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		MaxRetries:      2,
		BaseDelay:       time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		HealthyDuration: 10 * time.Millisecond,
	}
}

func newNoticeService(t *testing.T, fetcher mocknotices.FetcherFunc, pusher *mocknotices.ScriptedPusher, policy ReconnectPolicy) *NoticeService {
	t.Helper()
	svc, err := NewNoticeService(NoticeServiceOptions{
		Fetcher:   fetcher,
		Pusher:    pusher,
		Reconnect: policy,
	})
	require.NoError(t, err)
	return svc
}

func TestReconnectPolicyDelay(t *testing.T) {
	p := ReconnectPolicy{MaxRetries: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	assert.Equal(t, 100*time.Millisecond, p.Delay(1))
	assert.Equal(t, 200*time.Millisecond, p.Delay(2))
	assert.Equal(t, 400*time.Millisecond, p.Delay(3))
	assert.Equal(t, 800*time.Millisecond, p.Delay(4))
	assert.Equal(t, time.Second, p.Delay(5))
	// Capped once the cap is reached, no matter how far retries go.
	assert.Equal(t, time.Second, p.Delay(12))
}

func TestReconnectPolicySanitize(t *testing.T) {
	var p ReconnectPolicy
	p.Sanitize()
	assert.Equal(t, 5, p.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, p.BaseDelay)
	assert.Equal(t, 30*time.Second, p.MaxDelay)
	assert.Equal(t, 10*time.Second, p.HealthyDuration)
}

func TestRunRequiresAuthenticatedSession(t *testing.T) {
	svc := newNoticeService(t, mocknotices.StaticFetcher(), mocknotices.NewScriptedPusher(), fastPolicy())

	err := svc.Run(context.Background(), domainauth.Unauthenticated())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRunMergesFetchAndPushWithoutDuplicates(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)

	backlog := []domainnotice.Notice{
		pushNotice("n1", domainnotice.TargetAll, t1),
		pushNotice("n2", domainnotice.TargetAll, t2),
	}
	sub := mocknotices.NewManualSubscription()
	pusher := mocknotices.NewScriptedPusher(mocknotices.SubscribeResult{Sub: sub})
	svc := newNoticeService(t, mocknotices.StaticFetcher(backlog...), pusher, fastPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Run(ctx, studentSession())
	}()

	require.Eventually(t, func() bool {
		return len(svc.Notices()) == 2
	}, time.Second, 5*time.Millisecond)

	// n2 arrives again over push (fetch/push overlap) plus a genuinely new n3.
	sub.Push(pushNotice("n2", domainnotice.TargetAll, t2))
	sub.Push(pushNotice("n3", domainnotice.TargetAll, t3))

	require.Eventually(t, func() bool {
		return len(svc.Notices()) == 3
	}, time.Second, 5*time.Millisecond)

	all := svc.Notices()
	assert.Equal(t, "n3", all[0].ID)
	assert.Equal(t, "n2", all[1].ID)
	assert.Equal(t, "n1", all[2].ID)

	cancel()
	<-done
	assert.True(t, sub.Closed(), "subscription must be closed on teardown")
}

func TestRunFiltersInvisibleNotices(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	sub := mocknotices.NewManualSubscription()
	pusher := mocknotices.NewScriptedPusher(mocknotices.SubscribeResult{Sub: sub})
	svc := newNoticeService(t, mocknotices.StaticFetcher(), pusher, fastPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Run(ctx, studentSession()) }()

	sub.Push(pushNotice("faculty-only", domainnotice.TargetFaculty, t1))
	sub.Push(pushNotice("for-students", domainnotice.TargetStudents, t1.Add(time.Minute)))

	require.Eventually(t, func() bool {
		return len(svc.Notices()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "for-students", svc.Notices()[0].ID)
}

func TestRunToleratesInitialFetchFailure(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	fetcher := mocknotices.FetcherFunc(func(context.Context, string) ([]domainnotice.Notice, error) {
		return nil, apperrors.NetworkUnavailable("backend unreachable")
	})
	sub := mocknotices.NewManualSubscription()
	pusher := mocknotices.NewScriptedPusher(mocknotices.SubscribeResult{Sub: sub})
	svc := newNoticeService(t, fetcher, pusher, fastPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Run(ctx, studentSession()) }()

	// The channel still comes up and delivers.
	sub.Push(pushNotice("n1", domainnotice.TargetAll, t1))
	require.Eventually(t, func() bool {
		return len(svc.Notices()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRunToastsNewNotices(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	sub := mocknotices.NewManualSubscription()
	pusher := mocknotices.NewScriptedPusher(mocknotices.SubscribeResult{Sub: sub})
	svc := newNoticeService(t, mocknotices.StaticFetcher(), pusher, fastPolicy())

	unsub, toasts := svc.Toasts()
	defer unsub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Run(ctx, studentSession()) }()

	sub.Push(pushNotice("n1", domainnotice.TargetAll, t1))

	select {
	case n := <-toasts:
		assert.Equal(t, "n1", n.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for toast")
	}

	// A duplicate of an already merged notice never toasts twice.
	sub.Push(pushNotice("n1", domainnotice.TargetAll, t1))
	sub.Push(pushNotice("n2", domainnotice.TargetAll, t1.Add(time.Minute)))

	select {
	case n := <-toasts:
		assert.Equal(t, "n2", n.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for toast")
	}
}

func TestRunReconnectsAfterTransportLoss(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := mocknotices.NewManualSubscription()
	second := mocknotices.NewManualSubscription()
	pusher := mocknotices.NewScriptedPusher(
		mocknotices.SubscribeResult{Sub: first},
		mocknotices.SubscribeResult{Sub: second},
	)
	svc := newNoticeService(t, mocknotices.StaticFetcher(), pusher, fastPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Run(ctx, studentSession()) }()

	sub2Connected := pusher.NextCall()
	first.Push(pushNotice("n1", domainnotice.TargetAll, t1))
	require.Eventually(t, func() bool {
		return len(svc.Notices()) == 1
	}, time.Second, 5*time.Millisecond)

	// Transport drops; the service reconnects and the feed keeps its entries.
	first.Drop()
	select {
	case <-sub2Connected:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reconnect")
	}

	second.Push(pushNotice("n2", domainnotice.TargetAll, t1.Add(time.Minute)))
	require.Eventually(t, func() bool {
		return len(svc.Notices()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.False(t, svc.Degraded())
}

func TestRunDegradesAfterExhaustedRetriesAndRecovers(t *testing.T) {
	connectErr := apperrors.NetworkUnavailable("stream unreachable")
	recovery := mocknotices.NewManualSubscription()
	pusher := mocknotices.NewScriptedPusher(
		mocknotices.SubscribeResult{Err: connectErr},
		mocknotices.SubscribeResult{Err: connectErr},
		mocknotices.SubscribeResult{Err: connectErr},
		mocknotices.SubscribeResult{Sub: recovery},
	)
	svc := newNoticeService(t, mocknotices.StaticFetcher(), pusher, fastPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Run(ctx, studentSession()) }()

	// MaxRetries is 2: the third consecutive failure marks the channel degraded.
	require.Eventually(t, svc.Degraded, time.Second, time.Millisecond)

	// The service keeps trying past the budget and recovers on success.
	require.Eventually(t, func() bool {
		return !svc.Degraded() && pusher.Calls() >= 4
	}, time.Second, time.Millisecond)
}

func TestRunPacesReconnectsWhenStreamDropsImmediately(t *testing.T) {
	// A server that accepts the subscription and kills the stream right away
	// is a failing channel: every reconnect must wait out its backoff delay
	// and the degraded flag must still escalate.
	dropped := mocknotices.NewManualSubscription()
	dropped.Drop()
	pusher := mocknotices.NewScriptedPusher(mocknotices.SubscribeResult{Sub: dropped})
	svc := newNoticeService(t, mocknotices.StaticFetcher(), pusher, ReconnectPolicy{
		MaxRetries:      2,
		BaseDelay:       5 * time.Millisecond,
		MaxDelay:        20 * time.Millisecond,
		HealthyDuration: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := svc.Run(ctx, studentSession())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.True(t, svc.Degraded())
	// 200ms of 5/10/20ms delays fits only a handful of attempts.
	assert.LessOrEqual(t, pusher.Calls(), 20)
}

func TestRunSessionRejectedOnFetchForcesSignOut(t *testing.T) {
	fetcher := mocknotices.FetcherFunc(func(context.Context, string) ([]domainnotice.Notice, error) {
		return nil, apperrors.SessionValidation("stored session is no longer valid")
	})
	pusher := mocknotices.NewScriptedPusher()

	signedOut := false
	svc, err := NewNoticeService(NoticeServiceOptions{
		Fetcher:           fetcher,
		Pusher:            pusher,
		Reconnect:         fastPolicy(),
		OnSessionRejected: func(context.Context) { signedOut = true },
	})
	require.NoError(t, err)

	err = svc.Run(context.Background(), studentSession())
	require.Error(t, err)
	assert.True(t, apperrors.IsSessionValidation(err))
	assert.True(t, signedOut, "a rejected token forces a sign-out")
	// The dead token is never offered to the push transport.
	assert.Equal(t, 0, pusher.Calls())
}

func TestRunSessionRejectedOnSubscribeForcesSignOut(t *testing.T) {
	pusher := mocknotices.NewScriptedPusher(
		mocknotices.SubscribeResult{Err: apperrors.SessionValidation("token revoked")},
	)

	signedOut := false
	svc, err := NewNoticeService(NoticeServiceOptions{
		Fetcher:           mocknotices.StaticFetcher(),
		Pusher:            pusher,
		Reconnect:         fastPolicy(),
		OnSessionRejected: func(context.Context) { signedOut = true },
	})
	require.NoError(t, err)

	err = svc.Run(context.Background(), studentSession())
	require.Error(t, err)
	assert.True(t, apperrors.IsSessionValidation(err))
	assert.True(t, signedOut, "a rejected token forces a sign-out")
	// No retrying: the same token can only be rejected again.
	assert.Equal(t, 1, pusher.Calls())
}

func TestRunReturnsOnCancelAndClosesSubscription(t *testing.T) {
	sub := mocknotices.NewManualSubscription()
	pusher := mocknotices.NewScriptedPusher(mocknotices.SubscribeResult{Sub: sub})
	svc := newNoticeService(t, mocknotices.StaticFetcher(), pusher, fastPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Run(ctx, studentSession())
	}()

	require.Eventually(t, func() bool {
		return pusher.Calls() == 1
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, sub.Closed())
}

func TestRunResetsFeedPerEpoch(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	firstEpoch := mocknotices.NewManualSubscription()
	secondEpoch := mocknotices.NewManualSubscription()
	pusher := mocknotices.NewScriptedPusher(
		mocknotices.SubscribeResult{Sub: firstEpoch},
		mocknotices.SubscribeResult{Sub: secondEpoch},
	)
	svc := newNoticeService(t, mocknotices.StaticFetcher(), pusher, fastPolicy())

	ctx1, cancel1 := context.WithCancel(context.Background())
	done1 := make(chan error, 1)
	go func() { done1 <- svc.Run(ctx1, studentSession()) }()

	firstEpoch.Push(pushNotice("old", domainnotice.TargetAll, t1))
	require.Eventually(t, func() bool {
		return len(svc.Notices()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel1()
	<-done1

	// The next authenticated epoch starts from an empty feed.
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	go func() { _ = svc.Run(ctx2, studentSession()) }()

	require.Eventually(t, func() bool {
		return len(svc.Notices()) == 0 && pusher.Calls() >= 2
	}, time.Second, 5*time.Millisecond)
}
