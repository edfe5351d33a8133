package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ScreenSentinel/internal/config"
	"ScreenSentinel/internal/runner"
)

type fakeRunner struct {
	mu       sync.Mutex
	requests []runner.Request
	err      error
}

func (f *fakeRunner) Run(_ context.Context, req runner.Request) (*runner.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &runner.Report{Request: req, Markdown: "| table |"}, nil
}

func (f *fakeRunner) History(_ context.Context, limit int) (string, error) {
	return fmt.Sprintf("history of %d", limit), nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func newTest(r *fakeRunner) (*Scheduler, *fakeSender) {
	s := &fakeSender{}
	return NewScheduler(context.Background(), r, s, zerolog.Nop()), s
}

func TestRegisterAll(t *testing.T) {
	r := &fakeRunner{}
	s, sender := newTest(r)

	err := s.RegisterAll([]config.Schedule{
		{Name: "morning-pullback", Cron: "0 30 7 * * 1-5", Screener: "pullback", Region: "japan", TopN: 5},
		{Name: "weekly-alpha", Cron: "@weekly", Screener: "Alpha", Region: "us", TopN: 10},
	})
	require.NoError(t, err)
	assert.Len(t, s.Cron.Entries(), 2)
	assert.ElementsMatch(t, []string{"morning-pullback", "weekly-alpha"}, s.Jobs())

	require.NoError(t, s.RunNow("weekly-alpha"))
	require.Len(t, r.requests, 1)
	assert.Equal(t, runner.KindAlpha, r.requests[0].Kind)
	assert.Equal(t, "us", r.requests[0].Region)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "📊 alpha screen | us | top 10\n\n| table |", sender.sent[0])

	assert.Error(t, s.RunNow("missing"))
}

func TestRegisterAll_Invalid(t *testing.T) {
	s, _ := newTest(&fakeRunner{})
	assert.Error(t, s.RegisterAll([]config.Schedule{{Name: "x", Cron: "0 0 8 * * *", Screener: "momentum"}}))
	assert.Error(t, s.RegisterAll([]config.Schedule{{Name: "y", Cron: "not a cron", Screener: "value"}}))
}

func TestRunJob_FailureIsReported(t *testing.T) {
	r := &fakeRunner{err: errors.New("unknown preset")}
	s, sender := newTest(r)
	require.NoError(t, s.RegisterAll([]config.Schedule{{Name: "q", Cron: "@daily", Screener: "query", Preset: "bogus"}}))

	require.NoError(t, s.RunNow("q"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "q failed: unknown preset")
}

func TestHandleCommand(t *testing.T) {
	r := &fakeRunner{}
	s, _ := newTest(r)
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/screen pullback us 5")
	assert.Equal(t, "📊 pullback screen | us | top 5\n\n| table |", reply)
	require.Len(t, r.requests, 1)
	assert.Equal(t, runner.Request{Kind: runner.KindPullback, Region: "us", TopN: 5}, r.requests[0])

	reply = s.HandleCommand(ctx, "/screen@SentinelBot query")
	assert.Contains(t, reply, "preset value")
	assert.Equal(t, "japan", r.requests[1].Region)

	assert.Equal(t, "history of 3", s.HandleCommand(ctx, "/history 3"))
	assert.Equal(t, "No scheduled screens.", s.HandleCommand(ctx, "/jobs"))
	assert.Equal(t, help, s.HandleCommand(ctx, "hello"))
	assert.Contains(t, s.HandleCommand(ctx, "/screen momentum"), "unknown screener")
	assert.Contains(t, s.HandleCommand(ctx, "/screen value jp many"), "invalid top_n")
	assert.Len(t, r.requests, 2)
}

func TestParseScreenCommand(t *testing.T) {
	req, err := ParseScreenCommand([]string{"trending"})
	require.NoError(t, err)
	assert.Equal(t, runner.Request{Kind: runner.KindTrending, Region: "japan", TopN: 10}, req)

	_, err = ParseScreenCommand(nil)
	assert.Error(t, err)
	_, err = ParseScreenCommand([]string{"growth", "us", "0"})
	assert.Error(t, err)
}

func TestParseScreenCommand_CapsTopN(t *testing.T) {
	req, err := ParseScreenCommand([]string{"query", "japan", "100000"})
	require.NoError(t, err)
	assert.Equal(t, MaxTopN, req.TopN)
	assert.Equal(t, "value", req.Preset)

	req, err = ParseScreenCommand([]string{"alpha", "us", "25"})
	require.NoError(t, err)
	assert.Equal(t, 25, req.TopN)
}
