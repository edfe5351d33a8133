package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ScreenSentinel/internal/config"
	"ScreenSentinel/internal/runner"
)

// Screener runs screens and reports history.
type Screener interface {
	Run(ctx context.Context, req runner.Request) (*runner.Report, error)
	History(ctx context.Context, limit int) (string, error)
}

// Sender delivers a message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Job is a registered recurring screen.
type Job struct {
	Name    string
	Spec    string
	Request runner.Request
	entry   cron.EntryID
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Screener
	Notifier Sender
	Ctx      context.Context

	log  zerolog.Logger
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, run Screener, n Sender, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   run,
		Notifier: n,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
		jobs:     make(map[string]*Job),
	}
}

// RegisterAll registers one cron job per schedule.
func (s *Scheduler) RegisterAll(schedules []config.Schedule) error {
	for _, sc := range schedules {
		kind, err := runner.ParseKind(sc.Screener)
		if err != nil {
			return fmt.Errorf("schedule %q: %w", sc.Name, err)
		}
		job := &Job{
			Name: sc.Name,
			Spec: sc.Cron,
			Request: runner.Request{
				Kind:         kind,
				Region:       sc.Region,
				TopN:         sc.TopN,
				Preset:       sc.Preset,
				Sector:       sc.Sector,
				Theme:        sc.Theme,
				WithPullback: sc.WithPullback,
			},
		}
		id, err := s.Cron.AddFunc(sc.Cron, func() { s.runJob(job) })
		if err != nil {
			return fmt.Errorf("register schedule %q: %w", sc.Name, err)
		}
		job.entry = id

		s.mu.Lock()
		s.jobs[job.Name] = job
		s.mu.Unlock()
		s.log.Info().Str("job", job.Name).Str("cron", job.Spec).Str("screener", string(kind)).Msg("schedule registered")
	}
	return nil
}

// Jobs returns the registered job names.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the named job immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	s.runJob(job)
	return nil
}

func (s *Scheduler) runJob(job *Job) {
	s.log.Info().Str("job", job.Name).Msg("running scheduled screen")
	report, err := s.Runner.Run(s.Ctx, job.Request)
	if err != nil {
		s.log.Error().Err(err).Str("job", job.Name).Msg("scheduled screen failed")
		s.trySend(fmt.Sprintf("❌ %s failed: %v", job.Name, err))
		return
	}
	s.trySend(Message(report))
}

// Message renders a report for delivery.
func Message(report *runner.Report) string {
	req := report.Request
	region := req.Region
	if region == "" {
		region = "-"
	}
	header := fmt.Sprintf("📊 %s screen | %s | top %d", req.Kind, region, req.TopN)
	if req.Preset != "" {
		header += " | preset " + req.Preset
	}
	return header + "\n\n" + report.Markdown
}

const help = `Available commands:
/screen <kind> [region] [top_n]  run a screen (kinds: value, query, pullback, alpha, growth, trending)
/history [n]  list recent runs
/jobs  list scheduled screens`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return help
	}
	// "/screen@SentinelBot" in group chats
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/screen":
		req, err := ParseScreenCommand(fields[1:])
		if err != nil {
			return err.Error() + "\n\n" + help
		}
		report, err := s.Runner.Run(ctx, req)
		if err != nil {
			return fmt.Sprintf("❌ %s failed: %v", req.Kind, err)
		}
		return Message(report)
	case "/history":
		limit := 10
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				limit = n
			}
		}
		out, err := s.Runner.History(ctx, limit)
		if err != nil {
			return fmt.Sprintf("❌ history unavailable: %v", err)
		}
		return out
	case "/jobs":
		jobs := s.Jobs()
		if len(jobs) == 0 {
			return "No scheduled screens."
		}
		sort.Strings(jobs)
		return "Scheduled screens:\n• " + strings.Join(jobs, "\n• ")
	default:
		return help
	}
}

// MaxTopN bounds top_n for chat requests; each result costs provider calls.
const MaxTopN = 50

// ParseScreenCommand reads "<kind> [region] [top_n]". top_n is capped at MaxTopN.
func ParseScreenCommand(args []string) (runner.Request, error) {
	if len(args) == 0 {
		return runner.Request{}, fmt.Errorf("missing screener kind")
	}
	kind, err := runner.ParseKind(args[0])
	if err != nil {
		return runner.Request{}, err
	}
	req := runner.Request{Kind: kind, Region: "japan", TopN: 10}
	if kind == runner.KindQuery {
		req.Preset = "value"
	}
	if len(args) > 1 {
		req.Region = strings.ToLower(args[1])
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return runner.Request{}, fmt.Errorf("invalid top_n %q", args[2])
		}
		req.TopN = min(n, MaxTopN)
	}
	return req, nil
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
