package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrewpaige1/lingodeck-api/logger"
	"github.com/andrewpaige1/lingodeck-api/models"
	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
)

type Kind string

const (
	KindStudy  Kind = "study"
	KindStreak Kind = "streak"
)

// Message is what a user is shown when a reminder fires.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag,omitempty"`
	URL   string `json:"url,omitempty"`
}

func StudyMessage() Message {
	return Message{
		Title: "Time to Study!",
		Body:  "Start your learning session and keep your knowledge growing!",
		Tag:   "study-reminder",
		URL:   "/study",
	}
}

func StreakMessage(streak int) Message {
	return Message{
		Title: fmt.Sprintf("Don't Break Your %d-Day Streak!", streak),
		Body:  "Study now to maintain your progress. Just a few cards will do!",
		Tag:   "streak-reminder",
		URL:   "/study",
	}
}

func AchievementMessage(name string) Message {
	return Message{Title: "Achievement Unlocked!", Body: "You earned: " + name, Tag: "achievement"}
}

// Notifier delivers a message to a user. Delivery itself lives outside this
// service.
type Notifier interface {
	Notify(ctx context.Context, userID uint, m Message) error
}

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	Log *logger.Logger
}

func (n LogNotifier) Notify(_ context.Context, userID uint, m Message) error {
	n.Log.Info("reminder", "user", userID, "title", m.Title, "tag", m.Tag)
	return nil
}

// StreakChecker reports a user's live streak and whether they have studied
// today.
type StreakChecker interface {
	StreakStatus(ctx context.Context, userID uint) (streak int, studiedToday bool, err error)
}

type jobKey struct {
	user uint
	kind Kind
}

// Scheduler owns one daily job per user and reminder kind. Scheduling a kind
// again replaces the previous job.
type Scheduler struct {
	cron     *gocron.Scheduler
	notifier Notifier
	streaks  StreakChecker
	log      *logger.Logger

	mu   sync.Mutex
	jobs map[jobKey]*gocron.Job
}

func New(loc *time.Location, notifier Notifier, streaks StreakChecker, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:     gocron.NewScheduler(loc),
		notifier: notifier,
		streaks:  streaks,
		log:      log,
		jobs:     make(map[jobKey]*gocron.Job),
	}
}

func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Schedule registers a daily reminder at "HH:mm" in the scheduler's location.
func (s *Scheduler) Schedule(userID uint, kind Kind, at string) error {
	if kind != KindStudy && kind != KindStreak {
		return errors.Errorf("unknown reminder kind %q", kind)
	}
	if _, err := time.Parse("15:04", at); err != nil {
		return errors.Wrapf(err, "reminder time %q", at)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(jobKey{userID, kind})
	job, err := s.cron.Every(1).Day().At(at).Do(s.fire, userID, kind)
	if err != nil {
		return errors.Wrap(err, "schedule reminder")
	}
	s.jobs[jobKey{userID, kind}] = job
	return nil
}

// Cancel removes one reminder. It reports whether one was scheduled.
func (s *Scheduler) Cancel(userID uint, kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(jobKey{userID, kind})
}

// Clear removes every reminder the user has.
func (s *Scheduler) Clear(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(jobKey{userID, KindStudy})
	s.cancelLocked(jobKey{userID, KindStreak})
}

func (s *Scheduler) cancelLocked(k jobKey) bool {
	job, ok := s.jobs[k]
	if !ok {
		return false
	}
	s.cron.RemoveByReference(job)
	delete(s.jobs, k)
	return true
}

// Scheduled reports whether the user has a reminder of this kind.
func (s *Scheduler) Scheduled(userID uint, kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobKey{userID, kind}]
	return ok
}

// Apply brings a user's jobs in line with their settings.
func (s *Scheduler) Apply(userID uint, n models.NotificationSettings) error {
	s.Clear(userID)
	if n.StudyReminder {
		if err := s.Schedule(userID, KindStudy, n.StudyReminderTime); err != nil {
			return err
		}
	}
	if n.StreakReminder {
		if err := s.Schedule(userID, KindStreak, n.StreakReminderTime); err != nil {
			return err
		}
	}
	return nil
}

// Load schedules reminders for every user, typically at startup. A user with
// bad settings is logged and skipped.
func (s *Scheduler) Load(users []models.User) {
	for _, u := range users {
		if err := s.Apply(u.ID, u.Notifications); err != nil {
			s.log.Warn("skipping reminders", "user", u.ID, "error", err)
		}
	}
}

func (s *Scheduler) fire(userID uint, kind Kind) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msg := StudyMessage()
	if kind == KindStreak {
		streak, studied, err := s.streaks.StreakStatus(ctx, userID)
		if err != nil {
			s.log.Error("streak reminder", "user", userID, "error", err)
			return
		}
		if streak == 0 || studied {
			return
		}
		msg = StreakMessage(streak)
	}
	if err := s.notifier.Notify(ctx, userID, msg); err != nil {
		s.log.Error("send reminder", "user", userID, "kind", kind, "error", err)
	}
}
