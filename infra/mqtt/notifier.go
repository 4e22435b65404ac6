package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	coremqtt "github.com/kilianp07/castplan/core/mqtt"
	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/core/session"
	"github.com/kilianp07/castplan/core/source"
	"github.com/kilianp07/castplan/infra/logger"
)

// DefaultTopicPrefix is used when the configuration leaves topic_prefix empty.
const DefaultTopicPrefix = "castplan/schedule"

// SavedMessage is the payload published after a successful save.
type SavedMessage struct {
	MessageID string                 `json:"message_id"`
	Date      model.Date             `json:"date"`
	Records   []model.ScheduleRecord `json:"records"`
	SavedAt   time.Time              `json:"saved_at"`
}

// Notifier publishes saved schedules to MQTT.
type Notifier struct {
	pub    coremqtt.Publisher
	prefix string
	log    logger.Logger
	now    func() time.Time
	// nil means unlimited
	limiter *rate.Limiter
}

// NewNotifier returns a Notifier publishing under prefix.
func NewNotifier(pub coremqtt.Publisher, prefix string) *Notifier {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Notifier{pub: pub, prefix: prefix, log: logger.New("mqtt_notifier"), now: time.Now}
}

// WithRateLimit caps publishes at perSec per second with a burst of perSec.
// Zero or less disables the limit.
func (n *Notifier) WithRateLimit(perSec int) *Notifier {
	if perSec <= 0 {
		n.limiter = nil
		return n
	}
	n.limiter = rate.NewLimiter(rate.Limit(perSec), perSec)
	return n
}

// Topic returns the topic a save of day is published to.
func (n *Notifier) Topic(day model.Date) string {
	return fmt.Sprintf("%s/%s/saved", n.prefix, day)
}

// Notify publishes ev when it reports a successful save and ignores any
// other event.
func (n *Notifier) Notify(ctx context.Context, ev session.Event) error {
	if ev.Kind != session.EventSaved {
		return nil
	}
	recs := ev.Records
	if recs == nil {
		recs = []model.ScheduleRecord{}
	}
	savedAt := ev.Time
	if savedAt.IsZero() {
		savedAt = n.now()
	}
	payload, err := json.Marshal(SavedMessage{
		MessageID: uuid.NewString(),
		Date:      ev.Date,
		Records:   recs,
		SavedAt:   savedAt.UTC(),
	})
	if err != nil {
		return err
	}
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	return n.pub.Publish(ctx, n.Topic(ev.Date), payload)
}

// Source publishes every successful save of the wrapped source, whether it
// comes from the form session or the JSON API.
type Source struct {
	source.Source
	n *Notifier
}

// WrapSource returns src with its successful saves published by n.
func (n *Notifier) WrapSource(src source.Source) *Source {
	return &Source{Source: src, n: n}
}

// SaveSchedule forwards the save and publishes it on success. A publish
// failure is logged and never changes the result of the save.
func (s *Source) SaveSchedule(ctx context.Context, day model.Date, records []model.ScheduleRecord) error {
	if err := s.Source.SaveSchedule(ctx, day, records); err != nil {
		return err
	}
	ev := session.Event{Kind: session.EventSaved, Date: day, Records: model.CloneRecords(records), Time: s.n.now()}
	if err := s.n.Notify(context.WithoutCancel(ctx), ev); err != nil {
		s.n.log.Errorf("notify save of %s: %v", day, err)
	}
	return nil
}
