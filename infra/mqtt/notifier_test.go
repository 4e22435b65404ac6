package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/castplan/core/model"
	"github.com/kilianp07/castplan/core/session"
	"github.com/kilianp07/castplan/core/source"
)

type message struct {
	topic   string
	payload []byte
}

type recordPublisher struct {
	mu   sync.Mutex
	msgs []message
	err  error
}

func (r *recordPublisher) Publish(_ context.Context, topic string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, message{topic: topic, payload: payload})
	return nil
}

func (r *recordPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

var saveDay = model.Date{Year: 2025, Month: time.May, Day: 2}

func TestNotifierTopic(t *testing.T) {
	assert.Equal(t, "castplan/schedule/2025-05-02/saved", NewNotifier(nil, "").Topic(saveDay))
	assert.Equal(t, "studio/a/2025-05-02/saved", NewNotifier(nil, "studio/a/").Topic(saveDay))
}

func TestNotifyPublishesSavedSchedule(t *testing.T) {
	pub := &recordPublisher{}
	n := NewNotifier(pub, "tv")
	savedAt := time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)
	recs := []model.ScheduleRecord{{ProgramID: "p1", CasterID: model.ID("c1"), HasCrosstalk: true}}

	err := n.Notify(context.Background(), session.Event{Kind: session.EventSaved, Date: saveDay, Records: recs, Time: savedAt})
	require.NoError(t, err)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "tv/2025-05-02/saved", pub.msgs[0].topic)

	var got map[string]any
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &got))
	assert.NotEmpty(t, got["message_id"])
	assert.Equal(t, "2025-05-02", got["date"])
	assert.Equal(t, "2025-05-02T09:30:00Z", got["saved_at"])
	records := got["records"].([]any)
	require.Len(t, records, 1)
	first := records[0].(map[string]any)
	assert.Equal(t, "p1", first["programId"])
	assert.Equal(t, "c1", first["casterId"])
	assert.Nil(t, first["forecasterId"])
	assert.Equal(t, true, first["hasCrosstalk"])
}

func TestNotifyEmptyScheduleEncodesArray(t *testing.T) {
	pub := &recordPublisher{}
	n := NewNotifier(pub, "")
	require.NoError(t, n.Notify(context.Background(), session.Event{Kind: session.EventSaved, Date: saveDay}))

	var msg SavedMessage
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &msg))
	assert.NotNil(t, msg.Records)
	assert.Empty(t, msg.Records)
	assert.Equal(t, saveDay, msg.Date)
}

func TestNotifyIgnoresOtherEvents(t *testing.T) {
	pub := &recordPublisher{}
	n := NewNotifier(pub, "")
	for _, k := range []session.Kind{session.EventEdited, session.EventSaveFailed, session.EventScheduleLoaded} {
		require.NoError(t, n.Notify(context.Background(), session.Event{Kind: k, Date: saveDay}))
	}
	assert.Zero(t, pub.count())
}

func TestNotifyReturnsPublishError(t *testing.T) {
	pub := &recordPublisher{err: errors.New("offline")}
	n := NewNotifier(pub, "")
	err := n.Notify(context.Background(), session.Event{Kind: session.EventSaved, Date: saveDay})
	assert.EqualError(t, err, "offline")
}

type saveSource struct {
	source.Source
	err error
}

func (s saveSource) SaveSchedule(context.Context, model.Date, []model.ScheduleRecord) error {
	return s.err
}

func TestWrapSourcePublishesSuccessfulSaves(t *testing.T) {
	pub := &recordPublisher{}
	src := NewNotifier(pub, "").WrapSource(saveSource{})
	recs := []model.ScheduleRecord{{ProgramID: "p3", ForecasterID: model.ID("f2")}}

	require.NoError(t, src.SaveSchedule(context.Background(), saveDay, recs))
	require.Equal(t, 1, pub.count())
	assert.Equal(t, "castplan/schedule/2025-05-02/saved", pub.msgs[0].topic)

	var msg SavedMessage
	require.NoError(t, json.Unmarshal(pub.msgs[0].payload, &msg))
	assert.Equal(t, saveDay, msg.Date)
	require.Len(t, msg.Records, 1)
	assert.Equal(t, "f2", msg.Records[0].Forecaster())
}

func TestWrapSourceSkipsFailedSaves(t *testing.T) {
	pub := &recordPublisher{}
	src := NewNotifier(pub, "").WrapSource(saveSource{err: errors.New("unavailable")})
	assert.Error(t, src.SaveSchedule(context.Background(), saveDay, nil))
	assert.Equal(t, 0, pub.count())
}

func TestWrapSourceKeepsSaveResultOnPublishError(t *testing.T) {
	pub := &recordPublisher{err: errors.New("offline")}
	src := NewNotifier(pub, "").WrapSource(saveSource{})
	assert.NoError(t, src.SaveSchedule(context.Background(), saveDay, nil))
}

func TestNotifyRateLimit(t *testing.T) {
	pub := &recordPublisher{}
	n := NewNotifier(pub, "").WithRateLimit(1)
	ev := session.Event{Kind: session.EventSaved, Date: saveDay}

	require.NoError(t, n.Notify(context.Background(), ev))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := n.Notify(ctx, ev)
	require.Error(t, err)
	assert.Equal(t, 1, pub.count())

	assert.Nil(t, n.WithRateLimit(0).limiter)
	require.NoError(t, n.Notify(context.Background(), ev))
	assert.Equal(t, 2, pub.count())
}
