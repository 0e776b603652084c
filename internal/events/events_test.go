package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEvent(t *testing.T, source string, entity Entity, action Action) ChangeEvent {
	ev, err := NewChangeEvent("ev-1", source, entity, action, "p1", map[string]int{"quantity": 3}, time.Now())
	require.NoError(t, err)
	return ev
}

func TestChangeEvent_Type(t *testing.T) {
	ev := testEvent(t, "inventory-service", EntityProduct, ActionUpdated)
	assert.Equal(t, "product.updated", ev.Type())
	assert.JSONEq(t, `{"quantity":3}`, string(ev.Payload))
}

type recordingPublisher struct {
	events []ChangeEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, ev ChangeEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestMultiPublisher_DeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingPublisher{}
	b := &recordingPublisher{err: boom}
	c := &recordingPublisher{}

	err := MultiPublisher{a, b, c, NopPublisher{}}.Publish(context.Background(), testEvent(t, "s", EntityAlert, ActionCreated))

	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.events, 1)
	assert.Len(t, c.events, 1)
}

func TestBroadcaster_FanOutAndUnsubscribe(t *testing.T) {
	b := NewBroadcaster(4, zap.NewNop())
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	assert.Equal(t, 2, b.Subscribers())

	ev := testEvent(t, "s", EntityProduct, ActionCreated)
	require.NoError(t, b.Publish(context.Background(), ev))

	assert.Equal(t, ev.EventID, (<-ch1).EventID)
	assert.Equal(t, ev.EventID, (<-ch2).EventID)

	cancel1()
	cancel1()
	_, open := <-ch1
	assert.False(t, open)
	assert.Equal(t, 1, b.Subscribers())

	b.Close()
	_, open = <-ch2
	assert.False(t, open)
	cancel2()

	late, _ := b.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster(1, zap.NewNop())
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Publish(context.Background(), testEvent(t, "s", EntityProduct, ActionUpdated)))
	}
	assert.Len(t, ch, 1)
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, logger: zap.NewNop()}

	ev := testEvent(t, "inventory-service", EntityTransaction, ActionCreated)
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "p1", string(w.msgs[0].Key))
	var decoded ChangeEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, ev.EventID, decoded.EventID)
	assert.Equal(t, "transaction.created", string(w.msgs[0].Headers[0].Value))

	w.err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), ev))
}

type fakeReconciler struct {
	mu       sync.Mutex
	ids      []string
	err      error
	failures map[string]int
}

func (f *fakeReconciler) ReconcileProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	if f.failures[id] > 0 {
		f.failures[id]--
		return errors.New("store unavailable")
	}
	return f.err
}

func (f *fakeReconciler) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

func productMessage(t *testing.T, source, productID string, action Action, offset int64) kafka.Message {
	ev, err := NewChangeEvent("ev-"+productID, source, EntityProduct, action, productID, nil, time.Now())
	require.NoError(t, err)
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Value: raw, Offset: offset}
}

func TestKafkaConsumer_ProcessMessage(t *testing.T) {
	rec := &fakeReconciler{}
	kc := &KafkaConsumer{source: "inventory-service", reconciler: rec, logger: zap.NewNop()}
	encode := func(ev ChangeEvent) kafka.Message {
		raw, err := json.Marshal(ev)
		require.NoError(t, err)
		return kafka.Message{Value: raw}
	}
	ctx := context.Background()

	require.NoError(t, kc.processMessage(ctx, encode(testEvent(t, "inventory-service", EntityProduct, ActionUpdated))))
	require.NoError(t, kc.processMessage(ctx, encode(testEvent(t, "pos", EntityAlert, ActionCreated))))
	require.NoError(t, kc.processMessage(ctx, kafka.Message{Value: []byte("not json")}))
	assert.Empty(t, rec.calls())

	require.NoError(t, kc.processMessage(ctx, encode(testEvent(t, "pos", EntityProduct, ActionUpdated))))
	assert.Equal(t, []string{"p1"}, rec.calls())

	require.NoError(t, kc.processMessage(ctx, productMessage(t, "pos", "p2", ActionDeleted, 0)))
	assert.Equal(t, []string{"p1", "p2"}, rec.calls())

	rec.err = errors.New("store unavailable")
	assert.Error(t, kc.processMessage(ctx, encode(testEvent(t, "pos", EntityProduct, ActionUpdated))))
}

type scriptedReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []kafka.Message
	closed    bool
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func (r *scriptedReader) offsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, 0, len(r.committed))
	for _, m := range r.committed {
		out = append(out, m.Offset)
	}
	return out
}

func TestKafkaConsumer_StartStop(t *testing.T) {
	reader := &scriptedReader{msgs: make(chan kafka.Message, 1)}
	rec := &fakeReconciler{}
	kc := &KafkaConsumer{reader: reader, source: "me", reconciler: rec, logger: zap.NewNop()}

	reader.msgs <- productMessage(t, "other", "p1", ActionUpdated, 7)

	kc.Start(context.Background())
	assert.Eventually(t, func() bool { return len(reader.offsets()) == 1 }, time.Second, 5*time.Millisecond)
	kc.Stop()
	kc.Stop()

	assert.True(t, reader.closed)
	assert.Equal(t, []int64{7}, reader.offsets())
	assert.Equal(t, []string{"p1"}, rec.calls())
}

func TestKafkaConsumer_RetriesFailedMessageBeforeCommitting(t *testing.T) {
	reader := &scriptedReader{msgs: make(chan kafka.Message, 2)}
	rec := &fakeReconciler{failures: map[string]int{"p-fail": 2}}
	kc := &KafkaConsumer{
		reader:     reader,
		source:     "me",
		reconciler: rec,
		logger:     zap.NewNop(),
		backoffMin: time.Millisecond,
		backoffMax: 2 * time.Millisecond,
	}

	reader.msgs <- productMessage(t, "other", "p-fail", ActionUpdated, 10)
	reader.msgs <- productMessage(t, "other", "p-ok", ActionUpdated, 11)

	kc.Start(context.Background())
	require.Eventually(t, func() bool { return len(reader.offsets()) == 2 }, 2*time.Second, 5*time.Millisecond)
	kc.Stop()

	assert.Equal(t, []int64{10, 11}, reader.offsets())
	assert.Equal(t, []string{"p-fail", "p-fail", "p-fail", "p-ok"}, rec.calls())
}

func TestKafkaConsumer_StopInterruptsRetry(t *testing.T) {
	reader := &scriptedReader{msgs: make(chan kafka.Message, 2)}
	rec := &fakeReconciler{err: errors.New("store unavailable")}
	kc := &KafkaConsumer{
		reader:     reader,
		source:     "me",
		reconciler: rec,
		logger:     zap.NewNop(),
		backoffMin: time.Hour,
		backoffMax: time.Hour,
	}

	reader.msgs <- productMessage(t, "other", "p-fail", ActionUpdated, 10)
	reader.msgs <- productMessage(t, "other", "p-ok", ActionUpdated, 11)

	kc.Start(context.Background())
	require.Eventually(t, func() bool { return len(rec.calls()) == 1 }, time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		kc.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop while backing off")
	}

	assert.Empty(t, reader.offsets())
	assert.Equal(t, []string{"p-fail"}, rec.calls())
}
