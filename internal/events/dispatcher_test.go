package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryDispatcherPublish(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType

	d.Subscribe(EventDepartmentCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventDepartmentDeleted, func(_ context.Context, e Event) error {
		t.Fatalf("unexpected delivery of %s", e.Type)
		return nil
	})

	err := d.Publish(context.Background(), NewDepartmentEvent(EventDepartmentCreated, "d1", nil, nil))

	assert.NoError(t, err)
	assert.Equal(t, []EventType{EventDepartmentCreated}, got)
}

func TestInMemoryDispatcherRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	boom := errors.New("boom")

	d.Subscribe(EventDepartmentUpdated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventDepartmentUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewDepartmentEvent(EventDepartmentUpdated, "d1", nil, nil))

	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, boom)
}

func TestSubscribeAll(t *testing.T) {
	d := NewInMemoryDispatcher()
	seen := map[EventType]int{}
	SubscribeAll(d, func(_ context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	for _, et := range []EventType{EventDepartmentCreated, EventDepartmentUpdated, EventDepartmentDeleted} {
		assert.NoError(t, d.Publish(context.Background(), NewDepartmentEvent(et, "d1", nil, nil)))
	}
	assert.Equal(t, map[EventType]int{
		EventDepartmentCreated: 1,
		EventDepartmentUpdated: 1,
		EventDepartmentDeleted: 1,
	}, seen)
}

func TestNewDepartmentEvent(t *testing.T) {
	e := NewDepartmentEvent(EventDepartmentDeleted, "d9", &Actor{SubjectID: "u1"}, nil)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "d9", e.DepartmentID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "u1", e.Actor.SubjectID)
}
