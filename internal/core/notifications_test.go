package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/statusboard/internal/model"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func stateChange(name string, from, to model.State, notify bool) Event {
	tr := model.Transition{From: from, To: to}
	return Event{
		Type:       EventStateChanged,
		Time:       time.Now(),
		Item:       ItemRef{ID: name, Name: name, Notify: notify, State: to},
		Transition: &tr,
	}
}

func TestNotificationLog_RecordsNotifiableChanges(t *testing.T) {
	log := NewNotificationLog(10)

	log.Publish(stateChange("api", model.StateOK, model.StateFailed, true))

	recs := log.Recent(0)
	require.Len(t, recs, 1)
	assert.Equal(t, "api has failed", recs[0].Text)
	assert.Equal(t, model.SeverityError, recs[0].Severity)
	assert.Equal(t, model.StateFailed, recs[0].State)
}

func TestNotificationLog_GatesSentinelAndOptOut(t *testing.T) {
	log := NewNotificationLog(10)

	// Previous state is the None sentinel: first status is silent.
	log.Publish(stateChange("api", model.StateNone, model.StateOK, true))
	// Item opted out of notifications.
	log.Publish(stateChange("api", model.StateOK, model.StateFailed, false))
	// Not a state change event.
	log.Publish(Event{Type: EventItemAdded, Item: ItemRef{Name: "api", Notify: true}})

	assert.Empty(t, log.Recent(0))
}

func TestNotificationLog_RingBehavior(t *testing.T) {
	log := NewNotificationLog(2)
	log.Publish(stateChange("a", model.StateOK, model.StateFailed, true))
	log.Publish(stateChange("b", model.StateOK, model.StateFailed, true))
	log.Publish(stateChange("c", model.StateOK, model.StateFailed, true))

	recs := log.Recent(0)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ItemName)
	assert.Equal(t, "c", recs[1].ItemName)
}

func TestNotificationLog_RecentLimit(t *testing.T) {
	log := NewNotificationLog(10)
	log.Publish(stateChange("a", model.StateOK, model.StateFailed, true))
	log.Publish(stateChange("b", model.StateOK, model.StateFailed, true))

	recs := log.Recent(1)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].ItemName)
}

func TestNotificationLog_EndToEnd(t *testing.T) {
	svcs := NewServices(nil, testLogger())
	svc := svcs.Tree
	m := model.NewMonitor("api", model.KindExternal, "")
	m.ID = "api"
	require.NoError(t, svc.Add(svc.RootID(), m))

	_, err := svc.SetState("api", model.StateOK)
	require.NoError(t, err)
	_, err = svc.SetState("api", model.StateFailed)
	require.NoError(t, err)

	recs := svcs.Notifications.Recent(0)
	// The leaf and the root group both transitioned Ok -> Failed.
	require.Len(t, recs, 2)
	assert.Equal(t, "api has failed", recs[0].Text)
}
