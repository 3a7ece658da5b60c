package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/event-hub/internal/validate"
)

func strp(s string) *string { return &s }

func TestRoleCapabilities(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleStandard, ParseRole("User"))
	assert.Equal(t, RoleStandard, ParseRole(""))

	assert.True(t, RoleAdmin.Can(CapCreateEvent))
	assert.False(t, RoleStandard.Can(CapCreateEvent))
	assert.False(t, RoleStandard.Can(CapManageAnyEvent))

	alice := Actor{UserID: "u1", Role: RoleStandard}
	assert.True(t, alice.Owns("u1", CapManageAnyEvent))
	assert.False(t, alice.Owns("u2", CapManageAnyEvent))
	assert.True(t, Actor{UserID: "a", Role: RoleAdmin}.Owns("u2", CapManageAnyEvent))
}

func TestUserDescriptorLowercasesRole(t *testing.T) {
	u := User{ID: "1", Username: "alice", Email: "alice@example.com", Role: Role("ADMIN")}
	d := u.Descriptor()
	assert.Equal(t, RoleAdmin, d.Role)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"1","name":"alice","email":"alice@example.com","role":"admin"}`, string(b))
}

func TestUserValidate(t *testing.T) {
	u := User{Username: "al", Email: "alice@example.com"}
	assert.Error(t, u.Validate())
	u = User{Username: "alice", Email: "alice@example"}
	assert.Error(t, u.Validate())
	u = User{Username: "alice", Email: "alice@example.com"}
	assert.NoError(t, u.Validate())
	assert.Equal(t, RoleStandard, u.Role)
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-01"`), &d))
	assert.Equal(t, "2025-03-01", d.String())

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-01"`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`"2025-03-01T10:00:00Z"`), &d))
	assert.Equal(t, "2025-03-01", d.String())

	assert.Error(t, json.Unmarshal([]byte(`"03/01/2025"`), &d))
}

func TestEventValidate(t *testing.T) {
	date, _ := ParseDate("2025-03-01")
	ok := Event{Title: "Intro to Rust", Description: "d", Type: EventWorkshop, Date: date}
	assert.NoError(t, ok.Validate())

	cases := map[string]Event{
		"title":       {Description: "d", Type: EventWorkshop, Date: date},
		"description": {Title: "t", Type: EventWorkshop, Date: date},
		"type":        {Title: "t", Description: "d", Date: date},
		"date":        {Title: "t", Description: "d", Type: EventWorkshop},
	}
	for field, e := range cases {
		err := e.Validate()
		var errs validate.Errs
		require.True(t, errors.As(err, &errs), field)
		assert.Equal(t, field, errs[0].Field)
	}

	bad := ok
	bad.Type = "Party"
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Time = strp("25:00")
	assert.Error(t, bad.Validate())
}

func TestEventInputApply(t *testing.T) {
	e := Event{Title: "Old", Location: strp("Hall A")}
	title := "  New  "
	EventInput{Title: &title, Location: strp("")}.Apply(&e)
	assert.Equal(t, "New", e.Title)
	assert.Nil(t, e.Location)
}

func TestEventFilter(t *testing.T) {
	events := []Event{{ID: "1", Type: EventWorkshop}, {ID: "2", Type: EventMeetup}}
	assert.Len(t, EventFilter{}.Apply(events), 2)
	got := EventFilter{Type: EventMeetup}.Apply(events)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestStateFor(t *testing.T) {
	regs := []Registration{{ID: "r1", UserID: "u1"}}
	st, r := StateFor(regs, "u1")
	assert.Equal(t, Registered, st)
	assert.Equal(t, "r1", r.ID)

	st, r = StateFor(regs, "u2")
	assert.Equal(t, NotRegistered, st)
	assert.Nil(t, r)
}
