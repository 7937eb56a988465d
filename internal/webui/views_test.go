package webui

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutor-system2025/tutor-system/internal/models"
)

func TestRenderUnknownView(t *testing.T) {
	s := NewState()
	s.View = "no-such-view"
	_, err := Render(s)
	assert.Error(t, err)
}

func TestRenderEveryKnownView(t *testing.T) {
	for name := range viewNames {
		s := NewState()
		s.Session = &Session{UserID: uuid.New(), Name: "Jane Doe", Email: "jane@x.com"}
		s.View = name
		html, err := Render(s)
		require.NoError(t, err, "view %s", name)
		assert.Contains(t, string(html), "<!DOCTYPE html>")
	}
}

func TestRenderEscapesBookingDescription(t *testing.T) {
	s := NewState()
	s.Session = &Session{UserID: uuid.New(), Name: "Jane Doe", Email: "jane@x.com"}
	s.View = ViewMyBookings
	s.MyBookings = []models.Booking{{
		ID:          uuid.New(),
		Subject:     "Math",
		TimePeriod:  "10:00-11:00",
		Date:        time.Now(),
		Description: `<script>alert("xss")</script>`,
		Status:      models.BookingPending,
	}}

	html, err := Render(s)
	require.NoError(t, err)
	got := string(html)
	assert.NotContains(t, got, "<script>alert")
	assert.Contains(t, got, "&lt;script&gt;")
}

func TestRenderedPageIsSelfContained(t *testing.T) {
	html, err := Render(NewState())
	require.NoError(t, err)
	got := string(html)
	assert.Contains(t, got, "<style>")
	assert.NotContains(t, got, `rel="stylesheet"`)
	assert.NotContains(t, got, "/static/")
}

func TestRenderLoginShowsNoSessionNav(t *testing.T) {
	html, err := Render(NewState())
	require.NoError(t, err)
	got := string(html)
	assert.Contains(t, got, `href="/app/login"`)
	assert.Contains(t, got, `href="/app/register"`)
	assert.NotContains(t, got, "Logout")
}

func TestRenderManagerNavForManagerSession(t *testing.T) {
	s := NewState()
	s.Session = &Session{UserID: uuid.New(), Name: "Manager", IsManager: true}
	s.View = ViewManager
	s.Subjects = []models.Subject{{ID: uuid.New(), Name: "Math"}}
	s.TutorRequests = []models.Tutor{{
		ID: uuid.New(), FirstName: "John", Surname: "Smith",
		Email: "tutor@x.com", Description: "I teach <b>well</b>",
	}}

	html, err := Render(s)
	require.NoError(t, err)
	got := string(html)
	assert.Contains(t, got, "Manager Panel")
	assert.Contains(t, got, "Math")
	assert.Contains(t, got, "John Smith")
	assert.NotContains(t, got, "<b>well</b>")
	assert.NotContains(t, got, "Book a Session")
}

func TestBackLinkOnlyWithHistory(t *testing.T) {
	s := NewState()
	html, err := Render(s)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(html), `href="/app/back"`))

	s = Reduce(s, Navigate{View: ViewRegister})
	html, err = Render(s)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(html), `href="/app/back"`))
}
