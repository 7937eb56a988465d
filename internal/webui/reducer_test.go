package webui

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutor-system2025/tutor-system/internal/models"
)

func TestNavigatePushesHistory(t *testing.T) {
	s := NewState()
	s = Reduce(s, Navigate{View: ViewRegister})
	assert.Equal(t, ViewRegister, s.View)
	assert.Equal(t, []string{ViewLogin}, s.History)

	s = Reduce(s, Navigate{View: ViewSubjects})
	assert.Equal(t, ViewSubjects, s.View)
	assert.Equal(t, []string{ViewLogin, ViewRegister}, s.History)
}

func TestNavigateToCurrentViewIsNoOp(t *testing.T) {
	s := NewState()
	s = Reduce(s, Navigate{View: ViewLogin})
	assert.Equal(t, ViewLogin, s.View)
	assert.Empty(t, s.History)
}

func TestBackRestoresPreviousView(t *testing.T) {
	s := NewState()
	s = Reduce(s, Navigate{View: ViewSubjects})
	s = Reduce(s, Navigate{View: ViewTutors})

	s = Reduce(s, Back{})
	assert.Equal(t, ViewSubjects, s.View)
	assert.Equal(t, []string{ViewLogin}, s.History)

	s = Reduce(s, Back{})
	assert.Equal(t, ViewLogin, s.View)
	assert.Empty(t, s.History)

	// At the bottom of the stack, Back stays put.
	s = Reduce(s, Back{})
	assert.Equal(t, ViewLogin, s.View)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	start := NewState()
	start = Reduce(start, Navigate{View: ViewSubjects})
	historyBefore := append([]string(nil), start.History...)

	next := Reduce(start, Navigate{View: ViewTutors})
	_ = Reduce(next, Back{})

	assert.Equal(t, ViewSubjects, start.View)
	assert.Equal(t, historyBefore, start.History)
}

func TestSignInRoutesByRole(t *testing.T) {
	s := Reduce(NewState(), SignIn{Session: Session{
		UserID: uuid.New(), Name: "Jane Doe", Email: "jane@x.com",
	}})
	assert.Equal(t, ViewSubjects, s.View)
	require.NotNil(t, s.Session)
	assert.Equal(t, "Jane Doe", s.Session.Name)

	m := Reduce(NewState(), SignIn{Session: Session{
		UserID: uuid.New(), Name: "Manager", Email: "manager@x.com", IsManager: true,
	}})
	assert.Equal(t, ViewManager, m.View)
}

func TestSignOutDropsEverything(t *testing.T) {
	s := Reduce(NewState(), SignIn{Session: Session{UserID: uuid.New(), Name: "Jane"}})
	s.Subjects = []models.Subject{{Name: "Math"}}
	s = Reduce(s, Navigate{View: ViewProfile})

	s = Reduce(s, SignOut{})
	assert.Nil(t, s.Session)
	assert.Equal(t, ViewLogin, s.View)
	assert.Empty(t, s.Subjects)
	assert.Empty(t, s.History)
}

func TestSelectSubjectThenTutorReachesBookingForm(t *testing.T) {
	s := Reduce(NewState(), SignIn{Session: Session{UserID: uuid.New(), Name: "Jane"}})

	subject := models.Subject{ID: uuid.New(), Name: "Math"}
	tutor := models.TutorPublicView{ID: uuid.New(), FirstName: "John", Surname: "Smith"}

	s = Reduce(s, SelectSubject{Subject: subject, Tutors: []models.TutorPublicView{tutor}})
	assert.Equal(t, ViewTutors, s.View)
	require.NotNil(t, s.SelectedSubject)
	assert.Equal(t, "Math", s.SelectedSubject.Name)
	assert.Nil(t, s.SelectedTutor)
	assert.Len(t, s.Tutors, 1)

	s = Reduce(s, SelectTutor{Tutor: tutor})
	assert.Equal(t, ViewBookingForm, s.View)
	require.NotNil(t, s.SelectedTutor)
	assert.Equal(t, tutor.ID, s.SelectedTutor.ID)

	// Back walks the same path in reverse.
	s = Reduce(s, Back{})
	assert.Equal(t, ViewTutors, s.View)
	s = Reduce(s, Back{})
	assert.Equal(t, ViewSubjects, s.View)
}

func TestFlashClearedOnNavigate(t *testing.T) {
	s := NewState()
	s = Reduce(s, SetFlash{Kind: "error", Text: "Invalid credentials"})
	require.NotNil(t, s.Flash)
	assert.Equal(t, "Invalid credentials", s.Flash.Text)

	s = Reduce(s, Navigate{View: ViewRegister})
	assert.Nil(t, s.Flash)

	s = Reduce(s, SetFlash{Kind: "success", Text: "Done"})
	s = Reduce(s, ClearFlash{})
	assert.Nil(t, s.Flash)
}
