package webui

import "github.com/tutor-system2025/tutor-system/internal/models"

// Action is a state transition request. Reduce applies exactly one.
type Action interface {
	isAction()
}

// Navigate moves to a view, pushing the current one onto the history stack.
type Navigate struct {
	View string
}

// Back pops the history stack; at the bottom it stays put.
type Back struct{}

// SignIn installs a session and lands on the role's home view.
type SignIn struct {
	Session Session
}

// SignOut drops the session and all cached data.
type SignOut struct{}

// SelectSubject records the subject choice plus the tutors fetched for it,
// then moves to the tutor chooser.
type SelectSubject struct {
	Subject models.Subject
	Tutors  []models.TutorPublicView
}

// SelectTutor records the tutor choice and moves to the booking form.
type SelectTutor struct {
	Tutor models.TutorPublicView
}

// SetFlash shows a one-shot banner; ClearFlash removes it.
type SetFlash struct {
	Kind string
	Text string
}

type ClearFlash struct{}

func (Navigate) isAction()      {}
func (Back) isAction()          {}
func (SignIn) isAction()        {}
func (SignOut) isAction()       {}
func (SelectSubject) isAction() {}
func (SelectTutor) isAction()   {}
func (SetFlash) isAction()      {}
func (ClearFlash) isAction()    {}

// Reduce is the only place UI state changes. It never mutates its input;
// the returned State is the next state.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case Navigate:
		if act.View == s.View {
			return s
		}
		s.History = append(append([]string(nil), s.History...), s.View)
		s.View = act.View
		s.Flash = nil
		return s

	case Back:
		if len(s.History) == 0 {
			return s
		}
		last := len(s.History) - 1
		s.View = s.History[last]
		s.History = append([]string(nil), s.History[:last]...)
		s.Flash = nil
		return s

	case SignIn:
		sess := act.Session
		s = NewState()
		s.Session = &sess
		if sess.IsManager {
			s.View = ViewManager
		} else {
			s.View = ViewSubjects
		}
		return s

	case SignOut:
		return NewState()

	case SelectSubject:
		subject := act.Subject
		s.SelectedSubject = &subject
		s.SelectedTutor = nil
		s.Tutors = act.Tutors
		return Reduce(s, Navigate{View: ViewTutors})

	case SelectTutor:
		tutor := act.Tutor
		s.SelectedTutor = &tutor
		return Reduce(s, Navigate{View: ViewBookingForm})

	case SetFlash:
		s.Flash = &Flash{Kind: act.Kind, Text: act.Text}
		return s

	case ClearFlash:
		s.Flash = nil
		return s
	}
	return s
}
