package webui

import (
	"bytes"
	"fmt"
	"html/template"
)

// Each view is a pure function of State. Rendering goes through
// html/template so user-supplied text (tutor descriptions, booking notes)
// is structurally escaped instead of concatenated into markup.

var viewTemplates = template.Must(template.New("webui").Funcs(template.FuncMap{
	"shortDate": func(t interface{ Format(string) string }) string {
		return t.Format("2 Jan 2006")
	},
}).Parse(viewMarkup))

var viewNames = map[string]bool{
	ViewLogin:         true,
	ViewRegister:      true,
	ViewSubjects:      true,
	ViewTutors:        true,
	ViewBookingForm:   true,
	ViewMyBookings:    true,
	ViewTutorBookings: true,
	ViewBecomeTutor:   true,
	ViewProfile:       true,
	ViewManager:       true,
}

// KnownView reports whether name is a registered view.
func KnownView(name string) bool {
	return viewNames[name]
}

// Render dispatches on s.View and returns the full page markup.
func Render(s State) (template.HTML, error) {
	if !KnownView(s.View) {
		return "", fmt.Errorf("unknown view %q", s.View)
	}
	var buf bytes.Buffer
	if err := viewTemplates.ExecuteTemplate(&buf, "page", s); err != nil {
		return "", fmt.Errorf("render view %s: %w", s.View, err)
	}
	return template.HTML(buf.String()), nil
}

const viewMarkup = `
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Tutoring System</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 0 auto; padding: 1rem; }
nav a { margin-right: 0.75rem; }
nav .who { font-weight: bold; margin-right: 0.75rem; }
input, textarea { display: block; margin: 0.5rem 0; padding: 0.4rem; width: 100%; box-sizing: border-box; }
button { padding: 0.4rem 1rem; }
.flash-success { background: #e6f4ea; padding: 0.5rem; }
.flash-error { background: #fce8e6; padding: 0.5rem; }
.status { font-size: 0.85em; padding: 0.1rem 0.4rem; border: 1px solid #ccc; border-radius: 4px; }
ul.bookings li { margin-bottom: 1rem; }
ul.cards li { border: 1px solid #ddd; border-radius: 6px; padding: 0.75rem; margin: 0.5rem 0; list-style: none; }
</style>
</head>
<body>
<div id="app">
{{template "nav" .}}
{{template "flash" .}}
{{if eq .View "login"}}{{template "login" .}}
{{else if eq .View "register"}}{{template "register" .}}
{{else if eq .View "subjects"}}{{template "subjects" .}}
{{else if eq .View "tutors"}}{{template "tutors" .}}
{{else if eq .View "bookingForm"}}{{template "bookingForm" .}}
{{else if eq .View "myBookings"}}{{template "myBookings" .}}
{{else if eq .View "tutorBookings"}}{{template "tutorBookings" .}}
{{else if eq .View "becomeTutor"}}{{template "becomeTutor" .}}
{{else if eq .View "profile"}}{{template "profile" .}}
{{else if eq .View "manager"}}{{template "manager" .}}
{{end}}
</div>
</body>
</html>{{end}}

{{define "nav"}}
<nav>
{{if .Session}}
  <span class="who">{{.Session.Name}}</span>
  {{if .Session.IsManager}}
    <a href="/app/manager">Manager Panel</a>
  {{else}}
    <a href="/app/subjects">Book a Session</a>
    <a href="/app/myBookings">My Bookings</a>
    <a href="/app/tutorBookings">Tutor Bookings</a>
    <a href="/app/becomeTutor">Become a Tutor</a>
    <a href="/app/profile">Profile</a>
  {{end}}
  <a href="/app/logout">Logout</a>
{{else}}
  <a href="/app/login">Login</a>
  <a href="/app/register">Register</a>
{{end}}
{{if .History}}<a class="back" href="/app/back">&larr; Back</a>{{end}}
</nav>
{{end}}

{{define "flash"}}
{{with .Flash}}<div class="flash flash-{{.Kind}}">{{.Text}}</div>{{end}}
{{end}}

{{define "login"}}
<h1>Login</h1>
<form method="post" action="/app/login">
  <input type="email" name="email" placeholder="Email" required>
  <input type="password" name="password" placeholder="Password" required>
  <button type="submit">Login</button>
</form>
<p>No account? <a href="/app/register">Register here</a>.</p>
{{end}}

{{define "register"}}
<h1>Register</h1>
<form method="post" action="/app/register">
  <input type="text" name="firstName" placeholder="First name" required>
  <input type="text" name="surname" placeholder="Surname" required>
  <input type="email" name="email" placeholder="Email" required>
  <input type="password" name="password" placeholder="Password" required>
  <button type="submit">Register</button>
</form>
{{end}}

{{define "subjects"}}
<h1>Choose a Subject</h1>
{{if .Subjects}}
<ul class="cards">
{{range .Subjects}}
  <li><a href="/app/tutors?subject={{.ID}}">{{.Name}}</a></li>
{{end}}
</ul>
{{else}}
<p>No subjects available yet.</p>
{{end}}
{{end}}

{{define "tutors"}}
<h1>Choose a Tutor{{with .SelectedSubject}} for {{.Name}}{{end}}</h1>
{{if .Tutors}}
<ul class="cards">
{{range .Tutors}}
  <li>
    <strong>{{.FirstName}} {{.Surname}}</strong>
    <a href="/app/bookingForm?tutor={{.ID}}">Book</a>
  </li>
{{end}}
</ul>
{{else}}
<p>No approved tutors for this subject yet.</p>
{{end}}
{{end}}

{{define "bookingForm"}}
<h1>Book a Session</h1>
{{with .SelectedTutor}}<p>Tutor: <strong>{{.FirstName}} {{.Surname}}</strong></p>{{end}}
<form method="post" action="/app/book">
  {{with .SelectedTutor}}<input type="hidden" name="tutorId" value="{{.ID}}">{{end}}
  {{with .SelectedSubject}}<input type="hidden" name="subject" value="{{.Name}}">{{end}}
  <input type="datetime-local" name="date" required>
  <input type="text" name="timePeriod" placeholder="Time period" required>
  <textarea name="description" placeholder="What do you need help with?" required></textarea>
  <button type="submit">Book</button>
</form>
{{end}}

{{define "myBookings"}}
<h1>My Bookings</h1>
{{if .MyBookings}}
<ul class="bookings">
{{range .MyBookings}}
  <li>
    <strong>{{.Subject}}</strong> with
    {{with .Tutor}}{{.FirstName}} {{.Surname}}{{else}}(tutor removed){{end}}
    &ndash; {{.TimePeriod}}, {{shortDate .Date}}
    <span class="status status-{{.Status}}">{{.Status}}</span>
    <p>{{.Description}}</p>
    {{if eq .Status "pending"}}
    <form method="post" action="/app/cancel">
      <input type="hidden" name="bookingId" value="{{.ID}}">
      <button type="submit">Cancel</button>
    </form>
    {{end}}
  </li>
{{end}}
</ul>
{{else}}
<p>You have no bookings.</p>
{{end}}
{{end}}

{{define "tutorBookings"}}
<h1>Bookings Assigned to Me</h1>
{{if .TutorBookings}}
<ul class="bookings">
{{range .TutorBookings}}
  <li>
    <strong>{{.Subject}}</strong> for
    {{with .User}}{{.FirstName}} {{.Surname}}{{else}}(student removed){{end}}
    &ndash; {{.TimePeriod}}, {{shortDate .Date}}
    <span class="status status-{{.Status}}">{{.Status}}</span>
    <p>{{.Description}}</p>
    {{if eq .Status "pending"}}
    <form method="post" action="/app/accept">
      <input type="hidden" name="bookingId" value="{{.ID}}">
      <button type="submit">Accept</button>
    </form>
    {{end}}
    {{if eq .Status "accepted"}}
    <form method="post" action="/app/complete">
      <input type="hidden" name="bookingId" value="{{.ID}}">
      <input type="text" name="duration" placeholder="Session duration" required>
      <button type="submit">Complete</button>
    </form>
    {{end}}
  </li>
{{end}}
</ul>
{{else}}
<p>No bookings are assigned to you.</p>
{{end}}
{{end}}

{{define "becomeTutor"}}
<h1>Become a Tutor</h1>
<form method="post" action="/app/becomeTutor">
  <input type="text" name="firstName" placeholder="First name" required>
  <input type="text" name="surname" placeholder="Surname" required>
  <input type="email" name="email" placeholder="Email" required>
  <input type="text" name="subjects" placeholder="Subjects (comma separated)" required>
  <textarea name="description" placeholder="Tell students about yourself" required></textarea>
  <button type="submit">Apply</button>
</form>
{{end}}

{{define "profile"}}
<h1>Profile</h1>
{{with .Session}}
<form method="post" action="/app/profile">
  <input type="text" name="firstName" placeholder="First name">
  <input type="text" name="surname" placeholder="Surname">
  <input type="email" name="email" value="{{.Email}}">
  <button type="submit">Update</button>
</form>
{{end}}
{{end}}

{{define "manager"}}
<h1>Manager Panel</h1>

<h2>Subjects</h2>
<form method="post" action="/app/admin/addSubject">
  <input type="text" name="name" placeholder="New subject" required>
  <button type="submit">Add</button>
</form>
<ul>
{{range .Subjects}}
  <li>{{.Name}}
    <form method="post" action="/app/admin/removeSubject">
      <input type="hidden" name="subjectId" value="{{.ID}}">
      <button type="submit">Remove</button>
    </form>
  </li>
{{end}}
</ul>

<h2>Pending Tutor Requests</h2>
{{if .TutorRequests}}
<ul>
{{range .TutorRequests}}
  <li>
    <strong>{{.FirstName}} {{.Surname}}</strong> ({{.Email}})
    <p>{{.Description}}</p>
    <form method="post" action="/app/admin/approveTutor">
      <input type="hidden" name="tutorId" value="{{.ID}}">
      <button type="submit">Approve</button>
    </form>
    <form method="post" action="/app/admin/rejectTutor">
      <input type="hidden" name="tutorId" value="{{.ID}}">
      <button type="submit">Reject</button>
    </form>
  </li>
{{end}}
</ul>
{{else}}
<p>No pending requests.</p>
{{end}}

<h2>All Bookings</h2>
{{if .AllBookings}}
<ul class="bookings">
{{range .AllBookings}}
  <li>
    <strong>{{.Subject}}</strong>:
    {{with .User}}{{.FirstName}} {{.Surname}}{{end}} with
    {{with .Tutor}}{{.FirstName}} {{.Surname}}{{end}}
    &ndash; {{.TimePeriod}}, {{shortDate .Date}}
    <span class="status status-{{.Status}}">{{.Status}}</span>
  </li>
{{end}}
</ul>
{{else}}
<p>No bookings yet.</p>
{{end}}
{{end}}
`
