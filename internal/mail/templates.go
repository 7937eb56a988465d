package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// nl2br escapes user text and then converts newlines to <br>, so free-text
// message bodies keep their line breaks without ever carrying live markup.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"nl2br": nl2br,
}).Parse(mailTemplates))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render mail template %s: %w", name, err)
	}
	return buf.String(), nil
}

const mailTemplates = `
{{define "tutorRegistration"}}
<h2>New Tutor Registration</h2>
<p><strong>Name:</strong> {{.FirstName}} {{.Surname}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subjects:</strong> {{.SubjectList}}</p>
<p><strong>Description:</strong> {{.Description}}</p>
<p>Please review and approve this tutor registration.</p>
{{end}}

{{define "tutorApproved"}}
<h2>Congratulations!</h2>
<p>Your tutor registration has been approved.</p>
<p>You can now receive booking requests from students.</p>
{{end}}

{{define "tutorRejected"}}
<h2>Tutor Registration</h2>
<p>Thank you for your interest in becoming a tutor.</p>
<p>After careful review, we regret to inform you that your application has not been approved at this time.</p>
<p>You may reapply in the future if you wish.</p>
{{end}}

{{define "tutorRemoved"}}
<h2>Tutor Account Update</h2>
<p>Your tutor account has been removed from our system.</p>
<p>If you believe this was done in error, please contact us.</p>
{{end}}

{{define "bookingRequested"}}
<h2>New Booking Request</h2>
<p><strong>Student:</strong> {{.StudentName}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Time Period:</strong> {{.TimePeriod}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Description:</strong> {{.Description}}</p>
<p>Please review this booking request.</p>
{{end}}

{{define "bookingUpdated"}}
<h2>Booking Update Notification</h2>
<p><strong>Student:</strong> {{.StudentName}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>New Time Period:</strong> {{.TimePeriod}}</p>
<p><strong>New Date:</strong> {{.Date}}</p>
<p><strong>New Description:</strong> {{.Description}}</p>
<p>The booking has been updated by the student.</p>
{{end}}

{{define "bookingCancelled"}}
<h2>Booking Cancellation Notification</h2>
<p><strong>Student:</strong> {{.StudentName}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Original Time:</strong> {{.TimePeriod}}</p>
<p><strong>Original Date:</strong> {{.Date}}</p>
<p>The booking has been cancelled by the student.</p>
{{end}}

{{define "bookingAccepted"}}
<h2>Booking Accepted!</h2>
<p>Dear {{.StudentName}},</p>
<p>Great news! Your tutoring session has been accepted by {{.TutorName}}.</p>
<p><strong>Session Details:</strong></p>
<ul>
  <li><strong>Subject:</strong> {{.Subject}}</li>
  <li><strong>Time:</strong> {{.TimePeriod}}</li>
  <li><strong>Date:</strong> {{.Date}}</li>
  <li><strong>Description:</strong> {{.Description}}</li>
</ul>
<p>Your tutor will contact you soon to confirm the final arrangements.</p>
<p>Best regards,<br>Tutoring System</p>
{{end}}

{{define "sessionCompleted"}}
<h2>Session Completion Report</h2>
<p>A tutoring session has been completed with the following details:</p>
<div style="background: #f8f9fa; padding: 15px; border-radius: 8px; margin: 15px 0; border-left: 4px solid #667eea;">
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Tutor:</strong> {{.TutorName}} ({{.TutorEmail}})</p>
  <p><strong>Student:</strong> {{.StudentName}} ({{.StudentEmail}})</p>
  <p><strong>Session Duration:</strong> {{.Duration}}</p>
  <p><strong>Original Time:</strong> {{.TimePeriod}}</p>
  <p><strong>Description:</strong> {{.Description}}</p>
  <p><strong>Completion Date:</strong> {{.CompletedAt}}</p>
</div>
<p>This session has been marked as completed and removed from active bookings.</p>
<p>Best regards,<br>Tutoring System</p>
{{end}}

{{define "tutorMessage"}}
<h2>Message from Your Tutor</h2>
<p>Dear {{.StudentName}},</p>
<p>You have received a message from your tutor {{.TutorName}} regarding your tutoring session.</p>
<p><strong>Session:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<div style="background: #f8f9fa; padding: 15px; border-radius: 8px; margin: 15px 0; border-left: 4px solid #667eea;">
  {{nl2br .Body}}
</div>
<p>Please use the "Reply All" button when responding to this email so both you and your tutor receive the communication.</p>
<p>Best regards,<br>Tutoring System</p>
{{end}}
`
