package template

// bodySource defines one named template per kind plus the shared frame.
// Every piece of user-supplied text flows through {{...}} actions so
// html/template escapes it before it reaches the body.
const bodySource = `
{{define "header"}}<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222; max-width: 560px; margin: 0 auto;">
<h2 style="color: #1a5276;">English Bridge</h2>
{{end}}

{{define "footer"}}
<hr style="border: none; border-top: 1px solid #ddd; margin-top: 32px;">
<p style="font-size: 12px; color: #888;">
You are receiving this because you signed up with English Bridge.
<a href="{{.UnsubscribeURL}}">Unsubscribe</a>
</p>
</body>
</html>
{{end}}

{{define "application_received"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>Thanks for applying to the <strong>{{.Data.Track}}</strong> track. Our volunteers
review applications every week and you will hear from us soon.</p>
<p>Your application number is #{{.Data.ApplicationID}}.</p>
{{template "footer" .}}{{end}}

{{define "application_approved"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>Great news: your application to the <strong>{{.Data.Track}}</strong> track has been
approved. Your cohort coordinator will reach out with the class schedule.</p>
{{template "footer" .}}{{end}}

{{define "application_rejected"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>Thank you for applying to the <strong>{{.Data.Track}}</strong> track. We are unable
to offer you a place this cohort, but we would love to see you apply again next term.</p>
{{template "footer" .}}{{end}}

{{define "rsvp_confirmed"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>Your spot for <strong>{{.Data.EventTitle}}</strong> is confirmed.</p>
<p>
Date: {{.Data.EventDate}}<br>
{{if .Data.EventTime}}Time: {{.Data.EventTime}}<br>{{end}}
{{if .Data.EventLocation}}Location: {{.Data.EventLocation}}{{end}}
</p>
{{template "footer" .}}{{end}}

{{define "event_reminder"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>Just a reminder that <strong>{{.Data.EventTitle}}</strong> is coming up.</p>
<p>
Date: {{.Data.EventDate}}<br>
{{if .Data.EventTime}}Time: {{.Data.EventTime}}<br>{{end}}
{{if .Data.EventLocation}}Location: {{.Data.EventLocation}}{{end}}
</p>
<p>See you there!</p>
{{template "footer" .}}{{end}}

{{define "drip_day0"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>Welcome! While your application is in review, here is what to expect:
weekly conversation circles, a study buddy, and free learning materials.</p>
{{template "footer" .}}{{end}}

{{define "drip_day2"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>A quick tip for your first week: fifteen minutes of listening practice a day
beats a two-hour session once a week. Our podcast playlist is a good place to start.</p>
{{template "footer" .}}{{end}}

{{define "drip_day6"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>Your classmates are already chatting in the community space. Drop in and
introduce yourself; everyone there remembers their own first message.</p>
{{template "footer" .}}{{end}}

{{define "campaign"}}{{template "header" .}}
<p>Hi {{.Data.FullName}},</p>
<p>{{.Data.Body}}</p>
{{template "footer" .}}{{end}}
`
