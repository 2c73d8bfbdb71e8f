package template

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
)

// Kind identifies one of the fixed transactional templates.
type Kind string

const (
	KindApplicationReceived Kind = "application_received"
	KindApplicationApproved Kind = "application_approved"
	KindApplicationRejected Kind = "application_rejected"
	KindRSVPConfirmed       Kind = "rsvp_confirmed"
	KindEventReminder       Kind = "event_reminder"
	KindDripDay0            Kind = "drip_day0"
	KindDripDay2            Kind = "drip_day2"
	KindDripDay6            Kind = "drip_day6"
	KindCampaign            Kind = "campaign"
)

// Rendered is the output of a render: the exact subject and HTML body that
// will be queued and later sent verbatim.
type Rendered struct {
	Subject string
	HTML    string
}

// ApplicationData feeds the application lifecycle templates. All fields
// are required.
type ApplicationData struct {
	FullName      string
	Track         string
	ApplicationID uint
}

func (d ApplicationData) validate() error {
	if d.FullName == "" || d.Track == "" || d.ApplicationID == 0 {
		return fmt.Errorf("application template requires full name, track and application id")
	}
	return nil
}

// RSVPData feeds the RSVP confirmation and event reminder templates.
// EventTime and EventLocation are optional.
type RSVPData struct {
	FullName      string
	EventTitle    string
	EventDate     string
	EventTime     string
	EventLocation string
	RSVPID        uint
}

func (d RSVPData) validate() error {
	if d.FullName == "" || d.EventTitle == "" || d.EventDate == "" || d.RSVPID == 0 {
		return fmt.Errorf("rsvp template requires full name, event title, event date and rsvp id")
	}
	return nil
}

// DripData feeds the welcome drip series (days 0, 2 and 6 after an
// application is received).
type DripData struct {
	FullName      string
	ApplicationID uint
}

func (d DripData) validate() error {
	if d.FullName == "" || d.ApplicationID == 0 {
		return fmt.Errorf("drip template requires full name and application id")
	}
	return nil
}

// CampaignData feeds the batch campaign template. RefKind/RefID point at
// the recipient's opt-in record for the unsubscribe footer.
type CampaignData struct {
	FullName string
	Subject  string
	Body     string
	RefKind  string
	RefID    uint
}

func (d CampaignData) validate() error {
	if d.FullName == "" || d.Subject == "" || d.Body == "" || d.RefID == 0 {
		return fmt.Errorf("campaign template requires full name, subject, body and recipient reference")
	}
	if d.RefKind != "application" && d.RefKind != "rsvp" {
		return fmt.Errorf("campaign template requires recipient kind application or rsvp, got %q", d.RefKind)
	}
	return nil
}

// view is what the HTML templates execute against. Data is the typed
// kind-specific struct; UnsubscribeURL goes into the shared footer.
type view struct {
	Data           interface{}
	UnsubscribeURL string
}

// Renderer maps a template kind plus typed data to a subject/HTML pair.
// Rendering is pure: no I/O, deterministic for given inputs, and every
// interpolated user string is HTML-escaped by html/template.
type Renderer struct {
	baseURL string
}

// New returns a Renderer whose unsubscribe links are rooted at baseURL.
func New(baseURL string) *Renderer {
	return &Renderer{baseURL: baseURL}
}

// Render produces the subject and HTML body for one email. Missing
// required fields or a mismatched data type is a caller error; nothing
// partial is ever returned.
func (r *Renderer) Render(kind Kind, data interface{}) (Rendered, error) {
	var (
		subject  string
		unsubRef string
	)

	switch kind {
	case KindApplicationReceived, KindApplicationApproved, KindApplicationRejected:
		d, ok := data.(ApplicationData)
		if !ok {
			return Rendered{}, fmt.Errorf("template %s expects ApplicationData, got %T", kind, data)
		}
		if err := d.validate(); err != nil {
			return Rendered{}, err
		}
		switch kind {
		case KindApplicationReceived:
			subject = "We received your application"
		case KindApplicationApproved:
			subject = fmt.Sprintf("Welcome to the %s track!", d.Track)
		case KindApplicationRejected:
			subject = "An update on your application"
		}
		unsubRef = fmt.Sprintf("application/%d", d.ApplicationID)

	case KindRSVPConfirmed, KindEventReminder:
		d, ok := data.(RSVPData)
		if !ok {
			return Rendered{}, fmt.Errorf("template %s expects RSVPData, got %T", kind, data)
		}
		if err := d.validate(); err != nil {
			return Rendered{}, err
		}
		if kind == KindRSVPConfirmed {
			subject = fmt.Sprintf("You're in: %s", d.EventTitle)
		} else {
			subject = fmt.Sprintf("Reminder: %s is coming up", d.EventTitle)
		}
		unsubRef = fmt.Sprintf("rsvp/%d", d.RSVPID)

	case KindDripDay0, KindDripDay2, KindDripDay6:
		d, ok := data.(DripData)
		if !ok {
			return Rendered{}, fmt.Errorf("template %s expects DripData, got %T", kind, data)
		}
		if err := d.validate(); err != nil {
			return Rendered{}, err
		}
		switch kind {
		case KindDripDay0:
			subject = "Welcome to English Bridge"
		case KindDripDay2:
			subject = "Getting the most out of your first week"
		case KindDripDay6:
			subject = "Meet your learning community"
		}
		unsubRef = fmt.Sprintf("application/%d", d.ApplicationID)

	case KindCampaign:
		d, ok := data.(CampaignData)
		if !ok {
			return Rendered{}, fmt.Errorf("template %s expects CampaignData, got %T", kind, data)
		}
		if err := d.validate(); err != nil {
			return Rendered{}, err
		}
		subject = d.Subject
		unsubRef = fmt.Sprintf("%s/%d", d.RefKind, d.RefID)

	default:
		return Rendered{}, fmt.Errorf("unknown template kind %q", kind)
	}

	var buf bytes.Buffer
	err := bodies.ExecuteTemplate(&buf, string(kind), view{
		Data:           data,
		UnsubscribeURL: fmt.Sprintf("%s/unsubscribe/%s", r.baseURL, unsubRef),
	})
	if err != nil {
		return Rendered{}, fmt.Errorf("failed to render template %s: %w", kind, err)
	}

	return Rendered{Subject: subject, HTML: buf.String()}, nil
}

// bodies holds every HTML body, parsed once. A broken template is a
// programmer error, so parsing panics at init.
var bodies = htmltmpl.Must(htmltmpl.New("bodies").Parse(bodySource))
