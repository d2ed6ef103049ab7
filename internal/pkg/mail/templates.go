package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const layoutTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border:1px solid rgb(180,140,70);border-radius:.25rem;margin:40px auto;padding:20px;width:550px">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:400;text-align:center;margin:30px 0">{{.Heading}}</h1>
        {{template "body" .}}
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">This email was sent automatically by {{.SiteName}}.<br />&copy;{{year}} {{.SiteName}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

const boxStyle = `style="background-color:rgb(243,244,246);border-radius:.75rem;padding:.5rem 1rem;font-size:13px;line-height:22px;color:rgb(51,51,51)"`

var contactNoticeTpl = `{{define "body"}}
<p style="font-size:14px"><strong>{{.Name}}</strong> &lt;{{.Email}}&gt; wrote:</p>
<p style="font-size:14px">Subject: {{.Subject}}</p>
<div ` + boxStyle + `>{{.Message}}</div>
{{end}}`

var contactConfirmTpl = `{{define "body"}}
<p style="font-size:14px">Dear {{.Name}},</p>
<p style="font-size:14px">Thank you for reaching out. We received your message about "{{.Subject}}" and will get back to you soon.</p>
<div ` + boxStyle + `>{{.Message}}</div>
{{end}}`

var prayerNoticeTpl = `{{define "body"}}
<p style="font-size:14px">A new prayer request was submitted by <strong>{{.Name}}</strong>.</p>
<p style="font-size:14px">Category: {{.Category}}{{if .Email}}<br />Email: {{.Email}}{{end}}<br />Sharing allowed: {{if .AllowSharing}}yes{{else}}no{{end}}</p>
<div ` + boxStyle + `>{{.Request}}</div>
{{end}}`

var prayerConfirmTpl = `{{define "body"}}
<p style="font-size:14px">Dear {{.Name}},</p>
<p style="font-size:14px">We received your prayer request and our prayer team is lifting it up.</p>
<div ` + boxStyle + `>{{.Request}}</div>
{{end}}`

var welcomeTpl = `{{define "body"}}
<p style="font-size:14px">{{if .Name}}Dear {{.Name}},{{else}}Hello,{{end}}</p>
<p style="font-size:14px">Thank you for subscribing to the {{.SiteName}} newsletter. You will hear from us when new posts and volumes are published.</p>
<p style="font-size:12px;color:rgb(107,114,128)"><a href="{{.UnsubscribeURL}}" style="color:rgb(107,114,128)">Unsubscribe</a></p>
{{end}}`

var newsletterTpl = `{{define "body"}}
<div style="font-size:14px;line-height:24px">{{.Content}}</div>
{{if .UnsubscribeURL}}<p style="font-size:12px;color:rgb(107,114,128)"><a href="{{.UnsubscribeURL}}" style="color:rgb(107,114,128)">Unsubscribe</a></p>{{end}}
{{end}}`

var templates = map[string]*template.Template{}

func init() {
	for name, body := range map[string]string{
		"contact_notice":  contactNoticeTpl,
		"contact_confirm": contactConfirmTpl,
		"prayer_notice":   prayerNoticeTpl,
		"prayer_confirm":  prayerConfirmTpl,
		"welcome":         welcomeTpl,
		"newsletter":      newsletterTpl,
	} {
		t := template.Must(template.New(name).Funcs(template.FuncMap{
			"year": func() int { return time.Now().Year() },
		}).Parse(layoutTpl))
		templates[name] = template.Must(t.Parse(body))
	}
}

func renderTemplate(name string, data interface{}) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("mail: unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func siteName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Ministry"
	}
	return name
}

// ContactData is the data for contact form emails.
type ContactData struct {
	SiteName string
	Heading  string
	Name     string
	Email    string
	Subject  string
	Message  string
}

// PrayerData is the data for prayer request emails.
type PrayerData struct {
	SiteName     string
	Heading      string
	Name         string
	Email        string
	Category     string
	Request      string
	AllowSharing bool
}

// WelcomeData is the data for the subscription welcome email.
type WelcomeData struct {
	SiteName       string
	Heading        string
	Name           string
	UnsubscribeURL string
}

// NewsletterData is the data for newsletter emails. Content is trusted HTML
// produced by the admin.
type NewsletterData struct {
	SiteName       string
	Heading        string
	Content        template.HTML
	UnsubscribeURL string
}

// ContactNotice builds the staff notification for a new contact message.
func ContactNotice(to string, data ContactData) (Message, error) {
	data.SiteName = siteName(data.SiteName)
	data.Heading = "New contact message"
	html, err := renderTemplate("contact_notice", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Contact: %s", data.SiteName, data.Subject),
		HTML:    html,
		ReplyTo: data.Email,
	}, nil
}

// ContactConfirmation builds the acknowledgement sent to the sender.
func ContactConfirmation(data ContactData) (Message, error) {
	data.SiteName = siteName(data.SiteName)
	data.Heading = "We received your message"
	html, err := renderTemplate("contact_confirm", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{data.Email},
		Subject: fmt.Sprintf("[%s] Thank you for contacting us", data.SiteName),
		HTML:    html,
	}, nil
}

// PrayerNotice builds the prayer team notification.
func PrayerNotice(to string, data PrayerData) (Message, error) {
	data.SiteName = siteName(data.SiteName)
	data.Heading = "New prayer request"
	html, err := renderTemplate("prayer_notice", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Prayer request: %s", data.SiteName, data.Category),
		HTML:    html,
	}, nil
}

// PrayerConfirmation builds the acknowledgement sent to the requester.
func PrayerConfirmation(data PrayerData) (Message, error) {
	data.SiteName = siteName(data.SiteName)
	data.Heading = "We are praying with you"
	html, err := renderTemplate("prayer_confirm", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{data.Email},
		Subject: fmt.Sprintf("[%s] Your prayer request was received", data.SiteName),
		HTML:    html,
	}, nil
}

// Welcome builds the subscription welcome email.
func Welcome(to string, data WelcomeData) (Message, error) {
	data.SiteName = siteName(data.SiteName)
	data.Heading = "Welcome"
	html, err := renderTemplate("welcome", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Thanks for subscribing", data.SiteName),
		HTML:    html,
	}, nil
}

// Newsletter builds one newsletter email.
func Newsletter(to, subject string, data NewsletterData) (Message, error) {
	data.SiteName = siteName(data.SiteName)
	data.Heading = subject
	html, err := renderTemplate("newsletter", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}, nil
}
