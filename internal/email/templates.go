package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"rentpro_backend/internal/models"
)

var expiryWarningTmpl = template.Must(template.New("expiry_warning").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Document expiry warning</h2>
  <p>Hello {{.RecipientName}},</p>
  {{if .Expired}}
  <p>The <b>{{.DocumentLabel}}</b> (No. {{.DocumentNumber}}) for machine
  <b>{{.MachineLabel}}</b> expired on <b>{{.ExpiresOn}}</b>.</p>
  {{else}}
  <p>The <b>{{.DocumentLabel}}</b> (No. {{.DocumentNumber}}) for machine
  <b>{{.MachineLabel}}</b> expires on <b>{{.ExpiresOn}}</b>
  ({{.DaysLeft}} day(s) from now).</p>
  {{end}}
  <p>Please arrange for its renewal to keep the machine compliant.</p>
  <p>— RentPro back office</p>
</body>
</html>
`))

type expiryWarningData struct {
	RecipientName  string
	DocumentLabel  string
	DocumentNumber string
	MachineLabel   string
	ExpiresOn      string
	DaysLeft       int
	Expired        bool
}

// documentLabel переводит тип документа в человекочитаемое название
func documentLabel(t models.DocumentType) string {
	switch t {
	case models.DocumentTypeRegistration:
		return "Registration Certificate"
	case models.DocumentTypeInsurance:
		return "Insurance Policy"
	case models.DocumentTypeFitness:
		return "Fitness Certificate"
	case models.DocumentTypePollution:
		return "Pollution Certificate"
	default:
		return "Compliance Document"
	}
}

// RenderExpiryWarning строит тему и HTML тело письма из снапшота job'а.
func RenderExpiryWarning(job *models.NotificationJob, now time.Time) (subject, htmlBody string, err error) {
	label := documentLabel(job.DocumentType)

	daysLeft := int(job.ExpiresAt.Sub(now).Hours() / 24)
	expired := !now.Before(job.ExpiresAt)

	name := job.RecipientName
	if strings.TrimSpace(name) == "" {
		name = "there"
	}

	data := expiryWarningData{
		RecipientName:  name,
		DocumentLabel:  label,
		DocumentNumber: job.DocumentNumber,
		MachineLabel:   job.MachineLabel,
		ExpiresOn:      job.ExpiresAt.Format("02 Jan 2006"),
		DaysLeft:       daysLeft,
		Expired:        expired,
	}

	var buf bytes.Buffer
	if err := expiryWarningTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render expiry warning: %w", err)
	}

	if expired {
		subject = fmt.Sprintf("[RentPro] %s expired for %s", label, job.MachineLabel)
	} else {
		subject = fmt.Sprintf("[RentPro] %s for %s expires on %s", label, job.MachineLabel, data.ExpiresOn)
	}

	return subject, buf.String(), nil
}
