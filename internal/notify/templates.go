package notify

import (
	"html/template"
	texttemplate "text/template"
)

type welcomeData struct {
	Name         string
	AppURL       string
	DashboardURL string
}

var welcomeText = texttemplate.Must(texttemplate.New("welcome.txt").Parse(`Hi {{.Name}},

Welcome to EduVault! Your student profile has been created.

Head to your dashboard to start exploring, upload study materials, and share to earn.

Dashboard: {{.DashboardURL}}

Cheers,
EduVault Team`))

var welcomeHTML = template.Must(template.New("welcome.html").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Welcome to EduVault</title>
  </head>
  <body style="margin:0;padding:0;background:#f6f9fc;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;">
    <table role="presentation" width="100%" cellspacing="0" cellpadding="0" border="0" style="background:#f6f9fc;">
      <tr>
        <td align="center" style="padding:24px;">
          <table role="presentation" width="100%" cellspacing="0" cellpadding="0" border="0" style="max-width:600px;background:#ffffff;border-radius:12px;">
            <tr>
              <td style="padding:24px;">
                <h1 style="margin:0 0 8px 0;font-size:22px;color:#111827;">Welcome to EduVault, {{.Name}}!</h1>
                <p style="margin:0 0 16px 0;font-size:14px;line-height:1.6;color:#6b7280;">
                  Your student profile is ready. Explore your dashboard to discover resources, upload materials, and start sharing to earn.
                </p>
                <a href="{{.DashboardURL}}" style="display:inline-block;background:#2563eb;color:#ffffff;text-decoration:none;padding:12px 16px;border-radius:8px;font-weight:600;font-size:14px;">
                  Go to your dashboard
                </a>
              </td>
            </tr>
          </table>
          <p style="margin:16px 0 0 0;font-size:12px;color:#6b7280;">
            You're receiving this because you created a profile on <a href="{{.AppURL}}">EduVault</a>.
          </p>
        </td>
      </tr>
    </table>
  </body>
</html>`))
