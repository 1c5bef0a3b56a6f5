package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sharein/backend/internal/models"
)

var shareTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>File Shared With You</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .container { background-color: #f9f9f9; border-radius: 8px; padding: 25px; }
    h1 { color: #2c3e50; font-size: 24px; margin: 0; text-align: center; }
    .file-info { background-color: #ffffff; border-radius: 6px; padding: 15px; margin: 20px 0; border-left: 4px solid #3498db; }
    .file-name { font-weight: bold; margin-bottom: 5px; }
    .user-info { color: #666; font-style: italic; margin-bottom: 20px; }
    .button { display: inline-block; background-color: #3498db; color: white; text-decoration: none; padding: 12px 24px; border-radius: 4px; font-weight: bold; }
    .footer { margin-top: 30px; font-size: 12px; color: #999; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <h1>File Shared With You</h1>
    <p>Hello,</p>
    <p><strong>{{.SharerName}}</strong> has shared a file with you on ShareIn.</p>
    <div class="file-info">
      <div class="file-name">{{.FileName}}</div>
      <div class="file-type">Type: {{.FileType}}</div>
    </div>
    <div class="user-info">Shared by: {{.SharerName}} ({{.SharerEmail}})</div>
    <p>You can access this file by clicking the button below:</p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.ShareURL}}" class="button">Open File</a>
    </div>
    <p>If the button doesn't work, you can copy and paste this link into your browser:</p>
    <p style="word-break: break-all;"><a href="{{.ShareURL}}">{{.ShareURL}}</a></p>
    <div class="footer">
      <p>This is an automated email from ShareIn. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>
`))

// RenderShareEmail produces the HTML body and its plain-text alternative for
// a share notification.
func RenderShareEmail(sharer *models.User, file *models.File, shareURL string) (string, string, error) {
	data := struct {
		SharerName  string
		SharerEmail string
		FileName    string
		FileType    models.FileType
		ShareURL    string
	}{
		SharerName:  sharer.DisplayName(),
		SharerEmail: sharer.Email,
		FileName:    file.Name,
		FileType:    file.Type,
		ShareURL:    shareURL,
	}

	var buf bytes.Buffer
	if err := shareTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}

	text := fmt.Sprintf(`Hello,

%s has shared a file with you on ShareIn.

File: %s
Type: %s
Shared by: %s (%s)

You can access this file by visiting: %s

This is an automated email from ShareIn. Please do not reply to this email.
`, data.SharerName, data.FileName, data.FileType, data.SharerName, data.SharerEmail, data.ShareURL)

	return buf.String(), text, nil
}
