// Package proctitle names the running process so that ps and top show
// which binary of the deployment it is.
package proctitle

import "strings"

// maxLen is the Linux comm limit without the trailing NUL.
const maxLen = 15

// Title joins app and role as "app:role", cut to maxLen bytes.
func Title(app, role string) string {
	title := strings.TrimSpace(app)
	if role = strings.TrimSpace(role); role != "" {
		title += ":" + role
	}
	if len(title) > maxLen {
		title = title[:maxLen]
	}
	return title
}
