// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todopro/internal/model"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [x] {TITLE}\n" with "[ ]" for open tasks.
func FormatTask(w io.Writer, num int, task model.Task) {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, box, normalizeTitle(task.Title))
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintf(w, "      %s\n", flatten(desc))
	}
}

// FormatSummary prints the counts line derived from a task list.
func FormatSummary(w io.Writer, tasks []model.Task) {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	fmt.Fprintf(w, "%d tasks, %d completed\n", len(tasks), completed)
}

// FormatSession formats the whoami output.
func FormatSession(w io.Writer, sess model.Session) {
	name := sess.User.Name
	if name == "" {
		name = sess.User.Email
	}
	fmt.Fprintf(w, "%s <%s>\n", name, sess.User.Email)
	fmt.Fprintf(w, "session expires %s\n", sess.ExpiresAt.Format("2006-01-02 15:04"))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
