// Package export renders todo lists as downloadable files.
package export

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/suteetoe/honeydew/internal/service"
)

const (
	CSVContentType  = "text/csv"
	CSVFileName     = "todos.csv"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	XLSXFileName    = "todos.xlsx"
)

// Columns is the header row shared by every format.
var Columns = []string{"Id", "Title", "Notes", "IsDone", "CompletedAt", "DueDate", "AssignedToUserId", "CreatedAt"}

// CSV writes one line per todo. Title is always quoted, notes are quoted when
// present, and absent optional values are empty.
func CSV(todos []service.TodoDTO) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(Columns, ","))
	buf.WriteByte('\n')

	for _, t := range todos {
		fields := []string{
			t.ID.String(),
			quote(t.Title),
			"",
			strconv.FormatBool(t.IsDone),
			formatTime(t.CompletedAt),
			formatTime(t.DueDate),
			"",
			formatTime(&t.CreatedAt),
		}
		if t.Notes != nil {
			fields[2] = quote(*t.Notes)
		}
		if t.AssignedToUserID != nil {
			fields[6] = t.AssignedToUserID.String()
		}
		buf.WriteString(strings.Join(fields, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
