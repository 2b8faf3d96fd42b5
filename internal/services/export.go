package services

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

var exportHeader = []string{
	"Submitted At", "Name", "Email", "Age",
	"Languages", "PC Type", "PC Maker", "Comment",
}

// ExportCSV renders stored responses (given newest first) as a CSV byte
// stream with a UTF-8 byte-order mark so spreadsheet tools pick up the
// encoding. Quoting is intentionally minimal: a field containing a
// newline is wrapped in double quotes, and the comment field is also
// wrapped when it contains a comma. Embedded double quotes are not
// doubled; consumers of this export rely on the historical format.
func ExportCSV(rows []*SurveyResponse) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("\uFEFF")
	writeRow(buf, exportHeader, -1)
	for _, r := range rows {
		rec := []string{
			r.CreatedAt.Format(time.RFC3339),
			r.Name,
			r.Email,
			strconv.Itoa(r.Age),
			r.Languages,
			r.PCType,
			r.PCMaker,
			r.Comment,
		}
		writeRow(buf, rec, len(rec)-1)
	}
	return buf.Bytes()
}

// writeRow writes one CSV record. commentIdx marks the field that also
// gets quoted on embedded commas, or -1 for none.
func writeRow(buf *bytes.Buffer, fields []string, commentIdx int) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		quote := strings.Contains(f, "\n")
		if i == commentIdx && strings.Contains(f, ",") {
			quote = true
		}
		if quote {
			buf.WriteByte('"')
			buf.WriteString(f)
			buf.WriteByte('"')
		} else {
			buf.WriteString(f)
		}
	}
	buf.WriteString("\r\n")
}
