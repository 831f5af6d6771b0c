package parse

import "strings"

// LogFieldSeparator delimits the fields produced by LogFormat
const LogFieldSeparator = "___"

// LogFormat is the --format value whose output Log understands:
// graph, short hash, author, subject, date and decorations.
const LogFormat = "___%h___%an___%s___%ad___%C(auto)%d%C(reset)"

// LogDateFormat is the --date value paired with LogFormat
const LogDateFormat = "format:%Y/%m/%d (%a) %H:%M"

const logFields = 6

// Log parses `git log --graph` output produced with LogFormat. Graph, hash
// and author are read from the left and date and decorations from the
// right, so a subject containing LogFieldSeparator stays intact.
func Log(stdout string) []LogRecord {
	lines := splitLines(stdout)
	records := make([]LogRecord, 0, len(lines))
	for _, line := range lines {
		parts := strings.Split(line, LogFieldSeparator)
		if len(parts) == 1 {
			records = append(records, LogRecord{Graph: parts[0]})
			continue
		}
		for len(parts) < logFields {
			parts = append(parts, "")
		}
		n := len(parts)
		records = append(records, LogRecord{
			Graph:   parts[0],
			Hash:    parts[1],
			Author:  parts[2],
			Message: strings.Join(parts[3:n-2], LogFieldSeparator),
			Date:    parts[n-2],
			Branch:  parts[n-1],
		})
	}
	return records
}
