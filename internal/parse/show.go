package parse

import "strings"

// ShowFormat is the --pretty value whose output Show understands
const ShowFormat = "format:%H%n%an%n%ad%n%B"

// Show parses `git show --no-patch` output produced with ShowFormat. The
// first three lines are hash, author and date; everything after is the
// message.
func Show(stdout string) ShowRecord {
	lines := splitLines(stdout)
	at := func(i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}

	rec := ShowRecord{
		Hash:   at(0),
		Author: at(1),
		Date:   at(2),
	}
	if len(lines) > 3 {
		rec.Message = strings.Join(lines[3:], "\n")
	}
	return rec
}

// ShowFiles parses `git show --name-status` output
func ShowFiles(stdout string) []StatusRecord {
	records := []StatusRecord{}
	for _, line := range splitLines(stdout) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var filename string
		if i := strings.IndexByte(line, '\t'); i >= 0 {
			filename = line[i+1:]
		} else if len(line) > 1 {
			filename = line[1:]
		}

		state := ChangeUnknown
		switch line[0] {
		case 'M':
			state = ChangeModified
		case 'D':
			state = ChangeDeleted
		case 'A':
			state = ChangeAdded
		}
		records = append(records, StatusRecord{
			ChangeState: state,
			Filename:    strings.TrimSpace(filename),
		})
	}
	return records
}
