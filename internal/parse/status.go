package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
)

// Status parses `git status -s -uall` output
func Status(stdout string) []StatusRecord {
	records := []StatusRecord{}
	for _, line := range splitLines(stdout) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) < 2 {
			records = append(records, StatusRecord{ChangeState: ChangeUnknown, Filename: strings.TrimSpace(line)})
			continue
		}
		records = append(records, StatusRecord{
			ChangeState: statusState(line[:2]),
			Filename:    strings.TrimSpace(line[2:]),
		})
	}
	return records
}

func statusState(code string) ChangeState {
	switch code {
	case " M":
		return ChangeModified
	case "M ":
		return ChangeStaged
	case " D":
		return ChangeDeleted
	case "??", " A":
		// " A" only shows up while a diff has an intent-to-add entry staged
		return ChangeAdded
	default:
		return ChangeUnknown
	}
}

var aheadBehindPattern = regexp.MustCompile(`\b(ahead|behind) (\d+)`)

// AheadBehind extracts push and pull counts from `git status -sb` output.
// Only the "## " tracking header is scanned when one is present. Counts
// that are absent are zero; a count that does not fit in 16 bits is a
// parse error.
func AheadBehind(stdout string) (AheadBehindCount, error) {
	scope := stdout
	for _, line := range splitLines(stdout) {
		if strings.HasPrefix(line, "## ") {
			scope = line
			break
		}
	}

	var count AheadBehindCount
	for _, m := range aheadBehindPattern.FindAllStringSubmatch(scope, -1) {
		n, err := strconv.ParseUint(m[2], 10, 16)
		if err != nil {
			return AheadBehindCount{}, errors.NewKind("", errors.KindParse,
				fmt.Sprintf("failed to parse %s count %q", m[1], m[2]), err)
		}
		if m[1] == "ahead" {
			count.PushCount = uint16(n)
		} else {
			count.PullCount = uint16(n)
		}
	}
	return count, nil
}
