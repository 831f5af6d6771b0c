package parse

import "strings"

const remotePrefix = "remotes/"

// Branches parses `git branch -a` output. Symbolic remote HEAD entries
// such as "remotes/origin/HEAD -> origin/main" are dropped.
func Branches(stdout string) []BranchRecord {
	records := []BranchRecord{}
	for _, line := range splitLines(stdout) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		state := BranchDefault
		if strings.HasPrefix(line, "* ") {
			state = BranchCurrent
		}

		name := line
		if len(line) >= 2 {
			name = line[2:]
		}
		if strings.HasPrefix(name, remotePrefix) {
			if isRemoteHead(name) {
				continue
			}
			state = BranchRemote
		}

		records = append(records, BranchRecord{
			BranchName:  name,
			BranchState: state,
		})
	}
	return records
}

func isRemoteHead(name string) bool {
	ref, _, _ := strings.Cut(name, " -> ")
	return strings.HasSuffix(ref, "/HEAD")
}
