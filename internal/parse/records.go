package parse

import "strings"

// ChangeState classifies a changed file
type ChangeState uint8

const (
	ChangeUnknown ChangeState = iota
	ChangeModified
	ChangeStaged
	ChangeDeleted
	ChangeAdded
)

// BranchState classifies a branch entry
type BranchState uint8

const (
	BranchUnknown BranchState = iota
	BranchDefault
	BranchCurrent
	BranchRemote
	BranchAll
)

// StatusRecord is one changed file. ShowFiles reuses it for the files of a
// commit.
type StatusRecord struct {
	ChangeState ChangeState `json:"change_state"`
	Filename    string      `json:"filename"`
}

// AheadBehindCount holds the commits to push and to pull
type AheadBehindCount struct {
	PushCount uint16 `json:"push_count"`
	PullCount uint16 `json:"pull_count"`
}

// LogRecord is one line of graph log output. Graph-only continuation lines
// leave every field except Graph empty.
type LogRecord struct {
	Graph   string `json:"graph"`
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Branch  string `json:"branch"`
}

// ShowRecord describes one commit
type ShowRecord struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// BranchRecord is one entry of the branch list
type BranchRecord struct {
	BranchName  string      `json:"branch_name"`
	BranchState BranchState `json:"branch_state"`
}

// splitLines splits text into lines, dropping one trailing newline and a
// trailing carriage return on each line
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
