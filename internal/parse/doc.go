/*
Package parse turns the text output of git commands into typed records.

Every function in this package is pure: it takes the captured standard
output of one command and returns records, with no process, filesystem or
clock access. Input is split into lines the same way throughout. A single
trailing newline does not produce an empty last line, and a trailing
carriage return is dropped from each line.

Record enums serialize as small integers so UI code can switch on them:

	ChangeState: Unknown=0 Modified=1 Staged=2 Deleted=3 Added=4
	BranchState: Unknown=0 Default=1 Current=2 Remote=3 All=4

Only AheadBehind can fail; the other parsers are total and map anything
unexpected to an Unknown state or empty fields.
*/
package parse
