package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLog(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   []LogRecord
	}{
		{
			name:   "empty",
			stdout: "",
			want:   []LogRecord{},
		},
		{
			name: "commits and graph lines",
			stdout: "* ___abc1234___Alice___Fix bug___2024/01/02 (Tue) 10:00___ (HEAD -> main)\n" +
				"|\\  \n" +
				"| * ___def5678___Bob___Add feature___2024/01/01 (Mon) 09:30___\n",
			want: []LogRecord{
				{Graph: "* ", Hash: "abc1234", Author: "Alice", Message: "Fix bug", Date: "2024/01/02 (Tue) 10:00", Branch: " (HEAD -> main)"},
				{Graph: "|\\  "},
				{Graph: "| * ", Hash: "def5678", Author: "Bob", Message: "Add feature", Date: "2024/01/01 (Mon) 09:30"},
			},
		},
		{
			name:   "too few fields",
			stdout: "* ___abc___Alice",
			want: []LogRecord{
				{Graph: "* ", Hash: "abc", Author: "Alice"},
			},
		},
		{
			name:   "separator in subject",
			stdout: "* ___abc1234___Alice___rename foo___bar to baz___2024/01/02 (Tue) 10:00___ (HEAD -> main)",
			want: []LogRecord{
				{Graph: "* ", Hash: "abc1234", Author: "Alice", Message: "rename foo___bar to baz", Date: "2024/01/02 (Tue) 10:00", Branch: " (HEAD -> main)"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Log(tt.stdout)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Log() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
