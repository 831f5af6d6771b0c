package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   []StatusRecord
	}{
		{
			name:   "empty",
			stdout: "",
			want:   []StatusRecord{},
		},
		{
			name:   "every known code",
			stdout: " M a.go\nM  b.go\n D c.go\n?? d.go\n A e.go\nUU f.go\n",
			want: []StatusRecord{
				{ChangeState: ChangeModified, Filename: "a.go"},
				{ChangeState: ChangeStaged, Filename: "b.go"},
				{ChangeState: ChangeDeleted, Filename: "c.go"},
				{ChangeState: ChangeAdded, Filename: "d.go"},
				{ChangeState: ChangeAdded, Filename: "e.go"},
				{ChangeState: ChangeUnknown, Filename: "f.go"},
			},
		},
		{
			name:   "crlf and blank lines",
			stdout: " M dir/x.txt\r\n\r\n?? y z.txt\r\n",
			want: []StatusRecord{
				{ChangeState: ChangeModified, Filename: "dir/x.txt"},
				{ChangeState: ChangeAdded, Filename: "y z.txt"},
			},
		},
		{
			name:   "short line",
			stdout: "M",
			want: []StatusRecord{
				{ChangeState: ChangeUnknown, Filename: "M"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Status(tt.stdout)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Status() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAheadBehind(t *testing.T) {
	tests := []struct {
		name    string
		stdout  string
		want    AheadBehindCount
		wantErr bool
	}{
		{
			name:   "ahead and behind",
			stdout: "## main...origin/main [ahead 2, behind 5]\n M a.go\n",
			want:   AheadBehindCount{PushCount: 2, PullCount: 5},
		},
		{
			name:   "ahead only",
			stdout: "## main...origin/main [ahead 7]\n",
			want:   AheadBehindCount{PushCount: 7},
		},
		{
			name:   "behind only",
			stdout: "## main...origin/main [behind 1]\n",
			want:   AheadBehindCount{PullCount: 1},
		},
		{
			name:   "in sync",
			stdout: "## main...origin/main\n",
			want:   AheadBehindCount{},
		},
		{
			name:   "file names are not scanned",
			stdout: "## main\n?? ahead 3.txt\n",
			want:   AheadBehindCount{},
		},
		{
			name:   "no header",
			stdout: "[ahead 4]",
			want:   AheadBehindCount{PushCount: 4},
		},
		{
			name:   "max value",
			stdout: "## main...origin/main [ahead 65535]\n",
			want:   AheadBehindCount{PushCount: 65535},
		},
		{
			name:    "overflow",
			stdout:  "## main...origin/main [ahead 70000]\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AheadBehind(tt.stdout)
			if tt.wantErr {
				if !errors.IsParse(err) {
					t.Fatalf("AheadBehind() error = %v, want parse error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AheadBehind() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AheadBehind() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
