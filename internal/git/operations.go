package git

import "sort"

// Operation labels
const (
	OpStatus         = "git_status"
	OpDiff           = "git_diff"
	OpDiscardAdds    = "git_discard_changes_adds"
	OpDiscardOthers  = "git_discard_changes_others"
	OpCommit         = "git_commit"
	OpPush           = "git_push"
	OpPull           = "git_pull"
	OpFetch          = "git_fetch"
	OpPullPushCount  = "get_pull_push_count"
	OpLog            = "git_log"
	OpShow           = "git_show"
	OpShowFiles      = "git_show_files"
	OpShowFileDiff   = "git_show_file_diff"
	OpBranch         = "git_branch"
	OpBranchCreate   = "git_branch_create"
	OpBranchDelete   = "git_branch_delete"
	OpBranchCheckout = "git_branch_checkout"
	OpBranchMerge    = "git_branch_merge"
	OpCheckoutHash   = "git_checkout_hash"
)

var resultEvents = map[string]string{
	OpStatus:         "post-git-status-result",
	OpDiff:           "post-git-diff-result",
	OpDiscardAdds:    "post-git-discard-changes-adds-result",
	OpDiscardOthers:  "post-git-discard-changes-others-result",
	OpCommit:         "post-git-commit-result",
	OpPush:           "post-git-push-result",
	OpPull:           "post-git-pull-result",
	OpFetch:          "post-git-fetch-result",
	OpPullPushCount:  "post-get-pull-push-count",
	OpLog:            "post-git-log-result",
	OpShow:           "post-git-show-result",
	OpShowFiles:      "post-git-show-files-result",
	OpShowFileDiff:   "post-git-show-file-diff-result",
	OpBranch:         "post-git-branch-result",
	OpBranchCreate:   "post-git-branch-create-result",
	OpBranchDelete:   "post-git-branch-delete-result",
	OpBranchCheckout: "post-git-branch-checkout-result",
	OpBranchMerge:    "post-git-branch-merge-result",
	OpCheckoutHash:   "post-git-checkout-hash-result",
}

// ResultEvent returns the event name results of op are published under
func ResultEvent(op string) (string, bool) {
	ev, ok := resultEvents[op]
	return ev, ok
}

// IsOperation reports whether op is a known operation label
func IsOperation(op string) bool {
	_, ok := resultEvents[op]
	return ok
}

// Operations returns every operation label, sorted
func Operations() []string {
	ops := make([]string, 0, len(resultEvents))
	for op := range resultEvents {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
