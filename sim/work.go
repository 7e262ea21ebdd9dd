package sim

import "fmt"

// PRState is the lifecycle state of a pull request.
//
// Transitions are monotonic along open → in_review → approved → {merged | abandoned};
// merged → reverted is the only backward-looking transition. PRs are never
// deleted, only state-transitioned, so the work-item collection supports
// post-hoc auditing.
type PRState string

const (
	PRStateOpen      PRState = "open"
	PRStateInReview  PRState = "in_review"
	PRStateApproved  PRState = "approved"
	PRStateMerged    PRState = "merged"
	PRStateReverted  PRState = "reverted"
	PRStateAbandoned PRState = "abandoned"
)

// PullRequest is the atomic unit of delivered work.
type PullRequest struct {
	ID         string
	AuthorID   string
	AuthorKind AgentKind
	CreatedAt  int

	State PRState

	// Review process
	Reviewers         []string
	Approvals         []string
	RequiredApprovals int

	// Lifecycle timestamps (day numbers; -1 = not reached)
	MergedAt    int
	RevertedAt  int
	AbandonedAt int

	// WillSucceed is the latent success outcome, sampled once at creation
	// from the author's effective quality. Fixed thereafter and only revealed
	// at merge/revert resolution: latent defects, not last-minute flakiness.
	WillSucceed bool
}

// NewPullRequest creates an open PR authored by the given agent.
func NewPullRequest(id, authorID string, authorKind AgentKind, day int, willSucceed bool, requiredApprovals int) *PullRequest {
	if requiredApprovals < 1 {
		requiredApprovals = 1
	}
	return &PullRequest{
		ID:                id,
		AuthorID:          authorID,
		AuthorKind:        authorKind,
		CreatedAt:         day,
		State:             PRStateOpen,
		RequiredApprovals: requiredApprovals,
		MergedAt:          -1,
		RevertedAt:        -1,
		AbandonedAt:       -1,
	}
}

// AssignReviewer records a reviewer on the PR and moves it into review.
// A PR cannot be reviewed by its own author.
func (pr *PullRequest) AssignReviewer(reviewerID string) error {
	if reviewerID == pr.AuthorID {
		return fmt.Errorf("%w: agent %s cannot review its own PR %s", ErrState, reviewerID, pr.ID)
	}
	if pr.State != PRStateOpen && pr.State != PRStateInReview {
		return fmt.Errorf("%w: cannot assign reviewer to PR %s in state %s", ErrState, pr.ID, pr.State)
	}
	for _, id := range pr.Reviewers {
		if id == reviewerID {
			return fmt.Errorf("%w: agent %s already reviews PR %s", ErrState, reviewerID, pr.ID)
		}
	}
	pr.Reviewers = append(pr.Reviewers, reviewerID)
	pr.State = PRStateInReview
	return nil
}

// AddApproval records an approval; once the threshold is met the PR moves
// to approved.
func (pr *PullRequest) AddApproval(reviewerID string) error {
	if pr.State != PRStateInReview && pr.State != PRStateOpen {
		return fmt.Errorf("%w: cannot approve PR %s in state %s", ErrState, pr.ID, pr.State)
	}
	for _, id := range pr.Approvals {
		if id == reviewerID {
			return nil
		}
	}
	pr.Approvals = append(pr.Approvals, reviewerID)
	if len(pr.Approvals) >= pr.RequiredApprovals {
		pr.State = PRStateApproved
	}
	return nil
}

// Merge transitions an approved PR to merged.
func (pr *PullRequest) Merge(day int) error {
	if pr.State != PRStateApproved {
		return fmt.Errorf("%w: cannot merge PR %s in state %s", ErrState, pr.ID, pr.State)
	}
	pr.State = PRStateMerged
	pr.MergedAt = day
	return nil
}

// Revert transitions a merged PR to reverted. This is the only transition
// that looks backward in the lifecycle.
func (pr *PullRequest) Revert(day int) error {
	if pr.State != PRStateMerged {
		return fmt.Errorf("%w: cannot revert PR %s in state %s", ErrState, pr.ID, pr.State)
	}
	pr.State = PRStateReverted
	pr.RevertedAt = day
	return nil
}

// Abandon closes the PR without merging.
func (pr *PullRequest) Abandon(day int) error {
	switch pr.State {
	case PRStateOpen, PRStateInReview, PRStateApproved:
		pr.State = PRStateAbandoned
		pr.AbandonedAt = day
		return nil
	}
	return fmt.Errorf("%w: cannot abandon PR %s in state %s", ErrState, pr.ID, pr.State)
}

// WasMerged reports whether the PR reached merged, including later reverts.
func (pr *PullRequest) WasMerged() bool {
	return pr.MergedAt >= 0
}

// CycleTime returns merge day minus creation day. The second return value is
// false for unmerged PRs.
func (pr *PullRequest) CycleTime() (int, bool) {
	if pr.MergedAt < 0 {
		return 0, false
	}
	return pr.MergedAt - pr.CreatedAt, true
}

// CodeReview is one reviewer's pass over a PR.
type CodeReview struct {
	ID         string
	PRID       string
	ReviewerID string
	AssignedAt int

	Completed   bool
	CompletedAt int

	// Approved is the reviewer's verdict, meaningful once Completed.
	Approved bool

	// TimeInvested is the human hours spent, inflated by the author's
	// supervision requirement for AI-authored PRs.
	TimeInvested float64
}

// NewCodeReview creates a pending review of the given PR.
func NewCodeReview(id string, pr *PullRequest, reviewerID string, day int, timeInvested float64) *CodeReview {
	return &CodeReview{
		ID:           id,
		PRID:         pr.ID,
		ReviewerID:   reviewerID,
		AssignedAt:   day,
		CompletedAt:  -1,
		TimeInvested: timeInvested,
	}
}

// Complete marks the review finished with the given verdict.
func (r *CodeReview) Complete(day int, approved bool) error {
	if r.Completed {
		return fmt.Errorf("%w: review %s already completed", ErrState, r.ID)
	}
	r.Completed = true
	r.CompletedAt = day
	r.Approved = approved
	return nil
}
