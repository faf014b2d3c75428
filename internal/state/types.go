package state

import "time"

// CycleStatus represents where a modification cycle is in its lifecycle.
type CycleStatus string

const (
	CyclePending    CycleStatus = "pending"
	CycleInProgress CycleStatus = "in_progress"
	CycleCompleted  CycleStatus = "completed"
)

// WorkflowStatus represents the overall project workflow state.
type WorkflowStatus string

const (
	WorkflowActive    WorkflowStatus = "active"
	WorkflowCompleted WorkflowStatus = "completed"
)

// TrackingArtifact holds the external issue/pull-request pair associated
// with a modification cycle. A zero IssueNumber or PRNumber means the
// corresponding external object was never created (degraded mode).
type TrackingArtifact struct {
	IssueNumber int       `json:"issue_number"`
	BranchName  string    `json:"branch_name"`
	PRNumber    int       `json:"pr_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ModificationCycle is one feedback-driven fix iteration.
//
// Feedback, Category, PhasesToRerun and Iteration are fixed at creation;
// Status and Tracking are updated as the cycle advances.
type ModificationCycle struct {
	ID            string            `json:"id"`
	Feedback      string            `json:"feedback"`
	Category      string            `json:"category"`
	PhasesToRerun []int             `json:"phases_to_rerun"`
	Labels        []string          `json:"labels,omitempty"`
	Iteration     int               `json:"iteration"`
	Status        CycleStatus       `json:"status"`
	Tracking      *TrackingArtifact `json:"tracking,omitempty"`
	RequestedAt   time.Time         `json:"requested_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
}

// Active reports whether the cycle still needs work.
func (c *ModificationCycle) Active() bool {
	return c.Status == CyclePending || c.Status == CycleInProgress
}

// Portfolio holds the publishing metadata produced by the publish phase.
type Portfolio struct {
	AppName string `json:"app_name,omitempty"`
	AppURL  string `json:"app_url,omitempty"`
}

// State is the on-disk workflow state for one project.
type State struct {
	Version       string              `json:"version"`
	ProjectName   string              `json:"project_name"`
	AppName       string              `json:"app_name,omitempty"`
	Status        WorkflowStatus      `json:"status"`
	Portfolio     Portfolio           `json:"portfolio"`
	Modifications []ModificationCycle `json:"modifications"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
