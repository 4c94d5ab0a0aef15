package retention

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sweepworks/pagesweep/pkg/deploy"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return baseTime.AddDate(0, 0, -n)
}

func preview(id, branch string, created time.Time) deploy.Deployment {
	return deploy.New(id, deploy.EnvironmentPreview, created, deploy.WithBranch(branch))
}

func production(id string, created time.Time) deploy.Deployment {
	return deploy.New(id, deploy.EnvironmentProduction, created)
}

type decisionRow struct {
	ID     string
	Action Action
	Reason Reason
}

func rows(decisions []Decision) []decisionRow {
	out := make([]decisionRow, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, decisionRow{ID: d.ID(), Action: d.Action, Reason: d.Reason})
	}
	return out
}

// TestClassify_Scenarios covers the reference retention scenarios.
func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		snap   deploy.Snapshot
		policy Policy
		want   []decisionRow
	}{
		{
			name: "keep newest preview per branch",
			snap: deploy.Snapshot{
				Branches: deploy.NewBranchSet("main", "feature-1"),
				Deployments: []deploy.Deployment{
					preview("p3", "feature-1", daysAgo(3)),
					preview("p2", "feature-1", daysAgo(2)),
					preview("p1", "feature-1", daysAgo(1)),
				},
			},
			policy: Policy{Mode: ModePreview, PreviewKeep: 1},
			want: []decisionRow{
				{"p1", ActionKeep, ReasonWithinRetention},
				{"p2", ActionDelete, ReasonRetentionLimitExceeded},
				{"p3", ActionDelete, ReasonRetentionLimitExceeded},
			},
		},
		{
			name: "deleted branch removes preview regardless of keep",
			snap: deploy.Snapshot{
				Branches: deploy.NewBranchSet("main"),
				Deployments: []deploy.Deployment{
					preview("p1", "feature-1", daysAgo(1)),
				},
			},
			policy: Policy{Mode: ModePreview, PreviewKeep: 10},
			want: []decisionRow{
				{"p1", ActionDelete, ReasonBranchDeleted},
			},
		},
		{
			name: "keep two newest production deployments",
			snap: deploy.Snapshot{
				Branches: deploy.NewBranchSet("main"),
				Deployments: []deploy.Deployment{
					production("d5", daysAgo(5)),
					production("d1", daysAgo(1)),
					production("d3", daysAgo(3)),
					production("d2", daysAgo(2)),
					production("d4", daysAgo(4)),
				},
			},
			policy: Policy{Mode: ModeProduction, ProductionKeep: 2},
			want: []decisionRow{
				{"d1", ActionKeep, ReasonWithinRetention},
				{"d2", ActionKeep, ReasonWithinRetention},
				{"d3", ActionDelete, ReasonRetentionLimitExceeded},
				{"d4", ActionDelete, ReasonRetentionLimitExceeded},
				{"d5", ActionDelete, ReasonRetentionLimitExceeded},
			},
		},
		{
			name: "preview mode ignores production deployments",
			snap: deploy.Snapshot{
				Branches: deploy.NewBranchSet("main", "feature-1"),
				Deployments: []deploy.Deployment{
					production("d1", daysAgo(1)),
					preview("p1", "feature-1", daysAgo(1)),
					production("d2", daysAgo(2)),
				},
			},
			policy: Policy{Mode: ModePreview, PreviewKeep: 1},
			want: []decisionRow{
				{"p1", ActionKeep, ReasonWithinRetention},
			},
		},
		{
			name: "production mode ignores previews",
			snap: deploy.Snapshot{
				Branches: deploy.NewBranchSet("main"),
				Deployments: []deploy.Deployment{
					preview("p1", "gone", daysAgo(1)),
					production("d1", daysAgo(1)),
				},
			},
			policy: Policy{Mode: ModeProduction, ProductionKeep: 1},
			want: []decisionRow{
				{"d1", ActionKeep, ReasonWithinRetention},
			},
		},
		{
			name: "zero keep deletes the whole group",
			snap: deploy.Snapshot{
				Branches: deploy.NewBranchSet("feature-1"),
				Deployments: []deploy.Deployment{
					preview("p1", "feature-1", daysAgo(1)),
					preview("p2", "feature-1", daysAgo(2)),
					production("d1", daysAgo(1)),
				},
			},
			policy: Policy{Mode: ModeAll, PreviewKeep: 0, ProductionKeep: 0},
			want: []decisionRow{
				{"p1", ActionDelete, ReasonRetentionLimitExceeded},
				{"p2", ActionDelete, ReasonRetentionLimitExceeded},
				{"d1", ActionDelete, ReasonRetentionLimitExceeded},
			},
		},
		{
			name: "orphans first then groups in order of first appearance",
			snap: deploy.Snapshot{
				Branches: deploy.NewBranchSet("b", "a"),
				Deployments: []deploy.Deployment{
					preview("b1", "b", daysAgo(1)),
					preview("x1", "removed", daysAgo(1)),
					preview("a1", "a", daysAgo(1)),
					preview("b2", "b", daysAgo(2)),
					preview("x2", "removed", daysAgo(9)),
				},
			},
			policy: Policy{Mode: ModePreview, PreviewKeep: 1},
			want: []decisionRow{
				{"x1", ActionDelete, ReasonBranchDeleted},
				{"x2", ActionDelete, ReasonBranchDeleted},
				{"b1", ActionKeep, ReasonWithinRetention},
				{"b2", ActionDelete, ReasonRetentionLimitExceeded},
				{"a1", ActionKeep, ReasonWithinRetention},
			},
		},
		{
			name: "previews without branch are kept and not counted",
			snap: deploy.Snapshot{
				Branches: deploy.NewBranchSet("feature-1"),
				Deployments: []deploy.Deployment{
					deploy.New("n1", deploy.EnvironmentPreview, daysAgo(0)),
					preview("p1", "feature-1", daysAgo(1)),
					preview("p2", "feature-1", daysAgo(2)),
				},
			},
			policy: Policy{Mode: ModePreview, PreviewKeep: 1},
			want: []decisionRow{
				{"p1", ActionKeep, ReasonWithinRetention},
				{"p2", ActionDelete, ReasonRetentionLimitExceeded},
				{"n1", ActionKeep, ReasonNoBranch},
			},
		},
		{
			name: "ties keep original order",
			snap: deploy.Snapshot{
				Deployments: []deploy.Deployment{
					production("first", daysAgo(1)),
					production("second", daysAgo(1)),
					production("third", daysAgo(1)),
				},
			},
			policy: Policy{Mode: ModeProduction, ProductionKeep: 1},
			want: []decisionRow{
				{"first", ActionKeep, ReasonWithinRetention},
				{"second", ActionDelete, ReasonRetentionLimitExceeded},
				{"third", ActionDelete, ReasonRetentionLimitExceeded},
			},
		},
		{
			name: "unknown environments are never classified",
			snap: deploy.Snapshot{
				Deployments: []deploy.Deployment{
					deploy.New("s1", deploy.Environment("staging"), daysAgo(1)),
				},
			},
			policy: Policy{Mode: ModeAll, PreviewKeep: 0, ProductionKeep: 0},
			want:   []decisionRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rows(Classify(tt.snap, tt.policy))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestClassify_DoesNotMutateSnapshot verifies the snapshot order survives sorting.
func TestClassify_DoesNotMutateSnapshot(t *testing.T) {
	snap := deploy.Snapshot{
		Deployments: []deploy.Deployment{
			production("old", daysAgo(3)),
			production("new", daysAgo(1)),
		},
	}

	_ = Classify(snap, Policy{Mode: ModeProduction, ProductionKeep: 1})

	if snap.Deployments[0].ID != "old" || snap.Deployments[1].ID != "new" {
		t.Errorf("snapshot order changed: %s, %s", snap.Deployments[0].ID, snap.Deployments[1].ID)
	}
}

// TestClassify_RepeatedIDs verifies a deployment listed twice is classified
// once and the newest of its group survives.
func TestClassify_RepeatedIDs(t *testing.T) {
	snap := deploy.Snapshot{
		Branches: deploy.NewBranchSet("feature-1"),
		Deployments: []deploy.Deployment{
			preview("dep-a", "feature-1", daysAgo(1)),
			preview("dep-a", "feature-1", daysAgo(1)),
			preview("dep-b", "feature-1", daysAgo(2)),
			production("prod-1", daysAgo(1)),
			production("prod-1", daysAgo(1)),
		},
	}

	got := rows(Classify(snap, Policy{Mode: ModeAll, PreviewKeep: 1, ProductionKeep: 1}))
	want := []decisionRow{
		{"dep-a", ActionKeep, ReasonWithinRetention},
		{"dep-b", ActionDelete, ReasonRetentionLimitExceeded},
		{"prod-1", ActionKeep, ReasonWithinRetention},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
	if len(snap.Deployments) != 5 {
		t.Errorf("snapshot was modified: %d deployments", len(snap.Deployments))
	}
}

// TestClassify_IgnoresSimulate verifies decisions do not depend on simulation.
func TestClassify_IgnoresSimulate(t *testing.T) {
	snap := deploy.Snapshot{
		Branches: deploy.NewBranchSet("feature-1"),
		Deployments: []deploy.Deployment{
			preview("p1", "feature-1", daysAgo(1)),
			preview("p2", "feature-1", daysAgo(2)),
			preview("x1", "gone", daysAgo(2)),
		},
	}
	policy := Policy{Mode: ModePreview, PreviewKeep: 1}
	simulated := policy
	simulated.Simulate = true

	if diff := cmp.Diff(rows(Classify(snap, policy)), rows(Classify(snap, simulated))); diff != "" {
		t.Errorf("simulate changed decisions (-real +simulated):\n%s", diff)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"preview", ModePreview, false},
		{"production", ModeProduction, false},
		{"all", ModeAll, false},
		{"  ALL ", ModeAll, false},
		{"Preview", ModePreview, false},
		{"both", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"default", DefaultPolicy(), false},
		{"zero keeps", Policy{Mode: ModeAll}, false},
		{"missing mode", Policy{PreviewKeep: 1}, true},
		{"negative preview keep", Policy{Mode: ModePreview, PreviewKeep: -1}, true},
		{"negative production keep", Policy{Mode: ModeAll, ProductionKeep: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
