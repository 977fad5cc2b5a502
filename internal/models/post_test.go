package models

import "testing"

func TestPostStatusValid(t *testing.T) {
	for _, s := range []PostStatus{PostStatusDraft, PostStatusForApproval, PostStatusPublished} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if PostStatus("Archived").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestPostStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to PostStatus
		want     bool
	}{
		{PostStatusDraft, PostStatusForApproval, true},
		{PostStatusForApproval, PostStatusPublished, true},
		{PostStatusForApproval, PostStatusDraft, true}, // reject
		{PostStatusDraft, PostStatusPublished, false},
		{PostStatusPublished, PostStatusDraft, false},
		{PostStatusPublished, PostStatusForApproval, false},
		{PostStatusDraft, PostStatusDraft, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%q → %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPostIsPublished(t *testing.T) {
	p := &Post{Status: PostStatusDraft}
	if p.IsPublished() {
		t.Error("draft post should not report published")
	}
	p.Status = PostStatusPublished
	if !p.IsPublished() {
		t.Error("published post should report published")
	}
}
