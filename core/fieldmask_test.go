package core

import (
	"testing"
)

func TestParseFieldMask(t *testing.T) {
	tests := []struct {
		name    string
		mask    string
		want    []string
		wantErr bool
	}{
		{name: "single path", mask: "title", want: []string{"title"}},
		{name: "multiple paths", mask: "title,state,dueDate", want: []string{"title", "state", "dueDate"}},
		{name: "whitespace trimmed", mask: " title , state ", want: []string{"title", "state"}},
		{name: "empty mask", mask: "", wantErr: true},
		{name: "only commas", mask: ",,,", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFieldMask(tt.mask)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFieldMask() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for _, p := range tt.want {
				if !got.Has(p) {
					t.Errorf("Has(%q) = false, want true", p)
				}
			}
		})
	}
}

func TestFieldMask_SubsetOf(t *testing.T) {
	mask, err := ParseFieldMask("title,state")
	if err != nil {
		t.Fatalf("ParseFieldMask() failed: %v", err)
	}

	if !mask.SubsetOf("title", "state", "dueDate") {
		t.Error("SubsetOf() = false, want true")
	}
	if mask.SubsetOf("title") {
		t.Error("SubsetOf() = true, want false")
	}
}

func TestFieldMask_Intersects(t *testing.T) {
	mask, err := ParseFieldMask("draftGrade")
	if err != nil {
		t.Fatalf("ParseFieldMask() failed: %v", err)
	}

	if !mask.Intersects("draftGrade", "assignedGrade") {
		t.Error("Intersects() = false, want true")
	}
	if mask.Intersects("shortAnswerSubmission.answer", "multipleChoiceSubmission.answer") {
		t.Error("Intersects() = true, want false")
	}
}
