package domain

import (
	"errors"
	"testing"
)

func TestRelationParseRoundTrip(t *testing.T) {
	for _, relation := range AllRelations {
		parsed, err := ParseRelation(relation.String())
		if err != nil {
			t.Fatalf("Failed to parse %s: %v", relation, err)
		}
		if parsed != relation {
			t.Errorf("Round trip changed %s into %s", relation, parsed)
		}
	}
}

func TestParseRejectsUnknownTokens(t *testing.T) {
	if _, err := ParseRelation("RELATION_ADMIN"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("Expected ErrInvalidEnum for unknown relation, got %v", err)
	}
	if _, err := ParseRelation(""); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("Expected ErrInvalidEnum for empty relation, got %v", err)
	}
	if _, err := ParseResourceType("RESOURCE_TYPE_FOLDER"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("Expected ErrInvalidEnum for unknown resource type, got %v", err)
	}
	if _, err := ParseSubjectType("SUBJECT_TYPE_GROUP"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("Expected ErrInvalidEnum for unknown subject type, got %v", err)
	}
	if _, err := ParsePermission("PERMISSION_EXECUTE"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("Expected ErrInvalidEnum for unknown permission, got %v", err)
	}
}

func TestRelationGrants(t *testing.T) {
	tests := []struct {
		relation   Relation
		permission Permission
		want       bool
	}{
		{RelationOwner, PermissionRead, true},
		{RelationOwner, PermissionWrite, true},
		{RelationOwner, PermissionDelete, true},
		{RelationOwner, PermissionShare, true},
		{RelationEditor, PermissionRead, true},
		{RelationEditor, PermissionWrite, true},
		{RelationEditor, PermissionDelete, false},
		{RelationEditor, PermissionShare, false},
		{RelationViewer, PermissionRead, true},
		{RelationViewer, PermissionWrite, false},
		{RelationSharer, PermissionRead, true},
		{RelationSharer, PermissionShare, true},
		{RelationSharer, PermissionWrite, false},
		{RelationUnspecified, PermissionRead, false},
	}

	for _, tt := range tests {
		if got := tt.relation.Grants(tt.permission); got != tt.want {
			t.Errorf("%s.Grants(%s) = %v, want %v", tt.relation, tt.permission, got, tt.want)
		}
	}
}

func TestHighestRelation(t *testing.T) {
	if got := HighestRelation(nil); got != RelationUnspecified {
		t.Errorf("Expected unspecified for empty slice, got %s", got)
	}
	if got := HighestRelation([]Relation{RelationViewer, RelationSharer}); got != RelationSharer {
		t.Errorf("Expected sharer to outrank viewer, got %s", got)
	}
	if got := HighestRelation([]Relation{RelationViewer, RelationOwner, RelationEditor}); got != RelationOwner {
		t.Errorf("Expected owner to win, got %s", got)
	}
}

func TestRelationsGranting(t *testing.T) {
	share := RelationsGranting(PermissionShare)
	if len(share) != 2 {
		t.Fatalf("Expected 2 relations granting share, got %v", share)
	}
	read := RelationsGranting(PermissionRead)
	if len(read) != len(AllRelations) {
		t.Errorf("Every relation should grant read, got %v", read)
	}
	del := RelationsGranting(PermissionDelete)
	if len(del) != 1 || del[0] != RelationOwner {
		t.Errorf("Only owner should grant delete, got %v", del)
	}
}
