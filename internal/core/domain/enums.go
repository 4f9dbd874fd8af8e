package domain

import "fmt"

// ResourceType identifies the kind of resource a permission tuple
// protects. The enum is closed: unknown wire tokens are rejected.
type ResourceType int

const (
	ResourceTypeUnspecified ResourceType = iota
	ResourceTypeBookmark
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeBookmark:
		return "RESOURCE_TYPE_BOOKMARK"
	default:
		return "RESOURCE_TYPE_UNSPECIFIED"
	}
}

func ParseResourceType(s string) (ResourceType, error) {
	switch s {
	case "RESOURCE_TYPE_BOOKMARK":
		return ResourceTypeBookmark, nil
	default:
		return ResourceTypeUnspecified, fmt.Errorf("%w: resource type %q", ErrInvalidEnum, s)
	}
}

// Relation is the role a subject holds on a resource.
type Relation int

const (
	RelationUnspecified Relation = iota
	RelationOwner
	RelationEditor
	RelationViewer
	RelationSharer
)

// AllRelations lists every concrete relation.
var AllRelations = []Relation{RelationOwner, RelationEditor, RelationViewer, RelationSharer}

func (r Relation) String() string {
	switch r {
	case RelationOwner:
		return "RELATION_OWNER"
	case RelationEditor:
		return "RELATION_EDITOR"
	case RelationViewer:
		return "RELATION_VIEWER"
	case RelationSharer:
		return "RELATION_SHARER"
	default:
		return "RELATION_UNSPECIFIED"
	}
}

func ParseRelation(s string) (Relation, error) {
	switch s {
	case "RELATION_OWNER":
		return RelationOwner, nil
	case "RELATION_EDITOR":
		return RelationEditor, nil
	case "RELATION_VIEWER":
		return RelationViewer, nil
	case "RELATION_SHARER":
		return RelationSharer, nil
	default:
		return RelationUnspecified, fmt.Errorf("%w: relation %q", ErrInvalidEnum, s)
	}
}

// Permissions returns the permission set the relation carries.
func (r Relation) Permissions() []Permission {
	switch r {
	case RelationOwner:
		return []Permission{PermissionRead, PermissionWrite, PermissionDelete, PermissionShare}
	case RelationEditor:
		return []Permission{PermissionRead, PermissionWrite}
	case RelationViewer:
		return []Permission{PermissionRead}
	case RelationSharer:
		return []Permission{PermissionRead, PermissionShare}
	default:
		return nil
	}
}

// Grants reports whether the relation carries the permission.
func (r Relation) Grants(p Permission) bool {
	for _, held := range r.Permissions() {
		if held == p {
			return true
		}
	}
	return false
}

// Priority orders relations by strength. Owner outranks editor, editor
// outranks sharer, sharer outranks viewer.
func (r Relation) Priority() int {
	switch r {
	case RelationOwner:
		return 4
	case RelationEditor:
		return 3
	case RelationSharer:
		return 2
	case RelationViewer:
		return 1
	default:
		return 0
	}
}

// HighestRelation returns the strongest relation in the slice, or
// RelationUnspecified when the slice is empty.
func HighestRelation(relations []Relation) Relation {
	highest := RelationUnspecified
	for _, r := range relations {
		if r.Priority() > highest.Priority() {
			highest = r
		}
	}
	return highest
}

// RelationsGranting returns every relation that carries the permission.
func RelationsGranting(p Permission) []Relation {
	var out []Relation
	for _, r := range AllRelations {
		if r.Grants(p) {
			out = append(out, r)
		}
	}
	return out
}

// SubjectType identifies what kind of principal a tuple's subject is.
type SubjectType int

const (
	SubjectTypeUnspecified SubjectType = iota
	SubjectTypeUser
	SubjectTypeRole
	SubjectTypeTenant
)

func (t SubjectType) String() string {
	switch t {
	case SubjectTypeUser:
		return "SUBJECT_TYPE_USER"
	case SubjectTypeRole:
		return "SUBJECT_TYPE_ROLE"
	case SubjectTypeTenant:
		return "SUBJECT_TYPE_TENANT"
	default:
		return "SUBJECT_TYPE_UNSPECIFIED"
	}
}

func ParseSubjectType(s string) (SubjectType, error) {
	switch s {
	case "SUBJECT_TYPE_USER":
		return SubjectTypeUser, nil
	case "SUBJECT_TYPE_ROLE":
		return SubjectTypeRole, nil
	case "SUBJECT_TYPE_TENANT":
		return SubjectTypeTenant, nil
	default:
		return SubjectTypeUnspecified, fmt.Errorf("%w: subject type %q", ErrInvalidEnum, s)
	}
}

// Permission is a concrete action a caller may perform on a resource.
type Permission int

const (
	PermissionUnspecified Permission = iota
	PermissionRead
	PermissionWrite
	PermissionDelete
	PermissionShare
)

// AllPermissions lists every concrete permission in stable order.
var AllPermissions = []Permission{PermissionRead, PermissionWrite, PermissionDelete, PermissionShare}

func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "PERMISSION_READ"
	case PermissionWrite:
		return "PERMISSION_WRITE"
	case PermissionDelete:
		return "PERMISSION_DELETE"
	case PermissionShare:
		return "PERMISSION_SHARE"
	default:
		return "PERMISSION_UNSPECIFIED"
	}
}

func ParsePermission(s string) (Permission, error) {
	switch s {
	case "PERMISSION_READ":
		return PermissionRead, nil
	case "PERMISSION_WRITE":
		return PermissionWrite, nil
	case "PERMISSION_DELETE":
		return PermissionDelete, nil
	case "PERMISSION_SHARE":
		return PermissionShare, nil
	default:
		return PermissionUnspecified, fmt.Errorf("%w: permission %q", ErrInvalidEnum, s)
	}
}
