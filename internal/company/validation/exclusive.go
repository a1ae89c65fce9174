package validation

// ExclusiveBranch tags which side of an exactly-one-of-two field pair was
// taken. Callers that back-fill the unused side from an external lookup do
// so after validation, outside this engine.
type ExclusiveBranch string

const (
	BranchPrimary   ExclusiveBranch = "primary"
	BranchSecondary ExclusiveBranch = "secondary"
)

// ResolveExclusiveOr implements the reusable "exactly one of A or B
// required" combinator. It is applied uniformly to every such field pair
// (registration authority company vs name, and any future type/industry
// code pairs) instead of being re-implemented per field.
//
// Returns the branch used, or a missing_required_field violation naming the
// pair when neither or both are present.
func ResolveExclusiveOr(field string, primary, secondary string) (ExclusiveBranch, *FieldError) {
	primarySet := primary != ""
	secondarySet := secondary != ""
	switch {
	case primarySet && secondarySet:
		return "", &FieldError{
			Field:   field,
			Code:    CodeMissingRequiredField,
			Message: "exactly one of the two fields must be set, not both",
		}
	case primarySet:
		return BranchPrimary, nil
	case secondarySet:
		return BranchSecondary, nil
	default:
		return "", &FieldError{
			Field:   field,
			Code:    CodeMissingRequiredField,
			Message: "exactly one of the two fields must be set",
		}
	}
}
