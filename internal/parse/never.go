package parse

// Never is the error type of an outcome that cannot happen. A production
// whose Result has Never as its fail type never fails, and one with Never as
// its fatal type never goes fatal. Code holding a Never value is unreachable.
type Never struct{}

func (Never) Error() string {
	return "parse: impossible outcome"
}

// Unreachable panics. Call it from the branch of a switch over Kind that the
// result's type rules out.
func (Never) Unreachable() {
	panic("parse: reached an outcome declared impossible")
}
