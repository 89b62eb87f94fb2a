package matchspec

// Candidate is the package descriptor a MatchSpec is evaluated against:
// the name/version/build triple of one concrete artifact. Candidates are
// supplied by the caller per match attempt and never retained.
type Candidate struct {
	Name    string
	Version string
	Build   string
}
