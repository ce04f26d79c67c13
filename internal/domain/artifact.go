package domain

// ArtifactRecord describes one exported artifact for the optional index.
type ArtifactRecord struct {
	Code       string
	ArticleID  string
	Number     string
	Path       string
	Digest     string
	Size       int
	Translated bool
}
