package out

// Artifact is a scoped secret file owned by whoever holds it.
type Artifact interface {
	// Path returns the absolute location of the file.
	Path() string

	// Release deletes the file. It is safe to call more than once; only the
	// first call touches the filesystem.
	Release() error
}

// SecretFileWriter materializes secret content into a private file.
type SecretFileWriter interface {
	// Write creates a new owner-only file holding content. On failure no file
	// is left behind.
	Write(content string) (Artifact, error)
}
