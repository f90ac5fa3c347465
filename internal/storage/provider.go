// Package storage keeps uploaded contact photos on disk.
package storage

// Provider is the interface for photo file operations. Names are flat file
// names; nested paths are rejected.
type Provider interface {
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically writes content under name.
	Write(name string, content []byte) error
	// Delete removes the named file.
	Delete(name string) error
	// Path resolves name to an absolute path for serving.
	Path(name string) (string, error)
}
