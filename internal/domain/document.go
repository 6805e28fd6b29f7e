package domain

// DocumentFile is one named file inside a gist.
type DocumentFile struct {
	Name    string
	Content string
}

// Document is a gist as read from the store. Files are sorted by name.
type Document struct {
	ID    string
	Files []DocumentFile
}

// RemoteDocument is the gist file a report is compared against.
type RemoteDocument struct {
	ID               string
	SelectedFileName string
	StoredContent    string
}
