package models

type Document struct {
	Meta
	Title    string `json:"title"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	// StoragePath is the blob object behind URL, kept so deletes can remove it.
	StoragePath string `json:"storagePath,omitempty"`
}
