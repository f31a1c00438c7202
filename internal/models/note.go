package models

import "time"

// Note represents one stored, normalized note image and its metadata.
// Notes are immutable once created.
type Note struct {
	ID               int64     `json:"id" msgpack:"id"`
	StorageFilename  string    `json:"filename" msgpack:"filename"`
	OriginalFilename string    `json:"original_filename" msgpack:"original_filename"`
	Subject          string    `json:"subject" msgpack:"subject"`
	UploadedAt       time.Time `json:"upload_date" msgpack:"upload_date"`
	ByteSize         int64     `json:"file_size" msgpack:"file_size"`
}
