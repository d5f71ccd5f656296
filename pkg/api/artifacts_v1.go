// pkg/api/artifacts_v1.go
package api

// PayloadInfoV1 is the stable JSON schema for `inspect` on a payload file.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type PayloadInfoV1 struct {
	File         string `json:"file"`
	Kind         string `json:"kind"` // "payload"
	Records      int    `json:"records"`
	PayloadBytes int64  `json:"payload_bytes"`
	TotalChunks  int    `json:"total_chunks"`
	MaxChunks    int    `json:"max_chunks,omitempty"` // largest chunk count in one record
}

// KeyRecordInfoV1 describes one record inside a key file.
type KeyRecordInfoV1 struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Desc      string `json:"desc,omitempty"`
	Length    int    `json:"length"`
	ChunkSize int    `json:"chunk_size"`
	Chunked   bool   `json:"chunked"`
	Chunks    int    `json:"chunks,omitempty"`
	Removed   int    `json:"removed"` // total symbols held back into the key
}

// KeyInfoV1 is the stable JSON schema for `inspect` on a key file.
type KeyInfoV1 struct {
	File     string            `json:"file"`
	Kind     string            `json:"kind"` // "key"
	Strategy string            `json:"strategy"`
	Records  []KeyRecordInfoV1 `json:"records"`
}
