package store

import (
	"encoding/json"
	"time"
)

// CodecInfo records which codec produced the output bytes.
type CodecInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// Metadata is the human-inspectable document stored alongside each
// output. Timestamps are UTC.
type Metadata struct {
	InputID      string            `json:"input_id"`
	OutputID     string            `json:"output_id"`
	CreatedAt    time.Time         `json:"created_at"`
	LastAccessed *time.Time        `json:"last_accessed,omitempty"`
	Codec        CodecInfo         `json:"codec"`
	Arguments    map[string]string `json:"arguments,omitempty"`
}

// NewMetadata builds the metadata for a fresh write.
func NewMetadata(inputID, outputID string, codec CodecInfo, args map[string]string) Metadata {
	return Metadata{
		InputID:   inputID,
		OutputID:  outputID,
		CreatedAt: time.Now().UTC(),
		Codec:     codec,
		Arguments: args,
	}
}

// Touch records an access at now.
func (m *Metadata) Touch(now time.Time) {
	now = now.UTC()
	m.LastAccessed = &now
}

func (m Metadata) encode() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func decodeMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, err
	}
	return m, nil
}
