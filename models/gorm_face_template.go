package models

import (
	"encoding/binary"
	"math"
)

// FaceTemplate holds the single enrolled face embedding for an identity.
// It corresponds to the 'face_templates' table. Re-registration replaces the
// row for the identity; no historical versions are kept.
type FaceTemplate struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	IdentityID     uint   `gorm:"uniqueIndex;not null" json:"identity_id"`
	EmbeddingData  []byte `gorm:"not null;column:embedding_data" json:"-"` // embedding vector as BLOB
	EmbeddingModel string `gorm:"not null;column:embedding_model;default:'arcface'" json:"embedding_model"`
	RegisteredAt   int64  `gorm:"not null" json:"registered_at"` // Stored as INTEGER in SQLite, Unix timestamp

	Identity *Identity `gorm:"foreignKey:IdentityID" json:"identity,omitempty"` // Belongs to Identity
}

// TableName explicitly sets the table name for GORM.
func (FaceTemplate) TableName() string {
	return "face_templates"
}

// Vector converts the BLOB data to []float64
func (ft *FaceTemplate) Vector() []float64 {
	if len(ft.EmbeddingData) == 0 {
		return nil
	}

	vector := make([]float64, len(ft.EmbeddingData)/8) // 8 bytes per float64
	for i := 0; i < len(vector); i++ {
		bits := binary.LittleEndian.Uint64(ft.EmbeddingData[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// SetVector converts []float64 to BLOB data
func (ft *FaceTemplate) SetVector(vector []float64) {
	if len(vector) == 0 {
		ft.EmbeddingData = nil
		return
	}

	ft.EmbeddingData = make([]byte, len(vector)*8) // 8 bytes per float64
	for i, val := range vector {
		binary.LittleEndian.PutUint64(ft.EmbeddingData[i*8:], math.Float64bits(val))
	}
}
