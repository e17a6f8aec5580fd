package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaceTemplateVectorRoundTrip(t *testing.T) {
	original := []float64{0.123, -4.56, 0, math.Pi, -math.MaxFloat64, math.SmallestNonzeroFloat64}

	var template FaceTemplate
	template.SetVector(original)
	assert.Len(t, template.EmbeddingData, len(original)*8)
	assert.Equal(t, original, template.Vector())
}

func TestFaceTemplateEmptyVector(t *testing.T) {
	var template FaceTemplate
	assert.Nil(t, template.Vector())

	template.SetVector([]float64{1})
	template.SetVector(nil)
	assert.Nil(t, template.EmbeddingData)
	assert.Nil(t, template.Vector())
}
