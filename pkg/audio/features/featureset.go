package features

// FeatureSet holds the time-averaged feature groups of one audio file.
// Immutable once returned by the extractor.
type FeatureSet struct {
	MFCC             []float64 `json:"mfcc"`              // Timbral envelope, averaged across frames
	Chroma           []float64 `json:"chroma"`            // Pitch class energy, averaged across frames
	Tempo            float64   `json:"tempo"`             // Global tempo estimate (BPM)
	SpectralContrast []float64 `json:"spectral_contrast"` // Peak-to-valley band contrast, averaged across frames
}

// Vector concatenates the feature groups into a single comparison vector.
// Field order is fixed: MFCC, chroma, tempo, spectral contrast. Query and
// stored vectors must use the identical order for cosine comparison.
func (fs *FeatureSet) Vector() []float64 {
	out := make([]float64, 0, len(fs.MFCC)+len(fs.Chroma)+1+len(fs.SpectralContrast))
	out = append(out, fs.MFCC...)
	out = append(out, fs.Chroma...)
	out = append(out, fs.Tempo)
	out = append(out, fs.SpectralContrast...)
	return out
}

// Dim returns the length of the concatenated vector
func (fs *FeatureSet) Dim() int {
	return len(fs.MFCC) + len(fs.Chroma) + 1 + len(fs.SpectralContrast)
}
