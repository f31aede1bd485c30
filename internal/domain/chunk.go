package domain

// Chunk is a contiguous slice of document text prepared for embedding.
// Text is always the exact substring [Start:End) of the source document text.
type Chunk struct {
	Ordinal int
	Text    string
	Start   int // byte offset into the document text
	End     int
	Page    int // 1-based page the chunk starts on, 0 when unknown
}
