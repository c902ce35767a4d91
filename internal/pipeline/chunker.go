package pipeline

// ChunkSize is the fixed character window for document chunks.
const ChunkSize = 1000

// Splitter turns extracted text into embedding-sized chunks.
type Splitter interface {
	SplitText(text string) []string
}

// FixedSplitter cuts the text into fixed-size, non-overlapping character
// windows; the last window may be shorter. Windows are measured in runes so
// multi-byte characters are never cut in half. Empty text yields no chunks.
type FixedSplitter struct {
	Size int
}

func NewFixedSplitter(size int) FixedSplitter {
	if size <= 0 {
		size = ChunkSize
	}
	return FixedSplitter{Size: size}
}

func (s FixedSplitter) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+s.Size-1)/s.Size)
	for i := 0; i < len(runes); i += s.Size {
		end := i + s.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
