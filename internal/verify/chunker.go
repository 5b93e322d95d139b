package verify

import "strings"

// maxContentChars guards chunking against pathologically large documents.
const maxContentChars = 100_000

// Chunk splits content into overlapping token windows. Tokens are
// whitespace-delimited words; size and overlap are counted in tokens.
func Chunk(content string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	words := strings.Fields(Truncate(content))
	if len(words) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// Truncate caps content length before chunking.
func Truncate(content string) string {
	if len(content) > maxContentChars {
		return content[:maxContentChars]
	}
	return content
}
