package corpus

import (
	"bytes"
	"fmt"

	"github.com/ava12/prd/source"
)

// Sample is a part of a test file parsed as a separate source.
type Sample struct {
	*source.Source
	// FirstLine and LastLine are 1-based line numbers in the file.
	FirstLine, LastLine int
}

type lineEntry struct {
	firstPos, lastPos int
}

// SplitSamples splits file content into samples if it starts with prefix.
// Then the first line is the separator: every line starting with the same
// sequence of non-spacing characters separates samples, the rest of such a
// line is a comment. The line feed preceding a separator is not a part of the sample.
// Sample names are name#N, N starting with 1.
func SplitSamples(name string, content []byte, prefix string) []Sample {
	lines := contentLines(content)
	if prefix == "" || !bytes.HasPrefix(content, []byte(prefix)) {
		return []Sample{{source.New(name, content), 1, max(len(lines), 1)}}
	}

	var result []Sample
	separator := linePrefix(content[lines[0].firstPos:lines[0].lastPos])
	lineIndex := 1
	for lineIndex < len(lines) {
		sample, lineCnt := sourceSample(content, lines[lineIndex:], separator)
		sourceName := fmt.Sprintf("%s#%d", name, len(result)+1)
		result = append(result, Sample{source.New(sourceName, sample), lineIndex + 1, lineIndex + lineCnt})
		lineIndex += lineCnt + 1
	}
	return result
}

func contentLines(content []byte) []lineEntry {
	var result []lineEntry
	pos := 0
	for pos < len(content) {
		newPos := bytes.IndexByte(content[pos:], '\n')
		if newPos < 0 {
			result = append(result, lineEntry{pos, len(content)})
			break
		}
		result = append(result, lineEntry{pos, pos + newPos})
		pos += newPos + 1
	}
	return result
}

func linePrefix(line []byte) []byte {
	for i, b := range line {
		if b <= ' ' {
			return line[:i]
		}
	}
	return line
}

func sourceSample(content []byte, lines []lineEntry, separator []byte) ([]byte, int) {
	for i, entry := range lines {
		if bytes.HasPrefix(content[entry.firstPos:entry.lastPos], separator) {
			end := max(entry.firstPos-1, lines[0].firstPos)
			return content[lines[0].firstPos:end], i
		}
	}
	return content[lines[0].firstPos:], len(lines)
}
