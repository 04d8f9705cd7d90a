// Package partition divides a buffer of newline-terminated records into line-aligned ranges.
package partition

import "bytes"

const lineTerminator = '\n'

// Range is the half-open byte range [Start, End). End is either just past a line terminator
// or the end of the buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the size of the range in bytes.
func (r Range) Len() int { return r.End - r.Start }

// Split divides data into at most n ranges of roughly equal size.
func Split(data []byte, n int) []Range {
	if n < 1 {
		n = 1
	}
	if len(data) == 0 {
		return nil
	}
	return split(data, (len(data)+n-1)/n)
}

// SplitBySize divides data into ranges of about chunkSize bytes each. A range is longer than
// chunkSize only when the line containing its candidate boundary has to be kept whole.
func SplitBySize(data []byte, chunkSize int) []Range {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if len(data) == 0 {
		return nil
	}
	return split(data, chunkSize)
}

func split(data []byte, step int) []Range {
	ranges := make([]Range, 0, len(data)/step+1)
	for start := 0; start < len(data); {
		end := alignForward(data, start+step)
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}
	return ranges
}

// alignForward moves a candidate boundary to just past the next line terminator unless it
// already sits at a line start.
func alignForward(data []byte, candidate int) int {
	if candidate >= len(data) {
		return len(data)
	}
	if data[candidate-1] == lineTerminator {
		return candidate
	}
	i := bytes.IndexByte(data[candidate:], lineTerminator)
	if i < 0 {
		return len(data)
	}
	return candidate + i + 1
}

// Lines calls fn for every line in data[r.Start:r.End] in order, without the terminator. The
// offset passed to fn is the line's position in data. A trailing line without a terminator is
// reported; the empty remainder after a final terminator is not.
func Lines(data []byte, r Range, fn func(offset int, line []byte)) {
	chunk := data[r.Start:r.End]
	for pos := 0; pos < len(chunk); {
		i := bytes.IndexByte(chunk[pos:], lineTerminator)
		if i < 0 {
			fn(r.Start+pos, chunk[pos:])
			return
		}
		fn(r.Start+pos, chunk[pos:pos+i])
		pos += i + 1
	}
}
