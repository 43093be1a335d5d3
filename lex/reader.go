package lex

import (
	"fmt"
	"io"
	"regexp"
	"unicode/utf8"
)

// regexReader is a buffering reader that lets a regexp.Regexp search forward
// from the current position, then rewinds if the search needs to backtrack
// past what it consumed. Go's regexp package only reports whether it
// matched and where, never what it actually touched of a Reader, so running
// it directly against a plain stream would make it impossible to know how
// far to advance on a match versus a failed attempt.
type regexReader struct {
	buf   []byte
	src   io.Reader
	cur   int
	marks map[string]int
	atEOF bool
}

func newRegexReader(r io.Reader) *regexReader {
	return &regexReader{
		buf:   make([]byte, 0),
		src:   r,
		marks: make(map[string]int),
	}
}

func (rr *regexReader) avail() int {
	return len(rr.buf) - rr.cur
}

func (rr *regexReader) readBuf(n int) []byte {
	limit := rr.avail()
	if n < limit {
		limit = n
	}
	read := rr.buf[rr.cur : rr.cur+limit]
	rr.cur += limit
	return read
}

func (rr *regexReader) readIntoBuf(n int) (int, error) {
	read := make([]byte, n)
	actualRead, err := rr.src.Read(read)
	if actualRead > 0 {
		rr.buf = append(rr.buf, read[:actualRead]...)
	}
	return actualRead, err
}

// searchAndAdvance applies re starting at the current position. On a match
// the cursor moves to just past the match and the submatch slice is
// returned (index 0 is the whole match); on no match the cursor is left
// where it was and a nil slice is returned. Returns io.EOF once the
// underlying reader is exhausted and no match was found; in that case the
// cursor is left at the end of the buffered input.
func (rr *regexReader) searchAndAdvance(re *regexp.Regexp) ([]string, error) {
	rr.mark("search")
	matchIndexes := re.FindReaderSubmatchIndex(rr)
	matches := rr.matchesAt("search", matchIndexes)
	rr.restore("search")

	if len(matches) > 0 {
		rr.Seek(int64(matchIndexes[1]), io.SeekCurrent)
		return matches, nil
	}

	// No match: find out whether that's because we hit the end of input.
	rr.Seek(0, io.SeekEnd)
	_, err := rr.Read(make([]byte, 1))
	if err == io.EOF {
		rr.atEOF = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	rr.restore("search")
	return nil, nil
}

// matchesAt resolves the byte-offset pairs regexp.FindReaderSubmatchIndex
// returned (relative to the mark) into the actual matched strings.
func (rr *regexReader) matchesAt(mark string, pairs []int) []string {
	markOffset, ok := rr.marks[mark]
	if !ok {
		panic(fmt.Sprintf("no such mark: %q", mark))
	}
	if len(pairs) == 0 {
		return nil
	}

	matches := make([]string, len(pairs)/2)
	matches[0] = string(rr.buf[markOffset+pairs[0] : markOffset+pairs[1]])
	for i := 2; i < len(pairs); i += 2 {
		left, right := pairs[i], pairs[i+1]
		if left != -1 && right != -1 {
			matches[i/2] = string(rr.buf[markOffset+left : markOffset+right])
		}
	}
	return matches
}

func (rr *regexReader) ReadRune() (r rune, size int, err error) {
	first := make([]byte, 1)
	n, err := rr.Read(first)
	if n != 1 {
		return r, size, err
	}

	readErr := err
	var remaining int
	switch {
	case first[0]>>7 == 0:
		remaining = 0
	case first[0]>>5 == 0b110:
		remaining = 1
	case first[0]>>4 == 0b1110:
		remaining = 2
	case first[0]>>3 == 0b11110:
		remaining = 3
	}

	full := first
	if remaining > 0 {
		if readErr != nil && readErr != io.EOF {
			return r, n, readErr
		}
		rest := make([]byte, remaining)
		n, err := rr.Read(rest)
		if n != remaining {
			if err == io.EOF {
				return r, n, fmt.Errorf("incomplete utf-8 sequence at end of input")
			}
			return r, n, err
		}
		readErr = err
		full = append(full, rest...)
	}

	r, size = utf8.DecodeRune(full)
	if missed := len(full) - size; missed > 0 {
		rr.cur -= missed
	}
	return r, size, readErr
}

// mark records the current position under name for a later restore.
func (rr *regexReader) mark(name string) {
	rr.marks[name] = rr.cur
}

// restore seeks back to the position recorded under name. Panics if name
// was never marked.
func (rr *regexReader) restore(name string) {
	offset, ok := rr.marks[name]
	if !ok {
		panic(fmt.Sprintf("no such mark: %q", name))
	}
	rr.cur = offset
}

func (rr *regexReader) Read(p []byte) (n int, err error) {
	read := rr.readBuf(len(p))
	if need := len(p) - len(read); need > 0 {
		actualRead, readErr := rr.readIntoBuf(need)
		err = readErr
		if actualRead > 0 {
			read = append(read, rr.readBuf(actualRead)...)
		}
	}
	n = len(read)
	copy(p, read)
	return n, err
}

// Seek moves the cursor within the buffered bytes read so far. SeekEnd is
// relative to the end of what has been buffered, not the underlying
// reader's true end, since that is unknown until it is reached.
func (rr *regexReader) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = int64(rr.cur) + offset
	case io.SeekEnd:
		newOffset = int64(len(rr.buf)) + offset
	default:
		return 0, fmt.Errorf("unknown whence: %d", whence)
	}
	if newOffset < 0 {
		return 0, fmt.Errorf("seek to negative offset: %d", newOffset)
	}
	if newOffset > int64(len(rr.buf)) {
		newOffset = int64(len(rr.buf))
	}
	rr.cur = int(newOffset)
	return newOffset, nil
}
