/**
 * @description
 * Line-oriented decoder for `data: {...}` framed event streams. This is the
 * single shared implementation for every streamed gateway call; the buffering
 * states are explicit: awaiting-line, have-partial-record, flush-on-end.
 */
package aigateway

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// doneSentinel terminates a completion stream.
const doneSentinel = "[DONE]"

// DecodeEventStream reads r until EOF or the [DONE] sentinel, invoking
// onRecord with each complete data record. Multi-line data fields are joined
// with newlines per the framing rules. Blank lines delimit records; lines
// beginning with ':' are comments and are skipped. A partial record still
// buffered when the stream ends is flushed rather than discarded.
func DecodeEventStream(r io.Reader, onRecord func(data string) error) error {
	br := bufio.NewReader(r)
	var dataLines []string

	flush := func() error {
		if len(dataLines) == 0 {
			return nil
		}
		data := strings.Join(dataLines, "\n")
		dataLines = nil
		if data == doneSentinel {
			return io.EOF
		}
		if onRecord == nil {
			return nil
		}
		return onRecord(data)
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Flush whatever is buffered; a trailing record without a
				// final blank line is still a record.
				if line = strings.TrimRight(line, "\r\n"); line != "" {
					if strings.HasPrefix(line, "data:") {
						dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
					}
				}
				if ferr := flush(); ferr != nil && !errors.Is(ferr, io.EOF) {
					return ferr
				}
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		// Blank line ends the current record.
		if line == "" {
			if err := flush(); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			continue
		}

		// Comment line.
		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data:") {
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			continue
		}

		// Unknown field names (event:, id:, retry:) carry nothing we consume.
	}
}
