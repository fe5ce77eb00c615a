package aigateway

import (
	"io"
	"strings"
	"testing"
)

// drip returns at most n bytes per Read so record boundaries land mid-fragment.
type drip struct {
	r io.Reader
	n int
}

func (d *drip) Read(p []byte) (int, error) {
	if len(p) > d.n {
		p = p[:d.n]
	}
	return d.r.Read(p)
}

func collect(t *testing.T, r io.Reader) []string {
	t.Helper()
	var records []string
	if err := DecodeEventStream(r, func(data string) error {
		records = append(records, data)
		return nil
	}); err != nil {
		t.Fatalf("DecodeEventStream returned error: %v", err)
	}
	return records
}

func TestDecodeEventStream_BasicFraming(t *testing.T) {
	stream := "data: {\"a\":1}\n\ndata: {\"b\":2}\n\ndata: [DONE]\n\n"
	records := collect(t, strings.NewReader(stream))

	if len(records) != 2 {
		t.Fatalf("expected 2 records before [DONE], got %d: %v", len(records), records)
	}
	if records[0] != `{"a":1}` || records[1] != `{"b":2}` {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestDecodeEventStream_FragmentBoundaryInsideRecord(t *testing.T) {
	stream := "data: {\"delta\":\"hola campeon\"}\n\ndata: [DONE]\n\n"
	records := collect(t, &drip{r: strings.NewReader(stream), n: 3})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %v", len(records), records)
	}
	if records[0] != `{"delta":"hola campeon"}` {
		t.Fatalf("record was corrupted by fragment boundaries: %q", records[0])
	}
}

func TestDecodeEventStream_SkipsCommentLines(t *testing.T) {
	stream := ": keep-alive\ndata: {\"a\":1}\n\n: another comment\n\ndata: [DONE]\n\n"
	records := collect(t, strings.NewReader(stream))

	if len(records) != 1 || records[0] != `{"a":1}` {
		t.Fatalf("expected single record past comments, got %v", records)
	}
}

func TestDecodeEventStream_FlushesPartialRecordOnEOF(t *testing.T) {
	// Stream ends without the trailing blank line or [DONE]; the buffered
	// record must be flushed, not discarded.
	stream := "data: {\"a\":1}\n\ndata: {\"tail\":true}"
	records := collect(t, strings.NewReader(stream))

	if len(records) != 2 {
		t.Fatalf("expected trailing partial record to flush, got %v", records)
	}
	if records[1] != `{"tail":true}` {
		t.Fatalf("unexpected flushed record: %q", records[1])
	}
}

func TestDecodeEventStream_JoinsMultiLineData(t *testing.T) {
	stream := "data: line one\ndata: line two\n\ndata: [DONE]\n\n"
	records := collect(t, strings.NewReader(stream))

	if len(records) != 1 || records[0] != "line one\nline two" {
		t.Fatalf("expected joined multi-line record, got %v", records)
	}
}

func TestDecodeEventStream_StopsAtDoneSentinel(t *testing.T) {
	stream := "data: {\"a\":1}\n\ndata: [DONE]\n\ndata: {\"after\":true}\n\n"
	records := collect(t, strings.NewReader(stream))

	if len(records) != 1 {
		t.Fatalf("expected decoding to stop at [DONE], got %v", records)
	}
}
