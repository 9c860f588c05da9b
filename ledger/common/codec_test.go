package common

import "testing"

func TestAppendReadInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		buf := AppendInt64(nil, v)
		got, rest, err := ReadInt64(buf)
		if err != nil {
			t.Fatalf("ReadInt64(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("ReadInt64: got %d, want %d", got, v)
		}
		if len(rest) != 0 {
			t.Fatalf("ReadInt64: %d leftover bytes", len(rest))
		}
	}
}

func TestAppendReadShortDataRoundTrip(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("hello"), make([]byte, 300)} {
		buf := AppendShortData(nil, data)
		got, rest, err := ReadShortData(buf)
		if err != nil {
			t.Fatalf("ReadShortData: %v", err)
		}
		if len(got) != len(data) {
			t.Fatalf("ReadShortData: got %d bytes, want %d", len(got), len(data))
		}
		if len(rest) != 0 {
			t.Fatalf("ReadShortData: leftover bytes")
		}
	}
}

func TestCheckVersionRejectsFuture(t *testing.T) {
	buf := AppendUint16(nil, EncodingDecodingVersion+1)
	if _, err := CheckVersion(buf); err == nil {
		t.Fatal("expected CheckVersion to reject a future version")
	}
}

func TestCheckSchemaMismatch(t *testing.T) {
	buf := AppendUint8(nil, uint8(SchemaLeafValue))
	if _, err := CheckSchema(buf, SchemaIndexEntry); err == nil {
		t.Fatal("expected CheckSchema to reject a mismatched schema code")
	}
}

func TestReadTruncatedInput(t *testing.T) {
	if _, _, err := ReadInt64([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected ReadInt64 to reject truncated input")
	}
	if _, _, err := ReadShortData([]byte{0, 5, 1, 2}); err == nil {
		t.Fatal("expected ReadShortData to reject a short payload")
	}
}
