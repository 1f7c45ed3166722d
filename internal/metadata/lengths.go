package metadata

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// maxNesting bounds container depth in untrusted documents.
const maxNesting = 32

// CheckLengths walks a msgpack document without materializing it. It fails
// when a declared array, map, string, binary or extension length cannot fit
// in the bytes that remain, so decoding afterwards never allocates more than
// the input can describe.
func CheckLengths(data []byte) error {
	r := bytes.NewReader(data)
	w := lengthWalker{r: r, d: msgpack.NewDecoder(r)}
	return w.value(0)
}

type lengthWalker struct {
	r       *bytes.Reader
	d       *msgpack.Decoder
	scratch [4096]byte
}

func (w *lengthWalker) value(depth int) error {
	if depth > maxNesting {
		return fmt.Errorf("containers nested deeper than %d", maxNesting)
	}
	c, err := w.d.PeekCode()
	if err != nil {
		return err
	}
	switch {
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := w.d.DecodeArrayLen()
		if err != nil {
			return err
		}
		if err := w.fits("array", n, 1); err != nil {
			return err
		}
		for range max(n, 0) {
			if err := w.value(depth + 1); err != nil {
				return err
			}
		}
		return nil
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := w.d.DecodeMapLen()
		if err != nil {
			return err
		}
		if err := w.fits("map", n, 2); err != nil {
			return err
		}
		for range max(n, 0) * 2 {
			if err := w.value(depth + 1); err != nil {
				return err
			}
		}
		return nil
	case msgpcode.IsString(c) || msgpcode.IsBin(c):
		n, err := w.d.DecodeBytesLen()
		if err != nil {
			return err
		}
		if err := w.fits("bytes", n, 1); err != nil {
			return err
		}
		return w.discard(n)
	case msgpcode.IsExt(c):
		_, n, err := w.d.DecodeExtHeader()
		if err != nil {
			return err
		}
		if err := w.fits("extension", n, 1); err != nil {
			return err
		}
		return w.discard(n)
	default:
		return w.d.Skip()
	}
}

// fits checks that n items of at least per bytes each can follow.
func (w *lengthWalker) fits(what string, n, per int) error {
	if left := w.r.Len(); n > left/per {
		return fmt.Errorf("%s length %d exceeds the %d bytes left", what, n, left)
	}
	return nil
}

func (w *lengthWalker) discard(n int) error {
	for n > 0 {
		chunk := min(n, len(w.scratch))
		if err := w.d.ReadFull(w.scratch[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
