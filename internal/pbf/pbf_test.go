package pbf

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/errs"
)

func TestWriterReader_Scalars(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.WriteVarintField(1, 300)
	w.WriteSVarintField(2, -150)
	w.WriteBoolField(3, true)
	w.WriteDoubleField(4, math.Pi)
	w.WriteStringField(5, "geobuf")

	r := NewReader(w.Bytes())

	num, typ, err := r.ReadTag()
	require.NoError(t, err)
	require.Equal(t, 1, num)
	require.Equal(t, VarintType, typ)
	u, err := r.ReadVarint()
	require.NoError(t, err)
	require.Equal(t, uint64(300), u)

	_, _, err = r.ReadTag()
	require.NoError(t, err)
	s, err := r.ReadSVarint()
	require.NoError(t, err)
	require.Equal(t, int64(-150), s)

	_, _, err = r.ReadTag()
	require.NoError(t, err)
	b, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, b)

	_, typ, err = r.ReadTag()
	require.NoError(t, err)
	require.Equal(t, Fixed64Type, typ)
	d, err := r.ReadDouble()
	require.NoError(t, err)
	require.Equal(t, math.Pi, d)

	_, _, err = r.ReadTag()
	require.NoError(t, err)
	str, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "geobuf", str)

	require.True(t, r.EOF())
}

func TestWriterReader_Packed(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.WritePackedVarint(2, []uint64{1, 128, 1 << 40})
	w.WritePackedSVarint(3, []int64{-1, 0, 1, math.MinInt64, math.MaxInt64})
	w.WritePackedVarint(4, nil)

	r := NewReader(w.Bytes())

	_, _, err := r.ReadTag()
	require.NoError(t, err)
	us, err := r.ReadPackedVarint(nil)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 128, 1 << 40}, us)

	_, _, err = r.ReadTag()
	require.NoError(t, err)
	ss, err := r.ReadPackedSVarint(nil)
	require.NoError(t, err)
	require.Equal(t, []int64{-1, 0, 1, math.MinInt64, math.MaxInt64}, ss)

	require.True(t, r.EOF(), "empty packed field must not be written")
}

func TestWriter_WriteMessage(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	err := w.WriteMessage(7, func(sub *Writer) error {
		sub.WriteStringField(1, "inner")
		return nil
	})
	require.NoError(t, err)

	failed := errors.New("boom")
	before := w.Len()
	err = w.WriteMessage(8, func(sub *Writer) error {
		sub.WriteStringField(1, "discarded")
		return failed
	})
	require.ErrorIs(t, err, failed)
	require.Equal(t, before, w.Len(), "failed sub-message must not be appended")

	r := NewReader(w.Bytes())
	num, _, err := r.ReadTag()
	require.NoError(t, err)
	require.Equal(t, 7, num)

	sub, err := r.ReadMessage()
	require.NoError(t, err)
	_, _, err = sub.ReadTag()
	require.NoError(t, err)
	s, err := sub.ReadString()
	require.NoError(t, err)
	require.Equal(t, "inner", s)
	require.True(t, r.EOF())
}

func TestReader_Skip(t *testing.T) {
	w := NewWriter()
	defer w.Release()

	w.WriteVarintField(1, 42)
	w.WriteDoubleField(2, 1.5)
	w.WriteStringField(3, "skip me")
	w.WriteVarintField(4, 7)

	r := NewReader(w.Bytes())
	for i := 0; i < 3; i++ {
		num, typ, err := r.ReadTag()
		require.NoError(t, err)
		require.NoError(t, r.Skip(num, typ))
	}

	num, _, err := r.ReadTag()
	require.NoError(t, err)
	require.Equal(t, 4, num)
	v, err := r.ReadVarint()
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)
}

func TestReader_Errors(t *testing.T) {
	t.Run("truncated varint", func(t *testing.T) {
		r := NewReader([]byte{0x80, 0x80})
		_, err := r.ReadVarint()
		require.ErrorIs(t, err, errs.ErrDecode)
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("length beyond buffer", func(t *testing.T) {
		r := NewReader([]byte{0x0a, 0x05, 'a', 'b'})
		_, _, err := r.ReadTag()
		require.NoError(t, err)
		_, err = r.ReadString()
		require.ErrorIs(t, err, errs.ErrDecode)
		require.ErrorIs(t, err, errs.ErrInvalidLength)
	})

	t.Run("truncated double", func(t *testing.T) {
		r := NewReader([]byte{1, 2, 3})
		_, err := r.ReadDouble()
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("wrong wire type", func(t *testing.T) {
		r := NewReader(nil)
		err := r.Expect(1, VarintType, BytesType)
		require.ErrorIs(t, err, errs.ErrInvalidWireType)
	})
}
