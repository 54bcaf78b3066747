package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/geobuf/errs"
	"github.com/arloliu/geobuf/internal/pbf"
)

func headerBytes(h Header) []byte {
	w := pbf.NewWriter()
	defer w.Release()
	h.WriteTo(w)

	return append([]byte(nil), w.Bytes()...)
}

func TestHeader_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		header Header
	}{
		{"defaults", NewHeader()},
		{"keys", Header{Keys: []string{"name", "height", ""}, Dimension: 2, Precision: 6}},
		{"three dimensions", Header{Dimension: 3, Precision: 6}},
		{"precision zero", Header{Keys: []string{"a"}, Dimension: 2, Precision: 0}},
		{"everything", Header{Keys: []string{"k"}, Dimension: 3, Precision: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHeader(pbf.NewReader(headerBytes(tt.header)))
			require.NoError(t, err)
			require.Equal(t, tt.header, got)
		})
	}
}

func TestHeader_DefaultsOmitted(t *testing.T) {
	require.Empty(t, headerBytes(NewHeader()))
	require.NotEmpty(t, headerBytes(Header{Dimension: 3, Precision: 6}))
	require.NotEmpty(t, headerBytes(Header{Dimension: 2, Precision: 5}))
}

func TestParseHeader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*pbf.Writer)
		want error
	}{
		{"dimension zero", func(w *pbf.Writer) { w.WriteVarintField(HeaderDimension, 0) }, errs.ErrInvalidDimension},
		{"dimension four", func(w *pbf.Writer) { w.WriteVarintField(HeaderDimension, 4) }, errs.ErrInvalidDimension},
		{"precision seven", func(w *pbf.Writer) { w.WriteVarintField(HeaderPrecision, 7) }, errs.ErrInvalidPrecision},
		{"key as varint", func(w *pbf.Writer) { w.WriteVarintField(HeaderKeys, 1) }, errs.ErrInvalidWireType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := pbf.NewWriter()
			defer w.Release()
			tt.fn(w)

			_, err := ParseHeader(pbf.NewReader(w.Bytes()))
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrDecode)
		})
	}
}

func TestParseHeader_SkipsUnknown(t *testing.T) {
	w := pbf.NewWriter()
	defer w.Release()
	w.WriteStringField(HeaderKeys, "a")
	w.WriteDoubleField(9, 1.5)
	w.WriteStringField(10, "ignored")
	w.WriteStringField(HeaderKeys, "b")

	h, err := ParseHeader(pbf.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, h.Keys)
	require.Equal(t, "keys=2 dim=2 precision=6", h.String())
}
