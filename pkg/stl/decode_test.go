package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binarySTL assembles a binary STL stream: 80-byte header, declared record
// count, then one 50-byte record per triangle (normal + 3 vertices + attribute).
func binarySTL(t *testing.T, header string, declared uint32, triangles [][12]float32) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	headerBytes := make([]byte, 80)
	copy(headerBytes, header)
	buf.Write(headerBytes)

	require.NoError(t, binary.Write(buf, binary.LittleEndian, declared))
	for _, tri := range triangles {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, tri))
		require.NoError(t, binary.Write(buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestDecodeBinaryRoundTrip(t *testing.T) {
	// Deliberately awkward values: none representable exactly in decimal.
	triangles := [][12]float32{
		{0, 0, 1, 0.1, -1e-7, 3.0777, 1.25, 0.30000001, -2.5, 96.2, 1e20, -0.0001},
		{1, 0, 0, -1.5, 2.25, 3.125, 4.0625, -5.5, 6.75, 7.875, 8.0625, -9.5},
	}
	data := binarySTL(t, "widget rev 4", 2, triangles)

	mesh, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, "widget rev 4", mesh.Name)
	require.Equal(t, 2, mesh.TriangleCount())

	for i, tri := range mesh.Triangles {
		decoded := [12]float64{
			tri.Normal.X, tri.Normal.Y, tri.Normal.Z,
			tri.V1.X, tri.V1.Y, tri.V1.Z,
			tri.V2.X, tri.V2.Y, tri.V2.Z,
			tri.V3.X, tri.V3.Y, tri.V3.Z,
		}
		for j, want := range triangles[i] {
			got := float32(decoded[j])
			assert.Equal(t, math.Float32bits(want), math.Float32bits(got),
				"triangle %d field %d must round-trip bit-for-bit", i, j)
		}
	}
}

func TestDecodeBinaryEmpty(t *testing.T) {
	data := binarySTL(t, "", 0, nil)

	mesh, err := Decode(data)
	require.NoError(t, err)
	assert.Zero(t, mesh.TriangleCount())
}

func TestDecodeBinaryTruncated(t *testing.T) {
	triangles := make([][12]float32, 5)
	data := binarySTL(t, "truncated", 5, triangles)

	// Rewrite the declared count to 10 while only 5 records are present.
	binary.LittleEndian.PutUint32(data[80:], 10)

	mesh, err := Decode(data)
	assert.Nil(t, mesh)

	var truncated *TruncatedDataError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, uint32(10), truncated.Declared)
	assert.Equal(t, 5*50, truncated.Remaining)
}

func TestDecodeBinaryWithSolidHeader(t *testing.T) {
	// A binary file whose header text starts with "solid" must still follow
	// the binary path when the declared count matches the stream length.
	triangles := [][12]float32{
		{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0},
	}
	data := binarySTL(t, "solid exported from cad", 1, triangles)

	mesh, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.TriangleCount())
	assert.Equal(t, "solid exported from cad", mesh.Name)
}

func TestDecodeASCII(t *testing.T) {
	data := []byte(`solid tetra part
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 -1
    outer loop
      vertex 0 0 1
      vertex 0 1 1
      vertex 1 0 1
    endloop
  endfacet
endsolid tetra part
`)

	mesh, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, "tetra part", mesh.Name)
	require.Equal(t, 2, mesh.TriangleCount())

	// Source order must be preserved.
	assert.Equal(t, 1.0, mesh.Triangles[0].Normal.Z)
	assert.Equal(t, -1.0, mesh.Triangles[1].Normal.Z)
	assert.Equal(t, 1.0, mesh.Triangles[1].V1.Z)
}

func TestDecodeASCIILeadingWhitespaceAndCase(t *testing.T) {
	data := []byte("\n  \t SOLID upper\n facet normal 0 0 1\n outer loop\n vertex 0 0 0\n vertex 1 0 0\n vertex 0 1 0\n endloop\n endfacet\nendsolid\n")

	mesh, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 1, mesh.TriangleCount())
}

func TestDecodeASCIISyntaxError(t *testing.T) {
	data := []byte(`solid bad
  facet normal 0 0 1
    outer loop
      vertex 0 0 zero
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid
`)

	_, err := Decode(data)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 4, syntaxErr.Line)
	assert.Contains(t, syntaxErr.Msg, "zero")
}

func TestDecodeASCIIMissingVertex(t *testing.T) {
	data := []byte(`solid bad
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
    endloop
  endfacet
endsolid
`)

	_, err := Decode(data)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 7, syntaxErr.Line)
}

func TestDecodeUnrecognizedFormat(t *testing.T) {
	_, err := Decode([]byte("PK\x03\x04 definitely not a model"))

	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestDecodeSolidPrefixFallsBackToASCII(t *testing.T) {
	// Begins with "solid" and is far too short for the binary length check,
	// so the decoder must take the ASCII path.
	data := []byte("solid empty\nendsolid empty\n")

	mesh, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "empty", mesh.Name)
	assert.Zero(t, mesh.TriangleCount())
}
