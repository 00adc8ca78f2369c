package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/philipparndt/stlview/pkg/geometry"
)

const (
	binaryHeaderSize = 80
	binaryCountSize  = 4
	binaryRecordSize = 50 // 12 bytes normal + 3*12 bytes vertices + 2 bytes attribute
)

// Decode parses a raw STL byte stream into a Mesh. The encoding is detected
// automatically; streams matching neither encoding fail with a FormatError.
//
// A stream counts as binary when it does not begin with the ASCII literal
// "solid" (case-insensitive, ignoring leading whitespace), or when it does
// but the declared record count in the binary header is consistent with the
// total byte length. The length check resolves binary files whose header
// text happens to start with "solid".
func Decode(data []byte) (*Mesh, error) {
	if isBinary(data) {
		return decodeBinary(data)
	}
	if hasSolidPrefix(data) {
		return decodeASCII(data)
	}
	return nil, &FormatError{Reason: `stream is neither a binary STL nor begins with "solid"`}
}

func hasSolidPrefix(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) >= 5 && strings.EqualFold(string(trimmed[:5]), "solid")
}

func isBinary(data []byte) bool {
	if !hasSolidPrefix(data) {
		return true
	}
	if len(data) < binaryHeaderSize+binaryCountSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[binaryHeaderSize:])
	expected := uint64(binaryHeaderSize+binaryCountSize) + uint64(count)*binaryRecordSize
	return expected == uint64(len(data))
}

func decodeBinary(data []byte) (*Mesh, error) {
	if len(data) < binaryHeaderSize+binaryCountSize {
		return nil, &FormatError{Reason: "too short for a binary STL header"}
	}

	name := strings.TrimRight(string(bytes.TrimRight(data[:binaryHeaderSize], "\x00")), " ")
	count := binary.LittleEndian.Uint32(data[binaryHeaderSize:])
	records := data[binaryHeaderSize+binaryCountSize:]

	if uint64(len(records)) < uint64(count)*binaryRecordSize {
		return nil, &TruncatedDataError{Declared: count, Remaining: len(records)}
	}

	mesh := &Mesh{Name: name, Triangles: make([]geometry.Triangle, 0, count)}
	for i := uint64(0); i < uint64(count); i++ {
		rec := records[i*binaryRecordSize:][:binaryRecordSize]
		mesh.AddTriangle(geometry.NewTriangle(
			readVector(rec[0:12]),
			readVector(rec[12:24]),
			readVector(rec[24:36]),
			readVector(rec[36:48]),
		))
		// rec[48:50] is the attribute byte count, skipped
	}
	return mesh, nil
}

func readVector(b []byte) geometry.Vector3 {
	return geometry.NewVector3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	)
}

func decodeASCII(data []byte) (*Mesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	mesh := NewMesh("")
	var currentNormal geometry.Vector3
	vertices := make([]geometry.Vector3, 0, 3)
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 5 || strings.ToLower(fields[1]) != "normal" {
				return nil, &SyntaxError{Line: line, Msg: `expected "facet normal nx ny nz"`}
			}
			normal, err := parseVector(fields[2:5], line)
			if err != nil {
				return nil, err
			}
			currentNormal = normal
			vertices = vertices[:0]

		case "outer", "endloop":
			// loop delimiters carry no data

		case "vertex":
			if len(fields) < 4 {
				return nil, &SyntaxError{Line: line, Msg: `expected "vertex x y z"`}
			}
			if len(vertices) >= 3 {
				return nil, &SyntaxError{Line: line, Msg: "more than three vertices in facet"}
			}
			vertex, err := parseVector(fields[1:4], line)
			if err != nil {
				return nil, err
			}
			vertices = append(vertices, vertex)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("facet closed with %d vertices", len(vertices))}
			}
			mesh.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			vertices = vertices[:0]

		case "endsolid":
			// trailing content after endsolid is tolerated

		case "color":
			// non-standard color extension, ignored

		default:
			return nil, &SyntaxError{Line: line, Msg: "unexpected token " + strconv.Quote(fields[0])}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return mesh, nil
}

func parseVector(fields []string, line int) (geometry.Vector3, error) {
	var out [3]float64
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return geometry.Vector3{}, &SyntaxError{Line: line, Msg: "invalid number " + strconv.Quote(field)}
		}
		out[i] = value
	}
	return geometry.NewVector3(out[0], out[1], out[2]), nil
}
