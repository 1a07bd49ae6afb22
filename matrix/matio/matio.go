// SPDX-License-Identifier: MIT

// Package matio reads and writes the binary matrix interchange format.
//
// Layout (little-endian throughout):
//
//	offset 0: int32 rows
//	offset 4: int32 cols
//	offset 8: rows*cols float64 values in column-major order
//
// Consumers memory-map these files and address element (i,j) at
// 8 + 8*(i + rows*j), so the layout must stay bit-exact.
package matio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/eeio/matrix"
)

// HeaderSize is the byte length of the shape header.
const HeaderSize = 8

// readChunk bounds the initial payload allocation of Read.
const readChunk = 1 << 16

// ErrTruncated reports a stream that ends before the declared payload.
var ErrTruncated = errors.New("matio: truncated matrix data")

// ErrBadShape reports a negative or overflowing shape header.
var ErrBadShape = errors.New("matio: invalid shape header")

// Write encodes m to w in column-major order.
func Write(w io.Writer, m matrix.Matrix) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("matio.Write: %w", err)
	}
	rows, cols := m.Rows(), m.Cols()
	if rows > math.MaxInt32 || cols > math.MaxInt32 {
		return fmt.Errorf("matio.Write: %w", ErrBadShape)
	}

	bw := bufio.NewWriter(w)
	var hdr [HeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(int32(rows)))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(int32(cols)))
	if _, err := bw.Write(hdr[:]); err != nil {
		return fmt.Errorf("matio.Write: %w", err)
	}

	var buf [8]byte
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			v, err := m.At(i, j)
			if err != nil {
				return fmt.Errorf("matio.Write: %w", err)
			}
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			if _, err = bw.Write(buf[:]); err != nil {
				return fmt.Errorf("matio.Write: %w", err)
			}
		}
	}

	return bw.Flush()
}

// ReadShape decodes only the header.
func ReadShape(r io.Reader) (rows, cols int, err error) {
	var hdr [HeaderSize]byte
	if _, err = io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return 0, 0, ErrTruncated
		}
		return 0, 0, err
	}
	rows = int(int32(binary.LittleEndian.Uint32(hdr[0:4])))
	cols = int(int32(binary.LittleEndian.Uint32(hdr[4:8])))
	if rows < 0 || cols < 0 {
		return 0, 0, ErrBadShape
	}

	return rows, cols, nil
}

// Read decodes a full matrix. Stored values are accepted as-is, including
// non-finite ones, so that Read(Write(m)) is bit-identical. The payload
// buffer grows with the data actually read, so a header declaring more
// values than the stream holds fails with ErrTruncated.
func Read(r io.Reader) (*matrix.Dense, error) {
	br := bufio.NewReader(r)
	rows, cols, err := ReadShape(br)
	if err != nil {
		return nil, fmt.Errorf("matio.Read: %w", err)
	}
	n := rows * cols
	vals := make([]float64, 0, min(n, readChunk))

	var buf [8]byte
	for k := 0; k < n; k++ {
		if _, err = io.ReadFull(br, buf[:]); err != nil {
			return nil, fmt.Errorf("matio.Read(%d,%d): %w", k%rows, k/rows, ErrTruncated)
		}
		vals = append(vals, math.Float64frombits(binary.LittleEndian.Uint64(buf[:])))
	}

	m, err := matrix.NewDense(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("matio.Read: %w", err)
	}
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		for j := range row {
			row[j] = vals[i+rows*j]
		}
	}

	return m, nil
}

// WriteFile writes m to path, creating or truncating the file.
func WriteFile(path string, m matrix.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, m)
}

// ReadFile reads the matrix stored at path.
func ReadFile(path string) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// ReadFileShape returns the shape stored at path without reading the payload.
func ReadFileShape(path string) (rows, cols int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	return ReadShape(f)
}
