package vector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/circuitdex/internal/domain"
)

var npyMagic = []byte("\x93NUMPY")

const (
	// maxNPYHeaderLen bounds the header dictionary.
	maxNPYHeaderLen = 1 << 16
	// maxNPYElements bounds rows*dim, 1 GiB of float32.
	maxNPYElements = 1 << 28
	// npyChunkElements is the number of values decoded per read.
	npyChunkElements = 1 << 16
)

var (
	descrRegex   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	fortranRegex = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRegex   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ReadNPY decodes a 2-D little-endian float32 or float64 C-order array in NumPy .npy format
// (format versions 1 to 3). float64 data is narrowed to float32.
func ReadNPY(r io.Reader) (*Matrix, error) {
	br := bufio.NewReader(r)

	header, err := readNPYHeader(br)
	if err != nil {
		return nil, err
	}

	descr, rows, dim, err := parseNPYHeader(header)
	if err != nil {
		return nil, err
	}

	n := rows * dim
	data := make([]float32, n)
	width := 4
	if descr == "<f8" {
		width = 8
	}
	buf := make([]byte, width*min(n, npyChunkElements))
	for off := 0; off < n; {
		cnt := min(n-off, npyChunkElements)
		chunk := buf[:width*cnt]
		if _, err := io.ReadFull(br, chunk); err != nil {
			return nil, fmt.Errorf("read npy data: %w: %w", domain.ErrCorpusMalformed, err)
		}
		for i := range cnt {
			if width == 4 {
				data[off+i] = math.Float32frombits(binary.LittleEndian.Uint32(chunk[4*i:]))
			} else {
				data[off+i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(chunk[8*i:])))
			}
		}
		off += cnt
	}

	return NewMatrix(rows, dim, data)
}

func readNPYHeader(br *bufio.Reader) (string, error) {
	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(br, prefix); err != nil {
		return "", fmt.Errorf("read npy magic: %w: %w", domain.ErrCorpusMalformed, err)
	}
	if !bytes.Equal(prefix[:len(npyMagic)], npyMagic) {
		return "", fmt.Errorf("not an npy file: %w", domain.ErrCorpusMalformed)
	}

	var headerLen int
	switch major := prefix[len(npyMagic)]; major {
	case 1:
		var l [2]byte
		if _, err := io.ReadFull(br, l[:]); err != nil {
			return "", fmt.Errorf("read npy header length: %w: %w", domain.ErrCorpusMalformed, err)
		}
		headerLen = int(binary.LittleEndian.Uint16(l[:]))
	case 2, 3:
		var l [4]byte
		if _, err := io.ReadFull(br, l[:]); err != nil {
			return "", fmt.Errorf("read npy header length: %w: %w", domain.ErrCorpusMalformed, err)
		}
		headerLen = int(binary.LittleEndian.Uint32(l[:]))
	default:
		return "", fmt.Errorf("unsupported npy version %d: %w", major, domain.ErrCorpusMalformed)
	}
	if headerLen > maxNPYHeaderLen {
		return "", fmt.Errorf("npy header of %d bytes exceeds %d: %w",
			headerLen, maxNPYHeaderLen, domain.ErrCorpusMalformed)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(br, header); err != nil {
		return "", fmt.Errorf("read npy header: %w: %w", domain.ErrCorpusMalformed, err)
	}
	return string(header), nil
}

func parseNPYHeader(header string) (descr string, rows, dim int, err error) {
	m := descrRegex.FindStringSubmatch(header)
	if m == nil {
		return "", 0, 0, fmt.Errorf("npy header missing descr: %w", domain.ErrCorpusMalformed)
	}
	descr = m[1]
	if descr != "<f4" && descr != "<f8" {
		return "", 0, 0, fmt.Errorf("unsupported npy dtype %q: %w", descr, domain.ErrCorpusMalformed)
	}

	m = fortranRegex.FindStringSubmatch(header)
	if m == nil {
		return "", 0, 0, fmt.Errorf("npy header missing fortran_order: %w", domain.ErrCorpusMalformed)
	}
	if m[1] == "True" {
		return "", 0, 0, fmt.Errorf("fortran-order npy arrays: %w", domain.ErrCorpusMalformed)
	}

	m = shapeRegex.FindStringSubmatch(header)
	if m == nil {
		return "", 0, 0, fmt.Errorf("npy header missing shape: %w", domain.ErrCorpusMalformed)
	}
	var dims []int
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, convErr := strconv.Atoi(part)
		if convErr != nil || v < 0 || v > maxNPYElements {
			return "", 0, 0, fmt.Errorf("npy shape %q: %w", m[1], domain.ErrCorpusMalformed)
		}
		dims = append(dims, v)
	}
	if len(dims) != 2 {
		return "", 0, 0, fmt.Errorf("npy array must be 2-D, got shape (%s): %w", m[1], domain.ErrCorpusMalformed)
	}
	if dims[1] > 0 && dims[0] > maxNPYElements/dims[1] {
		return "", 0, 0, fmt.Errorf("npy shape (%s) exceeds %d values: %w", m[1], maxNPYElements, domain.ErrCorpusMalformed)
	}
	return descr, dims[0], dims[1], nil
}

// WriteNPY encodes m as a version 1.0 .npy file with dtype <f4.
func WriteNPY(w io.Writer, m *Matrix) error {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", m.rows, m.dim)
	// magic(6) + version(2) + length(2) + header + newline, padded to 64 bytes.
	total := len(npyMagic) + 2 + 2 + len(header) + 1
	if pad := (64 - total%64) % 64; pad > 0 {
		header += strings.Repeat(" ", pad)
	}
	header += "\n"

	bw := bufio.NewWriter(w)
	bw.Write(npyMagic)
	bw.Write([]byte{1, 0})
	var l [2]byte
	binary.LittleEndian.PutUint16(l[:], uint16(len(header)))
	bw.Write(l[:])
	bw.WriteString(header)

	var buf [4]byte
	for _, v := range m.data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("write npy data: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush npy: %w", err)
	}
	return nil
}
