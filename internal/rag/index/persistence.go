package index

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ank-dev/askmydoc/internal/domain/docModel"
)

// On-disk layout, little endian:
//
//	magic "AMIX" | version u32 | buildID [16]byte | dim u32 | count u32 | count*dim float32
//
// The metadata file is JSON carrying the same buildID plus the chunk
// sequence in slot order. The pair is only valid when the buildIDs agree.

var indexMagic = [4]byte{'A', 'M', 'I', 'X'}

const indexFormatVersion = 1

// ErrPairMismatch means the index and metadata files carry different build
// ids - a reader raced a rebuild between the two renames. Retrying the read
// sees the fully committed pair.
var ErrPairMismatch = errors.New("index and metadata files are from different builds")

type metadataFile struct {
	BuildID string           `json:"build_id"`
	Chunks  []docModel.Chunk `json:"chunks"`
}

// writePair persists the index and its metadata atomically: both files are
// written to temporary paths first and published via rename, so no reader
// ever sees a half-written file.
func writePair(f *Flat, buildID [16]byte, chunks []docModel.Chunk, indexPath string, metadataPath string) error {
	tmpIndex := indexPath + ".tmp"
	tmpMeta := metadataPath + ".tmp"

	if err := writeIndexFile(tmpIndex, f, buildID); err != nil {
		return err
	}
	if err := writeMetadataFile(tmpMeta, buildID, chunks); err != nil {
		os.Remove(tmpIndex)
		return err
	}

	if err := os.Rename(tmpIndex, indexPath); err != nil {
		os.Remove(tmpIndex)
		os.Remove(tmpMeta)
		return err
	}
	if err := os.Rename(tmpMeta, metadataPath); err != nil {
		os.Remove(tmpMeta)
		return err
	}
	return nil
}

func writeIndexFile(path string, f *Flat, buildID [16]byte) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(indexMagic[:]); err != nil {
		return err
	}
	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, indexFormatVersion)
	if _, err := file.Write(header); err != nil {
		return err
	}
	if _, err := file.Write(buildID[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(header, uint32(f.dim))
	if _, err := file.Write(header); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(header, uint32(len(f.vectors)))
	if _, err := file.Write(header); err != nil {
		return err
	}

	buf := make([]byte, 4*f.dim)
	for _, v := range f.vectors {
		for i, val := range v {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(val))
		}
		if _, err := file.Write(buf); err != nil {
			return err
		}
	}
	return file.Sync()
}

func writeMetadataFile(path string, buildID [16]byte, chunks []docModel.Chunk) error {
	data, err := json.Marshal(metadataFile{
		BuildID: fmt.Sprintf("%x", buildID),
		Chunks:  chunks,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0640)
}

// ReadIndexFile loads a persisted flat index and its build id.
func ReadIndexFile(path string) (*Flat, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	var magic [4]byte
	if _, err := io.ReadFull(file, magic[:]); err != nil {
		return nil, "", fmt.Errorf("corrupt index file %s: %w", path, err)
	}
	if magic != indexMagic {
		return nil, "", fmt.Errorf("not an index file: %s", path)
	}

	header := make([]byte, 4)
	if _, err := io.ReadFull(file, header); err != nil {
		return nil, "", err
	}
	if v := binary.LittleEndian.Uint32(header); v != indexFormatVersion {
		return nil, "", fmt.Errorf("unsupported index format version %d in %s", v, path)
	}

	var buildID [16]byte
	if _, err := io.ReadFull(file, buildID[:]); err != nil {
		return nil, "", err
	}

	if _, err := io.ReadFull(file, header); err != nil {
		return nil, "", err
	}
	dim := int(binary.LittleEndian.Uint32(header))
	if _, err := io.ReadFull(file, header); err != nil {
		return nil, "", err
	}
	count := int(binary.LittleEndian.Uint32(header))

	f, err := NewFlat(dim)
	if err != nil {
		return nil, "", err
	}
	buf := make([]byte, 4*dim)
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(file, buf); err != nil {
			return nil, "", fmt.Errorf("corrupt index file %s: %w", path, err)
		}
		v := make([]float32, dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
		}
		f.vectors = append(f.vectors, v)
	}
	return f, fmt.Sprintf("%x", buildID), nil
}

// ReadMetadataFile loads the chunk sequence and its build id.
func ReadMetadataFile(path string) ([]docModel.Chunk, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var meta metadataFile
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, "", fmt.Errorf("corrupt metadata file %s: %w", path, err)
	}
	return meta.Chunks, meta.BuildID, nil
}

// existingDimension reports the dimension of an already-published index file,
// or 0 when none exists.
func existingDimension(path string) (int, error) {
	f, _, err := ReadIndexFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	return f.dim, nil
}
