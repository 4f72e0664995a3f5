package store

import (
	"context"
	"sort"
	"time"

	"github.com/ank-dev/askmydoc/pkg/logger_i"
	"go.etcd.io/bbolt"
)

var bucketFiles = []byte("files")

// FileMapStore is the durable file_id -> original filename map, backed by
// bbolt. It is the one piece of state that must survive restarts alongside
// the index pairs, so it does not go through redis.
type FileMapStore struct {
	db     *bbolt.DB
	logger *logger_i.Logger
}

type FileEntry struct {
	FileID   string
	FileName string
}

func OpenFileMapStore(path string) (*FileMapStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &FileMapStore{db: db, logger: logger_i.NewLogger("FileMapStore")}, nil
}

func (s *FileMapStore) SaveFile(ctx context.Context, fileID string, fileName string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).Put([]byte(fileID), []byte(fileName))
	})
	if err != nil {
		s.logger.Error("Error saving file mapping", "fileId", fileID, "error", err)
	}
	return err
}

// GetFile returns the original filename for a file id, or found=false.
func (s *FileMapStore) GetFile(ctx context.Context, fileID string) (string, bool) {
	var name []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketFiles).Get([]byte(fileID))
		if v != nil {
			name = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || name == nil {
		return "", false
	}
	return string(name), true
}

func (s *FileMapStore) ListFiles(ctx context.Context) ([]FileEntry, error) {
	var entries []FileEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).ForEach(func(k, v []byte) error {
			entries = append(entries, FileEntry{FileID: string(k), FileName: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].FileID < entries[j].FileID })
	return entries, nil
}

func (s *FileMapStore) Close() error {
	return s.db.Close()
}
