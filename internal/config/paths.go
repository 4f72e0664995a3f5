package config

import (
	"os"
	"path/filepath"
)

// APP_ENV selects the storage root once at startup: "test" writes under
// data_test, everything else under data. The rest of the system never
// branches on the environment - it only asks for directories.

func AppEnv() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		return "prod"
	}
	return env
}

func DataRoot() string {
	if root := os.Getenv("DATA_ROOT"); root != "" {
		return root
	}
	if AppEnv() == "test" {
		return "data_test"
	}
	return "data"
}

func UploadDir() string {
	return filepath.Join(DataRoot(), "uploads")
}

func IndexDir() string {
	return filepath.Join(DataRoot(), "index")
}

// FileMapPath is the bbolt database holding the append-only
// file_id -> original filename map.
func FileMapPath() string {
	return filepath.Join(DataRoot(), "filemap.db")
}

// IndexPaths returns the index/metadata pair for a document. The two files
// are always written and read together.
func IndexPaths(fileID string) (indexPath string, metadataPath string) {
	return filepath.Join(IndexDir(), fileID+".index"),
		filepath.Join(IndexDir(), fileID+".meta")
}

func EnsureDataDirs() error {
	if err := os.MkdirAll(UploadDir(), 0750); err != nil {
		return err
	}
	return os.MkdirAll(IndexDir(), 0750)
}
