package store

import (
	json "github.com/goccy/go-json"
	"os"
	"streamwatch/internal/providers"
	"streamwatch/internal/store/interfaces"
)

const snapshotVersion = 1

// Snapshot is the on-disk envelope of the file backend.
type Snapshot struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string, snapshot *Snapshot) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile returns nil without error when the file does not exist yet.
func (f *FileManager) LoadFromFile(fileName string) (*Snapshot, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(decompressedData, &snapshot); err != nil {
		return nil, err
	}
	if snapshot.Version != snapshotVersion {
		f.logger.Warnf(providers.TypeApp, "Snapshot version %d differs from %d, loading anyway", snapshot.Version, snapshotVersion)
	}
	if snapshot.Entries == nil {
		snapshot.Entries = make(map[string]string)
	}
	return &snapshot, nil
}
