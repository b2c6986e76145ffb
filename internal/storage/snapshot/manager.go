package snapshot

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/pkg/crypto/adaptive"
)

var magicBytes = []byte("WSNAP001")

const (
	filePrefix    = "snapshot-"
	fileExtension = ".wsnap"
	checksumSize  = 32
	headerVersion = 1

	// maxHeaderSize bounds header allocation when reading untrusted files.
	maxHeaderSize = 1 << 20

	DefaultRetentionCount = 5
	DefaultRetentionDays  = 7
)

var (
	ErrInvalidMagic     = errors.New("snapshot: invalid magic bytes")
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	ErrNotFound         = errors.New("snapshot: not found")
	ErrNoSnapshots      = errors.New("snapshot: no snapshots available")
)

type fileHeader struct {
	Version     int    `json:"version"`
	CreatedAt   int64  `json:"created_at"`
	RunID       string `json:"run_id"`
	Fingerprint string `json:"fingerprint"`

	LoadedPlanets int `json:"loaded_planets"`
	Arrivals      int `json:"arrivals"`
	Artifacts     int `json:"artifacts"`
	Players       int `json:"players"`
	Anomalies     int `json:"anomalies"`

	Compression string              `json:"compression"`
	Encrypted   bool                `json:"encrypted"`
	Cipher      adaptive.CipherType `json:"cipher,omitempty"`
	Salt        []byte              `json:"salt,omitempty"`
	KDF         *KDFParams          `json:"kdf,omitempty"`
}

// Config configures the snapshot manager.
type Config struct {
	Dir string

	RetentionCount int
	RetentionDays  int

	Encryption EncryptionConfig
}

// DefaultConfig returns a configuration with the default retention.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		RetentionCount: DefaultRetentionCount,
		RetentionDays:  DefaultRetentionDays,
	}
}

// Manager writes, reads and prunes snapshot files in one directory.
type Manager struct {
	cfg    Config
	logger *slog.Logger
}

// NewManager creates the directory if needed.
func NewManager(cfg Config, logger *slog.Logger) (*Manager, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapshot: dir is required")
	}
	if err := ValidateConfig(cfg.Encryption); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	if cfg.RetentionCount == 0 {
		cfg.RetentionCount = DefaultRetentionCount
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	if cfg.Encryption.KDF == (KDFParams{}) {
		cfg.Encryption.KDF = DefaultKDFParams()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, logger: logger}, nil
}

// Info contains metadata about a snapshot file.
type Info struct {
	ID          string `json:"id" yaml:"id"`
	RunID       string `json:"run_id" yaml:"run_id"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	CreatedAt   int64  `json:"created_at" yaml:"created_at"`

	LoadedPlanets int `json:"loaded_planets" yaml:"loaded_planets"`
	Arrivals      int `json:"arrivals" yaml:"arrivals"`
	Artifacts     int `json:"artifacts" yaml:"artifacts"`
	Players       int `json:"players" yaml:"players"`
	Anomalies     int `json:"anomalies" yaml:"anomalies"`

	Encrypted bool   `json:"encrypted" yaml:"encrypted"`
	Size      int64  `json:"size" yaml:"size"`
	Path      string `json:"path" yaml:"path"`
	Checksum  string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// Create writes snap to a new file.
func (m *Manager) Create(snap *domain.Snapshot) (*Info, error) {
	now := time.Now()
	id := m.generateID(now)

	hdr := fileHeader{
		Version:       headerVersion,
		CreatedAt:     now.UnixMilli(),
		RunID:         snap.RunID,
		Fingerprint:   snap.Fingerprint(),
		LoadedPlanets: len(snap.LoadedPlanets),
		Arrivals:      len(snap.Arrivals),
		Artifacts:     snap.Stats.Artifacts,
		Players:       len(snap.Players),
		Anomalies:     len(snap.Anomalies),
		Compression:   "zstd",
	}

	var c adaptive.Cipher
	if m.cfg.Encryption.Enabled() {
		salt, err := NewSalt()
		if err != nil {
			return nil, err
		}
		kdf := m.cfg.Encryption.KDF
		c, err = NewCipher(m.cfg.Encryption, salt, kdf)
		if err != nil {
			return nil, err
		}
		hdr.Encrypted = true
		hdr.Cipher = c.Type()
		hdr.Salt = salt
		hdr.KDF = &kdf
	}

	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal header: %w", err)
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal body: %w", err)
	}
	body, err = compress(body)
	if err != nil {
		return nil, err
	}
	if c != nil {
		if body, err = c.Encrypt(body, hdrJSON); err != nil {
			return nil, fmt.Errorf("snapshot: encrypt: %w", err)
		}
	}

	tempPath := filepath.Join(m.cfg.Dir, id+".tmp")
	sum, err := writeFile(tempPath, hdrJSON, body)
	defer os.Remove(tempPath)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(tempPath)
	if err != nil {
		return nil, err
	}
	finalPath := filepath.Join(m.cfg.Dir, id+fileExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return nil, fmt.Errorf("snapshot: rename: %w", err)
	}

	info := infoFromHeader(id, finalPath, stat.Size(), hdr)
	info.Checksum = hex.EncodeToString(sum)
	m.logger.Info("snapshot written",
		"id", id,
		"run_id", hdr.RunID,
		"fingerprint", hdr.Fingerprint,
		"size", info.Size,
		"encrypted", hdr.Encrypted)
	return info, nil
}

func writeFile(path string, hdrJSON, body []byte) ([]byte, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: create temp file: %w", err)
	}

	hash := sha256.New()
	w := bufio.NewWriter(io.MultiWriter(file, hash))

	var lenBuf [4]byte
	_, _ = w.Write(magicBytes)
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(hdrJSON)))
	_, _ = w.Write(lenBuf[:])
	_, _ = w.Write(hdrJSON)
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	_, _ = w.Write(lenBuf[:])
	_, _ = w.Write(body)
	if err := w.Flush(); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write: %w", err)
	}

	// Checksum trailer is not part of the hash.
	sum := hash.Sum(nil)
	if _, err := file.Write(sum); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write checksum: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: close: %w", err)
	}
	return sum, nil
}

// Load reads the snapshot with the given id.
func (m *Manager) Load(id string) (*domain.Snapshot, *Info, error) {
	id = strings.TrimSuffix(id, fileExtension)
	if !strings.HasPrefix(id, filePrefix) || strings.ContainsAny(id, `/\`) {
		return nil, nil, ErrNotFound
	}
	path := filepath.Join(m.cfg.Dir, id+fileExtension)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, ErrNotFound
	}
	return m.loadFile(path)
}

// Latest reads the newest valid snapshot, skipping corrupted files.
func (m *Manager) Latest() (*domain.Snapshot, *Info, error) {
	paths, err := m.paths()
	if err != nil {
		return nil, nil, err
	}

	for i := len(paths) - 1; i >= 0; i-- {
		snap, info, err := m.loadFile(paths[i])
		if err == nil {
			return snap, info, nil
		}
		if errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrInvalidMagic) {
			m.logger.Warn("skipping corrupted snapshot", "path", paths[i], "error", err)
			continue
		}
		return nil, nil, err
	}
	return nil, nil, ErrNoSnapshots
}

func (m *Manager) loadFile(path string) (*domain.Snapshot, *Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if stat.Size() < int64(len(magicBytes))+8+checksumSize {
		return nil, nil, ErrChecksumMismatch
	}

	dataLen := stat.Size() - checksumSize
	expected := make([]byte, checksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, dataLen, checksumSize), expected); err != nil {
		return nil, nil, err
	}
	h := sha256.New()
	if _, err := io.CopyN(h, io.NewSectionReader(f, 0, dataLen), dataLen); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return nil, nil, ErrChecksumMismatch
	}

	br := bufio.NewReader(io.NewSectionReader(f, 0, dataLen))
	hdr, hdrJSON, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}
	body, err := readBlock(br, dataLen)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: read body: %w", err)
	}

	switch {
	case hdr.Encrypted && !m.cfg.Encryption.Enabled():
		return nil, nil, ErrPassphraseRequired
	case !hdr.Encrypted && m.cfg.Encryption.Enabled():
		return nil, nil, ErrUnexpectedPlaintext
	case hdr.Encrypted:
		if hdr.KDF == nil || len(hdr.Salt) != SaltLength {
			return nil, nil, fmt.Errorf("snapshot: encrypted header missing key parameters")
		}
		enc := m.cfg.Encryption
		enc.Algorithm = hdr.Cipher
		c, err := NewCipher(enc, hdr.Salt, *hdr.KDF)
		if err != nil {
			return nil, nil, err
		}
		if body, err = c.Decrypt(body, hdrJSON); err != nil {
			return nil, nil, ErrDecryptionFailed
		}
	}

	if body, err = decompress(body); err != nil {
		return nil, nil, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, nil, fmt.Errorf("snapshot: unmarshal body: %w", err)
	}

	id := strings.TrimSuffix(filepath.Base(path), fileExtension)
	info := infoFromHeader(id, path, stat.Size(), hdr)
	info.Checksum = hex.EncodeToString(expected)
	return &snap, info, nil
}

// List returns metadata of every snapshot file, oldest first. Files whose
// header cannot be read are listed with only their id, path and size.
func (m *Manager) List() ([]*Info, error) {
	paths, err := m.paths()
	if err != nil {
		return nil, err
	}

	infos := make([]*Info, 0, len(paths))
	for _, p := range paths {
		stat, err := os.Stat(p)
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(filepath.Base(p), fileExtension)
		hdr, err := m.peekHeader(p)
		if err != nil {
			infos = append(infos, &Info{ID: id, Path: p, Size: stat.Size()})
			continue
		}
		infos = append(infos, infoFromHeader(id, p, stat.Size(), hdr))
	}
	return infos, nil
}

// Prune applies the retention policy and returns how many files it removed.
// The newest snapshot is always kept.
func (m *Manager) Prune() (int, error) {
	paths, err := m.paths()
	if err != nil {
		return 0, err
	}
	if len(paths) <= 1 {
		return 0, nil
	}

	keep := make(map[string]struct{}, len(paths))

	if m.cfg.RetentionCount > 0 {
		start := len(paths) - m.cfg.RetentionCount
		if start < 0 {
			start = 0
		}
		for _, p := range paths[start:] {
			keep[p] = struct{}{}
		}
	}

	if m.cfg.RetentionDays > 0 {
		cutoff := time.Now().Add(-time.Duration(m.cfg.RetentionDays) * 24 * time.Hour)
		for _, p := range paths {
			st, err := os.Stat(p)
			if err != nil {
				continue
			}
			if st.ModTime().After(cutoff) {
				keep[p] = struct{}{}
			}
		}
	}

	keep[paths[len(paths)-1]] = struct{}{}

	removed := 0
	for _, p := range paths {
		if _, ok := keep[p]; ok {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("failed to remove snapshot", "path", p, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		m.logger.Info("snapshots pruned", "removed", removed, "kept", len(paths)-removed)
	}
	return removed, nil
}

func (m *Manager) paths() ([]string, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExtension) {
			paths = append(paths, filepath.Join(m.cfg.Dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *Manager) peekHeader(path string) (fileHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileHeader{}, err
	}
	defer f.Close()
	hdr, _, err := readHeader(bufio.NewReader(f))
	return hdr, err
}

func (m *Manager) generateID(t time.Time) string {
	ts := t.Format("20060102150405")
	seq := 1

	entries, _ := os.ReadDir(m.cfg.Dir)
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, filePrefix+ts+"-") && strings.HasSuffix(name, fileExtension) {
			seq++
		}
	}
	return fmt.Sprintf("%s%s-%04d", filePrefix, ts, seq)
}

func readHeader(r io.Reader) (fileHeader, []byte, error) {
	var hdr fileHeader

	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return hdr, nil, err
	}
	if !bytes.Equal(magic, magicBytes) {
		return hdr, nil, ErrInvalidMagic
	}

	hdrJSON, err := readBlock(r, maxHeaderSize)
	if err != nil {
		return hdr, nil, fmt.Errorf("snapshot: read header: %w", err)
	}
	if len(hdrJSON) == 0 {
		return hdr, nil, fmt.Errorf("snapshot: empty header")
	}
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return hdr, nil, fmt.Errorf("snapshot: unmarshal header: %w", err)
	}
	if hdr.Version != headerVersion {
		return hdr, nil, fmt.Errorf("snapshot: unsupported version %d", hdr.Version)
	}
	return hdr, hdrJSON, nil
}

func readBlock(r io.Reader, limit int64) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if int64(n) > limit {
		return nil, fmt.Errorf("block length %d exceeds %d", n, limit)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func infoFromHeader(id, path string, size int64, hdr fileHeader) *Info {
	return &Info{
		ID:            id,
		RunID:         hdr.RunID,
		Fingerprint:   hdr.Fingerprint,
		CreatedAt:     hdr.CreatedAt,
		LoadedPlanets: hdr.LoadedPlanets,
		Arrivals:      hdr.Arrivals,
		Artifacts:     hdr.Artifacts,
		Players:       hdr.Players,
		Anomalies:     hdr.Anomalies,
		Encrypted:     hdr.Encrypted,
		Size:          size,
		Path:          path,
	}
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: zstd: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/4)), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: zstd: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress body: %w", err)
	}
	return out, nil
}
