package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/josephgoksu/qutimport/models"
	"github.com/spf13/afero"
)

const (
	rootDirKey        = "rootDir"
	historyDirKey     = "historyDir"
	defaultHistoryDir = "history"
	bucketExt         = ".json"
)

// MergeResult reports what Merge did.
type MergeResult struct {
	Merged []string
	Copied []string
	Added  int
}

// SortResult reports what Sort did.
type SortResult struct {
	Sorted []string
}

// HistoryStore is the file-based archive: one JSON file per contact per month
// under <root>/history/<tag>.<account>/<contact>.<YYYYMM>.json.
type HistoryStore struct {
	fs         afero.Fs
	rootDir    string
	historyDir string
	log        *slog.Logger
}

// NewHistoryStore creates a store on fs. Initialize must be called before use.
func NewHistoryStore(fs afero.Fs) *HistoryStore {
	return &HistoryStore{fs: fs, historyDir: defaultHistoryDir, log: slog.Default()}
}

// SetLogger replaces the logger used for per-file debug output.
func (s *HistoryStore) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// Initialize expects a 'rootDir' key naming the destination tree. The
// optional 'historyDir' key overrides the archive subdirectory.
func (s *HistoryStore) Initialize(config map[string]string) error {
	root, ok := config[rootDirKey]
	if !ok || root == "" {
		return fmt.Errorf("history store: %s is required", rootDirKey)
	}
	s.rootDir = root
	if dir := config[historyDirKey]; dir != "" {
		s.historyDir = dir
	}
	return nil
}

// Root returns the archive directory, <root>/history.
func (s *HistoryStore) Root() string {
	return filepath.Join(s.rootDir, s.historyDir)
}

// AccountDir returns the directory holding all buckets of one account.
func (s *HistoryStore) AccountDir(proto models.Protocol, account string) string {
	return filepath.Join(s.Root(), proto.Tag()+"."+Escape(account))
}

// BucketPath returns the file of one contact for one YYYYMM bucket.
func (s *HistoryStore) BucketPath(proto models.Protocol, account, contact, bucket string) string {
	return filepath.Join(s.AccountDir(proto, account), Escape(contact)+"."+bucket+bucketExt)
}

// Write implements HistoryWriter.
func (s *HistoryStore) Write(proto models.Protocol, account, contact string, messages []models.Message) ([]string, error) {
	if len(messages) == 0 {
		return nil, nil
	}
	dir := s.AccountDir(proto, account)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}

	buckets := models.BucketMessages(messages)
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	written := make([]string, 0, len(keys))
	for _, key := range keys {
		path := s.BucketPath(proto, account, contact, key)
		if err := s.save(path, buckets[key]); err != nil {
			return written, err
		}
		s.log.Debug("bucket written", "path", path, "messages", len(buckets[key]))
		written = append(written, path)
	}
	return written, nil
}

// Load reads one bucket file.
func (s *HistoryStore) Load(path string) ([]models.Message, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var msgs []models.Message
	if len(bytes.TrimSpace(data)) == 0 {
		return msgs, nil
	}
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return msgs, nil
}

func (s *HistoryStore) save(path string, msgs []models.Message) error {
	b, err := EncodeMessages(msgs)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return writeFile(s.fs, path, b)
}

// writeFile replaces path through a temporary sibling; a bucket is either the
// old content or the new one.
func writeFile(fs afero.Fs, path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// EncodeMessages renders a bucket: sorted keys, one-space indent, literal
// UTF-8, no trailing newline.
func EncodeMessages(msgs []models.Message) ([]byte, error) {
	if msgs == nil {
		msgs = []models.Message{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(msgs); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Accounts lists the account directory names under the archive root.
// A missing archive root yields no accounts.
func (s *HistoryStore) Accounts() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.Root())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", s.Root(), err)
	}
	var accounts []string
	for _, e := range entries {
		if e.IsDir() {
			accounts = append(accounts, e.Name())
		}
	}
	return accounts, nil
}

// BucketFiles lists the bucket file names of one account directory.
func (s *HistoryStore) BucketFiles(account string) ([]string, error) {
	dir := filepath.Join(s.Root(), account)
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), bucketExt) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// Merge implements HistoryMaintainer.
func (s *HistoryStore) Merge(src *HistoryStore) (MergeResult, error) {
	var res MergeResult
	accounts, err := src.Accounts()
	if err != nil {
		return res, err
	}
	for _, account := range accounts {
		files, err := src.BucketFiles(account)
		if err != nil {
			return res, err
		}
		dstDir := filepath.Join(s.Root(), account)
		if err := s.fs.MkdirAll(dstDir, 0o755); err != nil {
			return res, fmt.Errorf("failed to create history directory %s: %w", dstDir, err)
		}
		for _, name := range files {
			srcPath := filepath.Join(src.Root(), account, name)
			dstPath := filepath.Join(dstDir, name)

			exists, err := afero.Exists(s.fs, dstPath)
			if err != nil {
				return res, fmt.Errorf("stat %s: %w", dstPath, err)
			}
			if !exists {
				s.log.Debug("copy", "src", srcPath, "dst", dstPath)
				data, err := afero.ReadFile(src.fs, srcPath)
				if err != nil {
					return res, fmt.Errorf("read %s: %w", srcPath, err)
				}
				if err := writeFile(s.fs, dstPath, data); err != nil {
					return res, err
				}
				res.Copied = append(res.Copied, relPath(s.Root(), dstPath))
				continue
			}

			s.log.Debug("merge", "src", srcPath, "dst", dstPath)
			merged, err := s.Load(dstPath)
			if err != nil {
				return res, err
			}
			incoming, err := src.Load(srcPath)
			if err != nil {
				return res, err
			}
			for _, m := range incoming {
				if !models.ContainsMessage(merged, m) {
					merged = append(merged, m)
					res.Added++
				}
			}
			models.SortMessages(merged)
			if err := s.save(dstPath, merged); err != nil {
				return res, err
			}
			res.Merged = append(res.Merged, relPath(s.Root(), dstPath))
		}
	}
	return res, nil
}

// Sort implements HistoryMaintainer.
func (s *HistoryStore) Sort() (SortResult, error) {
	var res SortResult
	accounts, err := s.Accounts()
	if err != nil {
		return res, err
	}
	for _, account := range accounts {
		files, err := s.BucketFiles(account)
		if err != nil {
			return res, err
		}
		for _, name := range files {
			path := filepath.Join(s.Root(), account, name)
			s.log.Debug("sorting", "path", path)
			msgs, err := s.Load(path)
			if err != nil {
				return res, err
			}
			models.SortMessages(msgs)
			if err := s.save(path, msgs); err != nil {
				return res, err
			}
			res.Sorted = append(res.Sorted, relPath(s.Root(), path))
		}
	}
	return res, nil
}

func relPath(base, p string) string {
	if r, err := filepath.Rel(base, p); err == nil {
		return r
	}
	return p
}
