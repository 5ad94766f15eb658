package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dshills/pyreview/internal/pysyntax"
	"github.com/dshills/pyreview/internal/review"
)

// Entry is one cached verdict. An entry answers a lookup only when the
// reviewer fingerprint, the code hash and the parser version all match.
type Entry struct {
	Fingerprint string        `json:"fingerprint"`
	Parser      string        `json:"parser"`
	CodeHash    string        `json:"codeHash"`
	Lines       int           `json:"lines"`
	Result      review.Result `json:"result"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Cache stores review results on disk, one JSON file per snippet and
// reviewer configuration.
type Cache struct {
	dir        string
	ttlSeconds int
	enabled    bool
}

// New creates a new Cache. If dir is empty, uses the default cache directory.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if dir == "" {
		d, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:        dir,
		ttlSeconds: ttlSeconds,
		enabled:    true,
	}, nil
}

// Lookup returns the verdict recorded for code under the given reviewer
// fingerprint. Expired entries and entries written by another parser
// version are removed and reported as misses.
func (c *Cache) Lookup(fingerprint, code string) (review.Result, bool) {
	if !c.enabled {
		return review.Result{}, false
	}
	path := c.entryPath(fingerprint, code)
	entry, err := readEntry(path)
	if err != nil {
		return review.Result{}, false
	}
	if c.stale(entry) {
		os.Remove(path)
		return review.Result{}, false
	}
	if entry.Fingerprint != fingerprint || entry.CodeHash != CodeHash(code) {
		return review.Result{}, false
	}
	return entry.Result, true
}

// Store records the verdict for code.
func (c *Cache) Store(fingerprint, code string, result review.Result) error {
	if !c.enabled {
		return nil
	}
	entry := Entry{
		Fingerprint: fingerprint,
		Parser:      pysyntax.Version,
		CodeHash:    CodeHash(code),
		Lines:       strings.Count(code, "\n") + 1,
		Result:      result,
		CreatedAt:   time.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	return os.WriteFile(c.entryPath(fingerprint, code), data, 0o644)
}

func (c *Cache) expired(entry Entry) bool {
	return c.ttlSeconds > 0 && time.Since(entry.CreatedAt) > time.Duration(c.ttlSeconds)*time.Second
}

// stale reports entries that can no longer answer a lookup.
func (c *Cache) stale(entry Entry) bool {
	return entry.Parser != pysyntax.Version || c.expired(entry)
}

// Clear removes all cache entries and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	var removed int
	err := c.each(func(path string, _ os.FileInfo, _ *Entry) {
		if os.Remove(path) == nil {
			removed++
		}
	})
	return removed, err
}

// Prune removes expired, unreadable and old-parser entries and returns how
// many were removed.
func (c *Cache) Prune() (int, error) {
	var removed int
	err := c.each(func(path string, _ os.FileInfo, entry *Entry) {
		if entry != nil && !c.stale(*entry) {
			return
		}
		if os.Remove(path) == nil {
			removed++
		}
	})
	return removed, err
}

// Stats summarizes the cached verdicts.
type Stats struct {
	Dir              string `json:"dir"`
	Entries          int    `json:"entries"`
	TotalBytes       int64  `json:"totalBytes"`
	Approved         int    `json:"approved"`
	ChangesRequested int    `json:"changesRequested"`
	Expired          int    `json:"expired"`
	OtherParser      int    `json:"otherParser"`
	Unreadable       int    `json:"unreadable"`
}

// GetStats returns information about the cache.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	err := c.each(func(_ string, info os.FileInfo, entry *Entry) {
		stats.Entries++
		stats.TotalBytes += info.Size()
		switch {
		case entry == nil:
			stats.Unreadable++
			return
		case entry.Parser != pysyntax.Version:
			stats.OtherParser++
		case c.expired(*entry):
			stats.Expired++
		}
		if entry.Result.Approved() {
			stats.Approved++
		} else {
			stats.ChangesRequested++
		}
	})
	return stats, err
}

// each calls fn for every entry file in the cache directory. entry is nil
// when the file cannot be decoded.
func (c *Cache) each(fn func(path string, info os.FileInfo, entry *Entry)) error {
	if !c.enabled || c.dir == "" {
		return nil
	}
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".json" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(c.dir, f.Name())
		entry, err := readEntry(path)
		if err != nil {
			fn(path, info, nil)
			continue
		}
		fn(path, info, &entry)
	}
	return nil
}

func readEntry(path string) (Entry, error) {
	var entry Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("decoding cache entry %s: %w", filepath.Base(path), err)
	}
	return entry, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// CodeHash returns the hex SHA-256 of a snippet.
func CodeHash(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// Key names the entry for code reviewed under fingerprint. The parser
// version is part of the key so a grammar upgrade never reads old verdicts.
func Key(fingerprint, code string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", pysyntax.Version, fingerprint)
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) entryPath(fingerprint, code string) string {
	return filepath.Join(c.dir, Key(fingerprint, code)+".json")
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pyreview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "pyreview"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "pyreview", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "pyreview", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "pyreview"), nil
	}
}
