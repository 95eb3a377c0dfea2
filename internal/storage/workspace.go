package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"listingforge/internal/domain"
)

// Manager allocates per-job workspaces under a configured base directory.
// It is the only component with a side-effecting lifecycle: directories are
// created lazily, contents are appended, nothing is ever deleted here.
type Manager struct {
	baseDir string
}

// Workspace is the durable unit of identity for a job: a unique ID and a
// directory tree owning the job's ingested images and generated outputs.
type Workspace struct {
	ID   string
	Root string
}

// NewManager initializes a Manager rooted at baseDir, creating it if needed.
func NewManager(baseDir string) (*Manager, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("storage: base directory is required: %w", domain.ErrStorage)
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base directory: %w: %w", domain.ErrStorage, err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the configured root under which workspaces are created.
func (m *Manager) BaseDir() string {
	if m == nil {
		return ""
	}
	return m.baseDir
}

// Create allocates a fresh workspace. IDs combine a second-resolution
// timestamp with a random suffix so that concurrent job creations do not
// collide without cross-job coordination.
func (m *Manager) Create(ctx context.Context) (*Workspace, error) {
	if m == nil {
		return nil, fmt.Errorf("storage: no manager configured: %w", domain.ErrStorage)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("job-%s-%s", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	root := filepath.Join(m.baseDir, id)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create workspace root: %w: %w", domain.ErrStorage, err)
	}
	return &Workspace{ID: id, Root: root}, nil
}

// ImagesDir lazily creates and returns the workspace images area. Creating
// an already-existing directory is not an error, so repeated calls are safe.
func (ws *Workspace) ImagesDir() (string, error) {
	return ws.ensureDir("images")
}

// OutputsDir lazily creates and returns the workspace outputs area.
func (ws *Workspace) OutputsDir() (string, error) {
	return ws.ensureDir("outputs")
}

func (ws *Workspace) ensureDir(name string) (string, error) {
	if ws == nil || ws.Root == "" {
		return "", fmt.Errorf("storage: workspace not initialized: %w", domain.ErrStorage)
	}
	dir := filepath.Join(ws.Root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure %s area: %w: %w", name, domain.ErrStorage, err)
	}
	return dir, nil
}

// SaveDocument serializes v as pretty-printed JSON into the outputs area
// under the given name, overwriting any previous document of that name, and
// returns the written path.
func (ws *Workspace) SaveDocument(name string, v any) (string, error) {
	outDir, err := ws.OutputsDir()
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("storage: encode document %s: %w: %w", name, domain.ErrStorage, err)
	}
	path := filepath.Join(outDir, name)
	if err := WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("storage: write document %s: %w: %w", name, domain.ErrStorage, err)
	}
	return path, nil
}

// IngestImages copies the given source files into the workspace images area
// under their base filenames and returns the destinations in source order.
// Sources already inside the images area are left in place. Two sources
// sharing a basename land on the same destination and the later copy wins;
// that overwrite is deliberate policy, kept coarse on purpose.
func (ws *Workspace) IngestImages(sources []string) ([]string, error) {
	imagesDir, err := ws.ImagesDir()
	if err != nil {
		return nil, err
	}
	dests := make([]string, 0, len(sources))
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("storage: source image %s: %w", src, domain.ErrNotFound)
		}
		dest := filepath.Join(imagesDir, filepath.Base(src))
		if sameFile(src, dest) {
			dests = append(dests, dest)
			continue
		}
		if err := copyFile(src, dest); err != nil {
			return nil, fmt.Errorf("storage: ingest %s: %w: %w", src, domain.ErrStorage, err)
		}
		dests = append(dests, dest)
	}
	return dests, nil
}

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place, so external readers of the outputs area never observe a partial
// artifact.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return false
	}
	return absA == absB
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	return WriteFileAtomic(dest, data)
}
