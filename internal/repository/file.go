package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

const (
	profileExt = ".vec"
	tempExt    = ".tmp"
)

// FileRepository stores one file per profile in a directory. Every write goes to
// a temporary file first and is then linked or renamed into place, so readers
// observe either the previous record or the new one, never a partial write.
type FileRepository struct {
	dir string
}

// NewFileRepository creates dir if needed.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &FileRepository{dir: dir}, nil
}

func (r *FileRepository) Dir() string {
	return r.dir
}

func (r *FileRepository) path(name string) (string, error) {
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		return "", domain.ErrInvalidName
	}
	return filepath.Join(r.dir, name+profileExt), nil
}

// writeTemp writes the encoded embedding to a unique temporary file next to the
// final path and returns its name.
func (r *FileRepository) writeTemp(name string, embedding domain.Embedding) (string, error) {
	f, err := os.CreateTemp(r.dir, "."+name+"-*"+tempExt)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tempPath := f.Name()

	if _, err := f.Write(encodeEmbedding(embedding)); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tempPath, nil
}

func (r *FileRepository) Create(_ context.Context, profile *domain.Profile) error {
	target, err := r.path(profile.Name)
	if err != nil {
		return err
	}

	tempPath, err := r.writeTemp(profile.Name, profile.Embedding)
	if err != nil {
		return fmt.Errorf("create profile %q: %w", profile.Name, err)
	}
	defer func() { _ = os.Remove(tempPath) }()

	// link fails when target exists, which makes create-if-absent atomic
	if err := os.Link(tempPath, target); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.ErrProfileExists
		}
		return fmt.Errorf("create profile %q: %w", profile.Name, err)
	}

	return r.stamp(target, profile)
}

func (r *FileRepository) Update(_ context.Context, profile *domain.Profile) error {
	target, err := r.path(profile.Name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrProfileNotFound
		}
		return fmt.Errorf("update profile %q: %w", profile.Name, err)
	}

	return r.replace(target, profile)
}

func (r *FileRepository) Put(_ context.Context, profile *domain.Profile) error {
	target, err := r.path(profile.Name)
	if err != nil {
		return err
	}
	return r.replace(target, profile)
}

func (r *FileRepository) replace(target string, profile *domain.Profile) error {
	tempPath, err := r.writeTemp(profile.Name, profile.Embedding)
	if err != nil {
		return fmt.Errorf("write profile %q: %w", profile.Name, err)
	}

	if err := os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("write profile %q: %w", profile.Name, err)
	}

	return r.stamp(target, profile)
}

// stamp fills timestamps from the file; the format carries no metadata, so
// CreatedAt is the last write as well.
func (r *FileRepository) stamp(target string, profile *domain.Profile) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat profile %q: %w", profile.Name, err)
	}
	profile.CreatedAt = info.ModTime().UTC()
	profile.UpdatedAt = profile.CreatedAt
	return nil
}

func (r *FileRepository) Get(_ context.Context, name string) (*domain.Profile, error) {
	target, err := r.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("read profile %q: %w", name, err)
	}

	embedding, err := decodeEmbedding(data)
	if err != nil {
		return nil, corrupt(name, err)
	}

	profile := &domain.Profile{Name: name, Embedding: embedding}
	if err := r.stamp(target, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *FileRepository) Delete(_ context.Context, name string) (bool, error) {
	target, err := r.path(name)
	if err != nil {
		return false, err
	}

	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete profile %q: %w", name, err)
	}
	return true, nil
}

func (r *FileRepository) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := profileName(entry); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *FileRepository) All(ctx context.Context) (map[string]domain.Embedding, error) {
	names, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	all := make(map[string]domain.Embedding, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(r.dir, name+profileExt))
		if err != nil {
			// deleted between listing and reading
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read profile %q: %w", name, err)
		}

		embedding, err := decodeEmbedding(data)
		if err != nil {
			return nil, corrupt(name, err)
		}
		all[name] = embedding
	}

	return all, nil
}

func (r *FileRepository) Ping(_ context.Context) error {
	info, err := os.Stat(r.dir)
	if err != nil {
		return fmt.Errorf("profile dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("profile dir %s is not a directory", r.dir)
	}
	return nil
}

func profileName(entry fs.DirEntry) (string, bool) {
	if entry.IsDir() {
		return "", false
	}
	fileName := entry.Name()
	if strings.HasPrefix(fileName, ".") || filepath.Ext(fileName) != profileExt {
		return "", false
	}
	return strings.TrimSuffix(fileName, profileExt), true
}

var _ ProfileRepository = (*FileRepository)(nil)
