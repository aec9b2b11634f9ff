// Package filebin stores uploaded files under the f/ namespace.
package filebin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/serroba/eightbin/internal/shortener"
)

// NameLength is the length of generated file names.
const NameLength = 8

// FileUpload is a single upload request.
type FileUpload struct {
	// Name is the original filename, used only for its extension.
	Name string
	// Expiration is stored as a tag and never interpreted.
	Expiration string
	// Alias is an optional caller-chosen name.
	Alias   string
	Content []byte
}

// StoredFile describes a file written to the bucket.
type StoredFile struct {
	Name        string
	ContentType string
	Size        int
	Alias       bool
}

// Key returns the object key of the file.
func (f *StoredFile) Key() string {
	return shortener.NamespaceFiles.Key(f.Name)
}

// Uploader writes files under the f/ namespace.
type Uploader struct {
	store     shortener.ObjectStore
	generator *shortener.Generator
	ifAbsent  bool
}

// NewUploader creates an uploader. With ifAbsent set, writes use conditional create.
func NewUploader(store shortener.ObjectStore, generator *shortener.Generator, ifAbsent bool) *Uploader {
	return &Uploader{
		store:     store,
		generator: generator,
		ifAbsent:  ifAbsent,
	}
}

// Upload stores the file under its alias or a generated name.
func (u *Uploader) Upload(ctx context.Context, req FileUpload) (*StoredFile, error) {
	ext := Extension(req.Name)

	suffix := ""
	if ext != "" {
		suffix = "." + ext
	}

	for range u.generator.MaxAttempts() {
		name, err := u.pickName(ctx, req.Alias, suffix)
		if err != nil {
			return nil, err
		}

		file := &StoredFile{
			Name:        name,
			ContentType: ContentType(ext),
			Size:        len(req.Content),
			Alias:       req.Alias != "",
		}

		err = u.store.Put(ctx, &shortener.Object{
			Key:         file.Key(),
			Body:        req.Content,
			ContentType: file.ContentType,
			Tags:        map[string]string{"expiration": req.Expiration},
			IfAbsent:    u.ifAbsent,
		})

		switch {
		case err == nil:
			return file, nil
		case !errors.Is(err, shortener.ErrKeyTaken):
			return nil, fmt.Errorf("%w: put %q: %w", shortener.ErrStoreWrite, file.Key(), err)
		case file.Alias:
			return nil, fmt.Errorf("%w: %q", shortener.ErrNameConflict, file.Key())
		}
	}

	return nil, fmt.Errorf("%w: conditional create lost every race", shortener.ErrNamespaceExhausted)
}

func (u *Uploader) pickName(ctx context.Context, alias, suffix string) (string, error) {
	if alias == "" {
		return u.generator.Unique(ctx, shortener.NamespaceFiles, NameLength, suffix)
	}

	if err := validateAlias(alias); err != nil {
		return "", err
	}

	name := alias + suffix
	key := shortener.NamespaceFiles.Key(name)

	exists, err := u.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: probe %q: %w", shortener.ErrStoreRead, key, err)
	}

	if exists {
		return "", fmt.Errorf("%w: %q", shortener.ErrNameConflict, key)
	}

	return name, nil
}

func validateAlias(alias string) error {
	if alias == "." || alias == ".." || strings.Contains(alias, "/") {
		return fmt.Errorf("%w: %q", shortener.ErrInvalidAlias, alias)
	}

	return nil
}
