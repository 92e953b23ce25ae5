package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"reunion/internal/sanitize"
)

var (
	ErrNoFile           = errors.New("profile picture is required")
	ErrInvalidType      = errors.New("invalid file type")
	ErrDangerousContent = errors.New("dangerous file content")
	ErrTooLarge         = errors.New("file exceeds maximum size")
)

type Config struct {
	Dir      string
	MaxBytes int64
}

// Guard validates and stores uploaded profile pictures. The declared
// MIME type from the client is ignored: only the sniffed binary
// signature decides whether a file is accepted.
type Guard struct {
	cfg Config
	log *zerolog.Logger
}

func NewGuard(cfg Config, log *zerolog.Logger) (*Guard, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("upload dir cannot be empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Guard{cfg: cfg, log: log}, nil
}

// Store verifies the buffer and writes it under a random filename,
// returning the bare filename (never a path). Rejections happen before
// anything touches disk.
func (g *Guard) Store(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoFile
	}
	if g.cfg.MaxBytes > 0 && int64(len(data)) > g.cfg.MaxBytes {
		return "", ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	var ext string
	switch {
	case mtype.Is("image/png"):
		ext = ".png"
	case mtype.Is("image/jpeg"):
		ext = ".jpg"
	default:
		return "", ErrInvalidType
	}

	// Polyglot defense: a valid image signature can still wrap a
	// script payload, so the raw bytes get the same denylist scan as
	// form fields.
	if sanitize.Dangerous(string(data)) {
		return "", ErrDangerousContent
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(g.cfg.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	g.log.Debug().Str("file", name).Str("mime", mtype.String()).Msg("profile picture stored")
	return name, nil
}

// Remove deletes a stored image by filename. Cleanup is best-effort:
// a failed unlink is logged, never fatal.
func (g *Guard) Remove(name string) {
	if name == "" {
		return
	}
	if err := os.Remove(filepath.Join(g.cfg.Dir, name)); err != nil && !os.IsNotExist(err) {
		g.log.Warn().Err(err).Str("file", name).Msg("failed to remove stored image")
	}
}

// Dir exposes the storage directory for static serving.
func (g *Guard) Dir() string { return g.cfg.Dir }
