package figure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"figBrowser/utils"

	"github.com/sirupsen/logrus"
)

const (
	savedFigureStem = "Figure"
	savedFigurePerm = 0644
)

type Options struct {
	Logger logrus.FieldLogger
	// SaveDir is where SaveCurrentAs suggests saving. Defaults to ".".
	SaveDir    string
	Thumbnails ThumbnailConfig
	// MaxFigureSize rejects larger figures on ingestion when positive.
	MaxFigureSize int64
	Now           func() time.Time
}

// Browser receives figures from producers, keeps them in a History and
// saves the selected one on demand.
type Browser struct {
	history    *History
	thumbnails *Thumbnailer
	log        logrus.FieldLogger
	saveDir    string
	maxSize    int64
	now        func() time.Time
}

func NewBrowser(opts Options) *Browser {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.SaveDir == "" {
		opts.SaveDir = "."
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Browser{
		history:    NewHistory(),
		thumbnails: NewThumbnailer(opts.Thumbnails),
		log:        opts.Logger,
		saveDir:    opts.SaveDir,
		maxSize:    opts.MaxFigureSize,
		now:        opts.Now,
	}
}

func (b *Browser) History() *History {
	return b.history
}

// Attach subscribes the browser to a producer. Figures the browser rejects
// are logged and dropped; the producer never sees the error.
func (b *Browser) Attach(src FigureSource) {
	src.OnFigure(func(data []byte, mimeType string) {
		if _, err := b.HandleNewFigure(data, mimeType); err != nil {
			b.log.WithFields(logrus.Fields{
				"mime_type": mimeType,
				"bytes":     len(data),
			}).Warnf("Dropped figure: %v", err)
		}
	})
}

// HandleNewFigure records a figure and makes it the current one.
func (b *Browser) HandleNewFigure(data []byte, mimeType string) (*Record, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFigure
	}
	mt, ok := ParseMimeType(mimeType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}
	if b.maxSize > 0 && int64(len(data)) > b.maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFigureTooLarge, len(data), b.maxSize)
	}

	r := newRecord(data, mt, b.now())
	b.history.Append(r)

	b.log.WithFields(logrus.Fields{
		"id":        r.ID(),
		"mime_type": mt,
		"bytes":     len(data),
		"index":     b.history.Len() - 1,
	}).Debug("New figure")
	return r, nil
}

func (b *Browser) Current() *Record {
	return b.history.Current()
}

func (b *Browser) Select(i int) (*Record, error) {
	return b.history.Select(i)
}

func (b *Browser) SelectNext() *Record {
	return b.history.Step(1)
}

func (b *Browser) SelectPrevious() *Record {
	return b.history.Step(-1)
}

func (b *Browser) RemoveCurrent() error {
	r, err := b.history.RemoveCurrent()
	if err != nil {
		return err
	}
	b.thumbnails.Forget(r.ID())
	b.log.WithField("id", r.ID()).Debug("Removed figure")
	return nil
}

func (b *Browser) RemoveAll() {
	b.history.Clear()
	b.thumbnails.Purge()
	b.log.Debug("Removed all figures")
}

func (b *Browser) Thumbnail(r *Record) ([]byte, error) {
	return b.thumbnails.Thumbnail(r)
}

// SaveCurrent writes the current figure to path exactly as it was received.
// An existing file at path is replaced only once the full figure is on disk.
func (b *Browser) SaveCurrent(path string) error {
	r := b.history.Current()
	if r == nil {
		return ErrEmptyHistory
	}
	return b.save(r, path)
}

// SaveCurrentAs asks p where to save the current figure. It returns the
// chosen path, or "" when p cancelled.
func (b *Browser) SaveCurrentAs(p PathProvider) (string, error) {
	r := b.history.Current()
	if r == nil {
		return "", ErrEmptyHistory
	}

	suggested := utils.UniqueFilename(b.saveDir, savedFigureStem, r.mimeType.Extension())
	path, err := p.SavePath(suggested, r.mimeType)
	if err != nil {
		return "", err
	}
	if path == "" {
		b.log.Debug("Save cancelled")
		return "", nil
	}
	if err := b.save(r, path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveAll writes every figure into dir, in history order, without
// overwriting existing files. It stops at the first failure and returns the
// paths written so far.
func (b *Browser) SaveAll(dir string) ([]string, error) {
	records := b.history.Records()
	if len(records) == 0 {
		return nil, ErrEmptyHistory
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}

	paths := make([]string, 0, len(records))
	for _, r := range records {
		path, err := utils.WriteFileUnique(dir, savedFigureStem, r.mimeType.Extension(), r.data, savedFigurePerm)
		if err != nil {
			return paths, &WriteError{Path: dir, Err: err}
		}
		b.logSaved(r, path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (b *Browser) save(r *Record, path string) error {
	if err := utils.WriteFileAtomic(path, r.data, savedFigurePerm); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	b.logSaved(r, path)
	return nil
}

func (b *Browser) logSaved(r *Record, path string) {
	b.log.WithFields(logrus.Fields{
		"id":   r.ID(),
		"path": filepath.Clean(path),
	}).Info("Saved figure")
}
