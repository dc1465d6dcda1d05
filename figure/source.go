package figure

// Handler receives one encoded figure from a producer.
type Handler func(data []byte, mimeType string)

// FigureSource is anything that emits figures, such as a kernel, a watched
// directory or a list of URLs.
type FigureSource interface {
	OnFigure(h Handler)
}

// PathProvider chooses where a figure is saved. An empty path with a nil
// error means the save was cancelled.
type PathProvider interface {
	SavePath(suggested string, mimeType MimeType) (string, error)
}

// FixedPath is a PathProvider that always answers with the same path.
type FixedPath string

func (p FixedPath) SavePath(string, MimeType) (string, error) {
	return string(p), nil
}

// PathProviderFunc adapts a function to PathProvider.
type PathProviderFunc func(suggested string, mimeType MimeType) (string, error)

func (f PathProviderFunc) SavePath(suggested string, mimeType MimeType) (string, error) {
	return f(suggested, mimeType)
}
