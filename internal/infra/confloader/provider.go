package confloader

import "errors"

var (
	errReadBytes = errors.New("confloader: provider only supports Read")
	errRead      = errors.New("confloader: provider only supports ReadBytes")
)

// mapProvider serves an already-structured map.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) { return nil, errReadBytes }
func (m mapProvider) Read() (map[string]any, error) { return m, nil }

// bytesProvider serves raw bytes for a koanf parser.
type bytesProvider []byte

func (b bytesProvider) ReadBytes() ([]byte, error) { return b, nil }
func (b bytesProvider) Read() (map[string]any, error) { return nil, errRead }
