package model

import (
	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/value"
)

// File references stored content. It has no URL until saved.
type File struct {
	name string
	url  string
}

var _ encoder.File = (*File)(nil)

func NewFile(name string) *File {
	return &File{name: name}
}

// NewSavedFile returns a file that already has a remote location.
func NewSavedFile(name, url string) *File {
	return &File{name: name, url: url}
}

func (f *File) Name() string { return f.name }
func (f *File) URL() string  { return f.url }

// MarkSaved records the remote name and location assigned by the server.
func (f *File) MarkSaved(name, url string) {
	f.name = name
	f.url = url
}

func (f *File) ToJSON() (value.Value, error) {
	return value.ObjectOf(
		"__type", value.String("File"),
		"name", value.String(f.name),
		"url", value.String(f.url),
	), nil
}
