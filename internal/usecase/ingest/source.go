package ingest

import (
	"path/filepath"
	"strings"
)

// Source is one named input blob: an uploaded file, a file read from disk
// or pasted text.
type Source struct {
	Name string
	Data []byte
}

// Kind classifies a source by its file extension
type Kind string

const (
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
	KindDOCX  Kind = "docx"
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

var kindsByExt = map[string]Kind{
	".pdf":  KindPDF,
	".docx": KindDOCX,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".tif":  KindImage,
	".tiff": KindImage,
	".bmp":  KindImage,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".m4a":  KindAudio,
	".ogg":  KindAudio,
	".flac": KindAudio,
	".webm": KindAudio,
	".mp4":  KindAudio,
	".aac":  KindAudio,
}

// textExts are the plain-text formats picked up from watched folders
var textExts = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".vtt":      true,
	".srt":      true,
	".log":      true,
}

// Ext returns the lower-case extension including the dot
func (s Source) Ext() string {
	return strings.ToLower(filepath.Ext(s.Name))
}

// Kind reports how the source is read; unknown extensions are treated as text
func (s Source) Kind() Kind {
	return KindOf(s.Name)
}

// KindOf classifies a file name
func KindOf(name string) Kind {
	if k, ok := kindsByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return k
	}
	return KindText
}

// IsAudio reports whether name looks like an audio or video recording
func IsAudio(name string) bool {
	return KindOf(name) == KindAudio
}

// Supported reports whether name has an extension the service knows how to
// read. Unlike KindOf it does not treat unknown extensions as text.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, known := kindsByExt[ext]
	return known || textExts[ext]
}
