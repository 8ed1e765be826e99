// Package filer is an interface used by the baklog subpackages.
// You may override this to gain more control of file operations in your app.
package filer

//go:generate mockgen -destination=../mocks/filer.go -package=mocks golift.io/baklog/filer Filer

import (
	"os"
	"time"
)

// Filer is used to override file-managing procedures.
type Filer interface {
	Remove(fileName string) error
	Rename(fileName, newPath string) error
	ReadDir(dirPath string) ([]os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	Stat(fileName string) (*FileInfo, error)
	Chtimes(fileName string, atime, mtime time.Time) error
}

// Default returns a Filer interface that works, using default procedures.
func Default() Filer {
	return &File{}
}

// FileInfo contains normal os.FileInfo + file access and metadata-change times.
// Created by Stat(). Only access and modification times can be written back
// with Chtimes; the change time is captured for completeness.
type FileInfo struct {
	os.FileInfo
	AccessTime time.Time
	ChangeTime time.Time
}

// File can be embedded in a custom type to provide the missing methods for the Filer interface.
type File struct{}

// Remove provides os.Remove.
func (f *File) Remove(fileName string) error {
	return os.Remove(fileName)
}

// Rename provides os.Rename.
func (f *File) Rename(fileName, newPath string) error {
	return os.Rename(fileName, newPath)
}

// ReadDir provides os.ReadDir, flattened to os.FileInfo.
// Entries that disappear between listing and stat are skipped.
func (f *File) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// MkdirAll provides os.MkdirAll.
func (f *File) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// OpenFile provides os.OpenFile.
func (f *File) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

// Stat provides custom file stats that wrap os.Stat output.
func (f *File) Stat(fileName string) (*FileInfo, error) {
	return Stat(fileName)
}

// Chtimes provides os.Chtimes.
func (f *File) Chtimes(fileName string, atime, mtime time.Time) error {
	return os.Chtimes(fileName, atime, mtime)
}
