package filer

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// Stat returns a *FileInfo struct w/ attached os.FileInfo interface.
// Windows has no separate metadata-change time, so ChangeTime mirrors
// the modification time.
func Stat(fileName string) (*FileInfo, error) {
	fileStat, err := os.Stat(fileName)
	if err != nil {
		return nil, fmt.Errorf("stat err: %w", err)
	}

	fileInfo, _ := fileStat.Sys().(*syscall.Win32FileAttributeData)

	return &FileInfo{
		FileInfo:   fileStat,
		AccessTime: time.Unix(0, fileInfo.LastAccessTime.Nanoseconds()),
		ChangeTime: fileStat.ModTime(),
	}, nil
}
