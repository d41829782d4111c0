package filekit

import (
	"context"
	"io/fs"
)

// The package-level functions run on Default with a background context.

func Save(path string, data []byte, opts ...SaveOption) error {
	return Default.Save(context.Background(), path, data, opts...)
}

func SaveText(path, text string, opts ...SaveOption) error {
	return Default.SaveText(context.Background(), path, text, opts...)
}

func Read(path string) ([]byte, error) {
	return Default.Read(context.Background(), path)
}

func ReadText(path string) (string, error) {
	return Default.ReadText(context.Background(), path)
}

func Mkdir(path string) error {
	return Default.Mkdir(context.Background(), path)
}

func MkdirMode(path string, mode fs.FileMode) error {
	return Default.MkdirMode(context.Background(), path, mode)
}

func Remove(path string) error {
	return Default.Remove(context.Background(), path)
}

func Copy(source, dest string, opts ...CopyOption) (Report, error) {
	return Default.Copy(context.Background(), source, dest, opts...)
}

func Readdir(path string, opts ...ListOption) ([]Entry, error) {
	return Default.Readdir(context.Background(), path, opts...)
}

func Search(dir, match string, opts ...ListOption) ([]Entry, error) {
	return Default.Search(context.Background(), dir, match, opts...)
}

func IsDirectory(path string) bool {
	return Default.IsDirectory(context.Background(), path)
}

func IsFile(path string) bool {
	return Default.IsFile(context.Background(), path)
}

func IsSymbolicLink(path string) bool {
	return Default.IsSymbolicLink(context.Background(), path)
}

func ParseGitignore(path string) ([]string, error) {
	return Default.ParseGitignore(context.Background(), path)
}

func CompileGitignore(path string) ([]Matcher, error) {
	return Default.CompileGitignore(context.Background(), path)
}
