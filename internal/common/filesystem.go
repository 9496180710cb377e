package common

import (
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strconv"
)

// MkdirForFile ensures the parent directory of fileName exists.
// Used before writing any intermediate, output, or cache file.
func MkdirForFile(fileName string) error {
	return os.MkdirAll(filepath.Dir(fileName), os.ModePerm)
}

// OpenTempFile opens a sibling temp file next to fullPath, for atomic cache writes
// (callers write to it, then rename over fullPath).
func OpenTempFile(fullPath string) (f *os.File, err error) {
	fileNameTmp := fullPath + "." + strconv.Itoa(rand.Int())
	return os.OpenFile(fileNameTmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, os.ModePerm)
}

// ReplaceFileExt swaps the last extension of fileName for newExt ("" keeps the dot-less name).
func ReplaceFileExt(fileName string, newExt string) string {
	ext := path.Ext(fileName)
	return fileName[0:len(fileName)-len(ext)] + newExt
}

// RemoveAllQuiet recursively deletes a path, ignoring a missing target.
// Used for buildDir cleans where "already gone" is not an error.
func RemoveAllQuiet(dirOrFile string) error {
	if err := os.RemoveAll(dirOrFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
