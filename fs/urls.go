// Package fs implements local file storage for URL lists, exported datasets
// and key files.
package fs

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/jobsift"
)

// ReadURLs reads one URL per line from path. Blank lines and lines starting
// with '#' are ignored; surrounding whitespace is trimmed.
// Returns ENOTFOUND if the file does not exist.
func ReadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, jobsift.Errorf(jobsift.ENOTFOUND, "URL file %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseURLs(f)
}

// ParseURLs reads one URL per line from r, skipping blank and comment lines.
func ParseURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
