package datapath

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadTrace reads a virtual address trace, one address per line, in decimal
// or 0x-prefixed hex. Files ending in .gz are decompressed on the fly. Blank
// lines and lines starting with # are skipped.
func LoadTrace(path string) ([]uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open trace: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("cannot decompress trace %s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	var addrs []uint64
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		addr, err := strconv.ParseUint(line, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed trace line %q: %w", line, err)
		}
		addrs = append(addrs, addr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read trace %s: %w", path, err)
	}

	return addrs, nil
}
