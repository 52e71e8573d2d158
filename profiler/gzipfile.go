package profiler

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// The dynamic trace artifacts are gzip files carrying one value per line,
// one line per dynamic node.

func readGzipLines(path string, numNodes int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read trace artifact: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("cannot decompress %s: %w", path, err)
	}
	defer gz.Close()

	var lines []string
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(lines) != numNodes {
		return nil, fmt.Errorf("%s carries %d values for %d graph nodes",
			path, len(lines), numNodes)
	}

	return lines, nil
}

func readGzipInts(path string, numNodes int) ([]int, error) {
	lines, err := readGzipLines(path, numNodes)
	if err != nil {
		return nil, err
	}

	values := make([]int, len(lines))
	for i, line := range lines {
		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("malformed value %q in %s: %w", line, path, err)
		}
		values[i] = v
	}
	return values, nil
}

func readGzipUints(path string, numNodes int) ([]uint64, error) {
	lines, err := readGzipLines(path, numNodes)
	if err != nil {
		return nil, err
	}

	values := make([]uint64, len(lines))
	for i, line := range lines {
		v, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed value %q in %s: %w", line, path, err)
		}
		values[i] = v
	}
	return values, nil
}

func writeGzipLines(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot write trace artifact: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	for _, line := range lines {
		if _, err := gz.Write([]byte(line + "\n")); err != nil {
			return err
		}
	}
	return gz.Close()
}

func writeGzipInts(path string, values []int) error {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = strconv.Itoa(v)
	}
	return writeGzipLines(path, lines)
}

func writeGzipUints(path string, values []uint64) error {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = strconv.FormatUint(v, 10)
	}
	return writeGzipLines(path, lines)
}
