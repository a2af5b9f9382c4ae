package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// CalculateFileFingerprint calculates a CRC32 fingerprint of the last 2KB of
// a file. Segment files are append-only, so the tail changes whenever new
// events are recorded, which makes it a cheap change detector.
func CalculateFileFingerprint(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	size := stat.Size()
	if size == 0 {
		return "00000000", nil
	}
	readSize := int64(2048)
	if size < readSize {
		readSize = size
	}

	if _, err = file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err = io.ReadFull(file, data); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}
