package world

import (
	"fmt"
	"io"
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
)

// readGzipNBT decompresses path and decodes it into v.
func readGzipNBT(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("gzip reader for %s: %w", path, err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := nbt.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode nbt %s: %w", path, err)
	}
	return nil
}

// writeGzipNBT gzip-encodes v's NBT representation to path, creating or
// truncating the file and writing through a temp-file-then-rename so a
// crash mid-write never leaves a corrupt file in place (spec §9 Open
// Question: "specify create-or-truncate for all persistence writes").
func writeGzipNBT(path string, v any) error {
	data, err := nbt.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode nbt: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := gz.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("close gzip writer for %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	return nil
}
