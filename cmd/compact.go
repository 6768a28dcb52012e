package cmd

import (
	"fmt"
	"os"
)

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		HandleError(err)
	}
	return fi.Size()
}

// Compact rewrites the vault file without the free pages left by removed
// or re-encrypted entries. No password is needed.
func Compact(env *Env) {
	c := env.Vault()
	defer c.Close()

	before := fileSize(c.Path())
	if err := c.Compact(); err != nil {
		HandleError(err)
	}
	after := fileSize(c.Path())

	fmt.Printf("%s: %s -> %s", c.Path(), formatSize(before), formatSize(after))
	if before > after {
		fmt.Printf(" (%s reclaimed)", formatSize(before-after))
	}
	fmt.Println()
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
